package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 1 {
		return e.Fields[keys[0]]
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// do sends the request and decodes the envelope member named key into dst.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType, key string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env map[string]json.RawMessage
	err = json.NewDecoder(res.Body).Decode(&env)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res.StatusCode, env["error"])
	}

	if dst == nil {
		return nil
	}

	raw, ok := env[key]
	if !ok {
		return fmt.Errorf("%s %s: response has no %q", method, path, key)
	}
	return json.Unmarshal(raw, dst)
}

func decodeAPIError(status int, raw json.RawMessage) *APIError {
	apiErr := &APIError{Status: status}

	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		apiErr.Message = message
		return apiErr
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		apiErr.Fields = fields
		return apiErr
	}

	apiErr.Message = http.StatusText(status)
	return apiErr
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, key string, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json", key, dst)
}

func (c *Client) upload(ctx context.Context, method, path, filename string, r io.Reader, key string, dst any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return c.do(ctx, method, path, &buf, mw.FormDataContentType(), key, dst)
}

func (c *Client) Register(ctx context.Context, form RegisterForm) (*userservice.User, error) {
	var user userservice.User
	err := c.sendJSON(ctx, http.MethodPost, "/v1/users/register", userservice.RegisterRequest{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	}, "user", &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login returns the access token and the profile of the user.
func (c *Client) Login(ctx context.Context, email, password string) (string, *userservice.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/users/login", bytes.NewReader(body))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	defer res.Body.Close()

	var env struct {
		Token *userservice.AuthToken `json:"token"`
		User  *userservice.User      `json:"user"`
		Error json.RawMessage        `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return "", nil, fmt.Errorf("login: decoding response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return "", nil, decodeAPIError(res.StatusCode, env.Error)
	}
	if env.Token == nil || env.User == nil {
		return "", nil, fmt.Errorf("login: incomplete response")
	}

	return env.Token.AccessTokenPlain, env.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/users/logout", nil, "", "", nil)
}

func (c *Client) Me(ctx context.Context) (*userservice.User, error) {
	var user userservice.User
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, "", "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UploadProfileImage(ctx context.Context, filename string, r io.Reader) (*userservice.User, error) {
	var user userservice.User
	if err := c.upload(ctx, http.MethodPut, "/v1/users/me/image", filename, r, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadBlogImage uploads an image for embedding in post content and returns its URL.
func (c *Client) UploadBlogImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var u string
	if err := c.upload(ctx, http.MethodPost, "/v1/images", filename, r, "url", &u); err != nil {
		return "", err
	}
	return u, nil
}

// Blogs lists every post, or the posts whose title contains q when q is not empty.
func (c *Client) Blogs(ctx context.Context, q string) ([]blogservice.Blog, error) {
	path := "/v1/blogs"
	if q != "" {
		path += "?q=" + url.QueryEscape(q)
	}

	var blogs []blogservice.Blog
	if err := c.do(ctx, http.MethodGet, path, nil, "", "blogs", &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) BlogsByAuthor(ctx context.Context, authorID string) ([]blogservice.Blog, error) {
	var blogs []blogservice.Blog
	err := c.do(ctx, http.MethodGet, "/v1/authors/"+url.PathEscape(authorID)+"/blogs", nil, "", "blogs", &blogs)
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) Blog(ctx context.Context, id string) (*blogservice.Blog, error) {
	var blog blogservice.Blog
	if err := c.do(ctx, http.MethodGet, "/v1/blogs/"+url.PathEscape(id), nil, "", "blog", &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) CreateBlog(ctx context.Context, title, content string) (string, error) {
	var id string
	err := c.sendJSON(ctx, http.MethodPost, "/v1/blogs", map[string]string{"title": title, "content": content}, "id", &id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) UpdateBlog(ctx context.Context, id, title, content string) (*blogservice.Blog, error) {
	var blog blogservice.Blog
	err := c.sendJSON(ctx, http.MethodPut, "/v1/blogs/"+url.PathEscape(id), map[string]string{"title": title, "content": content}, "blog", &blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id string) (*blogservice.DeleteResult, error) {
	var result blogservice.DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/v1/blogs/"+url.PathEscape(id), nil, "", "result", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Comments(ctx context.Context, blogID string) ([]commentservice.Comment, error) {
	var comments []commentservice.Comment
	err := c.do(ctx, http.MethodGet, "/v1/blogs/"+url.PathEscape(blogID)+"/comments", nil, "", "comments", &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, blogID, text string) (*commentservice.Comment, error) {
	var comment commentservice.Comment
	err := c.sendJSON(ctx, http.MethodPost, "/v1/blogs/"+url.PathEscape(blogID)+"/comments", map[string]string{"text": text}, "comment", &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
