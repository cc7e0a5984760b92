package client

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
)

const (
	testToken    = "tok-123"
	testPassword = "secret"
	takenEmail   = "taken@example.com"
	testUserID   = "u-1"
)

// fakeAPI is an in-memory stand-in for the HTTP API.
type fakeAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	blogs    []blogservice.Blog
	comments map[string][]commentservice.Comment
	meImage  string
	nextID   int
	lastFile string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{
		calls:    make(map[string]int),
		comments: make(map[string][]commentservice.Comment),
	}

	r := httprouter.New()
	r.HandlerFunc(http.MethodPost, "/v1/users/register", f.count("register", f.register))
	r.HandlerFunc(http.MethodPost, "/v1/users/login", f.count("login", f.login))
	r.HandlerFunc(http.MethodPost, "/v1/users/logout", f.count("logout", f.auth(f.logout)))
	r.HandlerFunc(http.MethodGet, "/v1/users/me", f.count("me", f.auth(f.me)))
	r.HandlerFunc(http.MethodPut, "/v1/users/me/image", f.count("profile-image", f.auth(f.profileImage)))
	r.HandlerFunc(http.MethodPost, "/v1/images", f.count("blog-image", f.auth(f.blogImage)))
	r.HandlerFunc(http.MethodGet, "/v1/blogs", f.count("list", f.list))
	r.HandlerFunc(http.MethodPost, "/v1/blogs", f.count("create", f.auth(f.create)))
	r.HandlerFunc(http.MethodGet, "/v1/blogs/:id", f.count("get", f.get))
	r.HandlerFunc(http.MethodPut, "/v1/blogs/:id", f.count("update", f.auth(f.update)))
	r.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", f.count("delete", f.auth(f.remove)))
	r.HandlerFunc(http.MethodGet, "/v1/authors/:id/blogs", f.count("by-author", f.byAuthor))
	r.HandlerFunc(http.MethodGet, "/v1/blogs/:id/comments", f.count("comments", f.listComments))
	r.HandlerFunc(http.MethodPost, "/v1/blogs/:id/comments", f.count("comment", f.auth(f.comment)))

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return f, ts
}

func (f *fakeAPI) count(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[name]++
		f.mu.Unlock()
		next(w, r)
	}
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeTestJSON(w, http.StatusForbidden, map[string]any{"error": "invalid or missing authentication token"})
			return
		}
		next(w, r)
	}
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readTestJSON(r *http.Request) map[string]string {
	var m map[string]string
	json.NewDecoder(r.Body).Decode(&m)
	return m
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	in := readTestJSON(r)
	if in["email"] == takenEmail {
		writeTestJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": map[string]string{"email": "This email is already registered. Please use a different email or log in."},
		})
		return
	}
	writeTestJSON(w, http.StatusCreated, map[string]any{
		"user": map[string]string{"id": "u-2", "name": in["name"], "email": in["email"], "role": "user"},
	})
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	in := readTestJSON(r)
	if in["password"] != testPassword {
		writeTestJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid authentication credentials"})
		return
	}
	writeTestJSON(w, http.StatusOK, map[string]any{
		"token": map[string]string{"access_token": testToken, "user_id": testUserID},
		"user":  map[string]string{"id": testUserID, "name": "Alice", "email": in["email"]},
	})
}

func (f *fakeAPI) logout(w http.ResponseWriter, r *http.Request) {
	writeTestJSON(w, http.StatusOK, map[string]any{"message": "user logged out"})
}

func (f *fakeAPI) me(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	img := f.meImage
	f.mu.Unlock()

	writeTestJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{"id": testUserID, "name": "Alice", "email": "alice@example.com", "image_url": img},
	})
}

func (f *fakeAPI) readUpload(w http.ResponseWriter, r *http.Request) bool {
	file, header, err := r.FormFile("image")
	if err != nil {
		writeTestJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return false
	}
	defer file.Close()
	io.Copy(io.Discard, file)

	f.mu.Lock()
	f.lastFile = header.Filename
	f.mu.Unlock()
	return true
}

func (f *fakeAPI) profileImage(w http.ResponseWriter, r *http.Request) {
	if !f.readUpload(w, r) {
		return
	}

	url := "http://media.test/media/users/u-1/profile.png"
	f.mu.Lock()
	f.meImage = url
	f.mu.Unlock()

	writeTestJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{"id": testUserID, "email": "alice@example.com", "image_url": url},
	})
}

func (f *fakeAPI) blogImage(w http.ResponseWriter, r *http.Request) {
	if !f.readUpload(w, r) {
		return
	}
	writeTestJSON(w, http.StatusCreated, map[string]any{"url": "http://media.test/media/images/blog_posts/pic.png"})
}

func (f *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	f.mu.Lock()
	defer f.mu.Unlock()

	out := []blogservice.Blog{}
	for i := len(f.blogs) - 1; i >= 0; i-- {
		if q == "" || strings.Contains(strings.ToLower(f.blogs[i].Title), q) {
			out = append(out, f.blogs[i])
		}
	}
	writeTestJSON(w, http.StatusOK, map[string]any{"blogs": out})
}

func (f *fakeAPI) addBlog(title, content, authorID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := fmt.Sprintf("b-%d", f.nextID)
	f.blogs = append(f.blogs, blogservice.Blog{
		ID:           id,
		Title:        title,
		Content:      content,
		FeatureImage: blogservice.FeatureImage(content),
		AuthorID:     authorID,
		AuthorName:   "Alice",
		CreatedAt:    time.Now(),
	})
	return id
}

func (f *fakeAPI) find(id string) int {
	for i, b := range f.blogs {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	in := readTestJSON(r)
	id := f.addBlog(in["title"], in["content"], testUserID)
	writeTestJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (f *fakeAPI) get(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(id)
	if i < 0 {
		writeTestJSON(w, http.StatusNotFound, map[string]any{"error": "resource not found"})
		return
	}
	writeTestJSON(w, http.StatusOK, map[string]any{"blog": f.blogs[i]})
}

func (f *fakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	in := readTestJSON(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(id)
	if i < 0 {
		writeTestJSON(w, http.StatusNotFound, map[string]any{"error": "resource not found"})
		return
	}
	f.blogs[i].Title = in["title"]
	f.blogs[i].Content = in["content"]
	writeTestJSON(w, http.StatusOK, map[string]any{"blog": f.blogs[i]})
}

func (f *fakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(id)
	if i < 0 {
		writeTestJSON(w, http.StatusNotFound, map[string]any{"error": "resource not found"})
		return
	}
	f.blogs = append(f.blogs[:i], f.blogs[i+1:]...)
	writeTestJSON(w, http.StatusOK, map[string]any{
		"result": blogservice.DeleteResult{MainDeleted: true, FailedImagePaths: []string{"images/blog_posts/gone.png"}},
	})
}

func (f *fakeAPI) byAuthor(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	f.mu.Lock()
	defer f.mu.Unlock()

	out := []blogservice.Blog{}
	for _, b := range f.blogs {
		if b.AuthorID == id {
			out = append(out, b)
		}
	}
	writeTestJSON(w, http.StatusOK, map[string]any{"blogs": out})
}

func (f *fakeAPI) listComments(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	f.mu.Lock()
	defer f.mu.Unlock()

	out := append([]commentservice.Comment{}, f.comments[id]...)
	writeTestJSON(w, http.StatusOK, map[string]any{"comments": out})
}

func (f *fakeAPI) comment(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	in := readTestJSON(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	c := commentservice.Comment{
		ID:         fmt.Sprintf("c-%d", len(f.comments[id])+1),
		BlogID:     id,
		Text:       in["text"],
		AuthorID:   testUserID,
		AuthorName: "Alice",
		CreatedAt:  time.Now(),
	}
	f.comments[id] = append([]commentservice.Comment{c}, f.comments[id]...)
	writeTestJSON(w, http.StatusCreated, map[string]any{"comment": c})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
