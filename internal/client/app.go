package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/session"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

// BlogCard is a post as shown in a listing.
type BlogCard struct {
	blogservice.Blog
	Excerpt string
}

type BlogPage struct {
	Blog     *blogservice.Blog
	Comments []commentservice.Comment
	IsAuthor bool
}

type ProfilePage struct {
	User  session.UserData
	Posts []BlogCard
}

// NewApp restores the session and the bearer token kept in storage.
func NewApp(ctx context.Context, api *Client, storage session.Storage, logger *slog.Logger) *App {
	app := &App{
		api:     api,
		session: session.NewStore(ctx, storage, logger),
		storage: storage,
		logger:  logger,
	}

	if !app.session.SignedIn() {
		return app
	}

	token, ok, err := storage.GetItem(ctx, KeyAuthToken)
	if err != nil {
		logger.Warn("reading auth token", slog.String("error", err.Error()))
	}
	if ok {
		api.SetToken(token)
	}

	return app
}

func (a *App) Session() *session.Store {
	return a.session
}

func BlogPath(id string) string {
	return strings.Replace(RouteBlog, ":id", id, 1)
}

func EditBlogPath(id string) string {
	return strings.Replace(RouteEditBlog, ":id", id, 1)
}

// Excerpt returns the first max characters of the text of content.
func Excerpt(content string, max int) string {
	text := blogservice.PlainText(content)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + "..."
}

func cards(blogs []blogservice.Blog) []BlogCard {
	out := make([]BlogCard, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, BlogCard{Blog: b, Excerpt: Excerpt(b.Content, 200)})
	}
	return out
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// clearSession drops the local session. Storage failures are logged since the in-memory state is already cleared.
func (a *App) clearSession(ctx context.Context) {
	a.api.SetToken("")

	if err := a.session.SignOut(ctx); err != nil {
		a.logger.Warn("clearing session", slog.String("error", err.Error()))
	}
	if err := a.storage.RemoveItem(ctx, KeyAuthToken); err != nil {
		a.logger.Warn("removing auth token", slog.String("error", err.Error()))
	}
}

// Register creates an account. The new user is not signed in and is sent to the home route.
func (a *App) Register(ctx context.Context, form RegisterForm) (View[*userservice.User], string) {
	var v View[*userservice.User]

	if form.Password != form.ConfirmPassword {
		v.Reject(MsgPasswordMismatch)
		return v, ""
	}

	v.Begin()

	user, err := a.api.Register(ctx, form)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Fields != nil {
			v.Fail(apiErr.Error())
		} else {
			v.Fail("Registration Failed: " + err.Error())
		}
		return v, ""
	}

	a.clearSession(ctx)

	v.Succeed(user, "")
	return v, RouteHome
}

func (a *App) Login(ctx context.Context, email, password string) (View[session.UserData], string) {
	var v View[session.UserData]

	if email == "" || password == "" {
		v.Reject(MsgCredentials)
		return v, ""
	}

	v.Begin()

	token, user, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.clearSession(ctx)
		v.Fail("Login Failed: " + err.Error())
		return v, ""
	}

	a.api.SetToken(token)
	if err := a.storage.SetItem(ctx, KeyAuthToken, token); err != nil {
		a.logger.Warn("saving auth token", slog.String("error", err.Error()))
	}

	err = a.session.SignIn(ctx, session.Profile{
		UID:         user.ID,
		Email:       user.Email,
		DisplayName: user.Name,
		ImageURL:    user.ImageURL,
	})
	if err != nil {
		a.logger.Warn("saving session", slog.String("error", err.Error()))
	}

	data, _ := a.session.User()
	v.Succeed(data, "")
	return v, RouteBlogs
}

// Logout revokes the token and clears the session. A token the API no longer accepts is cleared as well.
func (a *App) Logout(ctx context.Context) (View[struct{}], string) {
	var v View[struct{}]
	v.Begin()

	err := a.api.Logout(ctx)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			v.Fail("Error signing out: " + err.Error())
			return v, ""
		}
	}

	a.clearSession(ctx)

	v.Succeed(struct{}{}, "")
	return v, RouteHome
}

// Blogs lists posts newest first. A non-empty q filters by title.
func (a *App) Blogs(ctx context.Context, q string) View[[]BlogCard] {
	var v View[[]BlogCard]
	v.Begin()

	blogs, err := a.api.Blogs(ctx, q)
	if err != nil {
		v.Fail("Failed to load blogs: " + err.Error())
		return v
	}

	v.Succeed(cards(blogs), "")
	return v
}

// LoadBlog fetches a post and its comments. Failing to load comments leaves the list empty.
func (a *App) LoadBlog(ctx context.Context, id string) View[BlogPage] {
	var v View[BlogPage]
	v.Begin()

	blog, err := a.api.Blog(ctx, id)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			v.Fail("Blog not found")
		} else {
			v.Fail("Failed to load blog: " + err.Error())
		}
		return v
	}

	comments, err := a.api.Comments(ctx, id)
	if err != nil {
		a.logger.Warn("loading comments", slog.String("blog_id", id), slog.String("error", err.Error()))
		comments = []commentservice.Comment{}
	}

	user, ok := a.session.User()

	v.Succeed(BlogPage{
		Blog:     blog,
		Comments: comments,
		IsAuthor: ok && user.UID == blog.AuthorID,
	}, "")
	return v
}

func (a *App) SubmitComment(ctx context.Context, blogID, text string) View[*commentservice.Comment] {
	var v View[*commentservice.Comment]

	if strings.TrimSpace(text) == "" {
		v.Reject(MsgEmptyComment)
		return v
	}
	if !a.session.SignedIn() {
		v.Reject(MsgCommentSignedOut)
		return v
	}

	v.Begin()

	comment, err := a.api.CreateComment(ctx, blogID, text)
	if err != nil {
		v.Fail("Failed to add comment: " + err.Error())
		return v
	}

	v.Succeed(comment, "")
	return v
}

// LoadForEdit fetches a post into the editor. A missing post sends the user back to an empty editor.
func (a *App) LoadForEdit(ctx context.Context, id string) (View[*blogservice.Blog], string) {
	var v View[*blogservice.Blog]
	v.Begin()

	blog, err := a.api.Blog(ctx, id)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			v.Fail("Blog post not found")
			return v, RouteAdmin
		}
		v.Fail("Error fetching blog post: " + err.Error())
		return v, ""
	}

	v.Succeed(blog, "")
	return v, ""
}

// SubmitBlog creates a post when id is empty and updates it otherwise. The view data is the post id.
func (a *App) SubmitBlog(ctx context.Context, id, title, content string) (View[string], string) {
	var v View[string]

	if !a.session.SignedIn() {
		v.Reject(MsgBlogSignedOut)
		return v, ""
	}
	if strings.TrimSpace(title) == "" || blogservice.PlainText(content) == "" {
		v.Reject(MsgBlogRequired)
		return v, ""
	}

	v.Begin()

	if id != "" {
		if _, err := a.api.UpdateBlog(ctx, id, strings.TrimSpace(title), content); err != nil {
			v.Fail("Error updating blog post: " + err.Error())
			return v, ""
		}
		v.Succeed(id, "Blog post updated successfully")
		return v, BlogPath(id)
	}

	newID, err := a.api.CreateBlog(ctx, strings.TrimSpace(title), content)
	if err != nil {
		v.Fail("Error adding blog post: " + err.Error())
		return v, ""
	}

	v.Succeed(newID, "Blog post created successfully")
	return v, BlogPath(newID)
}

// UploadEditorImage stores an image for the editor and returns the URL to embed.
func (a *App) UploadEditorImage(ctx context.Context, filename string, r io.Reader) View[string] {
	var v View[string]
	v.Begin()

	url, err := a.api.UploadBlogImage(ctx, filename, r)
	if err != nil {
		v.Fail("image upload failed: " + err.Error())
		return v
	}

	v.Succeed(url, "")
	return v
}

// LoadProfile refreshes the profile image from the user record and lists the user's own posts.
func (a *App) LoadProfile(ctx context.Context) View[ProfilePage] {
	var v View[ProfilePage]

	user, ok := a.session.User()
	if !ok {
		v.Reject("Please log in to view your profile.")
		return v
	}

	v.Begin()

	me, err := a.api.Me(ctx)
	if err != nil {
		a.logger.Warn("loading profile", slog.String("error", err.Error()))
	} else if me.ImageURL != "" && me.ImageURL != user.ImageURL {
		if err := a.session.UpdateImage(ctx, me.ImageURL); err != nil {
			a.logger.Warn("saving session", slog.String("error", err.Error()))
		}
		user, _ = a.session.User()
	}

	posts, err := a.api.BlogsByAuthor(ctx, user.UID)
	if err != nil {
		v.Fail("Failed to load your posts: " + err.Error())
		return v
	}

	v.Succeed(ProfilePage{User: user, Posts: cards(posts)}, "")
	return v
}

// UploadProfileImage replaces the profile picture. size is checked before anything is sent.
func (a *App) UploadProfileImage(ctx context.Context, filename string, size int64, r io.Reader) View[string] {
	var v View[string]

	if r == nil {
		v.Reject(MsgNoFileSelected)
		return v
	}
	if size > MaxProfileImageSize {
		v.Reject(MsgFileTooLarge)
		return v
	}
	if !a.session.SignedIn() {
		v.Reject(MsgUploadSignedOut)
		return v
	}

	v.Begin()

	user, err := a.api.UploadProfileImage(ctx, filename, r)
	if err != nil {
		v.Fail("Failed to upload picture: " + err.Error())
		return v
	}

	if err := a.session.UpdateImage(ctx, user.ImageURL); err != nil {
		a.logger.Warn("saving session", slog.String("error", err.Error()))
	}

	v.Succeed(user.ImageURL, "Profile picture updated successfully")
	return v
}

func (a *App) DeletePost(ctx context.Context, id string) View[*blogservice.DeleteResult] {
	var v View[*blogservice.DeleteResult]
	v.Begin()

	result, err := a.api.DeleteBlog(ctx, id)
	if err != nil {
		v.Fail("Error deleting post: " + err.Error())
		return v
	}

	for _, p := range result.FailedImagePaths {
		a.logger.Warn("image left behind", slog.String("blog_id", id), slog.String("path", p))
	}

	v.Succeed(result, "Blog post deleted successfully")
	return v
}
