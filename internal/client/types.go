package client

import (
	"log/slog"
	"net/http"

	"github.com/sushihentaime/quillpost/internal/session"
)

// Navigation targets.
const (
	RouteHome     = "/"
	RouteBlogs    = "/blogs"
	RouteBlog     = "/blogs/:id"
	RouteAdmin    = "/admin"
	RouteEditBlog = "/edit-blog/:id"
	RouteProfile  = "/profile"
	RouteRegister = "/register"
)

// KeyAuthToken is the storage key holding the bearer token of the signed-in user.
const KeyAuthToken = "authToken"

const (
	MsgPasswordMismatch = "Passwords do not match."
	MsgEmptyComment     = "comment cannot be empty"
	MsgCommentSignedOut = "You must be logged in to post a comment!"
	MsgBlogSignedOut    = "You must be Logged in to post a blog"
	MsgBlogRequired     = "Title and content are required"
	MsgFileTooLarge     = "File size exceeds 500 kB. Please choose a smaller image."
	MsgNoFileSelected   = "Please select an image first"
	MsgUploadSignedOut  = "You must be logged in to upload a profile picture"
	MsgCredentials      = "please enter both email and password"
)

// MaxProfileImageSize mirrors the limit enforced by the API so oversized files never leave the client.
const MaxProfileImageSize = 500 * 1024

// Client talks to the JSON API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// View is the state of one screen operation.
type View[T any] struct {
	Status  Status
	Data    T
	Message string
}

// App runs the per-screen flows against the API and the session.
type App struct {
	api     *Client
	session *session.Store
	storage session.Storage
	logger  *slog.Logger
}

type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}
