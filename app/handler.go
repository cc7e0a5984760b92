package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

const duplicateEmailMessage = "This email is already registered. Please use a different email or log in."

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input userservice.RegisterRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.RegisterUser(r.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": duplicateEmailMessage})
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, user, err := app.userService.LoginUser(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": token, "user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	err := app.userService.LogoutUser(r.Context(), app.getTokenContext(r))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.invalidAuthenticationTokenResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "user logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.userService.GetUser(r.Context(), app.getUserContext(r).ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// uploadProfileImageHandler stores a new profile picture and records its URL on the user.
func (app *application) uploadProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	file, header, err := app.readImage(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	url, err := app.mediaService.UploadProfileImage(r.Context(), user.ID, file, header.Filename)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	updated, err := app.userService.SetProfileImage(r.Context(), user.ID, url)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": updated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// uploadBlogImageHandler stores an image pasted into the editor and returns the URL to embed.
func (app *application) uploadBlogImageHandler(w http.ResponseWriter, r *http.Request) {
	file, header, err := app.readImage(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	url, err := app.mediaService.UploadBlogImage(r.Context(), file, header.Filename)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"url": url}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// serveMediaHandler serves uploads kept in memory when no object store is configured.
func (app *application) serveMediaHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(httprouter.ParamsFromContext(r.Context()).ByName("path"), "/")

	data, contentType, ok := app.memoryStore.Get(path)
	if !ok {
		app.notFoundErrorResponse(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type blogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (app *application) getAllBlogsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		blogs []blogservice.Blog
		err   error
	)

	if q := r.URL.Query().Get("q"); q != "" {
		blogs, err = app.blogService.GetBlogsByTitle(r.Context(), q)
	} else {
		blogs, err = app.blogService.GetBlogs(r.Context())
	}
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)
	authorName := user.Name
	if authorName == "" {
		authorName = user.Email
	}

	id, err := app.blogService.CreateBlog(r.Context(), &blogservice.CreateBlogRequest{
		Title:      input.Title,
		Content:    input.Content,
		AuthorID:   user.ID,
		AuthorName: authorName,
	})
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/blogs/%s", id))

	err = app.writeJSON(w, http.StatusCreated, envelope{"id": id}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	blog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input blogRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.UpdateBlog(r.Context(), &blogservice.UpdateBlogRequest{
		ID:      id,
		Title:   input.Title,
		Content: input.Content,
	}, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	result, err := app.blogService.DeleteBlog(r.Context(), id, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"result": result}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getBlogsByAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	blogs, err := app.blogService.GetBlogsByUserId(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getCommentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	comments, err := app.commentService.GetCommentsByBlogId(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input commentRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	comment, err := app.commentService.CreateComment(r.Context(), &commentservice.CreateCommentRequest{
		BlogID:      id,
		Text:        input.Text,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
		AuthorEmail: user.Email,
	})
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
