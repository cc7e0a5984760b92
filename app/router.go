package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/me", app.requireAuthUser(app.getCurrentUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/users/me/image", app.requireAuthUser(app.uploadProfileImageHandler))

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.getAllBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/authors/:id/blogs", app.getBlogsByAuthorHandler)

	// comment service
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/comments", app.getCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/comments", app.requireAuthUser(app.createCommentHandler))

	// media service
	router.HandlerFunc(http.MethodPost, "/v1/images", app.requireAuthUser(app.uploadBlogImageHandler))
	if app.memoryStore != nil {
		router.HandlerFunc(http.MethodGet, "/media/*path", app.serveMediaHandler)
	}

	return app.recoverPanic(app.enableCORS(app.logRequest(app.authenticate(router))))
}
