package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/quillpost/internal/userservice"
)

type contextKey string

const authContextKey = contextKey("auth")

// authContext is who made the request and with which bearer token. Anonymous requests carry no token.
type authContext struct {
	user  *userservice.User
	token string
}

func (app *application) createUserContext(r *http.Request, user *userservice.User, token string) *http.Request {
	ctx := context.WithValue(r.Context(), authContextKey, authContext{user: user, token: token})
	return r.WithContext(ctx)
}

// getUserContext never returns nil, a request that skipped authenticate is anonymous.
func (app *application) getUserContext(r *http.Request) *userservice.User {
	auth, ok := r.Context().Value(authContextKey).(authContext)
	if !ok || auth.user == nil {
		return &userservice.AnonymousUser
	}
	return auth.user
}

func (app *application) getTokenContext(r *http.Request) string {
	auth, _ := r.Context().Value(authContextKey).(authContext)
	return auth.token
}
