package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const (
	KeySignedIn = "isSignedIn"
	KeyUserData = "userData"
)

var ErrSignedOut = errors.New("no user is signed in")

// Storage is a durable string key/value store in the manner of browser local storage.
type Storage interface {
	// GetItem reports false when the key does not exist.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// UserData is the normalized profile kept for the signed-in user.
type UserData struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Profile is the user record as returned by the auth service.
type Profile struct {
	UID         string
	Email       string
	DisplayName string
	ImageURL    string
	PhotoURL    string
}

// Store holds the signed-in flag and the current user. Every change is written through to Storage.
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	logger   *slog.Logger
	signedIn bool
	user     *UserData
}
