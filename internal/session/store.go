package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// NewStore returns a store restored from storage.
func NewStore(ctx context.Context, storage Storage, logger *slog.Logger) *Store {
	s := &Store{storage: storage, logger: logger}
	s.Restore(ctx)
	return s
}

func normalize(p Profile) *UserData {
	image := p.ImageURL
	if image == "" {
		image = p.PhotoURL
	}

	return &UserData{
		UID:      p.UID,
		Email:    p.Email,
		Name:     p.DisplayName,
		ImageURL: image,
	}
}

// Restore reloads the state from storage. Missing, unreadable or corrupt data leaves the store signed out.
func (s *Store) Restore(ctx context.Context) {
	signedIn, user := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.signedIn = signedIn && user != nil
	s.user = user
	if !s.signedIn {
		s.user = nil
	}
}

func (s *Store) load(ctx context.Context) (bool, *UserData) {
	rawSignedIn, ok, err := s.storage.GetItem(ctx, KeySignedIn)
	if err != nil {
		s.logger.Warn("could not load session", slog.String("key", KeySignedIn), slog.String("error", err.Error()))
		return false, nil
	}
	if !ok {
		return false, nil
	}

	rawUser, ok, err := s.storage.GetItem(ctx, KeyUserData)
	if err != nil {
		s.logger.Warn("could not load session", slog.String("key", KeyUserData), slog.String("error", err.Error()))
		return false, nil
	}
	if !ok {
		return false, nil
	}

	var signedIn bool
	if err := json.Unmarshal([]byte(rawSignedIn), &signedIn); err != nil {
		s.logger.Warn("corrupt session data", slog.String("key", KeySignedIn), slog.String("error", err.Error()))
		return false, nil
	}

	var user *UserData
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn("corrupt session data", slog.String("key", KeyUserData), slog.String("error", err.Error()))
		return false, nil
	}

	return signedIn, user
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	signedIn, err := json.Marshal(s.signedIn)
	if err != nil {
		return err
	}

	user, err := json.Marshal(s.user)
	if err != nil {
		return err
	}

	// userData goes first so a failed flag write never pairs the flag with a stale user.
	if err := s.storage.SetItem(ctx, KeyUserData, string(user)); err != nil {
		s.logger.Error("could not save session", slog.String("key", KeyUserData), slog.String("error", err.Error()))
		return fmt.Errorf("could not save session: %w", err)
	}

	if err := s.storage.SetItem(ctx, KeySignedIn, string(signedIn)); err != nil {
		s.logger.Error("could not save session", slog.String("key", KeySignedIn), slog.String("error", err.Error()))
		return fmt.Errorf("could not save session: %w", err)
	}

	return nil
}

// SignIn makes p the current user. The in-memory state changes even when saving fails.
func (s *Store) SignIn(ctx context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.signedIn = true
	s.user = normalize(p)

	return s.persist(ctx)
}

func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.signedIn = false
	s.user = nil

	return s.persist(ctx)
}

// UpdateImage replaces the image URL of the signed-in user.
func (s *Store) UpdateImage(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.signedIn {
		return ErrSignedOut
	}

	u := *s.user
	u.ImageURL = url
	s.user = &u

	return s.persist(ctx)
}

func (s *Store) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.signedIn
}

// User returns a copy of the current user, or false when signed out.
func (s *Store) User() (UserData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.signedIn {
		return UserData{}, false
	}

	return *s.user, true
}
