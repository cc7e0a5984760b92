package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, cache *common.Cache, logger *slog.Logger) *UserService {
	return &UserService{
		m:      newUserModel(db),
		t:      newTokenModel(db),
		mb:     mb,
		c:      cache,
		logger: logger,
	}
}

// RegisterUser creates an account with the "user" role once the password confirmation matches
// and the email is unused, then publishes a user.created event.
func (s *UserService) RegisterUser(ctx context.Context, req *RegisterRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	v := common.NewValidator()
	validatePasswordConfirmation(v, req.Password, req.ConfirmPassword)
	validateName(v, req.Name)
	validateEmail(v, req.Email)
	validatePassword(v, req.Password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	exists, err := s.m.emailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrDuplicateEmail
	}

	password, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     RoleUser,
		Password: password,
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	event, err := json.Marshal(common.UserCreatedEvent{Email: u.Email, Name: u.Name})
	if err != nil {
		return nil, err
	}

	// the account exists at this point, a lost welcome mail is not a registration failure
	if err := s.mb.Publish(ctx, event, common.UserCreatedKey, common.UserExchange); err != nil {
		s.logger.Error("could not publish user created event", slog.String("user_id", u.ID), slog.String("error", err.Error()))
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a new access token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*AuthToken, *User, error) {
	email = strings.TrimSpace(email)

	v := common.NewValidator()
	validateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, nil, ErrAuthenticationFailure
		default:
			return nil, nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		return nil, nil, ErrAuthenticationFailure
	}

	token, err := s.t.createAuthToken(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return token, user, nil
}

func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	if cached, ok := s.c.Get(common.CacheKeyUserByAccessToken(hash)); ok {
		u := cached.(User)
		return &u, nil
	}

	user, err := s.t.getUser(ctx, hash)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUserByAccessToken(hash), *user, time.Minute)

	return user, nil
}

// LogoutUser revokes the given access token.
func (s *UserService) LogoutUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)
	s.c.Delete(common.CacheKeyUserByAccessToken(hash))

	return s.t.deleteAuthToken(ctx, hash)
}

// GetUser returns the profile record of a user.
func (s *UserService) GetUser(ctx context.Context, id string) (*User, error) {
	v := common.NewValidator()
	v.Check(id != "", "id", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByID(ctx, id)
}

// SetProfileImage stores the URL of a freshly uploaded profile picture on the user record.
func (s *UserService) SetProfileImage(ctx context.Context, id, imageURL string) (*User, error) {
	v := common.NewValidator()
	v.Check(id != "", "id", "must be provided")
	v.Check(imageURL != "", "image_url", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.updateUserImage(ctx, id, imageURL)
	if err != nil {
		return nil, err
	}

	// cached token lookups carry the old image url
	s.c.Flush()

	return user, nil
}
