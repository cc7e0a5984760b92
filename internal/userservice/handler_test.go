package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/quillpost/internal/common"
)

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *common.MockMessageProducer, func() error) {
	db := common.TestDB("file://../../migrations", t)
	mb := new(common.MockMessageProducer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM users")
		return err
	}

	return NewUserService(db, mb, common.NewCache(5*time.Minute, 10*time.Minute), logger), db, mb, cleanup
}

func testRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Name:            "Alice",
		Email:           "alice@x.com",
		Password:        "pw1",
		ConfirmPassword: "pw1",
	}
}

func TestRegisterUser(t *testing.T) {
	s, db, mb, cleanup := setupTestEnvironment(t)
	mb.On("Publish", mock.Anything, mock.Anything, common.UserCreatedKey, common.UserExchange).Return(nil)

	testCases := []struct {
		name        string
		req         *RegisterRequest
		setup       func(db *sql.DB) error
		expectedErr error
	}{
		{
			name:        "valid user",
			req:         testRegisterRequest(),
			expectedErr: nil,
		},
		{
			name: "password mismatch",
			req: &RegisterRequest{
				Name:            "Alice",
				Email:           "alice@x.com",
				Password:        "pw1",
				ConfirmPassword: "pw2",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"confirm_password": "Passwords do not match."}},
		},
		{
			name:        "empty payload",
			req:         &RegisterRequest{},
			expectedErr: common.ValidationError{Errors: map[string]string{"email": "must be provided", "name": "must be provided", "password": "must be provided"}},
		},
		{
			name: "email already registered",
			req:  testRegisterRequest(),
			setup: func(db *sql.DB) error {
				_, err := db.Exec("INSERT INTO users (name, email, password) VALUES ($1, $2, $3)", "Other", "alice@x.com", []byte("hash"))
				return err
			},
			expectedErr: ErrDuplicateEmail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if tc.setup != nil {
				assert.NoError(t, tc.setup(db))
			}

			user, err := s.RegisterUser(ctx, tc.req)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.NotEmpty(t, user.ID)
				assert.Equal(t, RoleUser, user.Role)

				var role string
				err := db.QueryRow("SELECT role FROM users WHERE id = $1", user.ID).Scan(&role)
				assert.NoError(t, err)
				assert.Equal(t, "user", role)
			}

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})
		})
	}

	// only the successful registration publishes
	mb.AssertNumberOfCalls(t, "Publish", 1)
}

func TestRegisterUserPublishesEvent(t *testing.T) {
	s, _, mb, cleanup := setupTestEnvironment(t)
	defer cleanup()

	var body []byte
	mb.On("Publish", mock.Anything, mock.Anything, common.UserCreatedKey, common.UserExchange).
		Run(func(args mock.Arguments) { body = args.Get(1).([]byte) }).
		Return(errors.New("broker down"))

	// publish failures do not fail the registration
	_, err := s.RegisterUser(context.Background(), testRegisterRequest())
	assert.NoError(t, err)

	var event common.UserCreatedEvent
	assert.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, common.UserCreatedEvent{Email: "alice@x.com", Name: "Alice"}, event)
}

func TestLoginLogoutUser(t *testing.T) {
	s, _, mb, cleanup := setupTestEnvironment(t)
	defer cleanup()
	mb.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	registered, err := s.RegisterUser(ctx, testRegisterRequest())
	assert.NoError(t, err)

	_, _, err = s.LoginUser(ctx, "alice@x.com", "wrong")
	assert.Equal(t, ErrAuthenticationFailure, err)

	_, _, err = s.LoginUser(ctx, "bob@x.com", "pw1")
	assert.Equal(t, ErrAuthenticationFailure, err)

	token, user, err := s.LoginUser(ctx, "alice@x.com", "pw1")
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	got, err := s.GetUserByAccessToken(ctx, token.AccessTokenPlain)
	assert.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)

	assert.NoError(t, s.LogoutUser(ctx, token.AccessTokenPlain))

	_, err = s.GetUserByAccessToken(ctx, token.AccessTokenPlain)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	assert.ErrorIs(t, s.LogoutUser(ctx, token.AccessTokenPlain), common.ErrRecordNotFound)
}

func TestSetProfileImage(t *testing.T) {
	s, _, mb, cleanup := setupTestEnvironment(t)
	defer cleanup()
	mb.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	registered, err := s.RegisterUser(ctx, testRegisterRequest())
	assert.NoError(t, err)

	token, _, err := s.LoginUser(ctx, "alice@x.com", "pw1")
	assert.NoError(t, err)

	// warm the token cache
	_, err = s.GetUserByAccessToken(ctx, token.AccessTokenPlain)
	assert.NoError(t, err)

	user, err := s.SetProfileImage(ctx, registered.ID, "http://localhost:9000/media/users/a/profile_1.png")
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/users/a/profile_1.png", user.ImageURL)

	cached, err := s.GetUserByAccessToken(ctx, token.AccessTokenPlain)
	assert.NoError(t, err)
	assert.Equal(t, user.ImageURL, cached.ImageURL)

	_, err = s.SetProfileImage(ctx, "not-a-uuid", "http://x")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}
