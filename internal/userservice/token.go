package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"
)

func newTokenModel(db *sql.DB) *TokenModel {
	return &TokenModel{db: db}
}

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newToken(userID string, ttl time.Duration) (*Token, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	token := &Token{
		Plain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID: userID,
		Expiry: time.Now().Add(ttl),
	}

	token.Hash = hashToken(token.Plain)

	return token, nil
}

func (m *TokenModel) createAuthToken(ctx context.Context, userID string) (*AuthToken, error) {
	accessToken, err := newToken(userID, AccessTokenTime)
	if err != nil {
		return nil, err
	}

	authToken := &AuthToken{
		AccessTokenPlain:  accessToken.Plain,
		AccessTokenHash:   accessToken.Hash,
		UserID:            userID,
		AccessTokenExpiry: accessToken.Expiry,
	}

	query := `
		INSERT INTO auth_tokens (access_token, user_id, access_token_expiry)
		VALUES ($1, $2, $3)`

	_, err = m.db.ExecContext(ctx, query, authToken.AccessTokenHash, authToken.UserID, authToken.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	return authToken, nil
}

// getUser returns the owner of an unexpired access token.
func (m *TokenModel) getUser(ctx context.Context, token []byte) (*User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.image_url, u.role, u.created_at, u.updated_at
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		WHERE t.access_token = $1 AND t.access_token_expiry > $2`

	var u User
	err := m.db.QueryRowContext(ctx, query, token, time.Now()).Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *TokenModel) deleteAuthToken(ctx context.Context, token []byte) error {
	res, err := m.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE access_token = $1", token)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
