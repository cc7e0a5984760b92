package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = common.ErrRecordNotFound
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	args := []any{
		u.Name,
		u.Email,
		u.Password.hash,
		u.Role,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

// emailExists reports whether an account is already registered with the email.
func (m *DBModel) emailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

func (m *DBModel) getUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password, image_url, role, created_at, updated_at
		FROM users
		WHERE email = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash, &u.ImageURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
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

func (m *DBModel) getUserByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, name, email, image_url, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), common.InvalidTextRepresentation(err):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) updateUserImage(ctx context.Context, id, imageURL string) (*User, error) {
	query := `
		UPDATE users
		SET image_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, email, image_url, role, created_at, updated_at`

	var u User
	err := m.db.QueryRowContext(ctx, query, imageURL, id).Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), common.InvalidTextRepresentation(err):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
