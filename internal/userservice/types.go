package userservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/quillpost/internal/common"
)

const (
	AccessTokenTime time.Duration = 7 * 24 * time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      *DBModel
	t      *TokenModel
	mb     common.MessageProducer
	c      *common.Cache
	logger *slog.Logger
}

type DBModel struct {
	db *sql.DB
}

type TokenModel struct {
	db *sql.DB
}

// User is the durable profile record of an account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"image_url"`
	Role      Role      `json:"role"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Password holds only the bcrypt hash, the plain text is never kept.
type Password struct {
	hash []byte
}

type Token struct {
	Plain  string    `json:"token"`
	Hash   []byte    `json:"-"`
	UserID string    `json:"-"`
	Expiry time.Time `json:"expiry"`
}

// Authentication Token
type AuthToken struct {
	AccessTokenPlain  string    `json:"access_token"`
	AccessTokenHash   []byte    `json:"-"`
	UserID            string    `json:"user_id"`
	AccessTokenExpiry time.Time `json:"access_token_expiry"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
