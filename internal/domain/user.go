package domain

import (
	"context"
	"time"
)

const UserRoleMember = "member"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SignupRequest struct {
	Username        string `json:"username" validate:"required,valid_username"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=72"`
}

// ClientMeta carries request attributes used for security logging.
type ClientMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type UserRepository interface {
	// Create inserts the user and its empty profile atomically.
	Create(ctx context.Context, user *User, profile *Profile) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByIdentifier matches username or email, case-insensitively.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type AuthUsecase interface {
	Signup(ctx context.Context, req SignupRequest, meta ClientMeta) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest, meta ClientMeta) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
