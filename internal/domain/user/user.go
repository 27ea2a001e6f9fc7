package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired       = errors.New("user: id is required")
	ErrUsernameRequired = errors.New("user: username is required")
	ErrEmailRequired    = errors.New("user: email is required")
	ErrNotFound         = errors.New("user: not found")
)

type ID string

// User is the minimal identity record the core needs: authentication and
// roles are resolved upstream, bookings and payments only reference it.
type User struct {
	ID        ID
	Username  string
	Email     string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID        ID
	Username  string
	Email     string
	CreatedAt time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &User{
		ID:        ID(id),
		Username:  username,
		Email:     email,
		CreatedAt: now.UTC(),
	}, nil
}
