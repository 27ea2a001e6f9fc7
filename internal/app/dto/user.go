package dto

import (
	"time"

	domainuser "rentify/internal/domain/user"
)

// User represents a public user payload.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func MapUser(u *domainuser.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
