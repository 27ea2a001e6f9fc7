package users

import (
	"context"
	"errors"
	"testing"

	domainuser "rentify/internal/domain/user"
	"rentify/internal/infra/storage/memory"
)

func TestRegisterUser(t *testing.T) {
	f := memory.NewFactory()
	h := &RegisterUserHandler{UoWFactory: f}
	ctx := context.Background()

	got, err := h.Handle(ctx, RegisterUserCommand{CommandID: "user-1", Username: "alice", Email: "Alice@Example.com"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q", got.Username)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", got.Email)
	}

	stored, err := f.UserRepo.ByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if stored.Username != "alice" {
		t.Errorf("stored Username = %q", stored.Username)
	}
}

func TestRegisterUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     RegisterUserCommand
		wantErr error
	}{
		{"missing id", RegisterUserCommand{Username: "alice", Email: "a@b.com"}, domainuser.ErrIDRequired},
		{"missing username", RegisterUserCommand{CommandID: "u1", Email: "a@b.com"}, domainuser.ErrUsernameRequired},
		{"missing email", RegisterUserCommand{CommandID: "u1", Username: "alice"}, domainuser.ErrEmailRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &RegisterUserHandler{UoWFactory: memory.NewFactory()}
			if _, err := h.Handle(context.Background(), tt.cmd); !errors.Is(err, tt.wantErr) {
				t.Errorf("Handle() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserByUsername(t *testing.T) {
	f := memory.NewFactory()
	ctx := context.Background()
	reg := &RegisterUserHandler{UoWFactory: f}
	if _, err := reg.Handle(ctx, RegisterUserCommand{CommandID: "user-1", Username: "Alice", Email: "a@b.com"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	h := &UserByUsernameHandler{UoWFactory: f}
	got, err := h.Handle(ctx, UserByUsernameQuery{Username: "alice"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID = %q", got.ID)
	}

	if _, err := h.Handle(ctx, UserByUsernameQuery{Username: "bob"}); !errors.Is(err, domainuser.ErrNotFound) {
		t.Errorf("Handle() unknown error = %v, want %v", err, domainuser.ErrNotFound)
	}
}
