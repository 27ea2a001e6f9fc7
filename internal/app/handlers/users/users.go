package users

import (
	"context"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
	domainuser "rentify/internal/domain/user"
)

const (
	registerUserKey   = "users.register"
	userByUsernameKey = "users.by_username"
)

// RegisterUserCommand stores an identity record. Credentials live upstream;
// the core only needs the id for ownership checks.
type RegisterUserCommand struct {
	CommandID string
	Username  string
	Email     string
}

func (c RegisterUserCommand) Key() string { return registerUserKey }

type RegisterUserHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (dto.User, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.User{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:        domainuser.ID(cmd.CommandID),
		Username:  cmd.Username,
		Email:     cmd.Email,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return dto.User{}, err
	}
	if err := unit.Users().Save(execCtx, u); err != nil {
		return dto.User{}, err
	}

	if err := done(true); err != nil {
		return dto.User{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	}
	return dto.MapUser(u), nil
}

type UserByUsernameQuery struct {
	Username string
}

func (q UserByUsernameQuery) Key() string { return userByUsernameKey }

type UserByUsernameHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UserByUsernameHandler) Handle(ctx context.Context, q UserByUsernameQuery) (dto.User, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.User{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	u, err := unit.Users().ByUsername(execCtx, q.Username)
	if err != nil {
		return dto.User{}, err
	}
	return dto.MapUser(u), nil
}

var _ commands.Handler[RegisterUserCommand, dto.User] = (*RegisterUserHandler)(nil)
var _ queries.Handler[UserByUsernameQuery, dto.User] = (*UserByUsernameHandler)(nil)
