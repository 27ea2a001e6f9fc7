package properties

import (
	"context"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/middleware"
	"rentify/internal/app/uow"
	domainproperty "rentify/internal/domain/property"
	"rentify/internal/domain/shared/money"
	domainuser "rentify/internal/domain/user"
)

const createPropertyKey = "properties.create"

// CreatePropertyCommand lists a new rentable unit. The owner must be a known
// user; the listing starts available unless the caller says otherwise.
type CreatePropertyCommand struct {
	CommandID       string
	OwnerID         string
	Title           string
	Description     string
	Type            domainproperty.Type
	RatePerDay      money.Money
	Available       bool
	IdempotencyKeyV string
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

func (c CreatePropertyCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreatePropertyCommand) ResultPrototype() any { return &dto.Property{} }

type CreatePropertyHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*dto.Property, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		if injector, ok := unit.(interface {
			InjectContext(context.Context) context.Context
		}); ok {
			ctx = injector.InjectContext(ctx)
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if _, err := unit.Users().ByID(ctx, domainuser.ID(cmd.OwnerID)); err != nil {
		return nil, err
	}

	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:          domainproperty.PropertyID(cmd.CommandID),
		OwnerID:     cmd.OwnerID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Type:        cmd.Type,
		RatePerDay:  cmd.RatePerDay,
		Available:   cmd.Available,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("property created", "property_id", prop.ID, "owner_id", prop.OwnerID, "type", prop.Type)
	}

	result := dto.MapProperty(prop)
	return &result, nil
}

var _ commands.Handler[CreatePropertyCommand, *dto.Property] = (*CreatePropertyHandler)(nil)
var _ middleware.IdempotentCommand = (*CreatePropertyCommand)(nil)
