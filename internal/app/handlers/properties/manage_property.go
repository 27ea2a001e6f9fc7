package properties

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/uow"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	"rentify/internal/domain/shared/money"
)

const (
	updateRateKey        = "properties.update_rate"
	setAvailabilityKey   = "properties.set_availability"
	updateDescriptionKey = "properties.update_description"
	deletePropertyKey    = "properties.delete"
)

// UpdatePropertyRateCommand changes the per-day rate going forward. Existing
// bookings keep the price they were created with.
type UpdatePropertyRateCommand struct {
	PropertyID string
	RatePerDay money.Money
}

func (c UpdatePropertyRateCommand) Key() string { return updateRateKey }

type UpdatePropertyRateHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdatePropertyRateHandler) Handle(ctx context.Context, cmd UpdatePropertyRateCommand) (dto.Property, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Property{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	if err := prop.ChangeRate(cmd.RatePerDay, time.Now()); err != nil {
		return dto.Property{}, err
	}
	if err := unit.Properties().Save(execCtx, prop); err != nil {
		return dto.Property{}, err
	}

	if err := done(true); err != nil {
		return dto.Property{}, err
	}
	committed = true
	return dto.MapProperty(prop), nil
}

// SetPropertyAvailabilityCommand flips the listing toggle. Existing bookings
// are untouched either way.
type SetPropertyAvailabilityCommand struct {
	PropertyID string
	Available  bool
}

func (c SetPropertyAvailabilityCommand) Key() string { return setAvailabilityKey }

type SetPropertyAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *SetPropertyAvailabilityHandler) Handle(ctx context.Context, cmd SetPropertyAvailabilityCommand) (dto.Property, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Property{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	prop.SetAvailability(cmd.Available, time.Now())
	if err := unit.Properties().Save(execCtx, prop); err != nil {
		return dto.Property{}, err
	}

	if err := done(true); err != nil {
		return dto.Property{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("property availability changed", "property_id", prop.ID, "available", prop.Available)
	}
	return dto.MapProperty(prop), nil
}

type UpdatePropertyDescriptionCommand struct {
	PropertyID  string
	Description string
}

func (c UpdatePropertyDescriptionCommand) Key() string { return updateDescriptionKey }

type UpdatePropertyDescriptionHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdatePropertyDescriptionHandler) Handle(ctx context.Context, cmd UpdatePropertyDescriptionCommand) (dto.Property, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Property{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	prop.UpdateDescription(cmd.Description, time.Now())
	if err := unit.Properties().Save(execCtx, prop); err != nil {
		return dto.Property{}, err
	}

	if err := done(true); err != nil {
		return dto.Property{}, err
	}
	committed = true
	return dto.MapProperty(prop), nil
}

// DeletePropertyCommand removes a listing together with every booking on it,
// cascading into each booking's payment and review.
type DeletePropertyCommand struct {
	PropertyID string
}

func (c DeletePropertyCommand) Key() string { return deletePropertyKey }

type DeletePropertyHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *DeletePropertyHandler) Handle(ctx context.Context, cmd DeletePropertyCommand) (struct{}, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return struct{}{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return struct{}{}, err
	}

	bookings, err := unit.Bookings().ListByProperty(execCtx, prop.ID)
	if err != nil {
		return struct{}{}, err
	}
	for _, b := range bookings {
		if pay, err := unit.Payments().ByBooking(execCtx, b.ID); err == nil {
			if err := unit.Payments().Delete(execCtx, pay.ID); err != nil {
				return struct{}{}, err
			}
		} else if !errors.Is(err, domainpayment.ErrNotFound) {
			return struct{}{}, err
		}
		if rev, err := unit.Reviews().ByBooking(execCtx, b.ID); err == nil {
			if err := unit.Reviews().Delete(execCtx, rev.ID); err != nil {
				return struct{}{}, err
			}
		} else if !errors.Is(err, domainreview.ErrNotFound) {
			return struct{}{}, err
		}
		if err := unit.Bookings().Delete(execCtx, b.ID); err != nil {
			return struct{}{}, err
		}
	}

	if err := unit.Properties().Delete(execCtx, prop.ID); err != nil {
		return struct{}{}, err
	}

	if err := done(true); err != nil {
		return struct{}{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("property deleted", "property_id", prop.ID, "bookings_removed", len(bookings))
	}
	return struct{}{}, nil
}

var _ commands.Handler[UpdatePropertyRateCommand, dto.Property] = (*UpdatePropertyRateHandler)(nil)
var _ commands.Handler[SetPropertyAvailabilityCommand, dto.Property] = (*SetPropertyAvailabilityHandler)(nil)
var _ commands.Handler[UpdatePropertyDescriptionCommand, dto.Property] = (*UpdatePropertyDescriptionHandler)(nil)
var _ commands.Handler[DeletePropertyCommand, struct{}] = (*DeletePropertyHandler)(nil)
