package bookings

import (
	"context"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/middleware"
	"rentify/internal/app/outbox"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpricing "rentify/internal/domain/pricing"
	domainproperty "rentify/internal/domain/property"
	"rentify/internal/domain/shared/daterange"
	domainuser "rentify/internal/domain/user"
)

const createBookingKey = "bookings.create"

// CreateBookingCommand reserves a property for an inclusive date range. The
// total price is always derived from the property's current rate; callers
// cannot supply it.
type CreateBookingCommand struct {
	CommandID       string
	PropertyID      string
	RenterID        string
	StartDate       time.Time
	EndDate         time.Time
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.Booking{} }

// CreateBookingHandler runs the availability check, the overlap check and the
// insert inside one unit of work so concurrent requests for the same property
// cannot both win.
type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.Booking, error) {
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

	dr, err := daterange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if !prop.Available {
		return nil, domainproperty.ErrNotAvailable
	}

	renter, err := unit.Users().ByID(ctx, domainuser.ID(cmd.RenterID))
	if err != nil {
		return nil, err
	}

	overlapping, err := unit.Bookings().OverlappingRange(ctx, prop.ID, dr)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, domainbooking.ErrDatesConflict
	}

	total, err := domainpricing.QuoteRange(prop.RatePerDay, dr)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(cmd.CommandID),
		PropertyID: prop.ID,
		RenterID:   string(renter.ID),
		Range:      dr,
		TotalPrice: total,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("booking created", "booking_id", b.ID, "property_id", b.PropertyID, "renter_id", b.RenterID, "total", b.TotalPrice.String())
	}

	result := dto.MapBooking(b)
	return &result, nil
}

var _ commands.Handler[CreateBookingCommand, *dto.Booking] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
