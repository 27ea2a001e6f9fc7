package bookings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/outbox"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainpricing "rentify/internal/domain/pricing"
	domainreview "rentify/internal/domain/review"
	"rentify/internal/domain/shared/daterange"
)

const (
	transitionBookingKey = "bookings.transition"
	updateBookingKey     = "bookings.update"
	deleteBookingKey     = "bookings.delete"
)

// TransitionBookingCommand moves a booking out of PENDING. Timing is decided
// by the caller (stay elapsed, manual cancellation); the core only enforces
// which moves are legal.
type TransitionBookingCommand struct {
	BookingID string
	Next      domainbooking.Status
}

func (c TransitionBookingCommand) Key() string { return transitionBookingKey }

type TransitionBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *TransitionBookingHandler) Handle(ctx context.Context, cmd TransitionBookingCommand) (dto.Booking, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	if err := b.Transition(cmd.Next, time.Now()); err != nil {
		return dto.Booking{}, err
	}
	if err := unit.Bookings().Save(execCtx, b); err != nil {
		return dto.Booking{}, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return dto.Booking{}, err
	}

	if err := done(true); err != nil {
		return dto.Booking{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("booking transitioned", "booking_id", b.ID, "status", b.Status)
	}
	return dto.MapBooking(b), nil
}

// UpdateBookingCommand reschedules an existing booking: the range changes,
// the price is recomputed from the property's current rate and the status
// resets to PENDING. The overlap check skips the booking itself.
type UpdateBookingCommand struct {
	BookingID string
	StartDate time.Time
	EndDate   time.Time
}

func (c UpdateBookingCommand) Key() string { return updateBookingKey }

type UpdateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (dto.Booking, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	dr, err := daterange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return dto.Booking{}, err
	}

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	prop, err := unit.Properties().ByID(execCtx, b.PropertyID)
	if err != nil {
		return dto.Booking{}, err
	}

	overlapping, err := unit.Bookings().OverlappingRange(execCtx, b.PropertyID, dr)
	if err != nil {
		return dto.Booking{}, err
	}
	for _, other := range overlapping {
		if other.ID != b.ID {
			return dto.Booking{}, domainbooking.ErrDatesConflict
		}
	}

	total, err := domainpricing.QuoteRange(prop.RatePerDay, dr)
	if err != nil {
		return dto.Booking{}, err
	}
	if err := b.Reschedule(dr, total, time.Now()); err != nil {
		return dto.Booking{}, err
	}
	if err := unit.Bookings().Save(execCtx, b); err != nil {
		return dto.Booking{}, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return dto.Booking{}, err
	}

	if err := done(true); err != nil {
		return dto.Booking{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("booking rescheduled", "booking_id", b.ID, "start", dr.Start, "end", dr.End)
	}
	return dto.MapBooking(b), nil
}

// DeleteBookingCommand removes a booking together with its payment and
// review: neither may outlive the booking.
type DeleteBookingCommand struct {
	BookingID string
}

func (c DeleteBookingCommand) Key() string { return deleteBookingKey }

type DeleteBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *DeleteBookingHandler) Handle(ctx context.Context, cmd DeleteBookingCommand) (struct{}, error) {
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

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return struct{}{}, err
	}

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

	b.Record(domainbooking.BookingDeleted{BookingID: b.ID, PropertyID: b.PropertyID, At: time.Now().UTC()})
	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return struct{}{}, err
	}

	if err := unit.Bookings().Delete(execCtx, b.ID); err != nil {
		return struct{}{}, err
	}

	if err := done(true); err != nil {
		return struct{}{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("booking deleted", "booking_id", b.ID)
	}
	return struct{}{}, nil
}

var _ commands.Handler[TransitionBookingCommand, dto.Booking] = (*TransitionBookingHandler)(nil)
var _ commands.Handler[UpdateBookingCommand, dto.Booking] = (*UpdateBookingHandler)(nil)
var _ commands.Handler[DeleteBookingCommand, struct{}] = (*DeleteBookingHandler)(nil)
