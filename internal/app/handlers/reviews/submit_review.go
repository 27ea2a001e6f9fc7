package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/middleware"
	"rentify/internal/app/outbox"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainreview "rentify/internal/domain/review"
)

const submitReviewKey = "reviews.submit"

// SubmitReviewCommand leaves feedback for a concluded stay. Only the renter
// who made the booking may review it, only once, and only after the booking
// completed.
type SubmitReviewCommand struct {
	CommandID       string
	BookingID       string
	RenterID        string
	Rating          int
	Comment         string
	IdempotencyKeyV string
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

func (c SubmitReviewCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SubmitReviewCommand) ResultPrototype() any { return &dto.Review{} }

type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*dto.Review, error) {
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

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if !b.IsOwner(cmd.RenterID) {
		return nil, domainreview.ErrNotAuthor
	}
	if b.ReviewID != "" {
		return nil, domainreview.ErrDuplicate
	}
	if existing, err := unit.Reviews().ByBooking(ctx, b.ID); err == nil && existing != nil {
		return nil, domainreview.ErrDuplicate
	} else if err != nil && !errors.Is(err, domainreview.ErrNotFound) {
		return nil, err
	}
	if b.Status != domainbooking.StatusCompleted {
		return nil, domainreview.ErrBookingNotCompleted
	}

	now := time.Now().UTC()
	rev, err := domainreview.Submit(domainreview.SubmitParams{
		ID:         domainreview.ReviewID(cmd.CommandID),
		BookingID:  b.ID,
		RenterID:   b.RenterID,
		PropertyID: b.PropertyID,
		Rating:     cmd.Rating,
		Comment:    cmd.Comment,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reviews().Save(ctx, rev); err != nil {
		return nil, err
	}
	b.AttachReview(string(rev.ID), now)
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := rev.PendingEvents()
	rev.ClearEvents()
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
		h.Logger.Info("review submitted", "review_id", rev.ID, "booking_id", b.ID, "rating", rev.Rating)
	}

	result := dto.MapReview(rev)
	return &result, nil
}

var _ commands.Handler[SubmitReviewCommand, *dto.Review] = (*SubmitReviewHandler)(nil)
var _ middleware.IdempotentCommand = (*SubmitReviewCommand)(nil)
