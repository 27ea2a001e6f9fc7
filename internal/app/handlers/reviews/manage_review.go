package reviews

import (
	"context"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/outbox"
	"rentify/internal/app/uow"
	domainreview "rentify/internal/domain/review"
)

const (
	updateReviewKey        = "reviews.update"
	updateReviewRatingKey  = "reviews.update_rating"
	updateReviewCommentKey = "reviews.update_comment"
	deleteReviewKey        = "reviews.delete"
)

// UpdateReviewCommand replaces rating and comment together. Only the author
// may edit.
type UpdateReviewCommand struct {
	ReviewID string
	RenterID string
	Rating   int
	Comment  string
}

func (c UpdateReviewCommand) Key() string { return updateReviewKey }

type UpdateReviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdateReviewHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) (dto.Review, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Review{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	rev, err := unit.Reviews().ByID(execCtx, domainreview.ReviewID(cmd.ReviewID))
	if err != nil {
		return dto.Review{}, err
	}
	if !rev.IsAuthor(cmd.RenterID) {
		return dto.Review{}, domainreview.ErrNotAuthor
	}
	if err := rev.Update(cmd.Rating, cmd.Comment, time.Now()); err != nil {
		return dto.Review{}, err
	}
	if err := unit.Reviews().Save(execCtx, rev); err != nil {
		return dto.Review{}, err
	}

	if err := done(true); err != nil {
		return dto.Review{}, err
	}
	committed = true
	return dto.MapReview(rev), nil
}

type UpdateReviewRatingCommand struct {
	ReviewID string
	RenterID string
	Rating   int
}

func (c UpdateReviewRatingCommand) Key() string { return updateReviewRatingKey }

type UpdateReviewRatingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdateReviewRatingHandler) Handle(ctx context.Context, cmd UpdateReviewRatingCommand) (dto.Review, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Review{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	rev, err := unit.Reviews().ByID(execCtx, domainreview.ReviewID(cmd.ReviewID))
	if err != nil {
		return dto.Review{}, err
	}
	if !rev.IsAuthor(cmd.RenterID) {
		return dto.Review{}, domainreview.ErrNotAuthor
	}
	if err := rev.UpdateRating(cmd.Rating, time.Now()); err != nil {
		return dto.Review{}, err
	}
	if err := unit.Reviews().Save(execCtx, rev); err != nil {
		return dto.Review{}, err
	}

	if err := done(true); err != nil {
		return dto.Review{}, err
	}
	committed = true
	return dto.MapReview(rev), nil
}

type UpdateReviewCommentCommand struct {
	ReviewID string
	RenterID string
	Comment  string
}

func (c UpdateReviewCommentCommand) Key() string { return updateReviewCommentKey }

type UpdateReviewCommentHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdateReviewCommentHandler) Handle(ctx context.Context, cmd UpdateReviewCommentCommand) (dto.Review, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Review{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	rev, err := unit.Reviews().ByID(execCtx, domainreview.ReviewID(cmd.ReviewID))
	if err != nil {
		return dto.Review{}, err
	}
	if !rev.IsAuthor(cmd.RenterID) {
		return dto.Review{}, domainreview.ErrNotAuthor
	}
	rev.UpdateComment(cmd.Comment, time.Now())
	if err := unit.Reviews().Save(execCtx, rev); err != nil {
		return dto.Review{}, err
	}

	if err := done(true); err != nil {
		return dto.Review{}, err
	}
	committed = true
	return dto.MapReview(rev), nil
}

// DeleteReviewCommand removes a review and clears the booking's back-reference.
// Only the author may delete.
type DeleteReviewCommand struct {
	ReviewID string
	RenterID string
}

func (c DeleteReviewCommand) Key() string { return deleteReviewKey }

type DeleteReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) (struct{}, error) {
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

	rev, err := unit.Reviews().ByID(execCtx, domainreview.ReviewID(cmd.ReviewID))
	if err != nil {
		return struct{}{}, err
	}
	if !rev.IsAuthor(cmd.RenterID) {
		return struct{}{}, domainreview.ErrNotAuthor
	}
	if err := unit.Reviews().Delete(execCtx, rev.ID); err != nil {
		return struct{}{}, err
	}
	now := time.Now()
	if b, err := unit.Bookings().ByID(execCtx, rev.BookingID); err == nil {
		b.ClearReview(now)
		if err := unit.Bookings().Save(execCtx, b); err != nil {
			return struct{}{}, err
		}
	}

	rev.Record(domainreview.ReviewDeleted{ReviewID: rev.ID, BookingID: rev.BookingID, At: now.UTC()})
	pending := rev.PendingEvents()
	rev.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return struct{}{}, err
	}

	if err := done(true); err != nil {
		return struct{}{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("review deleted", "review_id", rev.ID, "booking_id", rev.BookingID)
	}
	return struct{}{}, nil
}

var _ commands.Handler[UpdateReviewCommand, dto.Review] = (*UpdateReviewHandler)(nil)
var _ commands.Handler[UpdateReviewRatingCommand, dto.Review] = (*UpdateReviewRatingHandler)(nil)
var _ commands.Handler[UpdateReviewCommentCommand, dto.Review] = (*UpdateReviewCommentHandler)(nil)
var _ commands.Handler[DeleteReviewCommand, struct{}] = (*DeleteReviewHandler)(nil)
