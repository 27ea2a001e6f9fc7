package reviews

import (
	"context"
	"errors"

	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	domainuser "rentify/internal/domain/user"
)

const (
	reviewByBookingKey    = "reviews.by_booking"
	listRenterReviewsKey  = "reviews.list_by_renter"
	listPropertyReviewKey = "reviews.list_by_property"
	isReviewOwnerKey      = "reviews.is_owner"
)

// ReviewByBookingQuery resolves the review left on a booking. The booking
// itself must exist.
type ReviewByBookingQuery struct {
	BookingID string
}

func (q ReviewByBookingQuery) Key() string { return reviewByBookingKey }

type ReviewByBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ReviewByBookingHandler) Handle(ctx context.Context, q ReviewByBookingQuery) (dto.Review, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Review{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.BookingID)); err != nil {
		return dto.Review{}, err
	}
	rev, err := unit.Reviews().ByBooking(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.Review{}, err
	}
	return dto.MapReview(rev), nil
}

type ListRenterReviewsQuery struct {
	RenterID string
}

func (q ListRenterReviewsQuery) Key() string { return listRenterReviewsKey }

type ListRenterReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRenterReviewsHandler) Handle(ctx context.Context, q ListRenterReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Reviews().ListByRenter(execCtx, q.RenterID)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return dto.MapReviewCollection(items), nil
}

// ListPropertyReviewsQuery returns the public review feed of a property.
type ListPropertyReviewsQuery struct {
	PropertyID string
}

func (q ListPropertyReviewsQuery) Key() string { return listPropertyReviewKey }

type ListPropertyReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPropertyReviewsHandler) Handle(ctx context.Context, q ListPropertyReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID)); err != nil {
		return dto.ReviewCollection{}, err
	}
	items, err := unit.Reviews().ListByProperty(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return dto.MapReviewCollection(items), nil
}

type IsReviewOwnerQuery struct {
	ReviewID string
	Username string
}

func (q IsReviewOwnerQuery) Key() string { return isReviewOwnerKey }

type IsReviewOwnerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *IsReviewOwnerHandler) Handle(ctx context.Context, q IsReviewOwnerQuery) (bool, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return false, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	rev, err := unit.Reviews().ByID(execCtx, domainreview.ReviewID(q.ReviewID))
	if err != nil {
		return false, err
	}
	renter, err := unit.Users().ByUsername(execCtx, q.Username)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rev.IsAuthor(string(renter.ID)), nil
}

var _ queries.Handler[ReviewByBookingQuery, dto.Review] = (*ReviewByBookingHandler)(nil)
var _ queries.Handler[ListRenterReviewsQuery, dto.ReviewCollection] = (*ListRenterReviewsHandler)(nil)
var _ queries.Handler[ListPropertyReviewsQuery, dto.ReviewCollection] = (*ListPropertyReviewsHandler)(nil)
var _ queries.Handler[IsReviewOwnerQuery, bool] = (*IsReviewOwnerHandler)(nil)
