package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentify/internal/domain/booking"
	"rentify/internal/domain/property"
	"rentify/internal/domain/shared/events"
)

var (
	ErrNotFound            = errors.New("review: not found")
	ErrDuplicate           = errors.New("review: already exists for this booking")
	ErrInvalidRating       = errors.New("review: rating must be between 1 and 5")
	ErrNotAuthor           = errors.New("review: requester is not the author")
	ErrBookingNotCompleted = errors.New("review: booking must be completed first")
)

type ReviewID string

// Review is feedback for a concluded stay, 1:1 with its booking. RenterID
// and PropertyID are copied from the booking when the review is created.
type Review struct {
	ID         ReviewID
	BookingID  booking.BookingID
	RenterID   string
	PropertyID property.PropertyID
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Review, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id ReviewID) error
	ListByRenter(ctx context.Context, renterID string) ([]*Review, error)
	ListByProperty(ctx context.Context, propertyID property.PropertyID) ([]*Review, error)
}

type SubmitParams struct {
	ID         ReviewID
	BookingID  booking.BookingID
	RenterID   string
	PropertyID property.PropertyID
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if err := validateRating(params.Rating); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	r := &Review{
		ID:         params.ID,
		BookingID:  params.BookingID,
		RenterID:   params.RenterID,
		PropertyID: params.PropertyID,
		Rating:     params.Rating,
		Comment:    strings.TrimSpace(params.Comment),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.Record(ReviewSubmitted{ReviewID: r.ID, BookingID: r.BookingID, PropertyID: r.PropertyID, Rating: r.Rating, At: now})
	return r, nil
}

// Update replaces rating and comment together.
func (r *Review) Update(rating int, comment string, now time.Time) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)
	r.touch(now)
	return nil
}

func (r *Review) UpdateRating(rating int, now time.Time) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	r.Rating = rating
	r.touch(now)
	return nil
}

func (r *Review) UpdateComment(comment string, now time.Time) {
	r.Comment = strings.TrimSpace(comment)
	r.touch(now)
}

// IsAuthor reports whether the review was written by the given renter.
func (r *Review) IsAuthor(renterID string) bool {
	return r.RenterID == renterID
}

func (r *Review) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
