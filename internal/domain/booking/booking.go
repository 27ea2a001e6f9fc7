package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentify/internal/domain/property"
	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/events"
	"rentify/internal/domain/shared/money"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrDatesConflict     = errors.New("booking: property already booked for the selected dates")
	ErrRenterRequired    = errors.New("booking: renter id is required")
	ErrIllegalTransition = errors.New("booking: illegal status transition")
	ErrUnknownStatus     = errors.New("booking: unknown status")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus normalizes a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Booking reserves a property for an inclusive date range. TotalPrice is
// computed at creation and immutable afterwards; PaymentID and ReviewID are
// back-references maintained by the application layer (at most one each).
type Booking struct {
	ID         BookingID
	PropertyID property.PropertyID
	RenterID   string
	Range      daterange.DateRange
	TotalPrice money.Money
	Status     Status
	PaymentID  string
	ReviewID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id BookingID) error
	ListByRenter(ctx context.Context, renterID string) ([]*Booking, error)
	ListByProperty(ctx context.Context, propertyID property.PropertyID) ([]*Booking, error)
	// OverlappingRange returns non-cancelled bookings of the property whose
	// stored range intersects dr: stored.Start <= dr.End && stored.End >= dr.Start.
	OverlappingRange(ctx context.Context, propertyID property.PropertyID, dr daterange.DateRange) ([]*Booking, error)
}

type CreateParams struct {
	ID         BookingID
	PropertyID property.PropertyID
	RenterID   string
	Range      daterange.DateRange
	TotalPrice money.Money
	CreatedAt  time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(params.RenterID) == "" {
		return nil, ErrRenterRequired
	}
	if params.TotalPrice.Currency == "" {
		return nil, money.ErrInvalidCurrency
	}
	if params.TotalPrice.IsNegative() {
		return nil, errors.New("booking: total price must be non-negative")
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		RenterID:   strings.TrimSpace(params.RenterID),
		Range:      params.Range,
		TotalPrice: params.TotalPrice,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingCreated{BookingID: b.ID, PropertyID: b.PropertyID, RenterID: b.RenterID, Range: b.Range, TotalPrice: b.TotalPrice, At: now})
	return b, nil
}

// Complete marks the stay as concluded. Only pending bookings transition.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusPending {
		return ErrIllegalTransition
	}
	b.Status = StatusCompleted
	b.touch(now)
	b.Record(BookingCompleted{BookingID: b.ID, PropertyID: b.PropertyID, At: b.UpdatedAt})
	return nil
}

// Cancel voids a pending booking. Cancelled bookings no longer block the
// property's calendar but the record is kept.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status != StatusPending {
		return ErrIllegalTransition
	}
	b.Status = StatusCancelled
	b.touch(now)
	b.Record(BookingCancelled{BookingID: b.ID, PropertyID: b.PropertyID, At: b.UpdatedAt})
	return nil
}

// Transition applies a requested status change. COMPLETED and CANCELLED are
// terminal; the only legal moves are PENDING -> COMPLETED and PENDING -> CANCELLED.
func (b *Booking) Transition(next Status, now time.Time) error {
	switch next {
	case StatusCompleted:
		return b.Complete(now)
	case StatusCancelled:
		return b.Cancel(now)
	case StatusPending:
		return ErrIllegalTransition
	default:
		return ErrUnknownStatus
	}
}

// Reschedule moves the booking to a new range and recomputed price, resetting
// the status to pending. The caller re-runs the overlap check first.
func (b *Booking) Reschedule(dr daterange.DateRange, total money.Money, now time.Time) error {
	if total.Currency == "" {
		return money.ErrInvalidCurrency
	}
	b.Range = dr
	b.TotalPrice = total
	b.Status = StatusPending
	b.touch(now)
	b.Record(BookingRescheduled{BookingID: b.ID, PropertyID: b.PropertyID, Range: dr, TotalPrice: total, At: b.UpdatedAt})
	return nil
}

// IsOwner reports whether the booking belongs to the given renter.
func (b *Booking) IsOwner(renterID string) bool {
	return b.RenterID == renterID
}

func (b *Booking) AttachPayment(paymentID string, now time.Time) {
	b.PaymentID = paymentID
	b.touch(now)
}

func (b *Booking) ClearPayment(now time.Time) {
	b.PaymentID = ""
	b.touch(now)
}

func (b *Booking) AttachReview(reviewID string, now time.Time) {
	b.ReviewID = reviewID
	b.touch(now)
}

func (b *Booking) ClearReview(now time.Time) {
	b.ReviewID = ""
	b.touch(now)
}

func (b *Booking) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	b.UpdatedAt = now.UTC()
}
