package review

import (
	"time"

	"rentify/internal/domain/booking"
	"rentify/internal/domain/property"
)

type ReviewSubmitted struct {
	ReviewID   ReviewID
	BookingID  booking.BookingID
	PropertyID property.PropertyID
	Rating     int
	At         time.Time
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }

type ReviewDeleted struct {
	ReviewID  ReviewID
	BookingID booking.BookingID
	At        time.Time
}

func (e ReviewDeleted) EventName() string     { return "review.deleted" }
func (e ReviewDeleted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewDeleted) OccurredAt() time.Time { return e.At }
