package booking

import (
	"time"

	"rentify/internal/domain/property"
	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/money"
)

type BookingCreated struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	RenterID   string
	Range      daterange.DateRange
	TotalPrice money.Money
	At         time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	At         time.Time
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	At         time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingRescheduled struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	Range      daterange.DateRange
	TotalPrice money.Money
	At         time.Time
}

func (e BookingRescheduled) EventName() string     { return "booking.rescheduled" }
func (e BookingRescheduled) AggregateID() string   { return string(e.BookingID) }
func (e BookingRescheduled) OccurredAt() time.Time { return e.At }

type BookingDeleted struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	At         time.Time
}

func (e BookingDeleted) EventName() string     { return "booking.deleted" }
func (e BookingDeleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingDeleted) OccurredAt() time.Time { return e.At }
