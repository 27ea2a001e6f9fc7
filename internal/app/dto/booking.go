package dto

import (
	"time"

	domainbooking "rentify/internal/domain/booking"
)

// Booking represents a public booking payload.
type Booking struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	RenterID   string    `json:"renter_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice MoneyDTO  `json:"total_price"`
	Status     string    `json:"status"`
	PaymentID  string    `json:"payment_id,omitempty"`
	ReviewID   string    `json:"review_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

// MapBooking builds a DTO from a domain booking.
func MapBooking(b *domainbooking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		RenterID:   b.RenterID,
		StartDate:  b.Range.Start,
		EndDate:    b.Range.End,
		TotalPrice: MapMoney(b.TotalPrice),
		Status:     string(b.Status),
		PaymentID:  b.PaymentID,
		ReviewID:   b.ReviewID,
		CreatedAt:  b.CreatedAt,
	}
}

func MapBookingCollection(items []*domainbooking.Booking) BookingCollection {
	out := BookingCollection{Items: make([]Booking, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, MapBooking(b))
	}
	return out
}
