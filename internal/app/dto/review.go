package dto

import (
	"time"

	domainreview "rentify/internal/domain/review"
)

// Review represents a public review payload.
type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	RenterID   string    `json:"renter_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
}

// MapReview builds a DTO from a domain review.
func MapReview(r *domainreview.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:         string(r.ID),
		BookingID:  string(r.BookingID),
		PropertyID: string(r.PropertyID),
		RenterID:   r.RenterID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func MapReviewCollection(items []*domainreview.Review) ReviewCollection {
	out := ReviewCollection{Items: make([]Review, 0, len(items))}
	for _, r := range items {
		out.Items = append(out.Items, MapReview(r))
	}
	return out
}
