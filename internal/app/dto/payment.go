package dto

import (
	"time"

	domainpayment "rentify/internal/domain/payment"
)

// Payment represents a public payment payload.
type Payment struct {
	ID             string    `json:"id"`
	BookingID      string    `json:"booking_id"`
	RenterID       string    `json:"renter_id"`
	Amount         MoneyDTO  `json:"amount"`
	Method         string    `json:"method"`
	Status         string    `json:"status"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	PaidAt         time.Time `json:"paid_at"`
}

type PaymentCollection struct {
	Items []Payment `json:"items"`
}

// PaymentTotal is the result of an aggregate sum.
type PaymentTotal struct {
	Total MoneyDTO `json:"total"`
	Count int      `json:"count"`
}

// MapPayment builds a DTO from a domain payment.
func MapPayment(p *domainpayment.Payment) Payment {
	if p == nil {
		return Payment{}
	}
	return Payment{
		ID:             string(p.ID),
		BookingID:      string(p.BookingID),
		RenterID:       p.RenterID,
		Amount:         MapMoney(p.Amount),
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		PaidAt:         p.PaidAt,
	}
}

func MapPaymentCollection(items []*domainpayment.Payment) PaymentCollection {
	out := PaymentCollection{Items: make([]Payment, 0, len(items))}
	for _, p := range items {
		out.Items = append(out.Items, MapPayment(p))
	}
	return out
}
