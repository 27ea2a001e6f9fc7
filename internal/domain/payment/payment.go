package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentify/internal/domain/booking"
	"rentify/internal/domain/shared/events"
	"rentify/internal/domain/shared/money"
)

var (
	ErrNotFound       = errors.New("payment: not found")
	ErrDuplicate      = errors.New("payment: already exists for this booking")
	ErrAmountMismatch = errors.New("payment: amount does not match booking total price")
	ErrUnknownMethod  = errors.New("payment: unknown payment method")
	ErrUnknownStatus  = errors.New("payment: unknown payment status")
)

type PaymentID string

type Method string

const (
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodPayPal       Method = "PAYPAL"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCash         Method = "CASH"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

func ParseMethod(raw string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(raw))) {
	case MethodCreditCard:
		return MethodCreditCard, nil
	case MethodPayPal:
		return MethodPayPal, nil
	case MethodBankTransfer:
		return MethodBankTransfer, nil
	case MethodCash:
		return MethodCash, nil
	default:
		return "", ErrUnknownMethod
	}
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusFailed:
		return StatusFailed, nil
	case StatusRefunded:
		return StatusRefunded, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Payment settles exactly one booking. Amount is fixed to the booking's total
// price at creation; RenterID is copied from the booking, not client-supplied.
type Payment struct {
	ID             PaymentID
	BookingID      booking.BookingID
	RenterID       string
	Amount         money.Money
	Method         Method
	Status         Status
	TransactionRef string
	PaidAt         time.Time
	UpdatedAt      time.Time
	Version        int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id PaymentID) (*Payment, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Payment, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id PaymentID) error
	ListByRenter(ctx context.Context, renterID string) ([]*Payment, error)
	ListAll(ctx context.Context) ([]*Payment, error)
}

type CreateParams struct {
	ID             PaymentID
	BookingID      booking.BookingID
	RenterID       string
	Amount         money.Money
	Method         Method
	TransactionRef string
	PaidAt         time.Time
}

func New(params CreateParams) (*Payment, error) {
	if strings.TrimSpace(params.RenterID) == "" {
		return nil, errors.New("payment: renter id is required")
	}
	if _, err := ParseMethod(string(params.Method)); err != nil {
		return nil, err
	}
	if params.Amount.Currency == "" {
		return nil, money.ErrInvalidCurrency
	}
	now := params.PaidAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	p := &Payment{
		ID:             params.ID,
		BookingID:      params.BookingID,
		RenterID:       strings.TrimSpace(params.RenterID),
		Amount:         params.Amount,
		Method:         params.Method,
		Status:         StatusPending,
		TransactionRef: strings.TrimSpace(params.TransactionRef),
		PaidAt:         now,
		UpdatedAt:      now,
	}
	p.Record(PaymentCreated{PaymentID: p.ID, BookingID: p.BookingID, RenterID: p.RenterID, Amount: p.Amount, Method: p.Method, At: now})
	return p, nil
}

// ChangeStatus applies a new status. No transition graph is enforced here,
// only membership in the permitted enumeration; sequencing is deployment policy.
func (p *Payment) ChangeStatus(next Status, now time.Time) error {
	parsed, err := ParseStatus(string(next))
	if err != nil {
		return err
	}
	previous := p.Status
	p.Status = parsed
	p.touch(now)
	p.Record(PaymentStatusChanged{PaymentID: p.ID, BookingID: p.BookingID, From: previous, To: parsed, At: p.UpdatedAt})
	return nil
}

func (p *Payment) ChangeMethod(next Method, now time.Time) error {
	parsed, err := ParseMethod(string(next))
	if err != nil {
		return err
	}
	p.Method = parsed
	p.touch(now)
	return nil
}

// IsOwner reports whether the payment belongs to the given renter.
func (p *Payment) IsOwner(renterID string) bool {
	return p.RenterID == renterID
}

func (p *Payment) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}
