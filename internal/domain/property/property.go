package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentify/internal/domain/shared/money"
)

var (
	ErrNotFound      = errors.New("property: not found")
	ErrNotAvailable  = errors.New("property: not available for booking")
	ErrOwnerRequired = errors.New("property: owner id is required")
	ErrTitleRequired = errors.New("property: title is required")
	ErrNegativeRate  = errors.New("property: rate per day must be non-negative")
	ErrInvalidType   = errors.New("property: invalid property type")
)

type PropertyID string

type Type string

const (
	TypeApartment Type = "APARTMENT"
	TypeHouse     Type = "HOUSE"
	TypeStudio    Type = "STUDIO"
	TypeVilla     Type = "VILLA"
	TypeLoft      Type = "LOFT"
	TypePenthouse Type = "PENTHOUSE"
)

// ParseType normalizes a raw property type string.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeApartment:
		return TypeApartment, nil
	case TypeHouse:
		return TypeHouse, nil
	case TypeStudio:
		return TypeStudio, nil
	case TypeVilla:
		return TypeVilla, nil
	case TypeLoft:
		return TypeLoft, nil
	case TypePenthouse:
		return TypePenthouse, nil
	default:
		return "", ErrInvalidType
	}
}

// Property is a rentable unit. Available is an owner-controlled listing
// toggle: it gates new bookings only and is independent of the date-range
// conflict check.
type Property struct {
	ID          PropertyID
	OwnerID     string
	Title       string
	Description string
	Type        Type
	RatePerDay  money.Money
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id PropertyID) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Property, error)
}

type CreateParams struct {
	ID          PropertyID
	OwnerID     string
	Title       string
	Description string
	Type        Type
	RatePerDay  money.Money
	Available   bool
	CreatedAt   time.Time
}

func New(params CreateParams) (*Property, error) {
	if strings.TrimSpace(params.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if _, err := parseKnownType(params.Type); err != nil {
		return nil, err
	}
	if err := validateRate(params.RatePerDay); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Property{
		ID:          params.ID,
		OwnerID:     strings.TrimSpace(params.OwnerID),
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Type:        params.Type,
		RatePerDay:  params.RatePerDay,
		Available:   params.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ChangeRate updates the per-day rate. Existing bookings keep the price they
// were created with; a rate change is never propagated backwards.
func (p *Property) ChangeRate(rate money.Money, now time.Time) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	p.RatePerDay = rate
	p.touch(now)
	return nil
}

// SetAvailability flips the listing toggle. It does not reconcile against
// existing bookings: a re-enabled property keeps its booked ranges as-is.
func (p *Property) SetAvailability(available bool, now time.Time) {
	p.Available = available
	p.touch(now)
}

func (p *Property) UpdateDescription(description string, now time.Time) {
	p.Description = strings.TrimSpace(description)
	p.touch(now)
}

// IsOwner is the capability check the transport layer consults before
// invoking owner-only mutations.
func (p *Property) IsOwner(userID string) bool {
	return p.OwnerID == userID
}

func (p *Property) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}

func validateRate(rate money.Money) error {
	if rate.Currency == "" {
		return money.ErrInvalidCurrency
	}
	if rate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

func parseKnownType(t Type) (Type, error) {
	return ParseType(string(t))
}
