package dto

import (
	"time"

	domainproperty "rentify/internal/domain/property"
)

// Property represents a public property payload.
type Property struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	RatePerDay  MoneyDTO  `json:"rate_per_day"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

type PropertyCollection struct {
	Items []Property `json:"items"`
}

// MapProperty builds a DTO from a domain property.
func MapProperty(p *domainproperty.Property) Property {
	if p == nil {
		return Property{}
	}
	return Property{
		ID:          string(p.ID),
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Type:        string(p.Type),
		RatePerDay:  MapMoney(p.RatePerDay),
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
	}
}

func MapPropertyCollection(items []*domainproperty.Property) PropertyCollection {
	out := PropertyCollection{Items: make([]Property, 0, len(items))}
	for _, p := range items {
		out.Items = append(out.Items, MapProperty(p))
	}
	return out
}
