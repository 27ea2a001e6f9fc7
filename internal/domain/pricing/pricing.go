package pricing

import (
	"time"

	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/money"
)

// Quote derives the total price for an inclusive stay: rate × (days between
// start and end, both counted). The result keeps the rate's scale and
// currency; no floating point is involved. Fails with
// daterange.ErrEndBeforeStart when end < start.
func Quote(ratePerDay money.Money, start, end time.Time) (money.Money, error) {
	dr, err := daterange.New(start, end)
	if err != nil {
		return money.Money{}, err
	}
	return QuoteRange(ratePerDay, dr)
}

// QuoteRange prices an already validated range.
func QuoteRange(ratePerDay money.Money, dr daterange.DateRange) (money.Money, error) {
	if ratePerDay.Currency == "" {
		return money.Money{}, money.ErrInvalidCurrency
	}
	return ratePerDay.Multiply(dr.Days()), nil
}
