package pricing

import (
	"errors"
	"testing"
	"time"

	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name       string
		rate       money.Money
		start, end time.Time
		want       money.Money
		wantErr    error
	}{
		{"five day stay", money.Must(10000, "USD"), day(2024, 1, 1), day(2024, 1, 5), money.Must(50000, "USD"), nil},
		{"single day counts once", money.Must(10000, "USD"), day(2024, 1, 1), day(2024, 1, 1), money.Must(10000, "USD"), nil},
		{"zero rate", money.Must(0, "EUR"), day(2024, 1, 1), day(2024, 1, 3), money.Must(0, "EUR"), nil},
		{"end before start", money.Must(10000, "USD"), day(2024, 1, 5), day(2024, 1, 1), money.Money{}, daterange.ErrEndBeforeStart},
		{"missing currency", money.Money{Amount: 100}, day(2024, 1, 1), day(2024, 1, 2), money.Money{}, money.ErrInvalidCurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.rate, tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Quote() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Quote() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuoteRangeKeepsCurrency(t *testing.T) {
	dr, err := daterange.New(day(2024, 3, 10), day(2024, 3, 12))
	if err != nil {
		t.Fatalf("daterange.New() error = %v", err)
	}
	got, err := QuoteRange(money.Must(7500, "GBP"), dr)
	if err != nil {
		t.Fatalf("QuoteRange() error = %v", err)
	}
	if got.Currency != "GBP" || got.Amount != 22500 {
		t.Errorf("QuoteRange() = %+v, want 22500 GBP", got)
	}
}
