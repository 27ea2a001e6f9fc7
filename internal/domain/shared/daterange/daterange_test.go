package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	if _, err := New(day(2024, 1, 5), day(2024, 1, 1)); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("New() error = %v, want %v", err, ErrEndBeforeStart)
	}

	// times of day are dropped, only the calendar date matters
	loc := time.FixedZone("X", 3*3600)
	dr, err := New(time.Date(2024, 1, 1, 15, 30, 0, 0, loc), time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !dr.Start.Equal(day(2024, 1, 1)) || !dr.End.Equal(day(2024, 1, 5)) {
		t.Errorf("New() = %+v, want UTC midnights", dr)
	}

	if _, err := New(day(2024, 1, 1), day(2024, 1, 1)); err != nil {
		t.Errorf("New() single-day range error = %v", err)
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int64
	}{
		{"single day", day(2024, 1, 1), day(2024, 1, 1), 1},
		{"five days inclusive", day(2024, 1, 1), day(2024, 1, 5), 5},
		{"across month boundary", day(2024, 1, 30), day(2024, 2, 2), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := New(tt.start, tt.end)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := dr.Days(); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base, _ := New(day(2024, 1, 1), day(2024, 1, 5))
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"overlapping tail", day(2024, 1, 4), day(2024, 1, 10), true},
		{"disjoint after", day(2024, 1, 6), day(2024, 1, 10), false},
		{"disjoint before", day(2023, 12, 20), day(2023, 12, 31), false},
		{"touching end day", day(2024, 1, 5), day(2024, 1, 7), true},
		{"touching start day", day(2023, 12, 30), day(2024, 1, 1), true},
		{"contained", day(2024, 1, 2), day(2024, 1, 3), true},
		{"containing", day(2023, 12, 1), day(2024, 2, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := New(tt.start, tt.end)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := base.Overlaps(other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps() not symmetric: reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	var zero DateRange
	if !zero.IsZero() {
		t.Error("IsZero() = false for zero value")
	}
	dr, _ := New(day(2024, 1, 1), day(2024, 1, 2))
	if dr.IsZero() {
		t.Error("IsZero() = true for populated range")
	}
}
