package daterange

import (
	"errors"
	"time"
)

var ErrEndBeforeStart = errors.New("daterange: end date is before start date")

// DateRange is an inclusive calendar range: both Start and End are booked
// days. Times are normalized to UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New builds a range from two calendar dates, failing when end < start.
func New(start, end time.Time) (DateRange, error) {
	s := truncate(start)
	e := truncate(end)
	if e.Before(s) {
		return DateRange{}, ErrEndBeforeStart
	}
	return DateRange{Start: s, End: e}, nil
}

// Days returns the inclusive day count: [2024-01-01, 2024-01-01] is one day.
func (r DateRange) Days() int64 {
	return int64(r.End.Sub(r.Start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// IsZero reports an uninitialized range.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
