package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "rentify/internal/domain/booking"
	domainproperty "rentify/internal/domain/property"
	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/money"
	domainuser "rentify/internal/domain/user"
	"rentify/internal/infra/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newFixture seeds an owner, a renter and one available property at 100.00
// USD per day.
func newFixture(t *testing.T) *memory.Factory {
	t.Helper()
	f := memory.NewFactory()
	ctx := context.Background()

	for _, u := range []*domainuser.User{
		{ID: "owner-1", Username: "owner", Email: "owner@example.com", CreatedAt: day(2023, 1, 1)},
		{ID: "renter-1", Username: "renter", Email: "renter@example.com", CreatedAt: day(2023, 1, 1)},
		{ID: "renter-2", Username: "renter2", Email: "renter2@example.com", CreatedAt: day(2023, 1, 1)},
	} {
		if err := f.UserRepo.Save(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:         "prop-1",
		OwnerID:    "owner-1",
		Title:      "Canal view apartment",
		Type:       domainproperty.TypeApartment,
		RatePerDay: money.Must(10000, "USD"),
		Available:  true,
		CreatedAt:  day(2023, 6, 1),
	})
	if err != nil {
		t.Fatalf("seed property: %v", err)
	}
	if err := f.PropertyRepo.Save(ctx, prop); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return f
}

func seedBooking(t *testing.T, f *memory.Factory, id string, status domainbooking.Status, start, end time.Time) *domainbooking.Booking {
	t.Helper()
	dr, err := daterange.New(start, end)
	if err != nil {
		t.Fatalf("seed booking range: %v", err)
	}
	total := money.Must(10000*dr.Days(), "USD")
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		PropertyID: "prop-1",
		RenterID:   "renter-1",
		Range:      dr,
		TotalPrice: total,
		CreatedAt:  start,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	b.Status = status
	b.ClearEvents()
	if err := f.BookingRepo.Save(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func TestCreateBookingComputesPrice(t *testing.T) {
	f := newFixture(t)
	h := &CreateBookingHandler{UoWFactory: f}

	got, err := h.Handle(context.Background(), CreateBookingCommand{
		CommandID:  "bk-1",
		PropertyID: "prop-1",
		RenterID:   "renter-1",
		StartDate:  day(2024, 1, 1),
		EndDate:    day(2024, 1, 5),
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.TotalPrice.Amount != 50000 || got.TotalPrice.Currency != "USD" {
		t.Errorf("TotalPrice = %+v, want 50000 USD", got.TotalPrice)
	}
	if got.Status != string(domainbooking.StatusPending) {
		t.Errorf("Status = %s, want PENDING", got.Status)
	}

	stored, err := f.BookingRepo.ByID(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("stored booking missing: %v", err)
	}
	if !stored.TotalPrice.Equal(money.Must(50000, "USD")) {
		t.Errorf("stored TotalPrice = %+v", stored.TotalPrice)
	}
}

func TestCreateBookingConflicts(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		wantErr    error
	}{
		{"overlapping tail", day(2024, 1, 4), day(2024, 1, 10), domainbooking.ErrDatesConflict},
		{"touching end day", day(2024, 1, 5), day(2024, 1, 7), domainbooking.ErrDatesConflict},
		{"contained", day(2024, 1, 2), day(2024, 1, 3), domainbooking.ErrDatesConflict},
		{"disjoint after", day(2024, 1, 6), day(2024, 1, 10), nil},
		{"disjoint before", day(2023, 12, 20), day(2023, 12, 31), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			seedBooking(t, f, "existing", domainbooking.StatusPending, day(2024, 1, 1), day(2024, 1, 5))
			h := &CreateBookingHandler{UoWFactory: f}

			_, err := h.Handle(context.Background(), CreateBookingCommand{
				CommandID:  "bk-new",
				PropertyID: "prop-1",
				RenterID:   "renter-1",
				StartDate:  tt.start,
				EndDate:    tt.end,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Handle() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBookingCancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	seedBooking(t, f, "cancelled", domainbooking.StatusCancelled, day(2024, 1, 1), day(2024, 1, 5))
	h := &CreateBookingHandler{UoWFactory: f}

	_, err := h.Handle(context.Background(), CreateBookingCommand{
		CommandID:  "bk-new",
		PropertyID: "prop-1",
		RenterID:   "renter-1",
		StartDate:  day(2024, 1, 2),
		EndDate:    day(2024, 1, 4),
	})
	if err != nil {
		t.Errorf("Handle() over cancelled booking error = %v", err)
	}
}

func TestCreateBookingUnavailableProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop, _ := f.PropertyRepo.ByID(ctx, "prop-1")
	prop.SetAvailability(false, day(2024, 1, 1))
	if err := f.PropertyRepo.Save(ctx, prop); err != nil {
		t.Fatalf("save property: %v", err)
	}
	h := &CreateBookingHandler{UoWFactory: f}

	_, err := h.Handle(ctx, CreateBookingCommand{
		CommandID:  "bk-1",
		PropertyID: "prop-1",
		RenterID:   "renter-1",
		StartDate:  day(2024, 1, 1),
		EndDate:    day(2024, 1, 5),
	})
	if !errors.Is(err, domainproperty.ErrNotAvailable) {
		t.Errorf("Handle() error = %v, want %v", err, domainproperty.ErrNotAvailable)
	}
}

func TestCreateBookingMissingReferences(t *testing.T) {
	f := newFixture(t)
	h := &CreateBookingHandler{UoWFactory: f}
	ctx := context.Background()

	_, err := h.Handle(ctx, CreateBookingCommand{
		CommandID: "bk-1", PropertyID: "ghost", RenterID: "renter-1",
		StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 2),
	})
	if !errors.Is(err, domainproperty.ErrNotFound) {
		t.Errorf("unknown property error = %v, want %v", err, domainproperty.ErrNotFound)
	}

	_, err = h.Handle(ctx, CreateBookingCommand{
		CommandID: "bk-1", PropertyID: "prop-1", RenterID: "ghost",
		StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 2),
	})
	if !errors.Is(err, domainuser.ErrNotFound) {
		t.Errorf("unknown renter error = %v, want %v", err, domainuser.ErrNotFound)
	}
}

func TestCreateBookingEndBeforeStart(t *testing.T) {
	f := newFixture(t)
	h := &CreateBookingHandler{UoWFactory: f}

	_, err := h.Handle(context.Background(), CreateBookingCommand{
		CommandID:  "bk-1",
		PropertyID: "prop-1",
		RenterID:   "renter-1",
		StartDate:  day(2024, 1, 5),
		EndDate:    day(2024, 1, 1),
	})
	if !errors.Is(err, daterange.ErrEndBeforeStart) {
		t.Errorf("Handle() error = %v, want %v", err, daterange.ErrEndBeforeStart)
	}
}
