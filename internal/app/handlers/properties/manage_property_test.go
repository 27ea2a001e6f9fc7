package properties

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/money"
	domainuser "rentify/internal/domain/user"
	"rentify/internal/infra/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *memory.Factory {
	t.Helper()
	f := memory.NewFactory()
	ctx := context.Background()

	for _, u := range []*domainuser.User{
		{ID: "owner-1", Username: "owner", Email: "owner@example.com", CreatedAt: day(2023, 1, 1)},
		{ID: "renter-1", Username: "renter", Email: "renter@example.com", CreatedAt: day(2023, 1, 1)},
	} {
		if err := f.UserRepo.Save(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID: "prop-1", OwnerID: "owner-1", Title: "Studio downtown", Type: domainproperty.TypeStudio,
		RatePerDay: money.Must(10000, "USD"), Available: true, CreatedAt: day(2023, 6, 1),
	})
	if err != nil {
		t.Fatalf("seed property: %v", err)
	}
	if err := f.PropertyRepo.Save(ctx, prop); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return f
}

func seedBooking(t *testing.T, f *memory.Factory, id string, start, end time.Time) {
	t.Helper()
	dr, err := daterange.New(start, end)
	if err != nil {
		t.Fatalf("seed booking range: %v", err)
	}
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID: domainbooking.BookingID(id), PropertyID: "prop-1", RenterID: "renter-1",
		Range: dr, TotalPrice: money.Must(10000*dr.Days(), "USD"), CreatedAt: start,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	b.ClearEvents()
	if err := f.BookingRepo.Save(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
}

func TestCreateProperty(t *testing.T) {
	f := newFixture(t)
	h := &CreatePropertyHandler{UoWFactory: f}

	got, err := h.Handle(context.Background(), CreatePropertyCommand{
		CommandID:  "prop-2",
		OwnerID:    "owner-1",
		Title:      "  Attic loft  ",
		Type:       domainproperty.TypeLoft,
		RatePerDay: money.Must(15000, "EUR"),
		Available:  true,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Title != "Attic loft" {
		t.Errorf("Title = %q, want trimmed", got.Title)
	}
	if !got.Available {
		t.Error("Available = false")
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	f := newFixture(t)
	h := &CreatePropertyHandler{UoWFactory: f}
	ctx := context.Background()

	_, err := h.Handle(ctx, CreatePropertyCommand{
		CommandID: "p", OwnerID: "ghost", Title: "x",
		Type: domainproperty.TypeHouse, RatePerDay: money.Must(1, "USD"),
	})
	if !errors.Is(err, domainuser.ErrNotFound) {
		t.Errorf("unknown owner error = %v, want %v", err, domainuser.ErrNotFound)
	}

	_, err = h.Handle(ctx, CreatePropertyCommand{
		CommandID: "p", OwnerID: "owner-1", Title: "x",
		Type: domainproperty.Type("CASTLE"), RatePerDay: money.Must(1, "USD"),
	})
	if !errors.Is(err, domainproperty.ErrInvalidType) {
		t.Errorf("invalid type error = %v, want %v", err, domainproperty.ErrInvalidType)
	}

	_, err = h.Handle(ctx, CreatePropertyCommand{
		CommandID: "p", OwnerID: "owner-1", Title: "x",
		Type: domainproperty.TypeHouse, RatePerDay: money.Must(-1, "USD"),
	})
	if !errors.Is(err, domainproperty.ErrNegativeRate) {
		t.Errorf("negative rate error = %v, want %v", err, domainproperty.ErrNegativeRate)
	}
}

// Rate changes apply to future quotes only; already created bookings keep
// their original total.
func TestUpdateRateDoesNotRepriceBookings(t *testing.T) {
	f := newFixture(t)
	seedBooking(t, f, "bk-1", day(2024, 1, 1), day(2024, 1, 5))
	ctx := context.Background()

	h := &UpdatePropertyRateHandler{UoWFactory: f}
	got, err := h.Handle(ctx, UpdatePropertyRateCommand{PropertyID: "prop-1", RatePerDay: money.Must(20000, "USD")})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.RatePerDay.Amount != 20000 {
		t.Errorf("RatePerDay = %+v", got.RatePerDay)
	}

	b, err := f.BookingRepo.ByID(ctx, "bk-1")
	if err != nil {
		t.Fatalf("booking lookup: %v", err)
	}
	if !b.TotalPrice.Equal(money.Must(50000, "USD")) {
		t.Errorf("booking TotalPrice = %+v, want unchanged", b.TotalPrice)
	}
}

func TestSetAvailability(t *testing.T) {
	f := newFixture(t)
	h := &SetPropertyAvailabilityHandler{UoWFactory: f}
	ctx := context.Background()

	got, err := h.Handle(ctx, SetPropertyAvailabilityCommand{PropertyID: "prop-1", Available: false})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Available {
		t.Error("Available = true after disable")
	}

	got, err = h.Handle(ctx, SetPropertyAvailabilityCommand{PropertyID: "prop-1", Available: true})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !got.Available {
		t.Error("Available = false after re-enable")
	}
}

func TestDeletePropertyCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedBooking(t, f, "bk-1", day(2024, 1, 1), day(2024, 1, 5))
	seedBooking(t, f, "bk-2", day(2024, 2, 1), day(2024, 2, 3))

	pay, err := domainpayment.New(domainpayment.CreateParams{
		ID: "pay-1", BookingID: "bk-1", RenterID: "renter-1",
		Amount: money.Must(50000, "USD"), Method: domainpayment.MethodBankTransfer,
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	if err := f.PaymentRepo.Save(ctx, pay); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	rev, err := domainreview.Submit(domainreview.SubmitParams{
		ID: "rev-1", BookingID: "bk-1", RenterID: "renter-1", PropertyID: "prop-1", Rating: 3,
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}
	if err := f.ReviewRepo.Save(ctx, rev); err != nil {
		t.Fatalf("seed review: %v", err)
	}

	h := &DeletePropertyHandler{UoWFactory: f}
	if _, err := h.Handle(ctx, DeletePropertyCommand{PropertyID: "prop-1"}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if _, err := f.PropertyRepo.ByID(ctx, "prop-1"); !errors.Is(err, domainproperty.ErrNotFound) {
		t.Errorf("property still present: %v", err)
	}
	for _, id := range []domainbooking.BookingID{"bk-1", "bk-2"} {
		if _, err := f.BookingRepo.ByID(ctx, id); !errors.Is(err, domainbooking.ErrNotFound) {
			t.Errorf("booking %s survived the property: %v", id, err)
		}
	}
	if _, err := f.PaymentRepo.ByID(ctx, "pay-1"); !errors.Is(err, domainpayment.ErrNotFound) {
		t.Errorf("payment survived the property: %v", err)
	}
	if _, err := f.ReviewRepo.ByID(ctx, "rev-1"); !errors.Is(err, domainreview.ErrNotFound) {
		t.Errorf("review survived the property: %v", err)
	}
}

func TestDeletePropertyUnknown(t *testing.T) {
	f := newFixture(t)
	h := &DeletePropertyHandler{UoWFactory: f}
	if _, err := h.Handle(context.Background(), DeletePropertyCommand{PropertyID: "ghost"}); !errors.Is(err, domainproperty.ErrNotFound) {
		t.Errorf("Handle() error = %v, want %v", err, domainproperty.ErrNotFound)
	}
}
