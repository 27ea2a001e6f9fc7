package memory

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
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newBooking(t *testing.T, id, propertyID string, status domainbooking.Status, start, end time.Time) *domainbooking.Booking {
	t.Helper()
	dr, err := daterange.New(start, end)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		PropertyID: domainproperty.PropertyID(propertyID),
		RenterID:   "renter-1",
		Range:      dr,
		TotalPrice: money.Must(10000*dr.Days(), "USD"),
		CreatedAt:  start,
	})
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	b.Status = status
	b.ClearEvents()
	return b
}

func TestBookingOverlappingRange(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	seeds := []*domainbooking.Booking{
		newBooking(t, "bk-pending", "prop-1", domainbooking.StatusPending, day(2024, 1, 1), day(2024, 1, 5)),
		newBooking(t, "bk-cancelled", "prop-1", domainbooking.StatusCancelled, day(2024, 1, 3), day(2024, 1, 8)),
		newBooking(t, "bk-other", "prop-2", domainbooking.StatusPending, day(2024, 1, 1), day(2024, 1, 10)),
	}
	for _, b := range seeds {
		if err := repo.Save(ctx, b); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	dr, _ := daterange.New(day(2024, 1, 4), day(2024, 1, 6))
	got, err := repo.OverlappingRange(ctx, "prop-1", dr)
	if err != nil {
		t.Fatalf("OverlappingRange() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "bk-pending" {
		t.Errorf("OverlappingRange() = %d bookings, want only the pending one", len(got))
	}

	// a disjoint window must come back empty
	dr, _ = daterange.New(day(2024, 2, 1), day(2024, 2, 2))
	got, err = repo.OverlappingRange(ctx, "prop-1", dr)
	if err != nil {
		t.Fatalf("OverlappingRange() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("OverlappingRange() disjoint = %d bookings", len(got))
	}
}

func TestBookingListSortsNewestFirst(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	for _, b := range []*domainbooking.Booking{
		newBooking(t, "bk-old", "prop-1", domainbooking.StatusPending, day(2024, 1, 1), day(2024, 1, 2)),
		newBooking(t, "bk-new", "prop-1", domainbooking.StatusPending, day(2024, 3, 1), day(2024, 3, 2)),
	} {
		if err := repo.Save(ctx, b); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.ListByRenter(ctx, "renter-1")
	if err != nil {
		t.Fatalf("ListByRenter() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "bk-new" || got[1].ID != "bk-old" {
		ids := make([]domainbooking.BookingID, 0, len(got))
		for _, b := range got {
			ids = append(ids, b.ID)
		}
		t.Errorf("ListByRenter() order = %v, want newest first", ids)
	}
}

func TestBookingSaveClones(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	b := newBooking(t, "bk-1", "prop-1", domainbooking.StatusPending, day(2024, 1, 1), day(2024, 1, 2))
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("save: %v", err)
	}

	// mutations after Save must not leak into the stored copy
	b.Status = domainbooking.StatusCancelled

	stored, err := repo.ByID(ctx, "bk-1")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if stored.Status != domainbooking.StatusPending {
		t.Errorf("stored Status = %s, want untouched PENDING", stored.Status)
	}
}

func TestPaymentBookingIndex(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()
	p, err := domainpayment.New(domainpayment.CreateParams{
		ID: "pay-1", BookingID: "bk-1", RenterID: "renter-1",
		Amount: money.Must(10000, "USD"), Method: domainpayment.MethodCreditCard,
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ByBooking(ctx, "bk-1")
	if err != nil {
		t.Fatalf("ByBooking() error = %v", err)
	}
	if got.ID != "pay-1" {
		t.Errorf("ByBooking() = %s", got.ID)
	}

	if err := repo.Delete(ctx, "pay-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.ByBooking(ctx, "bk-1"); !errors.Is(err, domainpayment.ErrNotFound) {
		t.Errorf("ByBooking() after delete = %v, want index cleared", err)
	}
}

func TestReviewBookingIndex(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	rev, err := domainreview.Submit(domainreview.SubmitParams{
		ID: "rev-1", BookingID: "bk-1", RenterID: "renter-1", PropertyID: "prop-1", Rating: 4,
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if err := repo.Save(ctx, rev); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ByBooking(ctx, "bk-1")
	if err != nil {
		t.Fatalf("ByBooking() error = %v", err)
	}
	if got.ID != "rev-1" {
		t.Errorf("ByBooking() = %s", got.ID)
	}

	if err := repo.Delete(ctx, "rev-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.ByBooking(ctx, "bk-1"); !errors.Is(err, domainreview.ErrNotFound) {
		t.Errorf("ByBooking() after delete = %v, want index cleared", err)
	}
}

func TestUserByUsernameCaseInsensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	if err := repo.Save(ctx, &domainuser.User{ID: "user-1", Username: "Alice", Email: "a@b.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, name := range []string{"alice", "ALICE", "  Alice  "} {
		got, err := repo.ByUsername(ctx, name)
		if err != nil {
			t.Fatalf("ByUsername(%q) error = %v", name, err)
		}
		if got.ID != "user-1" {
			t.Errorf("ByUsername(%q) = %s", name, got.ID)
		}
	}
	if _, err := repo.ByUsername(ctx, "bob"); !errors.Is(err, domainuser.ErrNotFound) {
		t.Errorf("ByUsername(bob) = %v, want %v", err, domainuser.ErrNotFound)
	}
}
