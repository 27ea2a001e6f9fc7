package memory

import (
	"context"
	"testing"
	"time"

	appoutbox "rentify/internal/app/outbox"
)

func TestOutboxClaimLifecycle(t *testing.T) {
	store := NewOutboxStore()
	ctx := context.Background()

	for _, name := range []string{"booking.created", "payment.created"} {
		err := store.Add(ctx, appoutbox.EventRecord{
			Name:       name,
			Aggregate:  "booking",
			Payload:    []byte(`{}`),
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}
	if got := store.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}

	doc, err := store.Claim(ctx, "worker-1")
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if doc == nil || doc.Name != "booking.created" {
		t.Fatalf("Claim() = %+v, want the oldest document", doc)
	}
	// a claimed document still counts as pending until acknowledged
	if got := store.Pending(); got != 2 {
		t.Errorf("Pending() after claim = %d, want 2", got)
	}

	if err := store.MarkSent(ctx, doc.ID); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}
	if got := store.Pending(); got != 1 {
		t.Errorf("Pending() after send = %d, want 1", got)
	}
}

func TestOutboxMarkFailedRequeues(t *testing.T) {
	store := NewOutboxStore()
	ctx := context.Background()

	if err := store.Add(ctx, appoutbox.EventRecord{Name: "review.submitted", Aggregate: "review", OccurredAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	doc, err := store.Claim(ctx, "worker-1")
	if err != nil || doc == nil {
		t.Fatalf("Claim() = %v, %v", doc, err)
	}

	if err := store.MarkFailed(ctx, doc.ID, time.Now().Add(time.Minute), "broker down"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}

	again, err := store.Claim(ctx, "worker-1")
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if again == nil || again.ID != doc.ID {
		t.Fatalf("Claim() after failure = %+v, want the same document requeued", again)
	}
	if again.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", again.Attempts)
	}
}

func TestOutboxClaimEmpty(t *testing.T) {
	store := NewOutboxStore()
	doc, err := store.Claim(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if doc != nil {
		t.Errorf("Claim() = %+v, want nil on empty queue", doc)
	}
}
