package outbox

import (
	"context"
	"time"
)

// EventDocument is a stored outbox entry awaiting publication.
type EventDocument struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
	Attempts   int
}

// Store hands pending documents to exactly one worker at a time. Claim
// returns nil when nothing is ready.
type Store interface {
	Claim(ctx context.Context, workerID string) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error
}
