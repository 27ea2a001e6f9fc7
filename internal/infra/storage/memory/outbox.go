package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "rentify/internal/app/outbox"
	infraoutbox "rentify/internal/infra/outbox"

	"github.com/google/uuid"
)

// OutboxStore keeps event records in memory and feeds the publisher worker.
type OutboxStore struct {
	mu      sync.Mutex
	queue   []*infraoutbox.EventDocument
	claimed map[string]*infraoutbox.EventDocument
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{claimed: make(map[string]*infraoutbox.EventDocument)}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, &infraoutbox.EventDocument{
		ID:         uuid.NewString(),
		Name:       record.Name,
		Aggregate:  record.Aggregate,
		Payload:    record.Payload,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt,
	})
	return nil
}

// Claim pops the oldest document. The claim is exclusive: the document leaves
// the queue and re-enters only via MarkFailed.
func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, nil
	}
	doc := s.queue[0]
	s.queue = s.queue[1:]
	s.claimed[doc.ID] = doc
	return doc, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, id)
	return nil
}

// MarkFailed requeues at the tail; nextRetry is not honored in memory mode.
func (s *OutboxStore) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.claimed[id]
	if !ok {
		return nil
	}
	delete(s.claimed, id)
	doc.Attempts++
	s.queue = append(s.queue, doc)
	return nil
}

// Pending reports the queue depth, used by readiness checks and tests.
func (s *OutboxStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) + len(s.claimed)
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
var _ infraoutbox.Store = (*OutboxStore)(nil)
