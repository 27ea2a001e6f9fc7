package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubStore struct {
	docs   []*EventDocument
	sent   []string
	failed []string
}

func (s *stubStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(s.docs) == 0 {
		return nil, nil
	}
	doc := s.docs[0]
	s.docs = s.docs[1:]
	return doc, nil
}

func (s *stubStore) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubStore) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubProducer struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
	err     error
}

func (p *stubProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	p.topic = topic
	p.key = key
	p.payload = payload
	p.headers = headers
	return p.err
}

func TestTopicFor(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		event  string
		want   string
	}{
		{"booking event", "", "booking.created", "booking.events.v1"},
		{"payment event", "", "payment.status_changed", "payment.events.v1"},
		{"no dot", "", "ping", "ping.events.v1"},
		{"prefixed", "staging.", "review.submitted", "staging.review.events.v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Worker{TopicPrefix: tt.prefix}
			if got := w.topicFor(tt.event); got != tt.want {
				t.Errorf("topicFor(%q) = %q, want %q", tt.event, got, tt.want)
			}
		})
	}
}

func TestProcessOncePublishes(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &stubStore{docs: []*EventDocument{{
		ID:         "evt-1",
		Name:       "booking.created",
		Aggregate:  "bk-1",
		Payload:    []byte(`{"booking_id":"bk-1"}`),
		OccurredAt: occurred,
	}}}
	producer := &stubProducer{}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1", Source: "app://test"}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if len(store.sent) != 1 || store.sent[0] != "evt-1" {
		t.Errorf("sent = %v", store.sent)
	}
	if producer.topic != "booking.events.v1" || producer.key != "bk-1" {
		t.Errorf("published to %q with key %q", producer.topic, producer.key)
	}
	if producer.headers["content-type"] != "application/cloudevents+json" {
		t.Errorf("headers = %v", producer.headers)
	}

	var evt map[string]any
	if err := json.Unmarshal(producer.payload, &evt); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if evt["specversion"] != "1.0" {
		t.Errorf("specversion = %v", evt["specversion"])
	}
	if evt["type"] != "booking.created.v1" {
		t.Errorf("type = %v", evt["type"])
	}
	if evt["source"] != "app://test" {
		t.Errorf("source = %v", evt["source"])
	}
	data, ok := evt["data"].(map[string]any)
	if !ok || data["booking_id"] != "bk-1" {
		t.Errorf("data = %v", evt["data"])
	}
}

func TestProcessOnceMarksFailedOnPublishError(t *testing.T) {
	store := &stubStore{docs: []*EventDocument{{
		ID:      "evt-1",
		Name:    "payment.created",
		Payload: []byte(`{}`),
	}}}
	producer := &stubProducer{err: errors.New("broker down")}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1"}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce() error = %v, publish failures must not stop the loop", err)
	}
	if len(store.failed) != 1 || store.failed[0] != "evt-1" {
		t.Errorf("failed = %v", store.failed)
	}
	if len(store.sent) != 0 {
		t.Errorf("sent = %v, want none", store.sent)
	}
}

func TestProcessOnceMarksFailedOnBadPayload(t *testing.T) {
	store := &stubStore{docs: []*EventDocument{{
		ID:      "evt-1",
		Name:    "review.submitted",
		Payload: []byte(`not json`),
	}}}
	w := &Worker{Store: store, Producer: &stubProducer{}, ID: "worker-1"}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if len(store.failed) != 1 {
		t.Errorf("failed = %v, want the malformed document parked", store.failed)
	}
}

func TestProcessOnceIdleQueue(t *testing.T) {
	store := &stubStore{}
	w := &Worker{Store: store, Producer: &stubProducer{}, ID: "worker-1"}
	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if len(store.sent) != 0 || len(store.failed) != 0 {
		t.Errorf("sent = %v, failed = %v", store.sent, store.failed)
	}
}

func TestNextRetryFollowsBackoff(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, time.Minute}}

	before := time.Now()
	first := w.nextRetry(0)
	if first.Before(before.Add(time.Second)) || first.After(before.Add(2*time.Second)) {
		t.Errorf("nextRetry(0) = %v, want about 1s out", first.Sub(before))
	}
	// attempts past the table reuse the last step
	last := w.nextRetry(10)
	if last.Before(before.Add(time.Minute)) {
		t.Errorf("nextRetry(10) = %v, want the final backoff step", last.Sub(before))
	}
}

func TestRunRequiresDependencies(t *testing.T) {
	w := &Worker{}
	if err := w.Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Errorf("Run() error = %v, want %v", err, ErrWorkerNotConfigured)
	}
}
