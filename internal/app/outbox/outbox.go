package outbox

import (
	"context"
	"encoding/json"
	"time"

	"rentify/internal/domain/shared/events"
)

// EventRecord is the serialized form of a domain event awaiting publication.
type EventRecord struct {
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Outbox stores event records within the surrounding transaction so that
// publication cannot outrun a rolled-back state change.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

// EventEncoder turns a domain event into a record payload.
type EventEncoder interface {
	Encode(event events.Event) (EventRecord, error)
}

// JSONEventEncoder marshals the event struct as-is.
type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(event events.Event) (EventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		Name:       event.EventName(),
		Aggregate:  event.AggregateID(),
		Payload:    payload,
		OccurredAt: event.OccurredAt(),
	}, nil
}

// RecordDomainEvents encodes and stores each pending event. A nil outbox is
// a no-op so handlers can run without messaging configured.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, pending []events.Event) error {
	if box == nil || len(pending) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, event := range pending {
		record, err := encoder.Encode(event)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
