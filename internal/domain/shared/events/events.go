package events

import "time"

// Event is a fact recorded by an aggregate during a state change.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects events on an aggregate until the application layer
// drains them into the outbox. Embed it by value.
type EventRecorder struct {
	pending []Event
}

func (r *EventRecorder) Record(event Event) {
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []Event {
	out := make([]Event, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
