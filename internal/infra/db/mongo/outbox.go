package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "rentify/internal/app/outbox"
	infraoutbox "rentify/internal/infra/outbox"

	"github.com/google/uuid"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// OutboxStore persists event records in the same database as the aggregates,
// so Add participates in the surrounding session transaction.
type OutboxStore struct {
	col *mongo.Collection
}

func NewOutboxStore(db *mongo.Database) *OutboxStore {
	return &OutboxStore{col: db.Collection("outbox")}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := outboxDocument{
		ID:         uuid.NewString(),
		Name:       record.Name,
		Aggregate:  record.Aggregate,
		Payload:    record.Payload,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt.UnixMilli(),
		Status:     outboxStatusPending,
		NextRetry:  time.Now().UnixMilli(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Claim atomically leases the oldest ready document for this worker.
func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	now := time.Now()
	filter := bson.M{
		"status":     outboxStatusPending,
		"next_retry": bson.M{"$lte": now.UnixMilli()},
	}
	update := bson.M{"$set": bson.M{
		"claimed_by": workerID,
		"claimed_at": now.UnixMilli(),
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc outboxDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &infraoutbox.EventDocument{
		ID:         doc.ID,
		Name:       doc.Name,
		Aggregate:  doc.Aggregate,
		Payload:    doc.Payload,
		Headers:    doc.Headers,
		OccurredAt: timestampToTime(doc.OccurredAt),
		Attempts:   doc.Attempts,
	}, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":  outboxStatusSent,
		"sent_at": time.Now().UnixMilli(),
	}})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"next_retry": nextRetry.UnixMilli(),
			"last_error": reason,
		},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

type outboxDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Aggregate  string            `bson:"aggregate"`
	Payload    []byte            `bson:"payload"`
	Headers    map[string]string `bson:"headers,omitempty"`
	OccurredAt int64             `bson:"occurred_at"`
	Status     string            `bson:"status"`
	NextRetry  int64             `bson:"next_retry"`
	Attempts   int               `bson:"attempts"`
	LastError  string            `bson:"last_error,omitempty"`
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
var _ infraoutbox.Store = (*OutboxStore)(nil)
