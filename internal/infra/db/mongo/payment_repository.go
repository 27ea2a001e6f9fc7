package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	"rentify/internal/domain/shared/money"
)

// PaymentRepository relies on a unique index on booking_id to make the
// one-payment-per-booking rule hold under concurrent writers.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection("agg_payment")}
}

// EnsureIndexes creates the unique booking index. Call once at startup.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *PaymentRepository) ByID(ctx context.Context, id domainpayment.PaymentID) (*domainpayment.Payment, error) {
	var doc paymentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpayment.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PaymentRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainpayment.Payment, error) {
	var doc paymentDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": string(bookingID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpayment.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainpayment.Payment) error {
	doc := newPaymentDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainpayment.ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id domainpayment.PaymentID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainpayment.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainpayment.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}})
	return r.find(ctx, bson.M{"renter_id": renterID}, opts)
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]*domainpayment.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *PaymentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainpayment.Payment, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	result := make([]*domainpayment.Payment, 0)
	for cursor.Next(ctx) {
		var doc paymentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type paymentDocument struct {
	ID             string        `bson:"_id"`
	BookingID      string        `bson:"booking_id"`
	RenterID       string        `bson:"renter_id"`
	Amount         moneyDocument `bson:"amount"`
	Method         string        `bson:"method"`
	Status         string        `bson:"status"`
	TransactionRef string        `bson:"transaction_ref,omitempty"`
	PaidAt         int64         `bson:"paid_at"`
	UpdatedAt      int64         `bson:"updated_at"`
	Version        int64         `bson:"version"`
}

func newPaymentDocument(p *domainpayment.Payment) paymentDocument {
	return paymentDocument{
		ID:             string(p.ID),
		BookingID:      string(p.BookingID),
		RenterID:       p.RenterID,
		Amount:         moneyDocument{Amount: p.Amount.Amount, Currency: p.Amount.Currency},
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		PaidAt:         p.PaidAt.UnixMilli(),
		UpdatedAt:      p.UpdatedAt.UnixMilli(),
		Version:        p.Version,
	}
}

func (d paymentDocument) toAggregate() *domainpayment.Payment {
	return &domainpayment.Payment{
		ID:             domainpayment.PaymentID(d.ID),
		BookingID:      domainbooking.BookingID(d.BookingID),
		RenterID:       d.RenterID,
		Amount:         money.Money{Amount: d.Amount.Amount, Currency: d.Amount.Currency},
		Method:         domainpayment.Method(d.Method),
		Status:         domainpayment.Status(d.Status),
		TransactionRef: d.TransactionRef,
		PaidAt:         timestampToTime(d.PaidAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
}

var _ domainpayment.Repository = (*PaymentRepository)(nil)
