package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "rentify/internal/domain/booking"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("agg_review")}
}

// EnsureIndexes creates the unique booking index. Call once at startup.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ReviewID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": string(bookingID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	doc := newReviewDocument(rev)
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreview.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ReviewID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreview.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainreview.Review, error) {
	return r.find(ctx, bson.M{"renter_id": renterID})
}

func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainreview.Review, error) {
	return r.find(ctx, bson.M{"property_id": string(propertyID)})
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	result := make([]*domainreview.Review, 0)
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type reviewDocument struct {
	ID         string `bson:"_id"`
	BookingID  string `bson:"booking_id"`
	RenterID   string `bson:"renter_id"`
	PropertyID string `bson:"property_id"`
	Rating     int    `bson:"rating"`
	Comment    string `bson:"comment,omitempty"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func newReviewDocument(rev *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:         string(rev.ID),
		BookingID:  string(rev.BookingID),
		RenterID:   rev.RenterID,
		PropertyID: string(rev.PropertyID),
		Rating:     rev.Rating,
		Comment:    rev.Comment,
		CreatedAt:  rev.CreatedAt.UnixMilli(),
		UpdatedAt:  rev.UpdatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:         domainreview.ReviewID(d.ID),
		BookingID:  domainbooking.BookingID(d.BookingID),
		RenterID:   d.RenterID,
		PropertyID: domainproperty.PropertyID(d.PropertyID),
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}

var _ domainreview.Repository = (*ReviewRepository)(nil)
