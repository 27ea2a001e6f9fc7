package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "rentify/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("agg_user")}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (*domainuser.User, error) {
	var doc userDocument
	key := strings.ToLower(strings.TrimSpace(username))
	if err := r.col.FindOne(ctx, bson.M{"username_key": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if u == nil {
		return domainuser.ErrIDRequired
	}
	doc := newUserDocument(u)
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts)
	return err
}

type userDocument struct {
	ID          string `bson:"_id"`
	Username    string `bson:"username"`
	UsernameKey string `bson:"username_key"`
	Email       string `bson:"email"`
	CreatedAt   int64  `bson:"created_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:          string(u.ID),
		Username:    u.Username,
		UsernameKey: strings.ToLower(u.Username),
		Email:       u.Email,
		CreatedAt:   u.CreatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:        domainuser.ID(d.ID),
		Username:  d.Username,
		Email:     d.Email,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainuser.Repository = (*UserRepository)(nil)
