package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arnav/expense-tracker/internal/models"
)

// MongoStore handles expense CRUD in MongoDB. Every operation that targets a
// single record filters on both _id and user_id, so a record owned by another
// user is indistinguishable from a missing one.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("expenses")}
}

// EnsureIndexes creates the compound owner/recency index used by ListByUser.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *MongoStore) Insert(ctx context.Context, exp *models.Expense) (*models.Expense, error) {
	now := time.Now().UTC()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, exp)
	if err != nil {
		return nil, err
	}
	exp.ID = res.InsertedID.(primitive.ObjectID)
	return exp, nil
}

// ListByUser returns the user's expenses, newest first.
func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var expenses []models.Expense
	if err := cur.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// Update applies the given field changes to the expense and returns the
// updated record. Missing and not-owned ids both return models.ErrNotFound.
func (s *MongoStore) Update(ctx context.Context, userID, id string, fields map[string]interface{}) (*models.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	fields["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var exp models.Expense
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": fields},
		opts,
	).Decode(&exp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// Delete removes the expense. Missing and not-owned ids both return
// models.ErrNotFound.
func (s *MongoStore) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
