package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tajkir-alam/music-camp-server/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// DefaultTimeout bounds every collection call when a repository is built with
// a zero timeout.
const DefaultTimeout = 10 * time.Second

type baseRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func newBaseRepository(collection *mongo.Collection, timeout time.Duration) baseRepository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return baseRepository{collection: collection, timeout: timeout}
}

func (r baseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r baseRepository) count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "counting %s", r.collection.Name())
	}
	return n, nil
}

func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "finding in %s", collection.Name())
	}
	defer cursor.Close(ctx)

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", collection.Name())
	}
	return results, nil
}

func findOne[T any](ctx context.Context, collection *mongo.Collection, filter interface{}) (*T, error) {
	var doc T
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "finding one in %s", collection.Name())
	}
	return &doc, nil
}

func insertResult(res *mongo.InsertOneResult) models.InsertResult {
	return models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
