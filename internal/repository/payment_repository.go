package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tajkir-alam/music-camp-server/internal/models"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (models.InsertResult, error)
	MarkCartCleared(ctx context.Context, id primitive.ObjectID) error
	ListByEmail(ctx context.Context, email string, newestFirst bool) ([]models.Payment, error)
	// ListUncleared returns payments recorded before the cutoff whose cart rows
	// were never confirmed deleted.
	ListUncleared(ctx context.Context, before time.Time) ([]models.Payment, error)
	Revenue(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int64, error)
}

type paymentRepository struct {
	baseRepository
}

func NewPaymentRepository(collection *mongo.Collection, timeout time.Duration) PaymentRepository {
	return &paymentRepository{baseRepository: newBaseRepository(collection, timeout)}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) (models.InsertResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	res, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return models.InsertResult{}, errors.Wrap(err, "inserting payment")
	}
	return insertResult(res), nil
}

func (r *paymentRepository) MarkCartCleared(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"cartCleared": true}})
	return errors.Wrap(err, "marking payment cart cleared")
}

func (r *paymentRepository) ListByEmail(ctx context.Context, email string, newestFirst bool) ([]models.Payment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find()
	if newestFirst {
		opts.SetSort(bson.D{{Key: "date", Value: -1}})
	}
	return findAll[models.Payment](ctx, r.collection, bson.M{"customerEmail": email}, opts)
}

func (r *paymentRepository) ListUncleared(ctx context.Context, before time.Time) ([]models.Payment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"cartCleared": false, "date": bson.M{"$lt": before}}
	return findAll[models.Payment](ctx, r.collection, filter)
}

func (r *paymentRepository) Revenue(ctx context.Context) (float64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, errors.Wrap(err, "aggregating revenue")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, errors.Wrap(err, "decoding revenue")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Revenue, nil
}

func (r *paymentRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}
