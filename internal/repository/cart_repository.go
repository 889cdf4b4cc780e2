package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tajkir-alam/music-camp-server/internal/models"
)

type CartRepository interface {
	ListByEmail(ctx context.Context, email string) ([]models.CartItem, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (models.InsertResult, error)
	// DeleteOwned removes the listed rows, but only those owned by email.
	DeleteOwned(ctx context.Context, email string, ids ...primitive.ObjectID) (models.DeleteResult, error)
}

type cartRepository struct {
	baseRepository
}

func NewCartRepository(collection *mongo.Collection, timeout time.Duration) CartRepository {
	return &cartRepository{baseRepository: newBaseRepository(collection, timeout)}
}

func (r *cartRepository) ListByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findAll[models.CartItem](ctx, r.collection, bson.M{"userEmail": email})
}

func (r *cartRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CartItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findOne[models.CartItem](ctx, r.collection, bson.M{"_id": id})
}

func (r *cartRepository) Create(ctx context.Context, item *models.CartItem) (models.InsertResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	res, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return models.InsertResult{}, errors.Wrap(err, "inserting cart item")
	}
	return insertResult(res), nil
}

func (r *cartRepository) DeleteOwned(ctx context.Context, email string, ids ...primitive.ObjectID) (models.DeleteResult, error) {
	if len(ids) == 0 {
		return models.DeleteResult{Acknowledged: true}, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$in": ids}, "userEmail": email}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return models.DeleteResult{}, errors.Wrap(err, "deleting cart items")
	}
	return deleteResult(res), nil
}
