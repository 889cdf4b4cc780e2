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

type UserRepository interface {
	EnsureIndexes(ctx context.Context) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (models.InsertResult, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	baseRepository
}

func NewUserRepository(collection *mongo.Collection, timeout time.Duration) UserRepository {
	return &userRepository{baseRepository: newBaseRepository(collection, timeout)}
}

// EnsureIndexes makes email unique so concurrent registrations of the same
// address cannot both insert.
func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return errors.Wrap(err, "creating users email index")
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findOne[models.User](ctx, r.collection, bson.M{"email": email})
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (models.InsertResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.InsertResult{}, ErrDuplicate
		}
		return models.InsertResult{}, errors.Wrap(err, "inserting user")
	}
	return insertResult(res), nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findAll[models.User](ctx, r.collection, bson.M{})
}

func (r *userRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (models.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return models.UpdateResult{}, errors.Wrap(err, "updating user role")
	}
	return updateResult(res), nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, errors.Wrap(err, "deleting user")
	}
	return deleteResult(res), nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}
