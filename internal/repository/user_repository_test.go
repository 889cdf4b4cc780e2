package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/tajkir-alam/music-camp-server/internal/models"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.Coll, time.Second)

		user := &models.User{Email: "student@example.com"}
		res, err := repo.Create(context.Background(), user)
		require.NoError(mt, err)
		assert.False(mt, user.ID.IsZero())
		assert.Equal(mt, user.ID, res.InsertedID)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_unique",
		}))
		repo := NewUserRepository(mt.Coll, time.Second)

		_, err := repo.Create(context.Background(), &models.User{Email: "student@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "email", Value: "admin@example.com"},
			{Key: "role", Value: "admin"},
		}))
		repo := NewUserRepository(mt.Coll, time.Second)

		user, err := repo.FindByEmail(context.Background(), "admin@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleAdmin, user.Role)
	})

	mt.Run("find by email missing", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewUserRepository(mt.Coll, time.Second)

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
