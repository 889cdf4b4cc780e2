// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.CourseRepository  = (*CourseRepository)(nil)
	_ repository.CartRepository    = (*CartRepository)(nil)
	_ repository.PaymentRepository = (*PaymentRepository)(nil)
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) (models.InsertResult, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.InsertResult), args.Error(1)
}

func (m *UserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (models.UpdateResult, error) {
	args := m.Called(ctx, id, role)
	return args.Get(0).(models.UpdateResult), args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.DeleteResult), args.Error(1)
}

func (m *UserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type CourseRepository struct {
	mock.Mock
}

func (m *CourseRepository) List(ctx context.Context, limit int64, sortStudents int) ([]models.Course, error) {
	args := m.Called(ctx, limit, sortStudents)
	courses, _ := args.Get(0).([]models.Course)
	return courses, args.Error(1)
}

func (m *CourseRepository) ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	args := m.Called(ctx, status)
	courses, _ := args.Get(0).([]models.Course)
	return courses, args.Error(1)
}

func (m *CourseRepository) ListByInstructor(ctx context.Context, email string) ([]models.Course, error) {
	args := m.Called(ctx, email)
	courses, _ := args.Get(0).([]models.Course)
	return courses, args.Error(1)
}

func (m *CourseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	args := m.Called(ctx, id)
	course, _ := args.Get(0).(*models.Course)
	return course, args.Error(1)
}

func (m *CourseRepository) Create(ctx context.Context, course *models.Course) (models.InsertResult, error) {
	args := m.Called(ctx, course)
	return args.Get(0).(models.InsertResult), args.Error(1)
}

func (m *CourseRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.CourseStatus) (models.UpdateResult, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.UpdateResult), args.Error(1)
}

func (m *CourseRepository) SetFeedback(ctx context.Context, id primitive.ObjectID, feedback string) (models.UpdateResult, error) {
	args := m.Called(ctx, id, feedback)
	return args.Get(0).(models.UpdateResult), args.Error(1)
}

func (m *CourseRepository) TakeSeat(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UpdateResult), args.Error(1)
}

func (m *CourseRepository) TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]models.InstructorSummary)
	return rows, args.Error(1)
}

func (m *CourseRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) ListByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	args := m.Called(ctx, email)
	items, _ := args.Get(0).([]models.CartItem)
	return items, args.Error(1)
}

func (m *CartRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CartItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.CartItem)
	return item, args.Error(1)
}

func (m *CartRepository) Create(ctx context.Context, item *models.CartItem) (models.InsertResult, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.InsertResult), args.Error(1)
}

func (m *CartRepository) DeleteOwned(ctx context.Context, email string, ids ...primitive.ObjectID) (models.DeleteResult, error) {
	args := m.Called(ctx, email, ids)
	return args.Get(0).(models.DeleteResult), args.Error(1)
}

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) Create(ctx context.Context, payment *models.Payment) (models.InsertResult, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(models.InsertResult), args.Error(1)
}

func (m *PaymentRepository) MarkCartCleared(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PaymentRepository) ListByEmail(ctx context.Context, email string, newestFirst bool) ([]models.Payment, error) {
	args := m.Called(ctx, email, newestFirst)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *PaymentRepository) ListUncleared(ctx context.Context, before time.Time) ([]models.Payment, error) {
	args := m.Called(ctx, before)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *PaymentRepository) Revenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *PaymentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
