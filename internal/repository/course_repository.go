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

type CourseRepository interface {
	List(ctx context.Context, limit int64, sortStudents int) ([]models.Course, error)
	ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error)
	ListByInstructor(ctx context.Context, email string) ([]models.Course, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) (models.InsertResult, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.CourseStatus) (models.UpdateResult, error)
	SetFeedback(ctx context.Context, id primitive.ObjectID, feedback string) (models.UpdateResult, error)
	TakeSeat(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error)
	TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error)
	Count(ctx context.Context) (int64, error)
}

type courseRepository struct {
	baseRepository
}

func NewCourseRepository(collection *mongo.Collection, timeout time.Duration) CourseRepository {
	return &courseRepository{baseRepository: newBaseRepository(collection, timeout)}
}

// List returns courses in insertion order unless sortStudents is non-zero, in
// which case its sign picks ascending or descending order on students.
func (r *courseRepository) List(ctx context.Context, limit int64, sortStudents int) ([]models.Course, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	switch {
	case sortStudents > 0:
		opts.SetSort(bson.D{{Key: "students", Value: 1}})
	case sortStudents < 0:
		opts.SetSort(bson.D{{Key: "students", Value: -1}})
	}
	return findAll[models.Course](ctx, r.collection, bson.M{}, opts)
}

func (r *courseRepository) ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findAll[models.Course](ctx, r.collection, bson.M{"status": status})
}

func (r *courseRepository) ListByInstructor(ctx context.Context, email string) ([]models.Course, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findAll[models.Course](ctx, r.collection, bson.M{"instructorEmail": email})
}

func (r *courseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findOne[models.Course](ctx, r.collection, bson.M{"_id": id})
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) (models.InsertResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	res, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return models.InsertResult{}, errors.Wrap(err, "inserting course")
	}
	return insertResult(res), nil
}

func (r *courseRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.CourseStatus) (models.UpdateResult, error) {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *courseRepository) SetFeedback(ctx context.Context, id primitive.ObjectID, feedback string) (models.UpdateResult, error) {
	return r.set(ctx, id, bson.M{"feedback": feedback})
}

func (r *courseRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return models.UpdateResult{}, errors.Wrap(err, "updating course")
	}
	return updateResult(res), nil
}

// TakeSeat moves one seat to the enrolled count in a single conditional
// update. A course without free seats does not match, so availableSeats never
// drops below zero however many enrollments race.
func (r *courseRepository) TakeSeat(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "availableSeats": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"availableSeats": -1, "students": 1}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.UpdateResult{}, errors.Wrap(err, "enrolling in course")
	}
	return updateResult(res), nil
}

// TopInstructorsPipeline ranks instructors by students summed over all their
// courses. Each instructor's cover image comes from their most enrolled course;
// ties go to the course inserted first.
func TopInstructorsPipeline(limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{
			{Key: "students", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$instructorEmail"},
			{Key: "instructorName", Value: bson.D{{Key: "$first", Value: "$instructorName"}}},
			{Key: "instructorImg", Value: bson.D{{Key: "$first", Value: "$instructorImg"}}},
			{Key: "totalStudents", Value: bson.D{{Key: "$sum", Value: "$students"}}},
			{Key: "image", Value: bson.D{{Key: "$first", Value: "$image"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalStudents", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
	}
}

func (r *courseRepository) TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, TopInstructorsPipeline(limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregating top instructors")
	}
	defer cursor.Close(ctx)

	results := make([]models.InstructorSummary, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.Wrap(err, "decoding top instructors")
	}
	return results, nil
}

func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}
