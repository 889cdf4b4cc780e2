package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/metrics"
	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

const (
	// unboundedLimit stands in for "no limit" on class listings.
	unboundedLimit = 10000000
	// MaxTopInstructors caps the top-instructors ranking.
	MaxTopInstructors = 6
)

type CourseService struct {
	courses  repository.CourseRepository
	notifier Notifier
	logger   *logrus.Logger
}

func NewCourseService(courses repository.CourseRepository, notifier Notifier, logger *logrus.Logger) *CourseService {
	return &CourseService{courses: courses, notifier: notifier, logger: logger}
}

// ListClasses lists every course. limit <= 0 means unbounded and a non-zero
// sortStudents orders by enrollment in the direction of its sign.
func (s *CourseService) ListClasses(ctx context.Context, limit int64, sortStudents int) ([]models.Course, error) {
	if limit <= 0 {
		limit = unboundedLimit
	}
	return s.courses.List(ctx, limit, sortStudents)
}

func (s *CourseService) ListAllClasses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx, unboundedLimit, 0)
}

func (s *CourseService) ListApprovedClasses(ctx context.Context) ([]models.Course, error) {
	return s.courses.ListByStatus(ctx, models.StatusApproved)
}

func (s *CourseService) ListInstructorClasses(ctx context.Context, email string) ([]models.Course, error) {
	return s.courses.ListByInstructor(ctx, email)
}

// CreateCourse stores a submission from the calling instructor. New courses
// always start pending with nobody enrolled.
func (s *CourseService) CreateCourse(ctx context.Context, req models.CreateCourseRequest, callerEmail string) (models.InsertResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.InsertResult{}, errors.Wrap(ErrInvalidInput, "name is required")
	}
	if req.AvailableSeats < 0 || req.Price < 0 {
		return models.InsertResult{}, errors.Wrap(ErrInvalidInput, "seats and price must not be negative")
	}

	course := &models.Course{
		Name:            req.Name,
		InstructorEmail: callerEmail,
		InstructorName:  req.InstructorName,
		InstructorImg:   req.InstructorImg,
		AvailableSeats:  req.AvailableSeats,
		Price:           req.Price,
		Image:           req.Image,
		Status:          models.StatusPending,
		CreatedAt:       time.Now(),
	}
	return s.courses.Create(ctx, course)
}

// SetCourseStatus approves or denies a course and emails its instructor when
// the status actually changed.
func (s *CourseService) SetCourseStatus(ctx context.Context, idHex string, status models.CourseStatus) (models.UpdateResult, error) {
	if status != models.StatusApproved && status != models.StatusDenied {
		return models.UpdateResult{}, errors.Wrapf(ErrInvalidStatus, "%q", status)
	}
	id, err := parseID(idHex)
	if err != nil {
		return models.UpdateResult{}, err
	}

	res, err := s.courses.SetStatus(ctx, id, status)
	if err != nil || res.ModifiedCount == 0 {
		return res, err
	}

	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("course_id", idHex).Warn("status changed but course lookup for notification failed")
		return res, nil
	}
	go s.notifyStatus(*course)
	return res, nil
}

func (s *CourseService) notifyStatus(course models.Course) {
	if course.InstructorEmail == "" {
		return
	}
	subject := fmt.Sprintf("Your class %q was %s", course.Name, course.Status)
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your class <strong>%s</strong> has been <strong>%s</strong>.</p>`,
		course.InstructorName, course.Name, course.Status)
	if err := s.notifier.SendEmail(course.InstructorEmail, subject, body); err != nil {
		s.logger.WithError(err).WithField("course_id", course.ID.Hex()).Warn("status notification not delivered")
	}
}

// Enroll takes one seat. An absent course is a no-op; a full one fails with
// ErrNoSeatsAvailable.
func (s *CourseService) Enroll(ctx context.Context, idHex string) (models.UpdateResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.UpdateResult{}, err
	}

	res, err := s.courses.TakeSeat(ctx, id)
	if err != nil {
		metrics.EnrollmentsTotal.WithLabelValues("error").Inc()
		return res, err
	}
	if res.MatchedCount > 0 {
		metrics.EnrollmentsTotal.WithLabelValues("enrolled").Inc()
		return res, nil
	}

	course, err := s.courses.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.EnrollmentsTotal.WithLabelValues("missing").Inc()
		return res, nil
	}
	if err != nil {
		return res, err
	}
	if course.AvailableSeats <= 0 {
		metrics.EnrollmentsTotal.WithLabelValues("full").Inc()
		return res, ErrNoSeatsAvailable
	}
	return res, nil
}

func (s *CourseService) AttachFeedback(ctx context.Context, idHex string, feedback string) (models.UpdateResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return s.courses.SetFeedback(ctx, id, feedback)
}

// TopInstructors ranks instructors by total enrollment. The limit is clamped
// to [1, MaxTopInstructors]; zero or negative asks for the maximum.
func (s *CourseService) TopInstructors(ctx context.Context, limit int) ([]models.InstructorSummary, error) {
	if limit <= 0 || limit > MaxTopInstructors {
		limit = MaxTopInstructors
	}
	return s.courses.TopInstructors(ctx, int64(limit))
}
