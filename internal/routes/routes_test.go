package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tajkir-alam/music-camp-server/internal/auth"
	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/payment"
	"github.com/tajkir-alam/music-camp-server/internal/repository/mocks"
	"github.com/tajkir-alam/music-camp-server/internal/service"
)

const (
	adminEmail      = "admin@example.com"
	instructorEmail = "instructor@example.com"
	studentEmail    = "student@example.com"
)

type nopNotifier struct{}

func (nopNotifier) SendEmail(string, string, string) error { return nil }

type stubProvider struct {
	secret string
	err    error
}

func (p stubProvider) CreatePaymentIntent(context.Context, int64, string) (string, error) {
	return p.secret, p.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type fixture struct {
	t        *testing.T
	handler  http.Handler
	tokens   *auth.TokenService
	users    *mocks.UserRepository
	courses  *mocks.CourseRepository
	carts    *mocks.CartRepository
	payments *mocks.PaymentRepository
}

func newFixture(t *testing.T, provider service.PaymentProvider, pinger Pinger) *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		t:        t,
		tokens:   auth.NewTokenService("test-secret", time.Hour),
		users:    &mocks.UserRepository{},
		courses:  &mocks.CourseRepository{},
		carts:    &mocks.CartRepository{},
		payments: &mocks.PaymentRepository{},
	}
	for email, role := range map[string]models.UserRole{
		adminEmail:      models.RoleAdmin,
		instructorEmail: models.RoleInstructor,
		studentEmail:    models.RoleStudent,
	} {
		f.users.On("FindByEmail", mock.Anything, email).Return(&models.User{Email: email, Role: role}, nil).Maybe()
	}

	f.handler = SetupRouter(Dependencies{
		Tokens:   f.tokens,
		Roles:    service.NewRoleService(f.users),
		Users:    service.NewUserService(f.users),
		Courses:  service.NewCourseService(f.courses, nopNotifier{}, logger),
		Carts:    service.NewCartService(f.carts),
		Payments: service.NewPaymentService(f.payments, f.carts, provider, nopNotifier{}, "usd", logger),
		Stats:    service.NewStatsService(f.users, f.courses, f.payments),
		Health:   pinger,
		Logger:   logger,
	})
	return f
}

func (f *fixture) do(method, path, email string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if email != "" {
		token, err := f.tokens.Issue(email)
		require.NoError(f.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t, stubProvider{}, stubPinger{})
	rec := f.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	rec = f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newFixture(t, stubProvider{}, stubPinger{err: errors.New("no primary")})
	rec = down.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIssueTokenThenCheckRole(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)

	rec := f.do(http.MethodPost, "/jwt", "", models.TokenRequest{Email: adminEmail})
	require.Equal(t, http.StatusOK, rec.Code)
	var issued models.TokenResponse
	decode(t, rec, &issued)

	req := httptest.NewRequest(http.MethodGet, "/users/admin/"+adminEmail, nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	decode(t, rec, &body)
	assert.Equal(t, map[string]bool{"admin": true}, body)
}

func TestIssueTokenRequiresEmail(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	rec := f.do(http.MethodPost, "/jwt", "", models.TokenRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoleCheckIsSelfOnly(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)

	rec := f.do(http.MethodGet, "/users/admin/"+adminEmail, studentEmail, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	decode(t, rec, &body)
	assert.Equal(t, map[string]bool{"admin": false}, body)
	f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, adminEmail)

	rec = f.do(http.MethodGet, "/users/instructor/"+instructorEmail, instructorEmail, nil)
	body = nil
	decode(t, rec, &body)
	assert.Equal(t, map[string]bool{"instructor": true}, body)

	rec = f.do(http.MethodGet, "/users/student/"+studentEmail, studentEmail, nil)
	body = nil
	decode(t, rec, &body)
	assert.Equal(t, map[string]bool{"student": true}, body)
}

func TestRoleCheckRequiresToken(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	rec := f.do(http.MethodGet, "/users/admin/"+adminEmail, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body models.ErrorResponse
	decode(t, rec, &body)
	assert.True(t, body.Error)
	assert.Equal(t, "unauthorized access", body.Message)
}

func TestAdminGate(t *testing.T) {
	id := primitive.NewObjectID()
	paths := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/users", nil},
		{http.MethodPatch, "/users/admin/" + id.Hex(), nil},
		{http.MethodPatch, "/users/instructor/" + id.Hex(), nil},
		{http.MethodDelete, "/users/" + id.Hex(), nil},
		{http.MethodPatch, "/approve-class/" + id.Hex(), nil},
		{http.MethodPatch, "/deny-class/" + id.Hex(), nil},
		{http.MethodPost, "/feedback/" + id.Hex(), models.FeedbackRequest{Feedback: "nice"}},
		{http.MethodGet, "/admin-stats", nil},
	}

	f := newFixture(t, stubProvider{}, nil)
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, f.do(p.method, p.path, "", p.body).Code)
			assert.Equal(t, http.StatusForbidden, f.do(p.method, p.path, studentEmail, p.body).Code)
			assert.Equal(t, http.StatusForbidden, f.do(p.method, p.path, instructorEmail, p.body).Code)
		})
	}
	f.users.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.courses.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminPromotesUser(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	id := primitive.NewObjectID()
	f.users.On("SetRole", mock.Anything, id, models.RoleInstructor).
		Return(models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil).Once()

	rec := f.do(http.MethodPatch, "/users/instructor/"+id.Hex(), adminEmail, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var res models.UpdateResult
	decode(t, rec, &res)
	assert.Equal(t, int64(1), res.ModifiedCount)
	f.users.AssertExpectations(t)
}

func TestAdminListsUsers(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.users.On("List", mock.Anything).Return([]models.User{{Email: studentEmail}}, nil).Once()

	rec := f.do(http.MethodGet, "/users", adminEmail, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.User
	decode(t, rec, &users)
	require.Len(t, users, 1)
	assert.Equal(t, studentEmail, users[0].Email)
}

func TestCreateUserIsIdempotentOnEmail(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)

	rec := f.do(http.MethodPost, "/users", "", models.CreateUserRequest{Name: "Stu", Email: studentEmail})

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.MessageResponse
	decode(t, rec, &body)
	assert.Equal(t, "user already exists", body.Message)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCourseForcesPendingForCaller(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.courses.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Course) bool {
		return c.Status == models.StatusPending && c.InstructorEmail == instructorEmail && c.Students == 0
	})).Return(models.InsertResult{Acknowledged: true}, nil).Once()

	body := models.CreateCourseRequest{Name: "Jazz Piano", AvailableSeats: 10, Price: 40}
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/course", studentEmail, body).Code)

	rec := f.do(http.MethodPost, "/course", instructorEmail, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.courses.AssertExpectations(t)
}

func TestClassListings(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.courses.On("List", mock.Anything, int64(3), -1).Return([]models.Course{{Name: "Violin"}}, nil).Once()
	f.courses.On("ListByStatus", mock.Anything, models.StatusApproved).Return(nil, nil).Once()

	rec := f.do(http.MethodGet, "/class?limit=3&sort=-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []models.Course
	decode(t, rec, &courses)
	assert.Len(t, courses, 1)

	rec = f.do(http.MethodGet, "/classes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/class?limit=lots", "", nil).Code)
	f.courses.AssertExpectations(t)
}

func TestTopInstructorsClampsLimit(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.courses.On("TopInstructors", mock.Anything, int64(6)).Return([]models.InstructorSummary{
		{InstructorEmail: instructorEmail, TotalStudents: 14, Image: "B"},
	}, nil).Once()
	f.courses.On("TopInstructors", mock.Anything, int64(2)).Return([]models.InstructorSummary{}, nil).Once()

	rec := f.do(http.MethodGet, "/top-instructors?limit=50", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.InstructorSummary
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, 14, rows[0].TotalStudents)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/top-instructors?limit=2", "", nil).Code)
	f.courses.AssertExpectations(t)
}

func TestInstructorClassesUsesCaller(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.courses.On("ListByInstructor", mock.Anything, studentEmail).Return([]models.Course{}, nil).Once()

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/instructor-classes", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/instructor-classes", studentEmail, nil).Code)
	f.courses.AssertExpectations(t)
}

func TestEnrollFullCourseConflicts(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	id := primitive.NewObjectID()
	f.courses.On("TakeSeat", mock.Anything, id).Return(models.UpdateResult{Acknowledged: true}, nil).Once()
	f.courses.On("FindByID", mock.Anything, id).Return(&models.Course{ID: id, AvailableSeats: 0}, nil).Once()

	rec := f.do(http.MethodPatch, "/classes/"+id.Hex(), studentEmail, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/classes/nope", studentEmail, nil).Code)
}

func TestCartOwnership(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	theirs := primitive.NewObjectID()
	f.carts.On("FindByID", mock.Anything, theirs).Return(&models.CartItem{ID: theirs, UserEmail: adminEmail}, nil).Once()

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/cart?email="+adminEmail, studentEmail, nil).Code)

	rec := f.do(http.MethodGet, "/cart", studentEmail, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/cart/"+theirs.Hex(), studentEmail, nil).Code)
	f.carts.AssertNotCalled(t, "DeleteOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddToCartStampsCaller(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	course := primitive.NewObjectID()
	f.carts.On("Create", mock.Anything, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.UserEmail == studentEmail && item.CourseID == course
	})).Return(models.InsertResult{Acknowledged: true}, nil).Once()

	rec := f.do(http.MethodPost, "/cart", studentEmail, models.AddToCartRequest{CourseID: course.Hex(), Name: "Cello", Price: 30})

	assert.Equal(t, http.StatusOK, rec.Code)
	f.carts.AssertExpectations(t)
}

func TestRecordPaymentDeletesOnlyPaidRow(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	paid := primitive.NewObjectID()
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.CustomerEmail == studentEmail && !p.CartCleared
	})).Return(models.InsertResult{Acknowledged: true}, nil).Once()
	f.carts.On("DeleteOwned", mock.Anything, studentEmail, []primitive.ObjectID{paid}).
		Return(models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil).Once()
	f.payments.On("MarkCartCleared", mock.Anything, mock.Anything).Return(nil).Once()

	rec := f.do(http.MethodPost, "/payment", studentEmail, models.RecordPaymentRequest{
		TransactionID: "pi_123", Amount: 40, CartID: paid.Hex(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var res models.RecordPaymentResponse
	decode(t, rec, &res)
	assert.Equal(t, int64(1), res.DeleteResult.DeletedCount)
	f.payments.AssertExpectations(t)
	f.carts.AssertExpectations(t)
}

func TestPaymentListOwnership(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.payments.On("ListByEmail", mock.Anything, studentEmail, true).Return([]models.Payment{{TransactionID: "pi_1"}}, nil).Once()

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/payment?email="+adminEmail, studentEmail, nil).Code)

	rec := f.do(http.MethodGet, "/payment?email="+studentEmail+"&sort=desc", studentEmail, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payments []models.Payment
	decode(t, rec, &payments)
	assert.Len(t, payments, 1)
}

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture(t, stubProvider{secret: "pi_secret"}, nil)
	rec := f.do(http.MethodPost, "/create-payment-intent", studentEmail, models.PaymentIntentRequest{Price: 19.99})
	require.Equal(t, http.StatusOK, rec.Code)
	var body models.PaymentIntentResponse
	decode(t, rec, &body)
	assert.Equal(t, "pi_secret", body.ClientSecret)

	failing := newFixture(t, stubProvider{err: errors.Wrap(payment.ErrProvider, "card_declined")}, nil)
	rec = failing.do(http.MethodPost, "/create-payment-intent", studentEmail, models.PaymentIntentRequest{Price: 19.99})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.users.On("Count", mock.Anything).Return(int64(4), nil)
	f.courses.On("Count", mock.Anything).Return(int64(3), nil)
	f.payments.On("Count", mock.Anything).Return(int64(2), nil)
	f.payments.On("Revenue", mock.Anything).Return(80.5, nil)

	rec := f.do(http.MethodGet, "/admin-stats", adminEmail, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.AdminStats
	decode(t, rec, &stats)
	assert.Equal(t, models.AdminStats{Revenue: 80.5, Customers: 4, Classes: 3, Orders: 2}, stats)
}

func TestUnknownStoreErrorIsInternal(t *testing.T) {
	f := newFixture(t, stubProvider{}, nil)
	f.courses.On("List", mock.Anything, int64(10000000), 0).Return(nil, errors.New("socket closed")).Once()

	rec := f.do(http.MethodGet, "/all-classes", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
