package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/auth"
	"github.com/tajkir-alam/music-camp-server/internal/handlers"
	"github.com/tajkir-alam/music-camp-server/internal/metrics"
	"github.com/tajkir-alam/music-camp-server/internal/middleware"
	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Tokens   *auth.TokenService
	Roles    *service.RoleService
	Users    *service.UserService
	Courses  *service.CourseService
	Carts    *service.CartService
	Payments *service.PaymentService
	Stats    *service.StatsService
	Health   Pinger
	Logger   *logrus.Logger
}

func SetupRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(deps.Logger), middleware.Metrics)

	bearer := middleware.Authenticate(deps.Tokens)
	admin := func(h http.HandlerFunc) http.Handler {
		return bearer(middleware.RequireRole(deps.Roles, deps.Logger, models.RoleAdmin)(h))
	}
	instructor := func(h http.HandlerFunc) http.Handler {
		return bearer(middleware.RequireRole(deps.Roles, deps.Logger, models.RoleInstructor, models.RoleAdmin)(h))
	}

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler(deps.Health)).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	authHandler := handlers.NewAuthHandler(deps.Tokens, deps.Logger)
	router.HandleFunc("/jwt", authHandler.IssueToken).Methods(http.MethodPost)

	userHandler := handlers.NewUserHandler(deps.Users, deps.Roles, deps.Stats, deps.Logger)
	router.HandleFunc("/users", userHandler.CreateUser).Methods(http.MethodPost)
	router.Handle("/users", admin(userHandler.GetUsers)).Methods(http.MethodGet)
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleInstructor, models.RoleStudent} {
		router.Handle("/users/"+string(role)+"/{email}", bearer(userHandler.CheckRole(role))).Methods(http.MethodGet)
	}
	router.Handle("/users/admin/{id}", admin(userHandler.AssignRole(models.RoleAdmin))).Methods(http.MethodPatch)
	router.Handle("/users/instructor/{id}", admin(userHandler.AssignRole(models.RoleInstructor))).Methods(http.MethodPatch)
	router.Handle("/users/{id}", admin(userHandler.DeleteUser)).Methods(http.MethodDelete)
	router.Handle("/admin-stats", admin(userHandler.AdminStats)).Methods(http.MethodGet)

	courseHandler := handlers.NewCourseHandler(deps.Courses, deps.Logger)
	router.HandleFunc("/class", courseHandler.GetClasses).Methods(http.MethodGet)
	router.HandleFunc("/classes", courseHandler.GetApprovedClasses).Methods(http.MethodGet)
	router.HandleFunc("/all-classes", courseHandler.GetAllClasses).Methods(http.MethodGet)
	router.HandleFunc("/instructors", courseHandler.GetAllClasses).Methods(http.MethodGet)
	router.HandleFunc("/top-instructors", courseHandler.GetTopInstructors).Methods(http.MethodGet)
	router.Handle("/instructor-classes", bearer(http.HandlerFunc(courseHandler.GetInstructorClasses))).Methods(http.MethodGet)
	router.Handle("/classes/{id}", bearer(http.HandlerFunc(courseHandler.Enroll))).Methods(http.MethodPatch)
	router.Handle("/approve-class/{id}", admin(courseHandler.SetStatus(models.StatusApproved))).Methods(http.MethodPatch)
	router.Handle("/deny-class/{id}", admin(courseHandler.SetStatus(models.StatusDenied))).Methods(http.MethodPatch)
	router.Handle("/course", instructor(courseHandler.CreateCourse)).Methods(http.MethodPost)
	router.Handle("/feedback/{id}", admin(courseHandler.AttachFeedback)).Methods(http.MethodPost)

	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Logger)
	router.Handle("/cart", bearer(http.HandlerFunc(cartHandler.GetCart))).Methods(http.MethodGet)
	router.Handle("/cart", bearer(http.HandlerFunc(cartHandler.AddToCart))).Methods(http.MethodPost)
	router.Handle("/cart/{id}", bearer(http.HandlerFunc(cartHandler.RemoveFromCart))).Methods(http.MethodDelete)

	paymentHandler := handlers.NewPaymentHandler(deps.Payments, deps.Logger)
	router.Handle("/create-payment-intent", bearer(http.HandlerFunc(paymentHandler.CreatePaymentIntent))).Methods(http.MethodPost)
	router.Handle("/payment", bearer(http.HandlerFunc(paymentHandler.GetPayments))).Methods(http.MethodGet)
	router.Handle("/payment", bearer(http.HandlerFunc(paymentHandler.RecordPayment))).Methods(http.MethodPost)

	return router
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				utils.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Server is healthy"})
	}
}
