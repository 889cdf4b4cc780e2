package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

type CourseHandler struct {
	courses *service.CourseService
	logger  *logrus.Logger
}

func NewCourseHandler(courses *service.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, logger: logger}
}

// intQuery reads an optional integer query parameter; absent means 0.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(service.ErrInvalidInput, "%s must be an integer", name)
	}
	return n, nil
}

// GetClasses handles GET /class?limit=&sort=.
func (h *CourseHandler) GetClasses(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	sort, err := intQuery(r, "sort")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	courses, err := h.courses.ListClasses(r.Context(), int64(limit), sort)
	h.writeCourses(w, courses, err)
}

func (h *CourseHandler) GetApprovedClasses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListApprovedClasses(r.Context())
	h.writeCourses(w, courses, err)
}

func (h *CourseHandler) GetAllClasses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListAllClasses(r.Context())
	h.writeCourses(w, courses, err)
}

func (h *CourseHandler) GetInstructorClasses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListInstructorClasses(r.Context(), callerEmail(r))
	h.writeCourses(w, courses, err)
}

func (h *CourseHandler) writeCourses(w http.ResponseWriter, courses []models.Course, err error) {
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	utils.WriteJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) GetTopInstructors(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	instructors, err := h.courses.TopInstructors(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if instructors == nil {
		instructors = []models.InstructorSummary{}
	}
	utils.WriteJSON(w, http.StatusOK, instructors)
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	result, err := h.courses.CreateCourse(r.Context(), req, callerEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// Enroll handles PATCH /classes/{id}: one seat moves to the student count.
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.courses.Enroll(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// SetStatus handles the approve-class and deny-class routes.
func (h *CourseHandler) SetStatus(status models.CourseStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.courses.SetCourseStatus(r.Context(), mux.Vars(r)["id"], status)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

func (h *CourseHandler) AttachFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	result, err := h.courses.AttachFeedback(r.Context(), mux.Vars(r)["id"], req.Feedback)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
