package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

type UserHandler struct {
	users  *service.UserService
	roles  *service.RoleService
	stats  *service.StatsService
	logger *logrus.Logger
}

func NewUserHandler(users *service.UserService, roles *service.RoleService, stats *service.StatsService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, roles: roles, stats: stats, logger: logger}
}

// CreateUser registers a user. A repeated email is answered with a message
// instead of an error.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	result, err := h.users.Register(r.Context(), req)
	if errors.Is(err, service.ErrUserExists) {
		utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "user already exists"})
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// CheckRole answers GET /users/{role}/{email} with {"<role>": bool}. Asking
// about anyone but yourself is always false.
func (h *UserHandler) CheckRole(role models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := h.roles.HasRole(r.Context(), mux.Vars(r)["email"], callerEmail(r), role)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]bool{string(role): ok})
	}
}

// AssignRole handles PATCH /users/{role}/{id}.
func (h *UserHandler) AssignRole(role models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.users.AssignRole(r.Context(), mux.Vars(r)["id"], role)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *UserHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.AdminStats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
