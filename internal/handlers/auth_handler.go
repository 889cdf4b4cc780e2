package handlers

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/auth"
	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

type AuthHandler struct {
	tokens *auth.TokenService
	logger *logrus.Logger
}

func NewAuthHandler(tokens *auth.TokenService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeServiceError(w, h.logger, errors.Wrap(service.ErrInvalidInput, "email is required"))
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}
