package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/auth"
	"github.com/tajkir-alam/music-camp-server/internal/middleware"
	"github.com/tajkir-alam/music-camp-server/internal/payment"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

var errBadBody = errors.Wrap(service.ErrInvalidInput, "invalid request body")

// writeServiceError maps service sentinels onto HTTP statuses. Anything it
// does not recognise is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized access")
	case errors.Is(err, service.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, "forbidden access")
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoSeatsAvailable):
		utils.WriteError(w, http.StatusConflict, "no seats available")
	case errors.Is(err, payment.ErrProvider):
		logger.WithError(err).Warn("payment provider failed")
		utils.WriteError(w, http.StatusBadGateway, "payment provider error")
	default:
		logger.WithError(err).Error("request failed")
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

// callerEmail returns the authenticated email. Routes using it are always
// wrapped in middleware.Authenticate.
func callerEmail(r *http.Request) string {
	email, _ := middleware.EmailFromContext(r.Context())
	return email
}
