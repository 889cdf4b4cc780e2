package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

type PaymentHandler struct {
	payments *service.PaymentService
	logger   *logrus.Logger
}

func NewPaymentHandler(payments *service.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	secret, err := h.payments.CreateIntent(r.Context(), req.Price)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.PaymentIntentResponse{ClientSecret: secret})
}

// RecordPayment stores the payment and clears the paid cart rows.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req models.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	result, err := h.payments.Record(r.Context(), req, callerEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GetPayments handles GET /payment?email=&sort=desc.
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payments, err := h.payments.List(r.Context(), q.Get("email"), callerEmail(r), q.Get("sort") == "desc")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	utils.WriteJSON(w, http.StatusOK, payments)
}
