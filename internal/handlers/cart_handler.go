package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

type CartHandler struct {
	carts  *service.CartService
	logger *logrus.Logger
}

func NewCartHandler(carts *service.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// GetCart handles GET /cart?email=; the email must be the caller's own.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.List(r.Context(), r.URL.Query().Get("email"), callerEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	result, err := h.carts.Add(r.Context(), req, callerEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.carts.Remove(r.Context(), mux.Vars(r)["id"], callerEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
