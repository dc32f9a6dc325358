package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prathmeshnaik91/skinet/internal/service"
	"github.com/prathmeshnaik91/skinet/pkg/httputil"
)

// maxBasketBody bounds the POST /api/basket payload.
const maxBasketBody = 1 << 20

type BasketHandler struct {
	baskets BasketService
	logger  *slog.Logger
}

func NewBasketHandler(baskets BasketService, logger *slog.Logger) *BasketHandler {
	return &BasketHandler{baskets: baskets, logger: logger}
}

// GetBasket handles GET /api/basket?id=
func (h *BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	basket, err := h.baskets.GetBasket(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, basket)
}

// UpdateBasket handles POST /api/basket
func (h *BasketHandler) UpdateBasket(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerBasketDto
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBasketBody)).Decode(&req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	basket, err := h.baskets.UpdateBasket(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, basket)
}

// DeleteBasket handles DELETE /api/basket?id=
func (h *BasketHandler) DeleteBasket(w http.ResponseWriter, r *http.Request) {
	if err := h.baskets.DeleteBasket(r.Context(), r.URL.Query().Get("id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}
