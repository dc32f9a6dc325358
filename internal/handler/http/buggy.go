package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/httputil"
)

// missingProductID is never seeded; the buggy endpoints look it up to
// provoke errors.
const missingProductID = 42

// BuggyHandler exposes one endpoint per error shape so clients can exercise
// their error handling.
type BuggyHandler struct {
	catalog CatalogService
	logger  *slog.Logger
}

func NewBuggyHandler(catalog CatalogService, logger *slog.Logger) *BuggyHandler {
	return &BuggyHandler{catalog: catalog, logger: logger}
}

// TestAuth handles GET /api/buggy/testauth. It is mounted behind Auth.
func (h *BuggyHandler) TestAuth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, "secret stuff")
}

// NotFound handles GET /api/buggy/notfound
func (h *BuggyHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), missingProductID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if product == nil {
		httputil.WriteStatus(w, http.StatusNotFound)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// ServerError handles GET /api/buggy/servererror. It panics so the recovery
// middleware answers with an APIException.
func (h *BuggyHandler) ServerError(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), missingProductID)
	if product == nil {
		panic(fmt.Sprintf("product %d is nil: %v", missingProductID, err))
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// BadRequest handles GET /api/buggy/badrequest
func (h *BuggyHandler) BadRequest(w http.ResponseWriter, r *http.Request) {
	httputil.WriteStatus(w, http.StatusBadRequest)
}

// BadRequestWithID handles GET /api/buggy/badrequest/{id}. Non-numeric ids
// produce a validation error response.
func (h *BuggyHandler) BadRequestWithID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if _, err := strconv.Atoi(raw); err != nil {
		invalidValue(w, raw, "id")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// StatusCode handles GET /errors/{code}
func StatusCode(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 400 || code > 599 {
		httputil.WriteStatus(w, http.StatusBadRequest)
		return
	}
	httputil.WriteStatus(w, code)
}
