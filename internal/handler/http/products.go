package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
	"github.com/prathmeshnaik91/skinet/pkg/httputil"
	"github.com/prathmeshnaik91/skinet/pkg/pagination"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	catalog CatalogService
	logger  *slog.Logger
}

func NewProductHandler(catalog CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := specification.NewProductSpecParams()

	var ok bool
	if params.BrandID, ok = optionalInt(w, r, "brandId"); !ok {
		return
	}
	if params.TypeID, ok = optionalInt(w, r, "typeId"); !ok {
		return
	}

	q := r.URL.Query()
	params.Sort = q.Get("sort")
	if !domain.IsValidSortBy(params.Sort) {
		h.logger.DebugContext(r.Context(), "unknown sort, using default", slog.String("sort", params.Sort))
		params.Sort = ""
	}
	params.SetSearch(q.Get("search"))
	params.Params = pagination.FromRequest(r)

	page, err := h.catalog.ListProducts(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, ok := httputil.ParseID(w, raw)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// ListBrands handles GET /api/products/brands
func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, brands)
}

// ListTypes handles GET /api/products/types
func (h *ProductHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListTypes(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}
