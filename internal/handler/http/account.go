package http

import (
	"log/slog"
	"net/http"

	"github.com/prathmeshnaik91/skinet/internal/service"
	"github.com/prathmeshnaik91/skinet/pkg/httputil"
	"github.com/prathmeshnaik91/skinet/pkg/middleware"
	"github.com/prathmeshnaik91/skinet/pkg/validator"
)

type AccountHandler struct {
	accounts AccountService
	logger   *slog.Logger
}

func NewAccountHandler(accounts AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// Login handles POST /api/account/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginDto
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	user, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Register handles POST /api/account/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterDto
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// CurrentUser handles GET /api/account
func (h *AccountHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	user, err := h.accounts.CurrentUser(r.Context(), claims.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// EmailExists handles GET /api/account/emailexists?email=
func (h *AccountHandler) EmailExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.accounts.EmailExists(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, exists)
}

// GetAddress handles GET /api/account/address
func (h *AccountHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	addr, err := h.accounts.GetAddress(r.Context(), claims.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addr)
}

// UpdateAddress handles PUT /api/account/address
func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	var req service.AddressDto
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	addr, err := h.accounts.UpdateAddress(r.Context(), claims.Email, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addr)
}
