package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/logger"
	"github.com/prathmeshnaik91/skinet/pkg/validator"
)

// APIResponse is the body of every non-validation error.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// NewAPIResponse uses the default message for status when message is empty.
func NewAPIResponse(status int, message string) APIResponse {
	if message == "" {
		message = DefaultMessage(status)
	}
	return APIResponse{StatusCode: status, Message: message}
}

// ValidationErrorResponse is returned for 400s caused by invalid payloads.
type ValidationErrorResponse struct {
	APIResponse
	Errors []string `json:"errors"`
}

// NewValidationErrorResponse wraps messages in a 400 response.
func NewValidationErrorResponse(messages []string) ValidationErrorResponse {
	if messages == nil {
		messages = []string{}
	}
	return ValidationErrorResponse{
		APIResponse: NewAPIResponse(http.StatusBadRequest, ""),
		Errors:      messages,
	}
}

// APIException is a 500 response. Details carries the stack trace and is only
// populated in development.
type APIException struct {
	APIResponse
	Details string `json:"details,omitempty"`
}

func NewAPIException(message, details string) APIException {
	return APIException{
		APIResponse: NewAPIResponse(http.StatusInternalServerError, message),
		Details:     details,
	}
}

// DefaultMessage returns the canned message for the status codes the store
// client knows about, and the standard status text otherwise.
func DefaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "A bad request, you have made"
	case http.StatusUnauthorized:
		return "Authorized, you are not"
	case http.StatusNotFound:
		return "Resource found, it was not"
	case http.StatusInternalServerError:
		return "Errors are the path to the dark side. Errors lead to anger. Anger leads to hate. Hate leads to career change."
	default:
		return http.StatusText(status)
	}
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteStatus writes an APIResponse carrying the default message for status.
func WriteStatus(w http.ResponseWriter, status int) {
	WriteJSON(w, status, NewAPIResponse(status, ""))
}

// WriteError maps err to the store's error contract. Validation failures become
// ValidationErrorResponse, internal errors are logged and become APIException,
// and everything else becomes APIResponse. The request-scoped logger from
// context is preferred over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, NewValidationErrorResponse(valErr.Messages()))
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch {
		case len(appErr.Errors) > 0:
			WriteJSON(w, http.StatusBadRequest, NewValidationErrorResponse(appErr.Errors))
			return
		case appErr.Status < http.StatusInternalServerError:
			WriteJSON(w, appErr.Status, NewAPIResponse(appErr.Status, appErr.Message))
			return
		}
	}

	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		if status == http.StatusInternalServerError {
			WriteJSON(w, status, NewAPIException("", ""))
			return
		}
		WriteStatus(w, status)
		return
	}

	message := ""
	if errors.Is(err, apperrors.ErrInvalidInput) {
		message = err.Error()
	}
	WriteJSON(w, status, NewAPIResponse(status, message))
}

// WriteDecodeError answers a body that could not be decoded or validated.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, NewValidationErrorResponse(valErr.Messages()))
		return
	}
	WriteJSON(w, http.StatusBadRequest, NewValidationErrorResponse([]string{"request body must be valid JSON"}))
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 APIResponse and returns false, signaling the caller to return early.
func ParseID(w http.ResponseWriter, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, NewAPIResponse(http.StatusBadRequest, ""))
		return 0, false
	}
	return id, true
}
