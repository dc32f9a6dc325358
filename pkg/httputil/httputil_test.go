package httputil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"key": "value"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"key":"value"}`, rec.Body.String())
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "A bad request, you have made", DefaultMessage(400))
	assert.Equal(t, "Authorized, you are not", DefaultMessage(401))
	assert.Equal(t, "Resource found, it was not", DefaultMessage(404))
	assert.Contains(t, DefaultMessage(500), "dark side")
	assert.Equal(t, "Forbidden", DefaultMessage(403))
}

func TestWriteStatus_UsesCamelCaseContract(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteStatus(rec, http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"statusCode":404,"message":"Resource found, it was not"}`, rec.Body.String())
}

func TestWriteError_AppErrorKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/42", nil)

	WriteError(rec, req, apperrors.NotFound("product", "42"), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[APIResponse](t, rec)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "product with id 42 not found", resp.Message)
}

func TestWriteError_SentinelUsesDefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("lookup: %w", apperrors.ErrNotFound), testLogger())

	resp := decode[APIResponse](t, rec)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Resource found, it was not", resp.Message)
}

func TestWriteError_UnauthorizedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, apperrors.Unauthorized(""), testLogger())

	resp := decode[APIResponse](t, rec)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authorized, you are not", resp.Message)
}

func TestWriteError_ValidationAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/account/register", nil)

	WriteError(rec, req, apperrors.Validation("Email address is in use"), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ValidationErrorResponse](t, rec)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, []string{"Email address is in use"}, resp.Errors)
}

func TestWriteError_ValidatorError(t *testing.T) {
	type payload struct {
		ID string `json:"id" validate:"required"`
	}
	err := validator.Validate(payload{})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err, testLogger())

	resp := decode[ValidationErrorResponse](t, rec)
	assert.Equal(t, []string{"id is required"}, resp.Errors)
}

func TestWriteError_UnknownErrorIsAPIException(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("redis: connection refused"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, float64(500), raw["statusCode"])
	assert.NotContains(t, raw["message"], "redis")
	_, hasDetails := raw["details"]
	assert.False(t, hasDetails)
}

func TestWriteError_ServiceUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.ErrServiceUnavail, testLogger())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWriteError_InvalidInputSurfacesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.InvalidInput("id is required"), testLogger())

	resp := decode[APIResponse](t, rec)
	assert.Equal(t, "id is required", resp.Message)
}

func TestWriteDecodeError_MalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDecodeError(rec, fmt.Errorf("decode request body: unexpected EOF"))

	resp := decode[ValidationErrorResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, resp.Errors, 1)
}

func TestNewValidationErrorResponse_NilBecomesEmpty(t *testing.T) {
	b, err := json.Marshal(NewValidationErrorResponse(nil))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"errors":[]`)
}

func TestParseID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "7")
	assert.True(t, ok)
	assert.Equal(t, 7, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		_, ok := ParseID(rec, bad)
		assert.False(t, ok, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}
