package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
)

// errorBody is the store API error contract: ApiResponse, optionally with the
// validation messages of ApiValidationErrorResponse.
type errorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// maps it back onto an AppError.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}
	return parseErrorBody(resp.StatusCode, body, serviceName)
}

// AsAppError maps a *ServerError produced by the circuit breaker the same way
// ParseResponseError maps a response. Other errors are returned unchanged.
func AsAppError(err error, serviceName string) error {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return parseErrorBody(srvErr.StatusCode, srvErr.Body, serviceName)
	}
	return err
}

func parseErrorBody(status int, body []byte, serviceName string) error {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || (eb.StatusCode == 0 && eb.Message == "") {
		return fmt.Errorf("%s returned status %d: %s", serviceName, status, string(body))
	}
	return mapError(status, eb, serviceName)
}

func mapError(status int, eb errorBody, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, eb.Message)

	switch {
	case status == http.StatusBadRequest && len(eb.Errors) > 0:
		return apperrors.Validation(eb.Errors...)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusNotFound:
		return &apperrors.AppError{Code: "NOT_FOUND", Message: qualified, Status: status, Err: apperrors.ErrNotFound}
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{Code: "SERVICE_UNAVAILABLE", Message: qualified, Status: status, Err: apperrors.ErrServiceUnavail}
	case status >= 500:
		return &apperrors.AppError{Code: "INTERNAL_ERROR", Message: qualified, Status: status, Err: apperrors.ErrInternal}
	default:
		return &apperrors.AppError{Code: http.StatusText(status), Message: qualified, Status: status}
	}
}

// IsClientError reports a 4xx status.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
