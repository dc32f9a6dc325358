package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathmeshnaik91/skinet/pkg/httputil"
)

func panicking() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]int
		m["boom"]++
	})
}

func TestRecovery_HidesDetailsOutsideDevelopment(t *testing.T) {
	rr := httptest.NewRecorder()
	Recovery(discardLogger(), false)(panicking()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/buggy/servererror", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body httputil.APIException
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, 500, body.StatusCode)
	assert.Equal(t, httputil.DefaultMessage(500), body.Message)
	assert.Empty(t, body.Details)
}

func TestRecovery_ExposesDetailsInDevelopment(t *testing.T) {
	rr := httptest.NewRecorder()
	Recovery(discardLogger(), true)(panicking()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var body httputil.APIException
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Contains(t, body.Message, "nil map")
	assert.Contains(t, body.Details, "goroutine")
}

func TestRecovery_PassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	Recovery(discardLogger(), false)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecovery_RepanicsOnAbortHandler(t *testing.T) {
	h := Recovery(discardLogger(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
