package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/prathmeshnaik91/skinet/pkg/httputil"
)

// Recovery turns a panic into a 500 APIException. With exposeDetails set the
// panic value and stack trace are returned to the caller, which is only meant
// for development.
func Recovery(l *slog.Logger, exposeDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", stack),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				resp := httputil.NewAPIException("", "")
				if exposeDetails {
					resp = httputil.NewAPIException(fmt.Sprint(rec), stack)
				}
				httputil.WriteJSON(w, http.StatusInternalServerError, resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
