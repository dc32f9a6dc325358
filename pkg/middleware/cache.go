package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ResponseStore persists cached response bodies.
type ResponseStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// CacheKey is the request path followed by the query parameters in sorted
// order, so ?a=1&b=2 and ?b=2&a=1 share an entry.
func CacheKey(r *http.Request) string {
	key := r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		key += "|" + q.Encode()
	}
	return key
}

// ResponseCache serves GET requests from store and caches 200 responses for ttl.
// Store failures are logged and the request falls through to next.
func ResponseCache(store ResponseStore, ttl time.Duration, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || ttl <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := CacheKey(r)
			body, ok, err := store.Get(r.Context(), key)
			if err != nil {
				l.WarnContext(r.Context(), "response cache read failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
			if ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			w.Header().Set("X-Cache", "MISS")
			cw := &capturingWriter{statusRecorder: newStatusRecorder(w)}
			next.ServeHTTP(cw, r)

			if cw.status != http.StatusOK {
				return
			}
			if err := store.Set(r.Context(), key, cw.buf.Bytes(), ttl); err != nil {
				l.WarnContext(r.Context(), "response cache write failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		})
	}
}

type capturingWriter struct {
	*statusRecorder
	buf bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	n, err := w.statusRecorder.Write(b)
	w.buf.Write(b[:n])
	return n, err
}
