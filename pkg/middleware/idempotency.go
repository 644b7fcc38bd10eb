package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/casaphilia/rentals-api/pkg/logger"
)

// IdempotencyStore records responses keyed by client-supplied idempotency
// keys so replayed POSTs return the original result.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

const idempotencyTTL = 24 * time.Hour

// Idempotency replays the stored response body for a repeated POST carrying
// the same Idempotency-Key. Only successful (2xx) responses are recorded.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Keys are stored hashed, scoped to the path.
			sum := sha256.Sum256([]byte(key + "|" + r.URL.Path))
			hashed := fmt.Sprintf("idempotency:%x", sum)

			if body, ok, err := store.Get(r.Context(), hashed); err == nil && ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Idempotency-Replayed", "true")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(body))
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= 200 && rec.status < 300 {
				if err := store.Set(r.Context(), hashed, rec.body.String(), idempotencyTTL); err != nil {
					logger.WarnContext(r.Context(), "failed to store idempotency record", "error", err)
				}
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
