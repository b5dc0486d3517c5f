package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"yatube/internal/logging"
)

// RateLimit ограничивает количество запросов от одного IP-адреса.
// Requests beyond the limit get 429, as JSON for AJAX callers.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Ctx(r.Context()).Warn().Str("remote", r.RemoteAddr).Msg("rate limit exceeded")
			if wantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too Many Requests"}`)) //nolint:errcheck
				return
			}
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		}),
	)
}
