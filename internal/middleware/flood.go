package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
)

// FloodGuard caps requests per client IP on this instance. It runs before
// tenant resolution and needs no Redis round trip; the Redis limiters stay
// responsible for the per-agent and per-login budgets.
func FloodGuard(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn().Str("remote_addr", r.RemoteAddr).Str("path", r.URL.Path).Msg("ip flood limit exceeded")
			writeError(w, apperrors.RateLimitExceeded())
		}),
	)
}
