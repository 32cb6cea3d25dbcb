package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ntp/agent-server-go/internal/audit"
	apperrors "github.com/ntp/agent-server-go/internal/errors"
	redisclient "github.com/ntp/agent-server-go/internal/redis"
)

// WindowLimiter is satisfied by service.RateLimiter.
type WindowLimiter interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, resetAt time.Time)
}

// IPRateLimitMiddleware limits requests per client IP and tenant. It guards
// the login endpoint against password guessing.
type IPRateLimitMiddleware struct {
	limiter WindowLimiter
	limit   int
	window  time.Duration
	prefix  string
}

func NewIPRateLimitMiddleware(limiter WindowLimiter, limit int, window time.Duration, prefix string) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
		window:  window,
		prefix:  prefix,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := audit.ClientIP(r)
		scope := GetTenantScope(r.Context())

		key := redisclient.IPLimitKey(m.prefix, scope, ip)
		allowed, resetAt := m.limiter.CheckLimit(r.Context(), key, m.limit, m.window)

		if !allowed {
			secondsLeft := int(time.Until(resetAt).Seconds()) + 1
			if secondsLeft < 1 {
				secondsLeft = 1
			}
			log.Warn().Str("ip", ip).Str("group_prefix", scope).Str("prefix", m.prefix).Msg("too many attempts")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", secondsLeft))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}
