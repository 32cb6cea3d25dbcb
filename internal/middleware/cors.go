package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ntp/agent-server-go/internal/tenant"
)

// CORS lets the agent front end, served from each tenant's own domain, send
// the tenant header and read the renewed token.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowedHeaders := append([]string{"Accept", "Authorization", "Content-Type", "X-Request-Id"}, tenant.DefaultHeaderVariants...)

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: allowedHeaders,
		ExposedHeaders: []string{RenewedTokenHeader, TokenExtendedHeader, "Retry-After"},
		MaxAge:         300,
	})
}
