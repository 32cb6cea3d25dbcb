package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ntp/agent-server-go/internal/tenant"
	"github.com/ntp/agent-server-go/internal/token"
)

type contextKey string

const RequestContextKey contextKey = "requestContext"

// authHeaderVariants are tried in order; inbound headers are canonicalised
// by net/http, the raw spellings cover hand-built requests.
var authHeaderVariants = []string{"authorization", "Authorization"}

// RequestContext is the per-request identity and tenant state. It is created
// fresh for every request and never shared across requests.
type RequestContext struct {
	TenantScope     string
	TenantSource    string
	RawToken        string
	IsAuthenticated bool
	PrincipalID     *int64
	Claims          *token.Claims
	RenewedToken    *string
}

// AgentID returns the authenticated principal.
func (rc *RequestContext) AgentID() (int64, bool) {
	if rc == nil || !rc.IsAuthenticated || rc.PrincipalID == nil {
		return 0, false
	}
	return *rc.PrincipalID, true
}

func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, RequestContextKey, rc)
}

// GetRequestContext returns the request's context bag, or an empty one when
// the populating middleware did not run.
func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(RequestContextKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{}
}

// GetTenantScope returns the resolved group prefix of the request.
func GetTenantScope(ctx context.Context) string {
	return GetRequestContext(ctx).TenantScope
}

// RequestContextMiddleware creates the RequestContext, resolving the tenant
// scope and extracting the bearer token. It runs on every route, before any
// authentication.
type RequestContextMiddleware struct {
	resolver *tenant.Resolver
}

func NewRequestContextMiddleware(resolver *tenant.Resolver) *RequestContextMiddleware {
	return &RequestContextMiddleware{resolver: resolver}
}

func (m *RequestContextMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := m.resolver.ResolveDetail(r.Header)
		rc := &RequestContext{
			TenantScope:  res.Scope,
			TenantSource: res.Source,
			RawToken:     extractToken(r.Header),
		}
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}

func extractToken(h http.Header) string {
	var header string
	for _, name := range authHeaderVariants {
		if values, ok := h[name]; ok && len(values) > 0 && values[0] != "" {
			header = values[0]
			break
		}
	}
	if header == "" {
		header = h.Get("Authorization")
	}

	header = strings.TrimSpace(header)
	// net/http trims trailing spaces, so "Bearer " arrives as the bare scheme.
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	if len(header) >= 7 && strings.EqualFold(header[:7], "Bearer ") {
		header = header[7:]
	}
	return strings.TrimSpace(header)
}
