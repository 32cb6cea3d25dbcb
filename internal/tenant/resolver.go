// Package tenant resolves the group_prefix partition key of a request and
// builds the predicates that keep every read inside it.
package tenant

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultHeaderVariants lists the spellings clients use for the tenant
// header, in priority order.
var DefaultHeaderVariants = []string{
	"group_prefix",
	"Group_prefix",
	"Group-Prefix",
	"group-prefix",
	"X-Group-Prefix",
	"GroupPrefix",
}

// SourceDefault is reported when no header matched and the configured
// default was applied.
const SourceDefault = "default"

// Resolution describes where a tenant scope came from.
type Resolution struct {
	Scope  string
	Source string
}

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	variants     []string
	defaultScope string
}

// NewResolver builds a resolver. An empty defaultScope means requests
// without a tenant header stay tenant-agnostic.
func NewResolver(defaultScope string, variants ...string) *Resolver {
	if len(variants) == 0 {
		variants = DefaultHeaderVariants
	}
	return &Resolver{
		variants:     append([]string(nil), variants...),
		defaultScope: strings.TrimSpace(defaultScope),
	}
}

// Resolve returns the tenant scope for the headers, possibly empty.
func (r *Resolver) Resolve(h http.Header) string {
	return r.ResolveDetail(h).Scope
}

// ResolveDetail returns the scope and the header variant that produced it.
// Absence of every variant is not an error.
func (r *Resolver) ResolveDetail(h http.Header) Resolution {
	for _, name := range r.variants {
		if value := headerValue(h, name); value != "" {
			log.Info().Str("header", name).Str("group_prefix", value).Msg("group prefix resolved")
			return Resolution{Scope: value, Source: name}
		}
	}

	if r.defaultScope != "" {
		log.Warn().Str("group_prefix", r.defaultScope).Msg("no group prefix header, applying configured default")
		return Resolution{Scope: r.defaultScope, Source: SourceDefault}
	}

	log.Info().Msg("no group prefix header, request is tenant-agnostic")
	return Resolution{}
}

// headerValue prefers the exact key as sent, then the canonical form that
// net/http produces for inbound requests.
func headerValue(h http.Header, name string) string {
	if values, ok := h[name]; ok {
		return firstNonEmpty(values)
	}
	return firstNonEmpty(h.Values(name))
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
