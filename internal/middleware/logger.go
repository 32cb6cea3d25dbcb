package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs one line per request. Tenant headers are echoed so a
// missing or misspelled group prefix is visible in the access log.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rc := GetRequestContext(r.Context())
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("group_prefix", rc.TenantScope).
			Bool("has_token", r.Header.Get("Authorization") != "").
			Dict("tenant_headers", tenantHeaders(r.Header)).
			Msg("request")
	})
}

func tenantHeaders(h http.Header) *zerolog.Event {
	dict := zerolog.Dict()
	for name, values := range h {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "group") || strings.Contains(lower, "prefix") {
			dict = dict.Strs(name, values)
		}
	}
	return dict
}
