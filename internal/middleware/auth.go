package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ntp/agent-server-go/internal/audit"
	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/metrics"
	"github.com/ntp/agent-server-go/internal/token"
)

const (
	// RenewedTokenHeader carries the renewed bearer credential.
	RenewedTokenHeader = "Authorization"
	// TokenExtendedHeader is set to "1" whenever a renewal happened.
	TokenExtendedHeader = "X-Token-Extended"
)

// TokenCodec is the subset of token.Codec the validator needs.
type TokenCodec interface {
	Decode(tokenString string) (token.Claims, error)
	Renew(claims token.Claims, now time.Time) (string, token.Claims, error)
	Lifetime() time.Duration
}

// SessionValidator authenticates bearer tokens and renews them when less
// than one full lifetime remains.
type SessionValidator struct {
	codec TokenCodec
	now   func() time.Time
}

func NewSessionValidator(codec TokenCodec) *SessionValidator {
	return &SessionValidator{codec: codec, now: time.Now}
}

// Validate runs the session state machine against rc and fills in the
// principal on success. The returned error is always one of the
// MISSING_CREDENTIAL, INVALID_TOKEN or TOKEN_EXPIRED AppErrors.
func (v *SessionValidator) Validate(rc *RequestContext) error {
	if rc.RawToken == "" {
		return apperrors.MissingCredential()
	}

	claims, err := v.codec.Decode(rc.RawToken)
	if err != nil {
		return err
	}

	agentID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || agentID <= 0 {
		return apperrors.InvalidToken(err)
	}

	now := v.now()
	remaining := claims.ExpiresAt - now.Unix()
	lifetime := int64(v.codec.Lifetime() / time.Second)

	if remaining <= 0 {
		return apperrors.TokenExpired()
	}

	if remaining < lifetime {
		v.renew(rc, claims, now, remaining)
	} else {
		log.Debug().Int64("agent_id", agentID).Int64("remaining", remaining).Msg("token has sufficient time, no renewal")
	}

	rc.IsAuthenticated = true
	rc.PrincipalID = &agentID
	rc.Claims = &claims
	return nil
}

// renew never fails the request; on a signing error the original token
// stays in use.
func (v *SessionValidator) renew(rc *RequestContext, claims token.Claims, now time.Time, remaining int64) {
	signed, renewed, err := v.codec.Renew(claims, now)
	metrics.TokenRenewalsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Str("sub", claims.Subject).Msg("token renewal failed, continuing with original token")
		return
	}

	rc.RenewedToken = &signed
	log.Info().
		Str("sub", claims.Subject).
		Int64("remaining", remaining).
		Time("old_expires_at", time.Unix(claims.ExpiresAt, 0)).
		Time("new_expires_at", time.Unix(renewed.ExpiresAt, 0)).
		Msg("token renewed")
}

// Handler enforces authentication. Requests that fail never reach next.
func (v *SessionValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := GetRequestContext(r.Context())

		if err := v.Validate(rc); err != nil {
			log.Warn().
				Err(err).
				Str("path", r.URL.Path).
				Str("group_prefix", rc.TenantScope).
				Msg("authentication failed")
			audit.LogFromRequest(r, audit.Event{
				Type:        audit.EventAuthFailure,
				GroupPrefix: rc.TenantScope,
				Details:     map[string]interface{}{"code": string(apperrors.GetCode(err))},
			})
			writeError(w, err)
			return
		}

		if rc.RenewedToken != nil {
			w.Header().Set(RenewedTokenHeader, "Bearer "+*rc.RenewedToken)
			w.Header().Set(TokenExtendedHeader, "1")
			audit.LogFromRequest(r, audit.Event{
				Type:        audit.EventTokenRenew,
				AgentID:     *rc.PrincipalID,
				GroupPrefix: rc.TenantScope,
			})
		}

		// rc is a fresh bag when population did not run upstream.
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}

// Optional populates the principal when a valid token is present and lets
// every request through. Tokens are not renewed here.
func (v *SessionValidator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := GetRequestContext(r.Context())

		if rc.RawToken != "" {
			claims, err := v.codec.Decode(rc.RawToken)
			if err == nil && claims.ExpiresAt > v.now().Unix() {
				if agentID, perr := strconv.ParseInt(claims.Subject, 10, 64); perr == nil {
					rc.IsAuthenticated = true
					rc.PrincipalID = &agentID
					rc.Claims = &claims
				}
			} else {
				log.Debug().Err(err).Msg("ignoring unusable token on public route")
			}
		}

		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}
