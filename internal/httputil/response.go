package httputil

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
)

// Now is the clock used for envelope timestamps.
var Now = time.Now

// Envelope is the uniform response body of every endpoint.
type Envelope struct {
	Code      int    `json:"code"`
	Data      any    `json:"data"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// NewEnvelope never fails; nil data is rendered as an empty list.
func NewEnvelope(code int, data any, message string) Envelope {
	if data == nil {
		data = []any{}
	}
	return Envelope{
		Code:      code,
		Data:      data,
		Message:   message,
		Timestamp: Now().Unix(),
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// Success writes a 200 envelope.
func Success(w http.ResponseWriter, data any, message string) {
	SuccessWithCode(w, data, message, http.StatusOK)
}

// SuccessWithCode writes an envelope carrying code. The HTTP status follows
// code when it is a valid status, otherwise 200.
func SuccessWithCode(w http.ResponseWriter, data any, message string, code int) {
	if message == "" {
		message = "success"
	}
	WriteJSON(w, httpStatus(code, http.StatusOK), NewEnvelope(code, data, message))
}

// Error writes an error envelope with the given code as both body code and
// HTTP status.
func Error(w http.ResponseWriter, message string, code int, data any) {
	WriteJSON(w, httpStatus(code, http.StatusInternalServerError), NewEnvelope(code, data, message))
}

// WriteError renders err as an envelope. AppErrors keep their message; any
// other error becomes a generic 500 so internal causes never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		log.Error().Err(err).Msg("unhandled error")
		appErr = apperrors.Internal(apperrors.MsgSystemError)
	}

	status := StatusFromCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("code", string(appErr.Code)).Msg("request failed")
	}

	Error(w, appErr.Message, status, appErr.Details)
}

func httpStatus(code, fallback int) int {
	if code >= 100 && code <= 599 {
		return code
	}
	return fallback
}

// StatusFromCode maps ErrorCode to HTTP status code
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	// 400 Bad Request
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeMissingRequired,
		apperrors.ErrCodeInvalidCaptcha,
		apperrors.ErrCodeInvalidCredentials,
		apperrors.ErrCodeInsufficientBalance:
		return http.StatusBadRequest

	// 401 Unauthorized
	case apperrors.ErrCodeMissingCredential,
		apperrors.ErrCodeInvalidToken,
		apperrors.ErrCodeTokenExpired:
		return http.StatusUnauthorized

	// 403 Forbidden
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden

	// 404 Not Found
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	// 409 Conflict
	case apperrors.ErrCodeConflict:
		return http.StatusConflict

	// 429 Too Many Requests
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	// 500 Internal Server Error
	case apperrors.ErrCodeInternal,
		apperrors.ErrCodeDatabase,
		apperrors.ErrCodeSigning:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
