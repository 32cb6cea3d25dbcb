package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Authentication
	ErrCodeMissingCredential  ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeSigning            ErrorCode = "SIGNING_ERROR"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidCaptcha     ErrorCode = "INVALID_CAPTCHA"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"

	// Validation
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED"

	// Resource
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"

	// Funds
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"

	// Rate Limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)

// User-facing authentication messages. Expired and invalid tokens share one
// message so callers cannot tell the two apart.
const (
	MsgLoginRequired  = "请先登录"
	MsgSessionExpired = "登录已过期，请重新登录"
	MsgSystemError    = "系统错误，请稍后重试"
)

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func MissingCredential() *AppError {
	return New(ErrCodeMissingCredential, MsgLoginRequired)
}

func InvalidToken(cause error) *AppError {
	return Wrap(ErrCodeInvalidToken, MsgSessionExpired, cause)
}

func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, MsgSessionExpired)
}

func Signing(cause error) *AppError {
	return Wrap(ErrCodeSigning, "Failed to sign token", cause)
}

func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "账号或密码错误，或账号已被冻结")
}

func InvalidCaptcha() *AppError {
	return New(ErrCodeInvalidCaptcha, "验证码错误")
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason))
}

func MissingRequired(message string) *AppError {
	return New(ErrCodeMissingRequired, message)
}

func InsufficientBalance(message string) *AppError {
	return New(ErrCodeInsufficientBalance, message)
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "请求过于频繁，请稍后再试")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Database(cause error) *AppError {
	return Wrap(ErrCodeDatabase, MsgSystemError, cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsAuthFailure reports whether err is one of the authentication failures
// that terminate a request with 401.
func IsAuthFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingCredential, ErrCodeInvalidToken, ErrCodeTokenExpired:
		return true
	default:
		return false
	}
}
