package token

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded content of a session token. It is a value type:
// renewal builds a new Claims instead of mutating an existing one.
type Claims struct {
	Issuer    string
	Subject   string
	IssuedAt  int64
	ExpiresAt int64
	LoginSec  int64
}

// Remaining returns the time left before the claims expire, relative to now.
func (c Claims) Remaining(now time.Time) time.Duration {
	return time.Duration(c.ExpiresAt-now.Unix()) * time.Second
}

// Renewed returns a copy whose expiry is now+lifetime. Issuer, subject,
// issued-at and login time are carried over from the original.
func (c Claims) Renewed(now time.Time, lifetime time.Duration) Claims {
	renewed := c
	renewed.ExpiresAt = now.Add(lifetime).Unix()
	if renewed.IssuedAt == 0 {
		renewed.IssuedAt = now.Unix()
	}
	if renewed.LoginSec == 0 {
		renewed.LoginSec = now.Unix()
	}
	return renewed
}

func (c Claims) validate() error {
	if c.Subject == "" {
		return fmt.Errorf("missing subject")
	}
	if c.ExpiresAt <= c.IssuedAt {
		return fmt.Errorf("expiry %d is not after issued-at %d", c.ExpiresAt, c.IssuedAt)
	}
	return nil
}

// wireClaims is the JSON payload: {iss, sub, iat, exp, loginsec}.
type wireClaims struct {
	Issuer    string  `json:"iss"`
	Subject   subject `json:"sub"`
	IssuedAt  int64   `json:"iat"`
	ExpiresAt int64   `json:"exp"`
	LoginSec  int64   `json:"loginsec"`
}

func toWire(c Claims) *wireClaims {
	return &wireClaims{
		Issuer:    c.Issuer,
		Subject:   subject(c.Subject),
		IssuedAt:  c.IssuedAt,
		ExpiresAt: c.ExpiresAt,
		LoginSec:  c.LoginSec,
	}
}

func (w *wireClaims) claims() Claims {
	return Claims{
		Issuer:    w.Issuer,
		Subject:   string(w.Subject),
		IssuedAt:  w.IssuedAt,
		ExpiresAt: w.ExpiresAt,
		LoginSec:  w.LoginSec,
	}
}

func (w *wireClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return numericDate(w.ExpiresAt), nil
}

func (w *wireClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return numericDate(w.IssuedAt), nil
}

func (w *wireClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (w *wireClaims) GetIssuer() (string, error) {
	return w.Issuer, nil
}

func (w *wireClaims) GetSubject() (string, error) {
	return string(w.Subject), nil
}

func (w *wireClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}

func numericDate(unix int64) *jwt.NumericDate {
	if unix == 0 {
		return nil
	}
	return jwt.NewNumericDate(time.Unix(unix, 0))
}

// subject accepts both string and integer "sub" values; older tokens carry
// the agent id as a JSON number.
type subject string

func (s subject) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *subject) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = subject(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("sub must be a string or number: %w", err)
	}
	if _, err := strconv.ParseInt(num.String(), 10, 64); err != nil {
		return fmt.Errorf("sub must be an integer: %w", err)
	}
	*s = subject(num.String())
	return nil
}
