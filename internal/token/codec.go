// Package token encodes and decodes the signed session tokens carried in the
// Authorization header.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
)

var errIssuerMismatch = errors.New("token issuer mismatch")

type Options struct {
	Secret    string
	Algorithm string
	Issuer    string
	Lifetime  time.Duration
}

// Codec signs and verifies tokens with a process-wide secret. It holds no
// mutable state and is safe for concurrent use.
type Codec struct {
	secret   []byte
	method   jwt.SigningMethod
	issuer   string
	lifetime time.Duration
	parser   *jwt.Parser
}

func NewCodec(opts Options) (*Codec, error) {
	method := jwt.GetSigningMethod(opts.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, apperrors.Signing(fmt.Errorf("unsupported algorithm %q", opts.Algorithm))
	}
	if opts.Lifetime <= 0 {
		return nil, apperrors.Signing(fmt.Errorf("lifetime must be positive, got %s", opts.Lifetime))
	}

	return &Codec{
		secret:   []byte(opts.Secret),
		method:   method,
		issuer:   opts.Issuer,
		lifetime: opts.Lifetime,
		// Expiry is judged by the session validator, not here.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

func (c *Codec) Issuer() string {
	return c.issuer
}

// Encode signs claims. It fails with a SIGNING_ERROR AppError when the
// secret is missing or the claims are structurally invalid.
func (c *Codec) Encode(claims Claims) (string, error) {
	if len(c.secret) == 0 {
		return "", apperrors.Signing(errors.New("signing secret is empty"))
	}
	if err := claims.validate(); err != nil {
		return "", apperrors.Signing(err)
	}

	signed, err := jwt.NewWithClaims(c.method, toWire(claims)).SignedString(c.secret)
	if err != nil {
		return "", apperrors.Signing(err)
	}
	return signed, nil
}

// Decode verifies the signature, algorithm and payload shape, and the issuer
// when one is configured. Every failure is an INVALID_TOKEN AppError whose
// cause carries the detail for logging.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	var wire wireClaims
	_, err := c.parser.ParseWithClaims(tokenString, &wire, func(t *jwt.Token) (any, error) {
		if len(c.secret) == 0 {
			return nil, errors.New("verification secret is empty")
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, apperrors.InvalidToken(err)
	}

	claims := wire.claims()
	if err := claims.validate(); err != nil {
		return Claims{}, apperrors.InvalidToken(err)
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return Claims{}, apperrors.InvalidToken(fmt.Errorf("%w: got %q", errIssuerMismatch, claims.Issuer))
	}

	return claims, nil
}

// Issue builds and signs the claims for a fresh login of subject at now.
func (c *Codec) Issue(subject string, now time.Time) (string, Claims, error) {
	claims := Claims{
		Issuer:    c.issuer,
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(c.lifetime).Unix(),
		LoginSec:  now.Unix(),
	}
	signed, err := c.Encode(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

// Renew re-signs claims with a sliding expiry of now+lifetime.
func (c *Codec) Renew(claims Claims, now time.Time) (string, Claims, error) {
	renewed := claims.Renewed(now, c.lifetime)
	if renewed.Issuer == "" {
		renewed.Issuer = c.issuer
	}
	signed, err := c.Encode(renewed)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, renewed, nil
}
