package util

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsLegacyPassword reports whether stored is a base64 encoded plain password
// rather than a bcrypt hash.
func IsLegacyPassword(stored string) bool {
	return !strings.HasPrefix(stored, "$2")
}

// CheckPassword verifies password against a stored bcrypt hash or, for
// accounts not yet migrated, against its base64 encoding.
func CheckPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}
	if !IsLegacyPassword(stored) {
		return CheckPasswordHash(password, stored)
	}
	return ConstantTimeEqual(base64.StdEncoding.EncodeToString([]byte(password)), stored)
}
