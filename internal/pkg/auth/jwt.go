// internal/pkg/auth/jwt.go
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the backend puts into its access tokens
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// InspectToken decodes a bearer credential without verifying its signature.
// The gateway does not hold the backend's signing key; it only reads the
// claims to drop sessions whose credential has already expired.
func InspectToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether a credential is a JWT whose exp lies before now.
// Opaque (non-JWT) credentials and tokens without exp never expire here.
func IsExpired(tokenString string, now time.Time) bool {
	if strings.Count(tokenString, ".") != 2 {
		return false
	}
	claims, err := InspectToken(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// BearerHeader formats a credential for the Authorization header
func BearerHeader(token string) string {
	return "Bearer " + token
}
