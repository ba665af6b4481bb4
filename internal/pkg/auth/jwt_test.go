package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		Email: "amira@example.com",
		Role:  "client",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestInspectToken(t *testing.T) {
	token := signed(t, time.Now().Add(time.Hour))

	claims, err := InspectToken(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "amira@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	if IsExpired(signed(t, now.Add(time.Hour)), now) {
		t.Fatalf("future exp should not be expired")
	}
	if !IsExpired(signed(t, now.Add(-time.Minute)), now) {
		t.Fatalf("past exp should be expired")
	}
	if IsExpired("opaque-credential", now) {
		t.Fatalf("opaque credentials never expire locally")
	}
}
