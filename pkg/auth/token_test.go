package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID:   7,
		Username: "an",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseClaimsReadsRoleWithoutSecret(t *testing.T) {
	token := mintToken(t, "ADMIN", time.Now().Add(time.Hour))

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("parse claims: %v", err)
	}
	if !claims.HasRole("admin") {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
	if claims.Username != "an" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
}

func TestParseActiveClaimsRejectsExpired(t *testing.T) {
	now := time.Now()
	token := mintToken(t, "USER", now.Add(-time.Minute))

	claims, err := ParseActiveClaims(token, now)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if claims == nil || claims.Role != "USER" {
		t.Fatalf("expired claims should still be returned for logging")
	}
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	if _, err := ParseClaims(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := ParseClaims("not-a-jwt"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestClaimsWithoutExpiryNeverExpire(t *testing.T) {
	c := &Claims{Role: "USER"}
	if c.ExpiredAt(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Fatalf("claims without exp should not expire")
	}
	var nilClaims *Claims
	if nilClaims.HasRole("ADMIN") {
		t.Fatalf("nil claims should carry no role")
	}
}
