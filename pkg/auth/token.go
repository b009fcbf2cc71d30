package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no token is supplied.
	ErrMissingToken = errors.New("access token is required")
	// ErrTokenExpired is returned when the exp claim has passed.
	ErrTokenExpired = errors.New("access token expired")
)

// ParseClaims decodes the access token payload without verifying its
// signature. The storefront never holds the backend signing key; the backend
// re-validates every bearer it receives.
func ParseClaims(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}
	return claims, nil
}

// ParseActiveClaims decodes the token and rejects it when expired at now.
func ParseActiveClaims(tokenString string, now time.Time) (*Claims, error) {
	claims, err := ParseClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.ExpiredAt(now) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}
