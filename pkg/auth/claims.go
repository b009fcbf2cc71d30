package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the backend access token the storefront reads.
type Claims struct {
	UserID   any    `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// HasRole compares the role claim case-insensitively.
func (c *Claims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(c.Role), strings.TrimSpace(role))
}

// ExpiredAt reports whether the token's exp claim is at or before now.
// Tokens without exp never expire client-side.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}
