package cookie

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T, now time.Time) (*Manager, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	m, err := NewManager(mem, "persist:root:c1:cookie", config.AuthConfig{
		CookieName:   "access_token",
		CookieTTL:    7 * 24 * time.Hour,
		CookieSecure: true,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.now = func() time.Time { return now }
	return m, mem
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "USER",
		"exp":  exp.Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestSetUsesSevenDayLifetime(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m, _ := newTestManager(t, now)
	token := signed(t, now.Add(30*24*time.Hour))

	c, err := m.Set(context.Background(), token)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if want := now.Add(7 * 24 * time.Hour); !c.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, c.ExpiresAt)
	}
	got, err := m.Token(context.Background())
	if err != nil || got != token {
		t.Fatalf("expected stored token back, got %q err=%v", got, err)
	}

	hc := m.HTTPCookie(c)
	if hc.SameSite != http.SameSiteStrictMode || !hc.Secure || hc.Name != "access_token" {
		t.Fatalf("unexpected http cookie %+v", hc)
	}
}

func TestSetCapsLifetimeAtTokenExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m, _ := newTestManager(t, now)
	exp := now.Add(time.Hour)

	c, err := m.Set(context.Background(), signed(t, exp))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry capped at %s, got %s", exp, c.ExpiresAt)
	}
}

func TestExpiredCookieIsDropped(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m, mem := newTestManager(t, now)
	if _, err := m.Set(context.Background(), signed(t, now.Add(time.Minute))); err != nil {
		t.Fatalf("set: %v", err)
	}

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := m.Token(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if mem.Len() != 0 {
		t.Fatalf("expired cookie should be removed from storage")
	}
}

func TestRemove(t *testing.T) {
	m, _ := newTestManager(t, time.Now())
	if _, err := m.Set(context.Background(), "opaque-token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Remove(context.Background()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := m.Get(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential after remove, got %v", err)
	}
	if m.ExpiredHTTPCookie().MaxAge >= 0 {
		t.Fatalf("expired cookie should carry a negative MaxAge")
	}
}

func TestNewManagerValidates(t *testing.T) {
	if _, err := NewManager(nil, "k", config.AuthConfig{CookieTTL: time.Hour}); err == nil {
		t.Fatalf("expected store required error")
	}
	if _, err := NewManager(storage.NewMemory(), "", config.AuthConfig{CookieTTL: time.Hour}); err == nil {
		t.Fatalf("expected key required error")
	}
	if _, err := NewManager(storage.NewMemory(), "k", config.AuthConfig{}); err == nil {
		t.Fatalf("expected ttl error")
	}
}
