// Package cookie keeps the backend access token the way the browser kept the
// access_token cookie: a named credential with a bounded lifetime.
package cookie

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/storage"
)

// ErrNoCredential is returned when no unexpired token is stored.
var ErrNoCredential = errors.New("no access token stored")

type credentialStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Cookie is the stored credential.
type Cookie struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
	Secure    bool      `json:"secure"`
}

// Manager stores and retrieves the access token cookie.
type Manager struct {
	store credentialStore
	key   string
	cfg   config.AuthConfig
	now   func() time.Time
}

// NewManager builds a cookie manager persisting under key.
func NewManager(store storage.Store, key string, cfg config.AuthConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("cookie key is required")
	}
	if cfg.CookieTTL <= 0 {
		return nil, fmt.Errorf("cookie ttl must be positive")
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = "access_token"
	}
	return &Manager{store: store, key: key, cfg: cfg, now: time.Now}, nil
}

// Set stores token. The cookie lives for the configured TTL, cut short by the
// token's own exp claim when that comes first.
func (m *Manager) Set(ctx context.Context, token string) (Cookie, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cookie{}, auth.ErrMissingToken
	}
	now := m.now()
	expires := now.Add(m.cfg.CookieTTL)
	if claims, err := auth.ParseClaims(token); err == nil && claims.ExpiresAt != nil {
		if exp := claims.ExpiresAt.Time; exp.Before(expires) {
			expires = exp
		}
	}
	c := Cookie{
		Name:      m.cfg.CookieName,
		Value:     token,
		ExpiresAt: expires.UTC(),
		Secure:    m.cfg.CookieSecure,
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return Cookie{}, fmt.Errorf("encoding cookie: %w", err)
	}
	if err := m.store.Save(ctx, m.key, raw); err != nil {
		return Cookie{}, err
	}
	return c, nil
}

// Get returns the stored cookie. Expired cookies are dropped and reported as
// ErrNoCredential.
func (m *Manager) Get(ctx context.Context) (Cookie, error) {
	raw, err := m.store.Load(ctx, m.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Cookie{}, ErrNoCredential
		}
		return Cookie{}, err
	}
	var c Cookie
	if err := json.Unmarshal(raw, &c); err != nil || c.Value == "" {
		_ = m.store.Remove(ctx, m.key)
		return Cookie{}, ErrNoCredential
	}
	if !m.now().Before(c.ExpiresAt) {
		_ = m.store.Remove(ctx, m.key)
		return Cookie{}, ErrNoCredential
	}
	return c, nil
}

// Token returns the stored access token value.
func (m *Manager) Token(ctx context.Context) (string, error) {
	c, err := m.Get(ctx)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Remove deletes the stored cookie.
func (m *Manager) Remove(ctx context.Context) error {
	return m.store.Remove(ctx, m.key)
}

// HTTPCookie renders c for a response to the UI.
func (m *Manager) HTTPCookie(c Cookie) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     "/",
		Expires:  c.ExpiresAt,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredHTTPCookie clears the cookie on the UI side.
func (m *Manager) ExpiredHTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
