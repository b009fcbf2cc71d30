package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/internal/store"
)

// EnvelopeVersion is bumped whenever the persisted shape changes. Blobs with
// any other version are discarded on rehydrate.
const EnvelopeVersion = 1

type envelope struct {
	Version int           `json:"version"`
	Cart    cart.State    `json:"cart"`
	Session session.State `json:"session"`
	SavedAt time.Time     `json:"savedAt"`
}

var errVersionMismatch = errors.New("persisted state version mismatch")

func encode(s store.State, now time.Time) ([]byte, error) {
	return json.Marshal(envelope{
		Version: EnvelopeVersion,
		Cart:    s.Cart,
		Session: s.Session,
		SavedAt: now.UTC(),
	})
}

func decode(raw []byte) (store.State, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return store.State{}, fmt.Errorf("decoding persisted state: %w", err)
	}
	if env.Version != EnvelopeVersion {
		return store.State{}, fmt.Errorf("%w: got %d", errVersionMismatch, env.Version)
	}
	if env.Cart.Items == nil {
		env.Cart = cart.Empty()
	}
	return store.State{Cart: env.Cart, Session: env.Session}, nil
}

// Key is the storage key of a client's state blob.
func Key(namespace, clientID string) string {
	namespace = strings.TrimSpace(namespace)
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return namespace
	}
	return namespace + ":" + clientID
}

// CookieKey is the storage key of a client's access token cookie.
func CookieKey(namespace, clientID string) string {
	return Key(namespace, clientID) + ":cookie"
}
