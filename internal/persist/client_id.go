package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/google/uuid"
)

// ResolveClientID returns configured when set. Otherwise it reads the id
// recorded under the namespace, generating and recording a new one on first
// start so later starts rehydrate the same state.
//
// The returned id is always usable. A non-nil error means the storage could
// not be read or written and the id is ephemeral for this process.
func ResolveClientID(ctx context.Context, store storage.Store, namespace, configured string) (string, error) {
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}
	key := Key(namespace, "client-id")
	raw, err := store.Load(ctx, key)
	switch {
	case err == nil && strings.TrimSpace(string(raw)) != "":
		return strings.TrimSpace(string(raw)), nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return uuid.NewString(), fmt.Errorf("loading client id: %w", err)
	}
	id := uuid.NewString()
	if err := store.Save(ctx, key, []byte(id)); err != nil {
		return id, fmt.Errorf("recording client id: %w", err)
	}
	return id, nil
}
