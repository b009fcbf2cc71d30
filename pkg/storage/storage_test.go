package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/migrate"
	redisclient "github.com/angelmondragon/storefront/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "persist:root:c1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "persist:root:c1", []byte(`{"version":1}`)))
	got, err := store.Load(ctx, "persist:root:c1")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, store.Save(ctx, "persist:root:c1", []byte(`{"version":1,"cart":{}}`)))
	got, err = store.Load(ctx, "persist:root:c1")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1,"cart":{}}`, string(got))

	require.NoError(t, store.Remove(ctx, "persist:root:c1"))
	_, err = store.Load(ctx, "persist:root:c1")
	require.ErrorIs(t, err, ErrNotFound)

	// removing an absent key is not an error
	require.NoError(t, store.Remove(ctx, "persist:root:c1"))
}

func TestMemoryStore(t *testing.T) {
	mem := NewMemory()
	exerciseStore(t, mem)
	assert.Equal(t, 0, mem.Len())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, mem.Save(ctx, "k", buf))
	buf[0] = 'x'
	got, err := mem.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStoreHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemory().Save(ctx, "k", []byte("v"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSQLStore(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite"))

	store, err := NewSQL(conn)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}}
	store := &Redis{client: fake, ttl: time.Minute}
	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), "k", []byte("v")))
	_, ok := fake.data["sf:state:k"]
	assert.True(t, ok, "expected value under the namespaced key")
	assert.Equal(t, time.Minute, fake.lastTTL)
}

func TestRedisStoreWrapsBackendErrors(t *testing.T) {
	store := &Redis{client: &fakeRedis{err: errors.New("conn refused")}}
	_, err := store.Load(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNewRedisRequiresClient(t *testing.T) {
	_, err := NewRedis(nil, 0)
	assert.Error(t, err)
}

type fakeRedis struct {
	data    map[string]string
	lastTTL time.Duration
	err     error
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", redisclient.ErrNil
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.lastTTL = ttl
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	if f.err != nil {
		return f.err
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) StateKey(key string) string {
	return (&redisclient.Client{}).StateKey(key)
}
