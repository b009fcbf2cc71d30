package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/internal/store"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "persist:root:client-1"

type faultyStore struct {
	*storage.Memory

	mu        sync.Mutex
	loadErr   error
	saveErr   error
	removeErr error
	blockLoad bool
	saves     int
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Memory: storage.NewMemory()}
}

func (f *faultyStore) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	loadErr, block := f.loadErr, f.blockLoad
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if loadErr != nil {
		return nil, loadErr
	}
	return f.Memory.Load(ctx, key)
}

func (f *faultyStore) Save(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.saves++
	saveErr := f.saveErr
	f.mu.Unlock()
	if saveErr != nil {
		return saveErr
	}
	return f.Memory.Save(ctx, key, value)
}

func (f *faultyStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	removeErr := f.removeErr
	f.mu.Unlock()
	if removeErr != nil {
		return removeErr
	}
	return f.Memory.Remove(ctx, key)
}

func newPersistor(t *testing.T, st storage.Store, m *metrics.StoreMetrics) *Persistor {
	t.Helper()
	p, err := New(Options{Storage: st, Key: testKey, Metrics: m, RehydrateTimeout: 100 * time.Millisecond})
	require.NoError(t, err)
	return p
}

func item(id string, price int64) cart.Item {
	return cart.Item{ID: cart.ItemID(id), Name: "p" + id, URL: "p-" + id, Price: decimal.NewFromInt(price)}
}

func TestRehydrateRoundTripKeepsItemsAndOrder(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	c1 := store.New(store.Options{})
	p1 := newPersistor(t, mem, nil)
	assert.Equal(t, OutcomeEmpty, p1.Rehydrate(ctx, c1))
	p1.Start(ctx, c1)

	c1.Dispatch(cart.AddItem{Item: item("3", 15000), Quantity: 2})
	c1.Dispatch(cart.AddItem{Item: item("1", 100000), Quantity: 1})
	c1.Dispatch(cart.AddItem{Item: item("2", 500), Quantity: 4})
	c1.Dispatch(session.SetUser{User: session.User{ID: 4, Name: "An", Role: "USER"}})
	require.NoError(t, p1.Close(ctx))

	c2 := store.New(store.Options{})
	p2 := newPersistor(t, mem, nil)
	assert.False(t, p2.Ready())
	assert.Equal(t, OutcomeRestored, p2.Rehydrate(ctx, c2))
	assert.True(t, p2.Ready())

	got := c2.Snapshot()
	require.Len(t, got.Cart.Items, 3)
	ids := []cart.ItemID{got.Cart.Items[0].ID, got.Cart.Items[1].ID, got.Cart.Items[2].ID}
	assert.Equal(t, []cart.ItemID{"3", "1", "2"}, ids)
	assert.Equal(t, 2, got.Cart.Items[0].Quantity)
	assert.Equal(t, 4, got.Cart.Items[2].Quantity)
	assert.True(t, c2.CartTotal().Equal(decimal.NewFromInt(132000)))
	require.NotNil(t, got.Session.User)
	assert.Equal(t, int64(4), got.Session.User.ID)
}

func TestBackgroundWriterPersistsLatestState(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	c := store.New(store.Options{})
	p := newPersistor(t, mem, nil)
	p.Start(ctx, c)
	defer p.Close(ctx)

	for i := 1; i <= 5; i++ {
		c.Dispatch(cart.AddItem{Item: item("1", 10), Quantity: 1})
	}

	require.Eventually(t, func() bool {
		raw, err := mem.Load(ctx, testKey)
		if err != nil {
			return false
		}
		s, err := decode(raw)
		return err == nil && cart.Count(s.Cart) == 5
	}, time.Second, 5*time.Millisecond)
}

func TestPurgeOnLogoutTwiceLeavesStorageEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	c := store.New(store.Options{})
	p := newPersistor(t, mem, nil)
	p.Start(ctx, c)

	c.Dispatch(session.SetUser{User: session.User{ID: 1}})
	c.Dispatch(cart.AddItem{Item: item("1", 100), Quantity: 2})
	require.NoError(t, p.Flush(ctx))
	require.Equal(t, 1, mem.Len())

	c.Dispatch(store.Reset{})
	require.NoError(t, p.PurgeOnLogout(ctx))
	assert.Equal(t, 0, mem.Len())

	require.NoError(t, p.PurgeOnLogout(ctx))
	assert.Equal(t, 0, mem.Len())
	require.NoError(t, p.Close(ctx))

	// a restart must not resurrect the old cart
	fresh := store.New(store.Options{})
	assert.Equal(t, OutcomeEmpty, newPersistor(t, mem, nil).Rehydrate(ctx, fresh))
	assert.Empty(t, fresh.Snapshot().Cart.Items)
	assert.False(t, fresh.Snapshot().Session.Authenticated())
}

func TestPurgeOnLogoutResumesEvenWhenStepsFail(t *testing.T) {
	ctx := context.Background()
	st := newFaultyStore()
	st.saveErr = errors.New("disk full")
	st.removeErr = errors.New("read only")

	c := store.New(store.Options{})
	p := newPersistor(t, st, nil)
	p.Pause()
	p.Start(ctx, c)
	c.Dispatch(cart.AddItem{Item: item("1", 1), Quantity: 1})

	err := p.PurgeOnLogout(ctx)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePersistence))

	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()
	assert.False(t, paused, "resume must run after a failed purge")
	require.NoError(t, p.Close(ctx))
}

func TestWriteFailureDoesNotFailDispatch(t *testing.T) {
	ctx := context.Background()
	st := newFaultyStore()
	st.saveErr = errors.New("connection reset")
	reg := prometheus.NewRegistry()

	c := store.New(store.Options{})
	p := newPersistor(t, st, metrics.NewStoreMetrics(reg))
	p.Start(ctx, c)

	state := c.Dispatch(cart.AddItem{Item: item("1", 7), Quantity: 1})
	assert.Len(t, state.Cart.Items, 1)

	err := p.Flush(ctx)
	_ = p.Close(ctx)
	require.Eventually(t, func() bool {
		return writeErrors(reg) >= 1
	}, time.Second, 5*time.Millisecond)
	if err != nil {
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePersistence))
	}
	assert.Equal(t, 1, cart.Count(c.Snapshot().Cart), "in-memory state survives storage failures")
}

func TestPauseHoldsWritesUntilResume(t *testing.T) {
	ctx := context.Background()
	st := newFaultyStore()
	c := store.New(store.Options{})
	p := newPersistor(t, st, nil)
	p.Start(ctx, c)
	defer p.Close(ctx)

	p.Pause()
	c.Dispatch(cart.AddItem{Item: item("1", 7), Quantity: 1})
	time.Sleep(20 * time.Millisecond)
	_, err := st.Memory.Load(ctx, testKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	p.Resume()
	require.Eventually(t, func() bool {
		_, err := st.Memory.Load(ctx, testKey)
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

func TestRehydrateDiscardsBadData(t *testing.T) {
	ctx := context.Background()
	cases := map[string][]byte{
		"garbage":          []byte("{not json"),
		"version mismatch": []byte(`{"version":2,"cart":{"items":[{"id":1,"price":"1","quantity":1}]}}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemory()
			require.NoError(t, mem.Save(ctx, testKey, raw))
			c := store.New(store.Options{})
			p := newPersistor(t, mem, nil)
			assert.Equal(t, OutcomeDiscarded, p.Rehydrate(ctx, c))
			assert.True(t, p.Ready())
			assert.Empty(t, c.Snapshot().Cart.Items)
		})
	}
}

func TestRehydrateIsBoundedAndNeverFails(t *testing.T) {
	ctx := context.Background()
	st := newFaultyStore()
	st.blockLoad = true

	c := store.New(store.Options{})
	p := newPersistor(t, st, nil)
	started := time.Now()
	assert.Equal(t, OutcomeError, p.Rehydrate(ctx, c))
	assert.Less(t, time.Since(started), time.Second)
	assert.True(t, p.Ready())
}

func TestRehydrateAcceptsNumericAndStringIDs(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	raw := []byte(`{"version":1,"cart":{"items":[{"id":1,"url":"a","name":"A","image":"","price":100000,"quantity":1},{"id":"1","url":"a","name":"A","image":"","price":"100000","quantity":2}]},"session":{"user":null}}`)
	require.NoError(t, mem.Save(ctx, testKey, raw))

	c := store.New(store.Options{})
	require.Equal(t, OutcomeRestored, newPersistor(t, mem, nil).Rehydrate(ctx, c))
	require.Len(t, c.Snapshot().Cart.Items, 1)
	assert.Equal(t, 3, c.CartCount())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "persist:root:abc", Key("persist:root", "abc"))
	assert.Equal(t, "persist:root", Key("persist:root", " "))
	assert.Equal(t, "persist:root:abc:cookie", CookieKey("persist:root", "abc"))
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{Key: testKey})
	assert.Error(t, err)
	_, err = New(Options{Storage: storage.NewMemory()})
	assert.Error(t, err)
}

func writeErrors(reg *prometheus.Registry) float64 {
	mfs, err := reg.Gather()
	if err != nil {
		return 0
	}
	for _, mf := range mfs {
		if mf.GetName() != "storefront_persist_writes_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == "error" {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
