// Package store is the single state container for the cart and the session.
// Every mutation goes through Dispatch; readers get immutable snapshots.
package store

import (
	"reflect"
	"sync"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

// State is the root state.
type State struct {
	Cart    cart.State    `json:"cart"`
	Session session.State `json:"session"`
}

// Initial is the empty cart with no user.
func Initial() State {
	return State{Cart: cart.Empty()}
}

// Action is anything that can be dispatched.
type Action interface {
	Type() string
}

// Hydrate installs a previously persisted state.
type Hydrate struct {
	State State
}

// Reset returns both slices to their initial state.
type Reset struct{}

func (Hydrate) Type() string { return "persist/REHYDRATE" }
func (Reset) Type() string   { return "root/reset" }

// Listener observes committed state. Listeners run on the dispatching
// goroutine and must not call Dispatch.
type Listener func(State)

type Options struct {
	Initial *State
	Metrics *metrics.StoreMetrics
}

type subscription struct {
	id uint64
	fn Listener
}

// Container owns the root state.
type Container struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     State
	version   uint64
	listeners []subscription
	nextID    uint64

	memoMu      sync.Mutex
	memoVersion uint64
	memoValid   bool
	memoTotal   decimal.Decimal
	memoCount   int

	metrics *metrics.StoreMetrics
}

func New(opts Options) *Container {
	initial := Initial()
	if opts.Initial != nil {
		initial = normalize(*opts.Initial)
	}
	return &Container{
		state:   initial,
		metrics: opts.Metrics,
	}
}

// Dispatch applies a, commits the result, and notifies listeners in
// subscription order before returning. Concurrent dispatches are serialized.
func (c *Container) Dispatch(a Action) State {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	next := reduce(c.state, a)
	if !reflect.DeepEqual(next, c.state) {
		c.state = next
		c.version++
	}
	committed := c.state
	listeners := make([]Listener, 0, len(c.listeners))
	for _, sub := range c.listeners {
		listeners = append(listeners, sub.fn)
	}
	c.mu.Unlock()

	c.metrics.IncAction(a.Type())

	for _, fn := range listeners {
		fn(committed)
	}
	return committed
}

// Subscribe registers fn and returns a function that removes it.
func (c *Container) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.listeners {
				if sub.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns the current state.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Version increases every time a dispatch changes the state.
func (c *Container) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// CartTotal is the memoized cart total for the current version.
func (c *Container) CartTotal() decimal.Decimal {
	total, _ := c.derived()
	return total
}

// CartCount is the memoized item count for the current version.
func (c *Container) CartCount() int {
	_, count := c.derived()
	return count
}

func (c *Container) derived() (decimal.Decimal, int) {
	c.mu.RLock()
	state, version := c.state, c.version
	c.mu.RUnlock()

	c.memoMu.Lock()
	defer c.memoMu.Unlock()
	if !c.memoValid || c.memoVersion != version {
		c.memoTotal = cart.Total(state.Cart)
		c.memoCount = cart.Count(state.Cart)
		c.memoVersion = version
		c.memoValid = true
	}
	return c.memoTotal, c.memoCount
}

func reduce(s State, a Action) State {
	switch act := a.(type) {
	case Hydrate:
		return normalize(act.State)
	case Reset:
		return Initial()
	}
	return State{
		Cart:    cart.Reduce(s.Cart, a),
		Session: session.Reduce(s.Session, a),
	}
}

func normalize(s State) State {
	s.Cart = cart.Normalize(s.Cart)
	return s
}
