// Package persist mirrors the state container into durable storage and
// restores it at startup.
package persist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/storefront/internal/store"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
	"go.uber.org/multierr"
)

const (
	defaultRehydrateTimeout = 3 * time.Second
	defaultWriteTimeout     = 2 * time.Second
)

// Rehydrate outcomes.
const (
	OutcomeRestored  = "restored"
	OutcomeEmpty     = "empty"
	OutcomeDiscarded = "discarded"
	OutcomeError     = "error"
)

type Options struct {
	Storage          storage.Store
	Key              string
	RehydrateTimeout time.Duration
	WriteTimeout     time.Duration
	Logger           *logger.Logger
	Metrics          *metrics.StoreMetrics
}

// Persistor owns the write path from the container to storage. A single
// pending snapshot is kept; bursts of commits collapse into one write of the
// latest state.
type Persistor struct {
	store            storage.Store
	key              string
	rehydrateTimeout time.Duration
	writeTimeout     time.Duration
	logg             *logger.Logger
	metrics          *metrics.StoreMetrics
	now              func() time.Time

	mu      sync.Mutex
	paused  bool
	pending *store.State

	// writeMu serializes every storage operation.
	writeMu sync.Mutex

	wake        chan struct{}
	ready       atomic.Bool
	unsubscribe func()
	stop        context.CancelFunc
	done        chan struct{}
	closeOnce   sync.Once
}

func New(opts Options) (*Persistor, error) {
	if opts.Storage == nil {
		return nil, errors.New("persist storage is required")
	}
	if opts.Key == "" {
		return nil, errors.New("persist key is required")
	}
	if opts.RehydrateTimeout <= 0 {
		opts.RehydrateTimeout = defaultRehydrateTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Persistor{
		store:            opts.Storage,
		key:              opts.Key,
		rehydrateTimeout: opts.RehydrateTimeout,
		writeTimeout:     opts.WriteTimeout,
		logg:             opts.Logger,
		metrics:          opts.Metrics,
		now:              time.Now,
		wake:             make(chan struct{}, 1),
	}, nil
}

// Rehydrate loads the stored state into c. Missing, unreadable, or
// incompatible data leaves c at its initial state. The persistor is ready
// once this returns, whatever the outcome.
func (p *Persistor) Rehydrate(ctx context.Context, c *store.Container) string {
	defer p.ready.Store(true)

	ctx, cancel := context.WithTimeout(ctx, p.rehydrateTimeout)
	defer cancel()
	ctx = p.logg.WithField(ctx, "storage_key", p.key)

	outcome := p.rehydrate(ctx, c)
	p.metrics.IncRehydrate(outcome)
	p.logg.Info(p.logg.WithField(ctx, "outcome", outcome), "state rehydrated")
	return outcome
}

func (p *Persistor) rehydrate(ctx context.Context, c *store.Container) string {
	p.writeMu.Lock()
	raw, err := p.store.Load(ctx, p.key)
	p.writeMu.Unlock()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return OutcomeEmpty
		}
		p.logg.WarnErr(ctx, "reading persisted state failed; starting empty", err)
		return OutcomeError
	}

	state, err := decode(raw)
	if err != nil {
		p.logg.WarnErr(ctx, "discarding persisted state", err)
		return OutcomeDiscarded
	}
	c.Dispatch(store.Hydrate{State: state})
	return OutcomeRestored
}

// Ready reports whether rehydration has completed.
func (p *Persistor) Ready() bool {
	return p.ready.Load()
}

// Start subscribes to c and runs the background writer until Close.
func (p *Persistor) Start(ctx context.Context, c *store.Container) {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.stop = cancel
	p.done = make(chan struct{})
	p.unsubscribe = c.Subscribe(p.enqueue)
	go p.run(runCtx)
}

func (p *Persistor) enqueue(s store.State) {
	p.mu.Lock()
	p.pending = &s
	paused := p.paused
	p.mu.Unlock()
	if !paused {
		p.signal()
	}
}

func (p *Persistor) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Persistor) run(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			_ = p.writePending(ctx, false)
		}
	}
}

// writePending saves the pending snapshot. Unless force is set, a paused
// persistor leaves it in place.
func (p *Persistor) writePending(ctx context.Context, force bool) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	if p.pending == nil || (p.paused && !force) {
		p.mu.Unlock()
		return nil
	}
	state := *p.pending
	p.pending = nil
	p.mu.Unlock()

	return p.save(ctx, state)
}

func (p *Persistor) save(ctx context.Context, s store.State) error {
	raw, err := encode(s, p.now())
	if err != nil {
		p.metrics.IncWrite("error")
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "encode state")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.writeTimeout)
	defer cancel()
	if err := p.store.Save(ctx, p.key, raw); err != nil {
		p.metrics.IncWrite("error")
		p.logg.WarnErr(p.logg.WithField(ctx, "storage_key", p.key), "persisting state failed; keeping in-memory state", err)
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "persist state")
	}
	p.metrics.IncWrite("ok")
	return nil
}

// Pause stops the background writer from saving. Commits keep replacing the
// pending snapshot.
func (p *Persistor) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume re-enables writing and saves anything left pending.
func (p *Persistor) Resume() {
	p.mu.Lock()
	p.paused = false
	hasPending := p.pending != nil
	p.mu.Unlock()
	if hasPending {
		p.signal()
	}
}

// Flush writes the pending snapshot now, even while paused, after any
// in-flight write has finished.
func (p *Persistor) Flush(ctx context.Context) error {
	return p.writePending(ctx, true)
}

// Purge drops the pending snapshot and erases the stored state.
func (p *Persistor) Purge(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.writeTimeout)
	defer cancel()
	if err := p.store.Remove(ctx, p.key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "purge persisted state")
	}
	return nil
}

// PurgeOnLogout runs pause, flush, purge, and resume strictly in that order.
// Resume always runs. Calling it again is harmless.
func (p *Persistor) PurgeOnLogout(ctx context.Context) error {
	started := time.Now()
	ctx = p.logg.WithField(ctx, "storage_key", p.key)

	p.Pause()
	defer p.Resume()

	var errs error
	if err := p.Flush(ctx); err != nil {
		p.logg.WarnErr(ctx, "flush before purge failed", err)
		errs = multierr.Append(errs, err)
	}
	if err := p.Purge(ctx); err != nil {
		p.logg.WarnErr(ctx, "purge failed", err)
		errs = multierr.Append(errs, err)
	}

	outcome := "ok"
	if errs != nil {
		outcome = "error"
	}
	p.metrics.ObservePurge(outcome, time.Since(started))
	p.logg.Info(p.logg.WithField(ctx, "outcome", outcome), "persisted state purged")
	return errs
}

// Close stops the writer and flushes whatever is still pending.
func (p *Persistor) Close(ctx context.Context) error {
	var err error
	p.closeOnce.Do(func() {
		if p.unsubscribe != nil {
			p.unsubscribe()
		}
		if p.stop != nil {
			p.stop()
			<-p.done
		}
		err = p.Flush(ctx)
	})
	return err
}
