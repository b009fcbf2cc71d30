// Package debounce coalesces bursts of input into a single delayed call.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the last function triggered within the delay window.
// Triggering again cancels the pending timer and the context handed to the
// previous run, so a slow earlier call cannot outlive a newer one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, replacing whatever was pending.
func (d *Debouncer) Trigger(parent context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.resetLocked()

	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	d.cancel = cancel
	if d.delay <= 0 {
		go fn(ctx)
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		fn(ctx)
	})
}

// Cancel drops the pending call and cancels the in-flight one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

// Stop cancels everything and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.stopped = true
}

func (d *Debouncer) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
