package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerRunsOnlyLastCall(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	for i := 1; i <= 3; i++ {
		i := i
		d.Trigger(context.Background(), func(ctx context.Context) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			close(done)
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected only the last call to run, got %v", got)
	}
}

func TestTriggerCancelsInFlightContext(t *testing.T) {
	d := New(0)
	defer d.Stop()

	started := make(chan context.Context, 1)
	d.Trigger(context.Background(), func(ctx context.Context) {
		started <- ctx
	})
	first := <-started

	d.Trigger(context.Background(), func(ctx context.Context) {})

	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("expected the earlier run's context to be canceled")
	}
}

func TestStopPreventsFurtherRuns(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(context.Background(), func(context.Context) { calls.Add(1) })
	d.Stop()
	d.Trigger(context.Background(), func(context.Context) { calls.Add(1) })

	time.Sleep(40 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected no calls after stop, got %d", n)
	}
}
