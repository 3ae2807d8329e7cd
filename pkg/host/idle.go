package host

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrIdleRunning is returned when starting a runner twice.
var ErrIdleRunning = errors.New("host: idle runner already running")

const defaultIdleInterval = 30 * time.Millisecond

// IdleRunner calls fn on a control goroutine at a fixed interval. Plugins
// ask for their idle callback with needsIdle; Request only sets a flag, so
// it is safe on the realtime thread, and the callback runs on the next tick.
type IdleRunner struct {
	interval time.Duration
	fn       func()
	pending  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewIdleRunner creates a stopped runner. Non-positive intervals use 30ms.
func NewIdleRunner(intervalMS int, fn func()) *IdleRunner {
	interval := time.Duration(intervalMS) * time.Millisecond
	if interval <= 0 {
		interval = defaultIdleInterval
	}
	return &IdleRunner{interval: interval, fn: fn}
}

// Interval returns the tick interval.
func (r *IdleRunner) Interval() time.Duration {
	return r.interval
}

// Request schedules one idle callback.
func (r *IdleRunner) Request() {
	r.pending.Store(true)
}

// Pending reports whether a callback was requested and has not run yet.
func (r *IdleRunner) Pending() bool {
	return r.pending.Load()
}

// take consumes a pending request.
func (r *IdleRunner) take() bool {
	return r.pending.Swap(false)
}

// Start runs the loop until ctx is cancelled or Stop is called.
func (r *IdleRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return ErrIdleRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	go r.loop(ctx)
	return nil
}

func (r *IdleRunner) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fn()
		}
	}
}

// Stop ends the loop and waits for a running callback to return. It is safe
// to call on a stopped runner.
func (r *IdleRunner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Running reports whether the loop is active.
func (r *IdleRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// StartIdle runs the session's idle callbacks in the background until ctx
// is cancelled or the session is closed.
func (s *Session) StartIdle(ctx context.Context) error {
	return s.idle.Start(ctx)
}
