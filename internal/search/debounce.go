package search

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the latest of a burst of calls, delay after it was made.
// A newer call cancels the context of the previous one, whether it is still
// waiting or already running.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Call(ctx context.Context, fn func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = cancel
	d.mu.Unlock()

	go func() {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		fn(ctx)
	}()
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
