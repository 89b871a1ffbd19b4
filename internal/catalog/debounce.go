package catalog

import (
	"sync"
	"time"
)

// DefaultDebounce is the idle window used for live search input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces rapid updates: apply runs with the last pushed value
// once no new value has arrived for the idle window. After Stop no pending
// or future value is applied.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	apply   func(T)
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling apply after delay of inactivity.
func NewDebouncer[T any](delay time.Duration, apply func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[T]{delay: delay, apply: apply}
}

// Push records value and restarts the idle window.
func (d *Debouncer[T]) Push(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A newer push or Stop may have raced with this timer firing.
		current := !d.stopped && seq == d.seq
		d.mu.Unlock()
		if current {
			d.apply(value)
		}
	})
}

// Stop cancels any pending application and disables the debouncer.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
