package debounce

import (
	"sync"
	"time"
)

// afterFunc is swapped out in tests to run callbacks deterministically.
var afterFunc = time.AfterFunc

// Debouncer coalesces bursts of Trigger calls into a single invocation of fn
// after delay has elapsed with no further triggers.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	fn    func()
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.delay, func() {
		// A Stop or a later Trigger may have raced with the timer firing;
		// only the latest scheduled callback runs.
		d.mu.Lock()
		stale := gen != d.gen
		d.mu.Unlock()
		if stale {
			return
		}
		d.fn()
	})
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Ensure lazily initializes *d with delay and fn, returning the stored
// debouncer. A debouncer already present is returned unchanged.
func Ensure(d **Debouncer, delay time.Duration, fn func()) *Debouncer {
	if *d == nil {
		*d = New(delay, fn)
	}
	return *d
}
