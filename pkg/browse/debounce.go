package browse

import (
	"sync"
	"time"
)

// DefaultDebounce is how long search input must be quiet before a query runs.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer coalesces a burst of triggers into one callback, fired after the
// burst goes quiet for the configured delay. Each Trigger cancels the
// previous pending callback and schedules its own, so only the last trigger
// of a burst fires, and the last trigger always fires unless Stop intervenes.
// Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer returns a debouncer with the given delay. A delay of zero or
// less falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, replacing any callback already
// pending. fn runs on a timer goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
