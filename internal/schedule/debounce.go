package schedule

import (
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled function once the delay has
// passed without another Schedule call. At most one call is pending.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	pending Timer
	gen     uint64
}

// NewDebouncer creates a Debouncer. A nil clock means RealClock.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Schedule cancels any pending call and schedules fn after the delay.
// Returns true if a pending call was replaced.
func (d *Debouncer) Schedule(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := d.cancelLocked()

	d.gen++
	gen := d.gen
	d.pending = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A real timer may fire after Stop lost the race; the generation
		// tells a stale callback apart from the current one.
		if gen != d.gen || d.pending == nil {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		fn()
	})

	return replaced
}

// CancelPending drops the pending call, if any. Returns true if one was dropped.
func (d *Debouncer) CancelPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) cancelLocked() bool {
	if d.pending == nil {
		return false
	}
	d.pending.Stop()
	d.pending = nil
	d.gen++
	return true
}
