// Package watcher provides debounced reactions to filesystem events, used
// to coalesce plugin-directory churn into single rescans.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet window before a callback runs.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer collapses bursts of Trigger calls into one callback invocation.
// Only the callback from the most recent Trigger within the window runs.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a Debouncer with the given quiet window. A zero
// window selects DefaultDebounceDuration.
func NewDebouncer(window time.Duration) *Debouncer {
	if window == 0 {
		window = DefaultDebounceDuration
	}
	return &Debouncer{window: window}
}

// Trigger schedules callback to run once the window elapses with no further
// Trigger calls. An earlier pending callback is superseded.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// The timer may have fired while a newer Trigger or Cancel held the
		// lock; the sequence check keeps superseded callbacks from running.
		stale := seq != d.seq
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if stale {
			return
		}
		callback()
	})
}

// Cancel drops any pending callback, including one racing with the timer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Window returns the configured quiet window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
