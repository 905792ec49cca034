package search

import (
	"context"
	"time"
)

// SettledMsg is delivered when a debounce timer fires
type SettledMsg struct {
	seq   int
	value string
}

// Debouncer turns a stream of raw values into one settled value per quiet
// period. Every Update restarts the period, including updates that repeat
// the current value; only the timer of the latest update can settle.
type Debouncer struct {
	delay   time.Duration
	seq     int
	value   string
	pending bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDebouncer creates a debouncer with the given quiet period
func NewDebouncer(delay time.Duration) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{delay: delay, ctx: ctx, cancel: cancel}
}

// Update records value and returns the timer for its quiet period
func (d *Debouncer) Update(value string) Cmd {
	if d.ctx.Err() != nil {
		return nil
	}
	d.seq++
	d.value = value
	d.pending = true

	seq, delay, ctx := d.seq, d.delay, d.ctx
	return func() Msg {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			return SettledMsg{seq: seq, value: value}
		case <-ctx.Done():
			return nil
		}
	}
}

// Settle reports the settled value if msg belongs to the latest update
func (d *Debouncer) Settle(msg SettledMsg) (string, bool) {
	if !d.pending || msg.seq != d.seq || d.ctx.Err() != nil {
		return "", false
	}
	d.pending = false
	return msg.value, true
}

// Pending reports whether a value is waiting for its quiet period
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Cancel drops the pending value without settling it
func (d *Debouncer) Cancel() {
	d.seq++
	d.pending = false
}

// Stop cancels pending timers and disables the debouncer
func (d *Debouncer) Stop() {
	d.Cancel()
	d.cancel()
}
