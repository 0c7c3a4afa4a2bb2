// Package input turns raw hardware signals into the two discrete events the
// menu understands: a rotation step with a direction, and a confirmed button
// press. The encoder half runs in two execution contexts — an asynchronous
// edge handler and the control loop's polled drain — and the single-slot
// mailbox between them is the only shared mutable state in the system.
package input

import (
	"sync"
	"time"
)

// Direction of one encoder detent.
type Direction int

const (
	CW  Direction = iota // clockwise
	CCW                  // counter-clockwise
)

// String returns a short human form, used in logs.
func (d Direction) String() string {
	if d == CW {
		return "cw"
	}
	return "ccw"
}

// Event is one debounced rotation step, produced by the encoder and consumed
// exactly once by the state machine.
type Event struct {
	Direction Direction
}

// Encoder converts channel-A edges into direction events. Edge is called from
// the watcher goroutine (the interrupt context stand-in) with channel B's
// level sampled at the instant of the rising edge; Drain is called once per
// control cycle. The mutex plays the role of the masked-interrupt section: the
// two sides never observe the pending flag in a torn state. At most one event
// is buffered — an edge arriving while another is pending is dropped, an
// accepted precision/simplicity trade-off rather than a bug.
type Encoder struct {
	mu      sync.Mutex
	pending bool
	dir     Direction
}

// Edge records a rising edge on channel A. The direction is clockwise when
// channel B's level matches the edge level, counter-clockwise otherwise.
// Never blocks beyond the mailbox lock; must not be called with any other
// lock held.
func (e *Encoder) Edge(bHigh bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending {
		return // previous step not consumed yet, drop this one
	}
	e.pending = true
	if bHigh {
		e.dir = CW
	} else {
		e.dir = CCW
	}
}

// Drain consumes the pending event, if any. Emits zero or one event per call.
func (e *Encoder) Drain() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.pending {
		return Event{}, false
	}
	e.pending = false
	return Event{Direction: e.dir}, true
}

// Button debounces the confirm button by time alone: a press is accepted only
// when the polled level reads pressed and the minimum interval has elapsed
// since the last accepted press. No edge detection on the button line.
type Button struct {
	minInterval time.Duration
	last        time.Time
}

// NewButton creates a button debouncer with the given minimum interval
// between accepted presses.
func NewButton(minInterval time.Duration) *Button {
	return &Button{minInterval: minInterval}
}

// Observe feeds one polled level reading taken at the given instant and
// reports whether it counts as a new press.
func (b *Button) Observe(pressed bool, at time.Time) bool {
	if !pressed {
		return false
	}
	if !b.last.IsZero() && at.Sub(b.last) < b.minInterval {
		return false
	}
	b.last = at
	return true
}
