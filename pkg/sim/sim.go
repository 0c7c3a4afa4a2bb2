// Package sim runs the real control loop against a simulated front panel in
// the terminal: arrow keys stand in for the rotary encoder, enter for the
// button, and a bordered box mirrors the OLED frame by frame. Nothing in the
// loop knows it is not on hardware.
package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/ui"
)

// Panel is the simulated front panel: it collects rendered frames and feed
// notices for the terminal model and latches button presses for the loop. It
// implements the loop's Renderer and ButtonReader collaborators.
type Panel struct {
	frames  chan ui.Screen
	feeds   chan FeedNotice
	pressed atomic.Bool
}

// FeedNotice is one simulated dispensing shown in the status line.
type FeedNotice struct {
	At        time.Time
	Rotations int
	Source    string
}

// NewPanel creates a panel with room for a short backlog of frames.
func NewPanel() *Panel {
	return &Panel{
		frames: make(chan ui.Screen, 16),
		feeds:  make(chan FeedNotice, 16),
	}
}

// Frames is drained by the terminal model, one message per rendered frame.
func (p *Panel) Frames() <-chan ui.Screen { return p.frames }

// Feeds is drained by the terminal model.
func (p *Panel) Feeds() <-chan FeedNotice { return p.feeds }

// Press latches one button press for the next loop poll.
func (p *Panel) Press() { p.pressed.Store(true) }

// Pressed reports and clears the latched press.
func (p *Panel) Pressed() bool { return p.pressed.Swap(false) }

// NoteFeed queues a feed notice for the status line.
func (p *Panel) NoteFeed(rotations int, source string) {
	push(p.feeds, FeedNotice{At: time.Now(), Rotations: rotations, Source: source})
}

// Render never blocks the loop: when the backlog is full the oldest frame is
// dropped, the latest one always gets through.
func (p *Panel) Render(_ context.Context, scr ui.Screen) error {
	push(p.frames, scr)
	return nil
}

func push[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch: // drop the oldest
		default:
		}
	}
}

// Dispenser pretends to turn the auger, taking Spin per rotation so the
// "Feeding..." screen stays visible about as long as the real motion.
type Dispenser struct {
	Spin time.Duration // per rotation, default 400ms
}

// Dispense blocks for the simulated motion time.
func (d Dispenser) Dispense(ctx context.Context, rotations int) error {
	spin := d.Spin
	if spin <= 0 {
		spin = 400 * time.Millisecond
	}

	timer := time.NewTimer(time.Duration(rotations) * spin)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Recorder tees feed records into the panel status line and, when set, a real
// history store.
type Recorder struct {
	Next  device.Recorder
	Panel *Panel
}

// RecordFeed notes the feed on the panel and forwards it.
func (r Recorder) RecordFeed(ctx context.Context, rotations int, source string) error {
	if r.Panel != nil {
		r.Panel.NoteFeed(rotations, source)
	}
	if r.Next == nil {
		return nil
	}
	return r.Next.RecordFeed(ctx, rotations, source)
}
