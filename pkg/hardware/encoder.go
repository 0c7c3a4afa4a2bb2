package hardware

import (
	"context"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/umputun/kibbler/pkg/input"
)

// edgeWait bounds WaitForEdge so watchers notice context cancellation.
const edgeWait = 500 * time.Millisecond

// EncoderWatcher turns quadrature edges on the CLK pin into direction events.
// It samples DT at the instant of each rising CLK edge and posts the step to
// the encoder mailbox, then pings the loop so a suspended device wakes up.
type EncoderWatcher struct {
	clk    gpio.PinIn
	dt     gpio.PinIn
	enc    *input.Encoder
	notify func()
}

// NewEncoderWatcher resolves the two encoder pins by name and arms the CLK
// pin for rising-edge interrupts.
func NewEncoderWatcher(clkName, dtName string, enc *input.Encoder, notify func()) (*EncoderWatcher, error) {
	clk, err := pinByName(clkName)
	if err != nil {
		return nil, fmt.Errorf("encoder clk: %w", err)
	}
	dt, err := pinByName(dtName)
	if err != nil {
		return nil, fmt.Errorf("encoder dt: %w", err)
	}
	return newEncoderWatcher(clk, dt, enc, notify)
}

func newEncoderWatcher(clk, dt gpio.PinIn, enc *input.Encoder, notify func()) (*EncoderWatcher, error) {
	if err := clk.In(gpio.PullUp, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("encoder clk %s: %w", clk.Name(), err)
	}
	if err := dt.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("encoder dt %s: %w", dt.Name(), err)
	}
	return &EncoderWatcher{clk: clk, dt: dt, enc: enc, notify: notify}, nil
}

// Run blocks on CLK edges until the context is canceled. Meant to be started
// as a goroutine next to the control loop.
func (w *EncoderWatcher) Run(ctx context.Context) error {
	log.Printf("[INFO] encoder watcher started on %s/%s", w.clk.Name(), w.dt.Name())
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !w.clk.WaitForEdge(edgeWait) {
			continue // timeout, re-check the context
		}
		w.enc.Edge(w.dt.Read() == gpio.High)
		if w.notify != nil {
			w.notify()
		}
	}
}
