package hardware

import (
	"context"
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
)

// Button is the front panel confirm button, wired active-low with a pull-up.
// The control loop polls Pressed through its debouncer; Watch additionally
// reports edges so a press can wake a suspended device.
type Button struct {
	pin    gpio.PinIn
	notify func()
}

// NewButton resolves the button pin by name and arms it for both edges.
func NewButton(name string, notify func()) (*Button, error) {
	pin, err := pinByName(name)
	if err != nil {
		return nil, fmt.Errorf("button: %w", err)
	}
	return newButton(pin, notify)
}

func newButton(pin gpio.PinIn, notify func()) (*Button, error) {
	if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("button %s: %w", pin.Name(), err)
	}
	return &Button{pin: pin, notify: notify}, nil
}

// Pressed reports the current level, true while the button is held down.
func (b *Button) Pressed() bool {
	return b.pin.Read() == gpio.Low
}

// Watch blocks on button edges until the context is canceled, pinging the
// loop on each one. Meant to be started as a goroutine.
func (b *Button) Watch(ctx context.Context) error {
	log.Printf("[INFO] button watcher started on %s", b.pin.Name())
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !b.pin.WaitForEdge(edgeWait) {
			continue
		}
		if b.notify != nil {
			b.notify()
		}
	}
}
