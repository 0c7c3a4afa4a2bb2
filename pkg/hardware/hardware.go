// Package hardware binds the feeder to real peripherals through periph.io:
// the rotary encoder and button on GPIO, the auger stepper on four GPIO
// outputs, the DS3231 RTC and the ssd1306 OLED on I2C. Each part implements
// the matching collaborator interface from pkg/device, so the control loop
// never sees a pin or a bus.
package hardware

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var initOnce sync.Once
var initErr error

// Init loads the periph host drivers. Safe to call more than once; every
// constructor in this package calls it.
func Init() error {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return fmt.Errorf("periph host init: %w", initErr)
	}
	return nil
}

// pinByName resolves a GPIO pin, e.g. "GPIO17" or "P1_11".
func pinByName(name string) (gpio.PinIO, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	return pin, nil
}

// OpenBus opens an I2C bus by name, empty for the first available one.
func OpenBus(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return bus, nil
}
