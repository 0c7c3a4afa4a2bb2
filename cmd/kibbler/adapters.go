package main

import (
	"context"
	"fmt"
	"log"

	"github.com/umputun/kibbler/pkg/config"
	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/hardware"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/ui"
)

// peripherals groups the collaborators that depend on the wiring mode. In
// headless mode there is no panel input, so watch is empty and the loop is
// driven by the schedule and the REST API alone.
type peripherals struct {
	dispenser device.Dispenser
	renderer  device.Renderer
	buttons   device.ButtonReader
	watch     []func(context.Context) error
	close     func()
}

// headlessPeripherals is the no-hardware assembly used for development and
// server-only deployments.
func headlessPeripherals() *peripherals {
	return &peripherals{
		dispenser: logDispenser{},
		renderer:  logRenderer{},
		close:     func() {},
	}
}

// hardwarePeripherals wires the physical panel and motor: encoder on two GPIO
// pins, active-low button, 4-wire stepper and the I2C OLED.
func hardwarePeripherals(cfg config.HardwareConfig, enc *input.Encoder, notify func()) (*peripherals, error) {
	if err := hardware.Init(); err != nil {
		return nil, fmt.Errorf("failed to init hardware: %w", err)
	}

	watcher, err := hardware.NewEncoderWatcher(cfg.EncoderCLK, cfg.EncoderDT, enc, notify)
	if err != nil {
		return nil, fmt.Errorf("failed to set up encoder: %w", err)
	}

	btn, err := hardware.NewButton(cfg.Button, notify)
	if err != nil {
		return nil, fmt.Errorf("failed to set up button: %w", err)
	}

	stepper, err := hardware.NewStepper(hardware.StepperParams{
		Pins:      [4]string{cfg.MotorPins[0], cfg.MotorPins[1], cfg.MotorPins[2], cfg.MotorPins[3]},
		StepDelay: cfg.StepDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up stepper: %w", err)
	}

	bus, err := hardware.OpenBus(cfg.DisplayBus)
	if err != nil {
		return nil, fmt.Errorf("failed to open display bus: %w", err)
	}
	display, err := hardware.NewDisplay(bus)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to set up display: %w", err)
	}

	log.Printf("[INFO] hardware up: encoder %s/%s, button %s, motor %v, display on bus %s",
		cfg.EncoderCLK, cfg.EncoderDT, cfg.Button, cfg.MotorPins, cfg.DisplayBus)

	return &peripherals{
		dispenser: stepper,
		renderer:  display,
		buttons:   btn,
		watch:     []func(context.Context) error{watcher.Run, btn.Watch},
		close: func() {
			if err := display.Halt(); err != nil {
				log.Printf("[WARN] failed to halt display: %v", err)
			}
			if err := bus.Close(); err != nil {
				log.Printf("[WARN] failed to close display bus: %v", err)
			}
		},
	}, nil
}

// logRenderer stands in for the OLED in headless mode, dumping distinct
// frames to the debug log.
type logRenderer struct{}

func (logRenderer) Render(_ context.Context, scr ui.Screen) error {
	log.Printf("[DEBUG] screen %q", scr.Lines)
	return nil
}

// logDispenser stands in for the motor in headless mode.
type logDispenser struct{}

func (logDispenser) Dispense(_ context.Context, rotations int) error {
	log.Printf("[INFO] dispense x%d skipped, no motor attached", rotations)
	return nil
}
