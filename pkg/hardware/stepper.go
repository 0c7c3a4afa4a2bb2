package hardware

import (
	"context"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// halfSteps is the 28BYJ-48 half-step excitation sequence, one row per phase.
var halfSteps = [8][4]gpio.Level{
	{gpio.High, gpio.Low, gpio.Low, gpio.Low},
	{gpio.High, gpio.High, gpio.Low, gpio.Low},
	{gpio.Low, gpio.High, gpio.Low, gpio.Low},
	{gpio.Low, gpio.High, gpio.High, gpio.Low},
	{gpio.Low, gpio.Low, gpio.High, gpio.Low},
	{gpio.Low, gpio.Low, gpio.High, gpio.High},
	{gpio.Low, gpio.Low, gpio.Low, gpio.High},
	{gpio.High, gpio.Low, gpio.Low, gpio.High},
}

// MotorPin is the subset of a GPIO output the stepper drives.
type MotorPin interface {
	Out(l gpio.Level) error
}

// StepperParams configures the auger motor. Pins are required, the rest have
// defaults matching a geared 28BYJ-48 behind a ULN2003 driver.
type StepperParams struct {
	Pins        [4]string     // driver inputs IN1..IN4
	StepDelay   time.Duration // per half-step, default 1ms
	StepsPerRev int           // half-steps per auger revolution, default 4096
	Relief      int           // reverse half-steps between strokes, default 64
}

// Stepper turns the feed auger. One Dispense call blocks for the whole motion
// sequence; the loop serializes calls so there is no concurrent access.
type Stepper struct {
	pins        [4]MotorPin
	stepDelay   time.Duration
	stepsPerRev int
	relief      int
	phase       int
}

// NewStepper resolves the four motor pins and returns an idle stepper with
// all coils de-energized.
func NewStepper(p StepperParams) (*Stepper, error) {
	var pins [4]MotorPin
	for i, name := range p.Pins {
		pin, err := pinByName(name)
		if err != nil {
			return nil, fmt.Errorf("motor pin %d: %w", i, err)
		}
		pins[i] = pin
	}
	s := newStepper(pins, p)
	s.release()
	return s, nil
}

func newStepper(pins [4]MotorPin, p StepperParams) *Stepper {
	if p.StepDelay <= 0 {
		p.StepDelay = time.Millisecond
	}
	if p.StepsPerRev <= 0 {
		p.StepsPerRev = 4096
	}
	if p.Relief < 0 {
		p.Relief = 0
	}
	if p.Relief == 0 {
		p.Relief = 64
	}
	return &Stepper{pins: pins, stepDelay: p.StepDelay, stepsPerRev: p.StepsPerRev, relief: p.Relief}
}

// Dispense turns the auger the given number of full revolutions. Each
// revolution runs as four forward strokes with a short reverse between them,
// shaking loose kibble wedged against the auger. Coils are de-energized on
// return, they overheat if left on.
func (s *Stepper) Dispense(ctx context.Context, rotations int) error {
	defer s.release()

	start := time.Now()
	quarter := s.stepsPerRev / 4
	for r := 0; r < rotations; r++ {
		for q := 0; q < 4; q++ {
			n := quarter
			if q > 0 {
				n += s.relief // repay the relief reverse
			}
			if err := s.run(ctx, n, 1); err != nil {
				return err
			}
			if q < 3 {
				if err := s.run(ctx, s.relief, -1); err != nil {
					return err
				}
			}
		}
	}
	log.Printf("[DEBUG] dispensed %d rotations in %v", rotations, time.Since(start).Round(time.Millisecond))
	return nil
}

// run advances n half-steps in the given direction, one per stepDelay tick.
func (s *Stepper) run(ctx context.Context, n, dir int) error {
	ticker := time.NewTicker(s.stepDelay)
	defer ticker.Stop()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		s.phase = (s.phase + dir + len(halfSteps)) % len(halfSteps)
		for j, pin := range s.pins {
			if err := pin.Out(halfSteps[s.phase][j]); err != nil {
				return fmt.Errorf("motor pin %d: %w", j, err)
			}
		}
	}
	return nil
}

func (s *Stepper) release() {
	for _, pin := range s.pins {
		_ = pin.Out(gpio.Low)
	}
}
