package hardware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/umputun/kibbler/pkg/input"
)

func TestEncoderWatcher_EmitsDirections(t *testing.T) {
	clk := &gpiotest.Pin{N: "clk", EdgesChan: make(chan gpio.Level)}
	dt := &gpiotest.Pin{N: "dt"}
	enc := &input.Encoder{}
	notified := make(chan struct{}, 8)

	w, err := newEncoderWatcher(clk, dt, enc, func() { notified <- struct{}{} })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// DT high at the CLK edge reads as clockwise
	require.NoError(t, dt.Out(gpio.High))
	clk.EdgesChan <- gpio.High
	<-notified
	ev, ok := enc.Drain()
	require.True(t, ok)
	assert.Equal(t, input.CW, ev.Direction)

	// DT low reads as counter-clockwise
	require.NoError(t, dt.Out(gpio.Low))
	clk.EdgesChan <- gpio.High
	<-notified
	ev, ok = enc.Drain()
	require.True(t, ok)
	assert.Equal(t, input.CCW, ev.Direction)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEncoderWatcher_StopsWithoutEdges(t *testing.T) {
	clk := &gpiotest.Pin{N: "clk", EdgesChan: make(chan gpio.Level)}
	dt := &gpiotest.Pin{N: "dt"}

	w, err := newEncoderWatcher(clk, dt, &input.Encoder{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestButton_Pressed(t *testing.T) {
	pin := &gpiotest.Pin{N: "btn", EdgesChan: make(chan gpio.Level)}
	b, err := newButton(pin, nil)
	require.NoError(t, err)

	require.NoError(t, pin.Out(gpio.High))
	assert.False(t, b.Pressed(), "pulled-up line reads released")

	require.NoError(t, pin.Out(gpio.Low))
	assert.True(t, b.Pressed(), "grounded line reads pressed")
}

func TestButton_WatchNotifies(t *testing.T) {
	pin := &gpiotest.Pin{N: "btn", EdgesChan: make(chan gpio.Level)}
	notified := make(chan struct{}, 4)

	b, err := newButton(pin, func() { notified <- struct{}{} })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Watch(ctx) }()

	pin.EdgesChan <- gpio.Low
	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification on edge")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// countPin records every level written to it.
type countPin struct {
	levels []gpio.Level
}

func (c *countPin) Out(l gpio.Level) error {
	c.levels = append(c.levels, l)
	return nil
}

func TestStepper_DispenseRunsFullSequence(t *testing.T) {
	var pins [4]MotorPin
	var recs [4]*countPin
	for i := range pins {
		recs[i] = &countPin{}
		pins[i] = recs[i]
	}

	s := newStepper(pins, StepperParams{StepDelay: time.Microsecond, StepsPerRev: 64, Relief: 4})

	err := s.Dispense(context.Background(), 1)
	require.NoError(t, err)

	// one revolution: 4 quarter strokes plus 3 relief reverses and repays,
	// then the final release write
	gross := 64 + 6*4
	for i, rec := range recs {
		assert.Len(t, rec.levels, gross+1, "pin %d", i)
		assert.Equal(t, gpio.Low, rec.levels[len(rec.levels)-1], "pin %d left energized", i)
	}

	// net motion is exactly one revolution
	assert.Equal(t, 0, s.phase%len(halfSteps))
}

func TestStepper_MultipleRotations(t *testing.T) {
	var pins [4]MotorPin
	rec := &countPin{}
	pins[0] = rec
	for i := 1; i < 4; i++ {
		pins[i] = &countPin{}
	}

	s := newStepper(pins, StepperParams{StepDelay: time.Microsecond, StepsPerRev: 8, Relief: 1})

	err := s.Dispense(context.Background(), 3)
	require.NoError(t, err)

	gross := 3 * (8 + 6*1)
	assert.Len(t, rec.levels, gross+1)
}

func TestStepper_CancelStopsMotion(t *testing.T) {
	var pins [4]MotorPin
	rec := &countPin{}
	for i := range pins {
		pins[i] = rec
	}

	s := newStepper(pins, StepperParams{StepDelay: time.Microsecond, StepsPerRev: 64, Relief: 4})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Dispense(ctx, 2)
	require.ErrorIs(t, err, context.Canceled)

	// nothing but the release writes
	assert.Len(t, rec.levels, 4)
	for _, l := range rec.levels {
		assert.Equal(t, gpio.Low, l)
	}
}

func TestStepper_Defaults(t *testing.T) {
	var pins [4]MotorPin
	for i := range pins {
		pins[i] = &countPin{}
	}

	s := newStepper(pins, StepperParams{})
	assert.Equal(t, time.Millisecond, s.stepDelay)
	assert.Equal(t, 4096, s.stepsPerRev)
	assert.Equal(t, 64, s.relief)
}
