package input

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_EdgeThenDrain(t *testing.T) {
	e := &Encoder{}

	e.Edge(true)
	ev, ok := e.Drain()
	require.True(t, ok)
	assert.Equal(t, CW, ev.Direction)

	e.Edge(false)
	ev, ok = e.Drain()
	require.True(t, ok)
	assert.Equal(t, CCW, ev.Direction)
}

func TestEncoder_DrainEmpty(t *testing.T) {
	e := &Encoder{}
	_, ok := e.Drain()
	assert.False(t, ok)
}

func TestEncoder_DrainConsumesOnce(t *testing.T) {
	e := &Encoder{}
	e.Edge(true)

	_, ok := e.Drain()
	require.True(t, ok)
	_, ok = e.Drain()
	assert.False(t, ok, "event consumed exactly once")
}

func TestEncoder_PendingEdgeDropped(t *testing.T) {
	e := &Encoder{}
	e.Edge(true)
	e.Edge(false) // arrives before the drain, lost by design

	ev, ok := e.Drain()
	require.True(t, ok)
	assert.Equal(t, CW, ev.Direction, "first direction kept, second dropped")

	_, ok = e.Drain()
	assert.False(t, ok, "no queueing of rapid rotations")
}

func TestEncoder_HandlerDrainRace(t *testing.T) {
	// hammer the mailbox from both contexts; the race detector is the real
	// assertion here, plus the drained count never exceeding the edge count
	e := &Encoder{}
	const edges = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < edges; i++ {
			e.Edge(i%2 == 0)
		}
	}()

	drained := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		if _, ok := e.Drain(); ok {
			drained++
		}
		select {
		case <-done:
			if _, ok := e.Drain(); ok {
				drained++
			}
			assert.LessOrEqual(t, drained, edges)
			return
		default:
		}
	}
}

func TestButton_AcceptsFirstPress(t *testing.T) {
	b := NewButton(250 * time.Millisecond)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, b.Observe(true, now))
}

func TestButton_IgnoresReleased(t *testing.T) {
	b := NewButton(250 * time.Millisecond)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.False(t, b.Observe(false, now))
}

func TestButton_DebounceWindow(t *testing.T) {
	b := NewButton(250 * time.Millisecond)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	require.True(t, b.Observe(true, now))
	assert.False(t, b.Observe(true, now.Add(100*time.Millisecond)), "held or bouncing within the window")
	assert.False(t, b.Observe(true, now.Add(249*time.Millisecond)))
	assert.True(t, b.Observe(true, now.Add(250*time.Millisecond)), "window elapsed, new press")
}

func TestButton_WindowStartsFromAcceptedPress(t *testing.T) {
	b := NewButton(250 * time.Millisecond)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	require.True(t, b.Observe(true, now))
	// rejected observations must not push the window forward
	assert.False(t, b.Observe(true, now.Add(200*time.Millisecond)))
	assert.True(t, b.Observe(true, now.Add(260*time.Millisecond)))
}
