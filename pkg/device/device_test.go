package device

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/device/mocks"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/power"
	"github.com/umputun/kibbler/pkg/schedule"
	"github.com/umputun/kibbler/pkg/ui"
)

// devFixture wires a device around permissive mocks running at test speed.
// The rtc snapshot and the button state are shared atomics so tests can move
// them while the loop runs.
type devFixture struct {
	dev     *Device
	rtc     *mocks.RTCMock
	disp    *mocks.DispenserMock
	rend    *mocks.RendererMock
	sleeper *mocks.SleeperMock
	saver   *mocks.SaverMock
	rec     *mocks.RecorderMock
	enc     *input.Encoder

	snap    atomic.Value // clock.Snapshot served by the rtc mock
	pending atomic.Int32 // queued one-shot button presses
}

func newDevFixture(entries ...schedule.Entry) *devFixture {
	f := &devFixture{enc: &input.Encoder{}}
	f.snap.Store(clock.Snapshot{Hour: 10, Minute: 0, Second: 0})

	f.rtc = &mocks.RTCMock{
		NowFunc: func(ctx context.Context) (clock.Snapshot, error) {
			return f.snap.Load().(clock.Snapshot), nil
		},
		AdjustFunc: func(ctx context.Context, target clock.Snapshot) error {
			f.snap.Store(target)
			return nil
		},
	}
	f.disp = &mocks.DispenserMock{DispenseFunc: func(ctx context.Context, rotations int) error {
		return nil
	}}
	f.rend = &mocks.RendererMock{RenderFunc: func(ctx context.Context, scr ui.Screen) error {
		return nil
	}}
	f.sleeper = &mocks.SleeperMock{SleepFunc: func(ctx context.Context, d time.Duration, wake <-chan struct{}) (power.Wake, error) {
		select {
		case <-ctx.Done():
			return power.WakeTimer, ctx.Err()
		case <-wake:
			return power.WakeInput, nil
		case <-time.After(2 * time.Millisecond):
			return power.WakeTimer, nil
		}
	}}
	f.saver = &mocks.SaverMock{SaveFunc: func(ctx context.Context, s *schedule.Schedule) error {
		return nil
	}}
	f.rec = &mocks.RecorderMock{RecordFeedFunc: func(ctx context.Context, rotations int, source string) error {
		return nil
	}}

	buttons := &mocks.ButtonReaderMock{PressedFunc: func() bool {
		if f.pending.Load() > 0 {
			f.pending.Add(-1)
			return true
		}
		return false
	}}

	f.dev = New(Params{
		RTC:         f.rtc,
		Dispenser:   f.disp,
		Renderer:    f.rend,
		Sleeper:     f.sleeper,
		Saver:       f.saver,
		Recorder:    f.rec,
		Encoder:     f.enc,
		Buttons:     buttons,
		Schedule:    schedule.New(entries...),
		IdleTimeout: time.Hour, // tests that exercise suspension override this
		Tick:        time.Millisecond,
		Debounce:    time.Millisecond,
	})
	return f
}

// press queues one button press for the polled reader.
func (f *devFixture) press() {
	f.pending.Add(1)
	f.dev.Notify()
}

// turn injects one encoder step.
func (f *devFixture) turn(dir input.Direction) {
	f.enc.Edge(dir == input.CW)
	f.dev.Notify()
}

// start runs the loop and returns a stopper that cancels and waits for it.
func (f *devFixture) start(t *testing.T) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.dev.Run(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("device loop did not stop")
		}
	}
}

// state polls the loop, tolerating shutdown errors so it can run inside
// Eventually conditions.
func (f *devFixture) state() string {
	st, err := f.dev.Status(context.Background())
	if err != nil {
		return ""
	}
	return st.State
}

func TestDevice_ScheduledFeedFiresOnce(t *testing.T) {
	f := newDevFixture(
		schedule.Entry{Hour: 10, Minute: 0, Rotations: 2},
		schedule.Entry{Hour: 10, Minute: 0, Rotations: 3}, // shadowed duplicate
	)
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.disp.DispenseCalls()) >= 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond) // many more cycles within the same minute
	require.Len(t, f.disp.DispenseCalls(), 1, "fired flag keeps the feed to once per minute")
	assert.Equal(t, 2, f.disp.DispenseCalls()[0].Rotations, "first matching entry wins")

	require.Len(t, f.rec.RecordFeedCalls(), 1)
	assert.Equal(t, SourceScheduled, f.rec.RecordFeedCalls()[0].Source)
	assert.Equal(t, 2, f.rec.RecordFeedCalls()[0].Rotations)
}

func TestDevice_FeedFiresAgainNextMinute(t *testing.T) {
	f := newDevFixture(schedule.Entry{Hour: 10, Minute: 0, Rotations: 1})
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.disp.DispenseCalls()) == 1
	}, time.Second, time.Millisecond)

	// leave the matching minute and come back to it
	f.snap.Store(clock.Snapshot{Hour: 10, Minute: 1})
	time.Sleep(10 * time.Millisecond)
	f.snap.Store(clock.Snapshot{Hour: 10, Minute: 0})

	require.Eventually(t, func() bool {
		return len(f.disp.DispenseCalls()) == 2
	}, time.Second, time.Millisecond, "re-armed after the minute changed")
}

func TestDevice_ButtonAndEncoderDriveMenu(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()

	assert.Equal(t, "clock", f.state())

	f.press()
	require.Eventually(t, func() bool { return f.state() == "menu" }, time.Second, time.Millisecond)

	f.turn(input.CW) // selection to "feed times"
	time.Sleep(5 * time.Millisecond)
	f.press()
	require.Eventually(t, func() bool { return f.state() == "feeds" }, time.Second, time.Millisecond,
		"one click down from show clock lands on the feed list")
}

func TestDevice_IdleSuspendsWithPlannedDuration(t *testing.T) {
	f := newDevFixture(schedule.Entry{Hour: 14, Minute: 0, Rotations: 1})
	f.dev.idleTimeout = 20 * time.Millisecond
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.sleeper.SleepCalls()) >= 1
	}, time.Second, time.Millisecond)

	// 10:00 now, next feed 14:00
	assert.Equal(t, 4*time.Hour, f.sleeper.SleepCalls()[0].D)
	assert.Equal(t, "clock", f.state(), "menu state dropped before suspending")
}

func TestDevice_EmptyScheduleSleepsMaximum(t *testing.T) {
	f := newDevFixture()
	f.dev.idleTimeout = 10 * time.Millisecond
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.sleeper.SleepCalls()) >= 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, schedule.MaxSleep, f.sleeper.SleepCalls()[0].D)
}

func TestDevice_InputWakesFromSuspension(t *testing.T) {
	f := newDevFixture()
	f.dev.idleTimeout = 25 * time.Millisecond
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.sleeper.SleepCalls()) >= 1
	}, time.Second, time.Millisecond)

	f.press()
	require.Eventually(t, func() bool { return f.state() == "menu" }, time.Second, time.Millisecond,
		"the press that caused the wake is processed, not lost")
}

func TestDevice_FeedNow(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()

	require.NoError(t, f.dev.FeedNow(context.Background(), 3))
	require.Len(t, f.disp.DispenseCalls(), 1)
	assert.Equal(t, 3, f.disp.DispenseCalls()[0].Rotations)
	require.Len(t, f.rec.RecordFeedCalls(), 1)
	assert.Equal(t, SourceAPI, f.rec.RecordFeedCalls()[0].Source)
}

func TestDevice_FeedNowRejectsBadRotations(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()

	assert.Error(t, f.dev.FeedNow(context.Background(), 0))
	assert.Error(t, f.dev.FeedNow(context.Background(), 4))
	assert.Empty(t, f.disp.DispenseCalls())
}

func TestDevice_ScheduleAPI(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()
	ctx := context.Background()

	entries, err := f.dev.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	e := schedule.Entry{Hour: 8, Minute: 30, Rotations: 2}
	require.NoError(t, f.dev.AddEntry(ctx, e))
	entries, err = f.dev.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e, entries[0])
	assert.Len(t, f.saver.SaveCalls(), 1, "add persists once")

	require.ErrorIs(t, f.dev.RemoveEntry(ctx, 5), schedule.ErrNoEntry)

	require.NoError(t, f.dev.RemoveEntry(ctx, 0))
	entries, err = f.dev.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, f.saver.SaveCalls(), 2, "remove persists once")
}

func TestDevice_AddEntryValidation(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()
	ctx := context.Background()

	assert.Error(t, f.dev.AddEntry(ctx, schedule.Entry{Hour: 24, Minute: 0, Rotations: 1}))
	assert.Error(t, f.dev.AddEntry(ctx, schedule.Entry{Hour: 8, Minute: 0, Rotations: 0}))
	assert.Empty(t, f.saver.SaveCalls())
}

func TestDevice_AddEntryFullSchedule(t *testing.T) {
	entries := make([]schedule.Entry, schedule.MaxEntries)
	for i := range entries {
		entries[i] = schedule.Entry{Hour: i, Minute: 0, Rotations: 1}
	}
	f := newDevFixture(entries...)
	stop := f.start(t)
	defer stop()

	err := f.dev.AddEntry(context.Background(), schedule.Entry{Hour: 23, Minute: 0, Rotations: 1})
	require.ErrorIs(t, err, schedule.ErrFull)
	assert.Empty(t, f.saver.SaveCalls())
}

func TestDevice_SetClock(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()
	ctx := context.Background()

	target := clock.Snapshot{Hour: 23, Minute: 59, Second: 0}
	require.NoError(t, f.dev.SetClock(ctx, target))
	require.Len(t, f.rtc.AdjustCalls(), 1)
	assert.Equal(t, target, f.rtc.AdjustCalls()[0].Target)

	assert.Error(t, f.dev.SetClock(ctx, clock.Snapshot{Hour: 25}))
	assert.Len(t, f.rtc.AdjustCalls(), 1, "invalid time never reaches the rtc")
}

func TestDevice_StatusFields(t *testing.T) {
	f := newDevFixture(schedule.Entry{Hour: 14, Minute: 0, Rotations: 2})
	stop := f.start(t)
	defer stop()

	var st Status
	require.Eventually(t, func() bool {
		var err error
		st, err = f.dev.Status(context.Background())
		require.NoError(t, err)
		return st.NextFeed != nil
	}, time.Second, time.Millisecond)

	assert.Equal(t, "10:00:00", st.Time)
	assert.Equal(t, "clock", st.State)
	require.Len(t, st.Schedule, 1)
	assert.Equal(t, int64(4*60*60), st.NextIn, "next feed four hours out")
}

func TestDevice_DispenseFailureKeepsLoopAlive(t *testing.T) {
	f := newDevFixture(schedule.Entry{Hour: 10, Minute: 0, Rotations: 1})
	f.disp.DispenseFunc = func(ctx context.Context, rotations int) error {
		return assert.AnError
	}
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.disp.DispenseCalls()) >= 1
	}, time.Second, time.Millisecond)

	assert.Empty(t, f.rec.RecordFeedCalls(), "failed feeds are not recorded")
	assert.Equal(t, "clock", f.state(), "loop still serves the api")

	err := f.dev.FeedNow(context.Background(), 1)
	assert.ErrorContains(t, err, "dispense", "manual feed surfaces the failure")
}

func TestDevice_ClockFailureKeepsLastReading(t *testing.T) {
	f := newDevFixture()
	f.rtc.NowFunc = func(ctx context.Context) (clock.Snapshot, error) {
		return clock.Snapshot{}, assert.AnError
	}
	stop := f.start(t)
	defer stop()

	st, err := f.dev.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "00:00:00", st.Time, "falls back to the zero reading, loop keeps going")
}

func TestDevice_RenderDeduplicatesFrames(t *testing.T) {
	f := newDevFixture()
	stop := f.start(t)
	defer stop()

	require.Eventually(t, func() bool {
		return len(f.rend.RenderCalls()) >= 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond) // static clock, nothing changes on screen
	assert.Len(t, f.rend.RenderCalls(), 1, "identical frames are not re-sent")
}
