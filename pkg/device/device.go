// Package device runs the control loop that ties the feeder together: it
// polls the clock, fires scheduled feeds, feeds panel input into the menu
// machine, renders the display and suspends the board when idle. The loop is
// the single owner of the schedule, the matcher and the menu state; everything
// else reaches that state through the loop, either as an input mailbox drained
// once per cycle or as a command executed between cycles.
package device

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/power"
	"github.com/umputun/kibbler/pkg/schedule"
	"github.com/umputun/kibbler/pkg/ui"
)

//go:generate moq -out mocks/rtc.go -pkg mocks -skip-ensure -fmt goimports . RTC
//go:generate moq -out mocks/dispenser.go -pkg mocks -skip-ensure -fmt goimports . Dispenser
//go:generate moq -out mocks/renderer.go -pkg mocks -skip-ensure -fmt goimports . Renderer
//go:generate moq -out mocks/sleeper.go -pkg mocks -skip-ensure -fmt goimports . Sleeper
//go:generate moq -out mocks/saver.go -pkg mocks -skip-ensure -fmt goimports . Saver
//go:generate moq -out mocks/recorder.go -pkg mocks -skip-ensure -fmt goimports . Recorder
//go:generate moq -out mocks/button_reader.go -pkg mocks -skip-ensure -fmt goimports . ButtonReader

// feed history sources
const (
	SourceScheduled = "scheduled" // fired by the schedule matcher
	SourceManual    = "manual"    // front panel "feed now"
	SourceAPI       = "api"       // REST endpoint
)

// RTC reads and sets the wall clock all scheduling decisions run on.
type RTC interface {
	Now(ctx context.Context) (clock.Snapshot, error)
	Adjust(ctx context.Context, target clock.Snapshot) error
}

// Dispenser turns the feed screw the given number of rotations.
type Dispenser interface {
	Dispense(ctx context.Context, rotations int) error
}

// Renderer pushes one frame to the display.
type Renderer interface {
	Render(ctx context.Context, scr ui.Screen) error
}

// Sleeper suspends the device for up to d. A ping on wake ends the suspension
// early; the returned reason says which one happened.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration, wake <-chan struct{}) (power.Wake, error)
}

// Saver persists the schedule after each mutation.
type Saver interface {
	Save(ctx context.Context, s *schedule.Schedule) error
}

// Recorder appends a feed event to the history.
type Recorder interface {
	RecordFeed(ctx context.Context, rotations int, source string) error
}

// ButtonReader reports whether the front button is currently pressed. The
// loop polls it every cycle and runs the reading through the debouncer.
type ButtonReader interface {
	Pressed() bool
}

// Params configures a Device. RTC, Dispenser, Renderer, Sleeper, Saver and
// Recorder are required; the rest have defaults.
type Params struct {
	RTC       RTC
	Dispenser Dispenser
	Renderer  Renderer
	Sleeper   Sleeper
	Saver     Saver
	Recorder  Recorder

	Encoder *input.Encoder // rotary input mailbox, fed by hardware or sim
	Buttons ButtonReader   // front button level, polled per cycle

	Schedule *schedule.Schedule // loaded schedule, empty if nil

	IdleTimeout time.Duration // inactivity before suspending, default 60s
	Tick        time.Duration // awake poll period, default 50ms
	Debounce    time.Duration // min interval between accepted presses, default 250ms
}

// Status is the control loop state reported to the API.
type Status struct {
	Time     string           `json:"time"`
	State    string           `json:"state"`
	Schedule []schedule.Entry `json:"schedule"`
	NextFeed *schedule.Entry  `json:"next_feed,omitempty"`
	NextIn   int64            `json:"next_in_seconds,omitempty"`
}

// Device is the control loop. Run owns all mutable state; the exported
// methods are safe from any goroutine and are serialized through the command
// channel.
type Device struct {
	rtc     RTC
	disp    Dispenser
	rend    Renderer
	sleeper Sleeper
	saver   Saver
	rec     Recorder
	enc     *input.Encoder
	buttons ButtonReader

	sched   *schedule.Schedule
	matcher *schedule.Matcher
	machine *ui.Machine
	btn     *input.Button

	idleTimeout time.Duration
	tick        time.Duration

	wake chan struct{}
	cmds chan func(context.Context)

	lastInput  time.Time
	lastSnap   clock.Snapshot
	lastPlan   schedule.Plan
	lastScreen ui.Screen

	nowFn func() time.Time
}

// New creates the device around its collaborators.
func New(p Params) *Device {
	if p.Schedule == nil {
		p.Schedule = schedule.New()
	}
	if p.IdleTimeout <= 0 {
		p.IdleTimeout = 60 * time.Second
	}
	if p.Tick <= 0 {
		p.Tick = 50 * time.Millisecond
	}
	if p.Debounce <= 0 {
		p.Debounce = 250 * time.Millisecond
	}

	d := &Device{
		rtc:         p.RTC,
		disp:        p.Dispenser,
		rend:        p.Renderer,
		sleeper:     p.Sleeper,
		saver:       p.Saver,
		rec:         p.Recorder,
		enc:         p.Encoder,
		buttons:     p.Buttons,
		sched:       p.Schedule,
		matcher:     schedule.NewMatcher(),
		btn:         input.NewButton(p.Debounce),
		idleTimeout: p.IdleTimeout,
		tick:        p.Tick,
		wake:        make(chan struct{}, 1),
		cmds:        make(chan func(context.Context), 16),
		nowFn:       time.Now,
	}
	d.machine = ui.NewMachine(d.sched, d.saver, feeder{d: d, source: SourceManual}, d.rtc)
	return d
}

// feeder adapts a device feed path into the menu machine's dispenser.
type feeder struct {
	d      *Device
	source string
}

func (f feeder) Dispense(ctx context.Context, rotations int) error {
	return f.d.feed(ctx, rotations, f.source)
}

// Notify signals input activity to the loop, ending its tick wait or a light
// sleep early. Safe from any goroutine; pings collapse.
func (d *Device) Notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run drives the control loop until the context is cancelled. All schedule,
// matcher and menu state is confined to this goroutine.
func (d *Device) Run(ctx context.Context) error {
	log.Printf("[INFO] device loop started, %d feed times, idle timeout %v", d.sched.Len(), d.idleTimeout)
	d.lastInput = d.nowFn()

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		d.cycle(ctx)

		if d.nowFn().Sub(d.lastInput) >= d.idleTimeout {
			if err := d.suspend(ctx); err != nil {
				log.Printf("[INFO] device loop stopped")
				return err
			}
			continue // suspended cycles bypass the awake tick
		}

		select {
		case <-ctx.Done():
			log.Printf("[INFO] device loop stopped")
			return ctx.Err()
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

// cycle is one pass of the loop: commands, clock, matcher, inputs, display.
func (d *Device) cycle(ctx context.Context) {
	// collapse a pending ping, its cause gets picked up right below
	select {
	case <-d.wake:
	default:
	}

	d.runCommands(ctx)

	snap, err := d.rtc.Now(ctx)
	if err != nil {
		log.Printf("[ERROR] clock read failed: %v", err)
		snap = d.lastSnap // keep going on the last known reading
	}
	d.lastSnap = snap

	if rotations, ok := d.matcher.Check(snap, d.sched); ok {
		if err := d.feed(ctx, rotations, SourceScheduled); err != nil {
			log.Printf("[ERROR] scheduled feed at %s failed: %v", snap.HHMM(), err)
		}
	}

	if d.enc != nil {
		if ev, ok := d.enc.Drain(); ok {
			d.machine.Rotate(ev.Direction)
			d.lastInput = d.nowFn()
		}
	}
	if d.buttons != nil {
		if d.btn.Observe(d.buttons.Pressed(), d.nowFn()) {
			d.machine.Press(ctx, snap)
			d.lastInput = d.nowFn()
		}
	}

	d.lastPlan = schedule.PlanNext(snap, d.sched)
	d.render(ctx, d.machine.Screen(snap, d.lastPlan))
}

// feed runs one dispensing: transient screen, motor, history. History
// failures are logged only, a fed pet matters more than a complete ledger.
func (d *Device) feed(ctx context.Context, rotations int, source string) error {
	log.Printf("[INFO] feeding x%d (%s)", rotations, source)
	d.render(ctx, ui.FeedingScreen(rotations))

	if err := d.disp.Dispense(ctx, rotations); err != nil {
		return fmt.Errorf("dispense x%d: %w", rotations, err)
	}
	if err := d.rec.RecordFeed(ctx, rotations, source); err != nil {
		log.Printf("[WARN] failed to record feed: %v", err)
	}
	return nil
}

// suspend plans the sleep, parks until wake and reports why it ended. The
// inactivity stamp is left alone on a timer wake so the next cycle runs the
// matcher and comes straight back here.
func (d *Device) suspend(ctx context.Context) error {
	d.machine.Reset() // a suspended feeder wakes up on the clock screen

	plan := schedule.PlanNext(d.lastSnap, d.sched)
	d.lastPlan = plan
	next := "none"
	if plan.Next != nil {
		next = plan.Next.String()
	}
	log.Printf("[INFO] idle, suspending for %v (next feed %s)", plan.Sleep, next)
	d.render(ctx, ui.SleepScreen(plan))

	wake, err := d.sleeper.Sleep(ctx, plan.Sleep, d.wake)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[WARN] suspend failed, staying awake: %v", err)
		d.lastInput = d.nowFn() // back off for a full idle period before retrying
		return nil
	}
	log.Printf("[DEBUG] woke up (%s) after planning %v", wake, plan.Sleep)
	return nil
}

// render pushes the frame if it differs from the last one shown.
func (d *Device) render(ctx context.Context, scr ui.Screen) {
	if slices.Equal(scr.Lines, d.lastScreen.Lines) {
		return
	}
	d.lastScreen = scr
	if err := d.rend.Render(ctx, scr); err != nil {
		log.Printf("[WARN] render failed: %v", err)
	}
}

// runCommands executes everything queued by the API methods.
func (d *Device) runCommands(ctx context.Context) {
	for {
		select {
		case fn := <-d.cmds:
			fn(ctx)
		default:
			return
		}
	}
}

// do queues fn for the loop goroutine and waits for it to run. The context
// bounds the wait, not fn itself; fn runs under the loop's context.
func (d *Device) do(ctx context.Context, fn func(context.Context)) error {
	done := make(chan struct{})
	select {
	case d.cmds <- func(c context.Context) { defer close(done); fn(c) }:
		d.Notify()
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status reports the loop state for the API.
func (d *Device) Status(ctx context.Context) (Status, error) {
	var st Status
	err := d.do(ctx, func(context.Context) {
		st = Status{
			Time:     d.lastSnap.String(),
			State:    d.machine.State().Kind.String(),
			Schedule: d.sched.Entries(),
			NextFeed: d.lastPlan.Next,
		}
		if d.lastPlan.Next != nil {
			st.NextIn = int64(d.lastPlan.Informational / time.Second)
		}
	})
	return st, err
}

// Entries returns the current feed times.
func (d *Device) Entries(ctx context.Context) ([]schedule.Entry, error) {
	var entries []schedule.Entry
	err := d.do(ctx, func(context.Context) { entries = d.sched.Entries() })
	return entries, err
}

// AddEntry appends a feed time and persists the schedule. Returns
// schedule.ErrFull when all slots are taken.
func (d *Device) AddEntry(ctx context.Context, e schedule.Entry) error {
	if !e.Valid() {
		return fmt.Errorf("invalid feed time %02d:%02d x%d", e.Hour, e.Minute, e.Rotations)
	}
	var res error
	err := d.do(ctx, func(c context.Context) {
		if !d.sched.Add(e) {
			res = schedule.ErrFull
			return
		}
		d.machine.Sync()
		res = d.persist(c)
	})
	if err != nil {
		return err
	}
	return res
}

// RemoveEntry deletes the feed time at index and persists the schedule.
// Returns schedule.ErrNoEntry for an out-of-range index.
func (d *Device) RemoveEntry(ctx context.Context, index int) error {
	var res error
	err := d.do(ctx, func(c context.Context) {
		if !d.sched.Remove(index) {
			res = schedule.ErrNoEntry
			return
		}
		d.machine.Sync()
		res = d.persist(c)
	})
	if err != nil {
		return err
	}
	return res
}

// FeedNow dispenses immediately, outside the schedule.
func (d *Device) FeedNow(ctx context.Context, rotations int) error {
	if rotations < schedule.MinRotations || rotations > schedule.MaxRotations {
		return fmt.Errorf("rotations %d out of range %d..%d", rotations, schedule.MinRotations, schedule.MaxRotations)
	}
	var res error
	err := d.do(ctx, func(c context.Context) { res = d.feed(c, rotations, SourceAPI) })
	if err != nil {
		return err
	}
	return res
}

// SetClock sets the wall clock.
func (d *Device) SetClock(ctx context.Context, target clock.Snapshot) error {
	if !target.Valid() {
		return fmt.Errorf("invalid time %s", target)
	}
	var res error
	err := d.do(ctx, func(c context.Context) { res = d.rtc.Adjust(c, target) })
	if err != nil {
		return err
	}
	return res
}

func (d *Device) persist(ctx context.Context) error {
	if err := d.saver.Save(ctx, d.sched); err != nil {
		return fmt.Errorf("persist schedule: %w", err)
	}
	return nil
}
