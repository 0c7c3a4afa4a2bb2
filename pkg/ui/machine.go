// Package ui drives the menu and edit screens from debounced rotate and press
// events. The machine is a plain deterministic FSM: one state kind plus the
// fields that kind owns, so contradictory edit modes are not representable.
// Side effects (dispensing, persisting, setting the clock) go through injected
// collaborators; rendering consumes the composed Screen and feeds nothing
// back.
package ui

import (
	"context"
	"log"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/schedule"
)

//go:generate moq -out mocks/dispenser.go -pkg mocks -skip-ensure -fmt goimports . Dispenser
//go:generate moq -out mocks/saver.go -pkg mocks -skip-ensure -fmt goimports . Saver
//go:generate moq -out mocks/clock_setter.go -pkg mocks -skip-ensure -fmt goimports . ClockSetter

// Dispenser runs the feeding motor; used by the manual "feed now" menu item.
type Dispenser interface {
	Dispense(ctx context.Context, rotations int) error
}

// Saver persists the schedule after every mutation.
type Saver interface {
	Save(ctx context.Context, s *schedule.Schedule) error
}

// ClockSetter commits a set-clock draft to the RTC.
type ClockSetter interface {
	Adjust(ctx context.Context, snap clock.Snapshot) error
}

// StateKind enumerates the machine states. Exactly one is active; the edit
// states carry their own payload fields, valid only while that kind is
// active.
type StateKind int

const (
	StateClock     StateKind = iota // default screen, shows time and next feed
	StateMainMenu                   // top-level menu, Selection
	StateFeedBrowse                 // feed list, Cursor over entries+add+exit
	StateFeedEdit                   // new-entry editor, Field+Draft
	StateSetClock                   // clock editor, EditingHours+clock draft
)

// String returns the state name used in logs and the status API.
func (k StateKind) String() string {
	switch k {
	case StateClock:
		return "clock"
	case StateMainMenu:
		return "menu"
	case StateFeedBrowse:
		return "feeds"
	case StateFeedEdit:
		return "feed-edit"
	case StateSetClock:
		return "set-clock"
	}
	return "unknown"
}

// EditField selects which field of the feed draft is being adjusted. A single
// enumerated value, never a set of booleans: the fields are mutually
// exclusive by construction.
type EditField int

const (
	FieldHour EditField = iota
	FieldMinute
	FieldRotations
)

// main menu items, in display order
const (
	menuShowClock = 0
	menuFeedTimes = 1
	menuFeedNow   = 2
	menuSetClock  = 3
	menuItems     = 4
)

// defaultDraft seeds the new-entry editor.
var defaultDraft = schedule.Entry{Hour: 12, Minute: 0, Rotations: schedule.MinRotations}

// State is a read-only view of the machine, consumed by renderers and tests.
// Only the fields belonging to Kind are meaningful.
type State struct {
	Kind         StateKind
	Selection    int            // StateMainMenu
	Cursor       int            // StateFeedBrowse
	Field        EditField      // StateFeedEdit
	Draft        schedule.Entry // StateFeedEdit
	EditingHours bool           // StateSetClock
	DraftHour    int            // StateSetClock
	DraftMinute  int            // StateSetClock
}

// Machine is the menu state machine. It owns no goroutines and is driven
// exclusively by the control loop, one event at a time.
type Machine struct {
	sched     *schedule.Schedule
	saver     Saver
	dispenser Dispenser
	rtc       ClockSetter

	kind         StateKind
	selection    int
	cursor       int
	field        EditField
	draft        schedule.Entry
	editingHours bool
	draftHour    int
	draftMinute  int
}

// NewMachine creates the machine in the clock state over the given schedule.
func NewMachine(sched *schedule.Schedule, saver Saver, dispenser Dispenser, rtc ClockSetter) *Machine {
	return &Machine{sched: sched, saver: saver, dispenser: dispenser, rtc: rtc}
}

// Reset drops any menu or edit context and returns to the clock screen. The
// control loop calls it before suspending so the feeder wakes up on the
// clock, not inside a stale half-finished edit.
func (m *Machine) Reset() {
	m.kind = StateClock
}

// Sync clamps the browse cursor after the schedule changed outside the menu
// flow, which happens when the remote API removes entries between cycles.
func (m *Machine) Sync() {
	if m.kind == StateFeedBrowse && m.cursor > m.sched.Len()+1 {
		m.cursor = m.sched.Len() + 1
	}
}

// State returns the current state view.
func (m *Machine) State() State {
	return State{
		Kind:         m.kind,
		Selection:    m.selection,
		Cursor:       m.cursor,
		Field:        m.field,
		Draft:        m.draft,
		EditingHours: m.editingHours,
		DraftHour:    m.draftHour,
		DraftMinute:  m.draftMinute,
	}
}

// Rotate applies one encoder step. Pure field cycling, no side effects; every
// cycle wraps in both directions.
func (m *Machine) Rotate(dir input.Direction) {
	step := 1
	if dir == input.CCW {
		step = -1
	}

	switch m.kind {
	case StateClock:
		// rotation on the clock screen only counts as activity

	case StateMainMenu:
		m.selection = wrap(m.selection+step, menuItems)

	case StateFeedBrowse:
		// entries, then the add slot, then the exit slot
		m.cursor = wrap(m.cursor+step, m.sched.Len()+2)

	case StateFeedEdit:
		switch m.field {
		case FieldHour:
			m.draft.Hour = wrap(m.draft.Hour+step, 24)
		case FieldMinute:
			m.draft.Minute = wrap(m.draft.Minute+step, 60)
		case FieldRotations:
			span := schedule.MaxRotations - schedule.MinRotations + 1
			m.draft.Rotations = wrap(m.draft.Rotations-schedule.MinRotations+step, span) + schedule.MinRotations
		}

	case StateSetClock:
		if m.editingHours {
			m.draftHour = wrap(m.draftHour+step, 24)
		} else {
			m.draftMinute = wrap(m.draftMinute+step, 60)
		}
	}
}

// Press applies one confirmed button press. The snapshot seeds the set-clock
// draft; collaborator failures are logged and the transition proceeds — the
// menu never gets stuck on a collaborator.
func (m *Machine) Press(ctx context.Context, now clock.Snapshot) {
	switch m.kind {
	case StateClock:
		m.kind = StateMainMenu
		m.selection = 0

	case StateMainMenu:
		m.pressMainMenu(ctx, now)

	case StateFeedBrowse:
		m.pressFeedBrowse(ctx)

	case StateFeedEdit:
		m.pressFeedEdit(ctx)

	case StateSetClock:
		if m.editingHours {
			m.editingHours = false
			return
		}
		target := clock.Snapshot{Hour: m.draftHour, Minute: m.draftMinute, Second: 0}
		if err := m.rtc.Adjust(ctx, target); err != nil {
			log.Printf("[WARN] failed to set clock to %s: %v", target, err)
		}
		m.kind = StateClock
	}
}

func (m *Machine) pressMainMenu(ctx context.Context, now clock.Snapshot) {
	switch m.selection {
	case menuShowClock:
		m.kind = StateClock

	case menuFeedTimes:
		m.kind = StateFeedBrowse
		m.cursor = 0

	case menuFeedNow:
		if err := m.dispenser.Dispense(ctx, 1); err != nil {
			log.Printf("[WARN] manual feed failed: %v", err)
		}
		m.kind = StateClock

	case menuSetClock:
		m.kind = StateSetClock
		m.editingHours = true
		m.draftHour = now.Hour
		m.draftMinute = now.Minute
	}
}

func (m *Machine) pressFeedBrowse(ctx context.Context) {
	switch {
	case m.cursor == m.sched.Len(): // the add slot
		m.kind = StateFeedEdit
		m.field = FieldHour
		m.draft = defaultDraft

	case m.cursor == m.sched.Len()+1: // the exit slot
		m.kind = StateMainMenu

	default: // an entry, remove it
		if !m.sched.Remove(m.cursor) {
			return
		}
		m.persist(ctx)
		// the list just shrank under the cursor; keep it on the last entry
		// instead of letting it land on the add slot
		if m.cursor >= m.sched.Len() && m.sched.Len() > 0 {
			m.cursor = m.sched.Len() - 1
		}
	}
}

func (m *Machine) pressFeedEdit(ctx context.Context) {
	switch m.field {
	case FieldHour:
		m.field = FieldMinute
	case FieldMinute:
		m.field = FieldRotations
	case FieldRotations:
		if m.sched.Add(m.draft) {
			m.persist(ctx)
		} // full schedule: silent no-op, nothing to persist
		m.kind = StateFeedBrowse
		m.cursor = 0
	}
}

func (m *Machine) persist(ctx context.Context) {
	if err := m.saver.Save(ctx, m.sched); err != nil {
		log.Printf("[WARN] failed to persist schedule: %v", err)
	}
}

// wrap folds v into [0,n) with both directions wrapping.
func wrap(v, n int) int {
	return ((v % n) + n) % n
}
