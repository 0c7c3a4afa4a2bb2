package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/schedule"
)

// display geometry, rows by columns of the character frame
const (
	Rows = 4
	Cols = 21
)

// Screen is one rendered frame, at most Rows lines of at most Cols
// characters. Renderers pad or position the lines as the output medium
// requires.
type Screen struct {
	Lines []string
}

// Screen composes the frame for the current state. The snapshot feeds the
// clock screen and the plan feeds the next-feed countdown.
func (m *Machine) Screen(snap clock.Snapshot, plan schedule.Plan) Screen {
	switch m.kind {
	case StateMainMenu:
		return m.menuScreen()
	case StateFeedBrowse:
		return m.browseScreen()
	case StateFeedEdit:
		return m.editScreen()
	case StateSetClock:
		return m.setClockScreen()
	}
	return m.clockScreen(snap, plan)
}

func (m *Machine) clockScreen(snap clock.Snapshot, plan schedule.Plan) Screen {
	lines := []string{center(snap.String()), ""}
	if plan.Next != nil {
		lines = append(lines,
			fmt.Sprintf("next %s", plan.Next.String()),
			fmt.Sprintf("in %s", formatCountdown(plan.Informational)))
	} else {
		lines = append(lines, "no feeds scheduled")
	}
	return Screen{Lines: lines}
}

func (m *Machine) menuScreen() Screen {
	labels := []string{"show clock", "feed times", "feed now", "set clock"}
	lines := make([]string, 0, len(labels))
	for i, l := range labels {
		lines = append(lines, markRow(l, i == m.selection))
	}
	return Screen{Lines: lines}
}

func (m *Machine) browseScreen() Screen {
	rows := make([]string, 0, m.sched.Len()+2)
	for i, e := range m.sched.Entries() {
		rows = append(rows, fmt.Sprintf("%d. %s", i+1, e.String()))
	}
	rows = append(rows, "+ add", "< back")

	// scroll so the cursor stays visible, pinned to the bottom row once the
	// list outgrows the display
	top := 0
	if m.cursor >= Rows {
		top = m.cursor - Rows + 1
	}
	lines := make([]string, 0, Rows)
	for i := top; i < len(rows) && i < top+Rows; i++ {
		lines = append(lines, markRow(rows[i], i == m.cursor))
	}
	return Screen{Lines: lines}
}

func (m *Machine) editScreen() Screen {
	var t string
	switch m.field {
	case FieldHour:
		t = fmt.Sprintf("[%02d]:%02d x%d", m.draft.Hour, m.draft.Minute, m.draft.Rotations)
	case FieldMinute:
		t = fmt.Sprintf("%02d:[%02d] x%d", m.draft.Hour, m.draft.Minute, m.draft.Rotations)
	case FieldRotations:
		t = fmt.Sprintf("%02d:%02d x[%d]", m.draft.Hour, m.draft.Minute, m.draft.Rotations)
	}
	return Screen{Lines: []string{"new feed", center(t), "", "turn adjust, push ok"}}
}

func (m *Machine) setClockScreen() Screen {
	t := fmt.Sprintf("%02d:[%02d]", m.draftHour, m.draftMinute)
	if m.editingHours {
		t = fmt.Sprintf("[%02d]:%02d", m.draftHour, m.draftMinute)
	}
	return Screen{Lines: []string{"set clock", center(t), "", "turn adjust, push ok"}}
}

// FeedingScreen is the transient frame shown while the motor runs.
func FeedingScreen(rotations int) Screen {
	return Screen{Lines: []string{"", center(fmt.Sprintf("feeding x%d", rotations))}}
}

// SleepScreen is the frame left on the display before suspending.
func SleepScreen(plan schedule.Plan) Screen {
	if plan.Next == nil {
		return Screen{Lines: []string{"sleeping", "no feeds scheduled"}}
	}
	return Screen{Lines: []string{
		"sleeping",
		fmt.Sprintf("next %s", plan.Next.String()),
		fmt.Sprintf("in %s", formatCountdown(plan.Informational)),
	}}
}

// markRow prefixes the cursor marker and trims to the display width.
func markRow(s string, selected bool) string {
	prefix := " "
	if selected {
		prefix = ">"
	}
	s = prefix + s
	if len(s) > Cols {
		s = s[:Cols]
	}
	return s
}

// center pads s on the left to sit mid-display.
func center(s string) string {
	if len(s) >= Cols {
		return s[:Cols]
	}
	return strings.Repeat(" ", (Cols-len(s))/2) + s
}

// formatCountdown renders a duration as "3h05m", dropping the hour part when
// zero. Sub-minute remainders are truncated.
func formatCountdown(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
