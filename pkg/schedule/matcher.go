package schedule

import "github.com/umputun/kibbler/pkg/clock"

// Matcher decides whether the current clock reading should trigger a feed.
// It carries the fired flag that makes a trigger happen at most once per
// matching minute, no matter how often the control loop polls within that
// minute. Not safe for concurrent use; the control loop is the only caller.
type Matcher struct {
	lastMinute int
	fired      bool
}

// NewMatcher creates a matcher with no observed minute yet.
func NewMatcher() *Matcher {
	return &Matcher{lastMinute: -1}
}

// Check compares the snapshot against the schedule and returns the rotation
// count of the first matching entry, in insertion order. The fired flag is
// reset whenever the observed minute value differs from the previous call's,
// and set on a match, so repeated calls within one minute fire once. When
// several entries share the same time only the earliest-inserted one fires
// for that minute tick; the later duplicates are intentionally shadowed.
func (m *Matcher) Check(snap clock.Snapshot, s *Schedule) (rotations int, matched bool) {
	if snap.Minute != m.lastMinute {
		m.lastMinute = snap.Minute
		m.fired = false
	}
	if m.fired {
		return 0, false
	}

	for _, e := range s.Entries() {
		if e.Hour == snap.Hour && e.Minute == snap.Minute {
			m.fired = true
			return e.Rotations, true
		}
	}
	return 0, false
}
