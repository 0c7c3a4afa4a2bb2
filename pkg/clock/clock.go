// Package clock defines the wall-clock snapshot the control loop runs on and
// provides the default system-backed time source. Hardware RTC chips implement
// the same reader/setter pair in pkg/hardware.
package clock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Snapshot is a single RTC reading. It is an immutable value replaced
// wholesale on every refresh; scheduling decisions always use the most recent
// snapshot, never a partially updated one.
type Snapshot struct {
	Hour   int // 0..23
	Minute int // 0..59
	Second int // 0..59
}

// FromTime converts a time.Time to a snapshot, dropping the date part.
func FromTime(t time.Time) Snapshot {
	return Snapshot{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// String formats the snapshot as HH:MM:SS.
func (s Snapshot) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.Hour, s.Minute, s.Second)
}

// HHMM formats the snapshot as HH:MM, the form used by menu screens.
func (s Snapshot) HHMM() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// MinuteOfDay returns the snapshot position as minutes since midnight.
func (s Snapshot) MinuteOfDay() int {
	return s.Hour*60 + s.Minute
}

// Valid reports whether all fields are within their declared ranges.
func (s Snapshot) Valid() bool {
	return s.Hour >= 0 && s.Hour <= 23 && s.Minute >= 0 && s.Minute <= 59 && s.Second >= 0 && s.Second <= 59
}

// System is an RTC backed by the OS clock. Adjust does not touch the system
// time (that would need privileges); instead it keeps a volatile offset so the
// set-clock menu behaves the same as with a real RTC chip. The offset is lost
// on restart, which matches a board that re-syncs from NTP on boot.
type System struct {
	mu     sync.Mutex
	offset time.Duration
	now    func() time.Time // overridable in tests
}

// NewSystem creates a system-clock RTC.
func NewSystem() *System {
	return &System{now: time.Now}
}

// Now returns the current snapshot, including any offset applied by Adjust.
func (s *System) Now(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FromTime(s.now().Add(s.offset)), nil
}

// Adjust moves the clock so that subsequent Now calls report the given time,
// with seconds as provided (the set-clock menu always passes zero).
func (s *System) Adjust(_ context.Context, target Snapshot) error {
	if !target.Valid() {
		return fmt.Errorf("invalid time %02d:%02d:%02d", target.Hour, target.Minute, target.Second)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	want := time.Date(now.Year(), now.Month(), now.Day(), target.Hour, target.Minute, target.Second, 0, now.Location())
	s.offset = want.Sub(now)
	return nil
}
