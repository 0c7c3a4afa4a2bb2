package schedule

import (
	"time"

	"github.com/umputun/kibbler/pkg/clock"
)

const (
	minutesPerDay = 24 * 60

	// MaxSleep is the hardware ceiling on a single suspension.
	MaxSleep = 24 * time.Hour

	// MinSleep is the safety floor for the suspension timer: anything shorter
	// is forced up to this value to prevent rapid wake/sleep thrashing from a
	// degenerate computation. The floor never applies to the informational
	// duration shown on screen.
	MinSleep = 5 * time.Minute

	// fallbackSleep covers the should-not-happen case of a non-positive
	// computed duration.
	fallbackSleep = time.Hour
)

// Plan is the outcome of a sleep computation: the duration to arm the
// suspension timer with, and the unclamped informational duration kept
// verbatim for display even when the timer value was clamped or floored.
type Plan struct {
	Sleep         time.Duration // actual timer value, ceiling-clamped and floored
	Informational time.Duration // true time to the next feed, display only
	Next          *Entry        // entry the plan targets, nil for an empty schedule
}

// TimerMicros returns the timer value in microseconds, the unit the
// suspension hardware is armed with.
func (p Plan) TimerMicros() uint64 {
	return uint64(p.Sleep / time.Microsecond)
}

// PlanNext computes how long the device may suspend from the given snapshot.
//
// The search runs in two phases rather than as a single modular distance:
// first the nearest entry strictly later today, then, if none qualifies, the
// earliest entry shifted to tomorrow. An entry at exactly the current minute
// is never a candidate — firing for the current minute is the Matcher's job
// on this very wake, and treating it as "next feed is now" would produce a
// zero sleep. A consequence kept from the original: when every entry equals
// the current minute the tomorrow phase targets the same time a full day out.
func PlanNext(snap clock.Snapshot, s *Schedule) Plan {
	if s.Len() == 0 {
		return Plan{Sleep: MaxSleep, Informational: MaxSleep}
	}

	nowMin := snap.MinuteOfDay()
	entries := s.Entries()

	// phase one: nearest entry strictly later today
	best := -1
	var next *Entry
	for i := range entries {
		d := entries[i].MinuteOfDay() - nowMin
		if d <= 0 {
			continue
		}
		if best == -1 || d < best {
			best = d
			next = &entries[i]
		}
	}

	// phase two: all entries are at or before now, take the earliest tomorrow
	if best == -1 {
		earliest := 0
		for i := range entries {
			if entries[i].MinuteOfDay() < entries[earliest].MinuteOfDay() {
				earliest = i
			}
		}
		best = entries[earliest].MinuteOfDay() + minutesPerDay - nowMin
		next = &entries[earliest]
	}

	sleep := time.Duration(best) * time.Minute
	if sleep <= 0 { // defensive, unreachable with the search above
		sleep = fallbackSleep
	}

	p := Plan{Informational: sleep, Next: next}

	// hardware ceiling, then safety floor on the timer value only
	if sleep > MaxSleep {
		sleep = MaxSleep
	}
	if sleep < MinSleep {
		sleep = MinSleep
	}
	p.Sleep = sleep
	return p
}
