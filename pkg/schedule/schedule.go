// Package schedule holds the feeding schedule and the two decisions made from
// it: whether the current minute should trigger a feed (Matcher) and how long
// the device may sleep until the next relevant moment (PlanNext). The
// schedule itself is a small append-only list persisted through a namespaced
// integer key-value store.
package schedule

import (
	"errors"
	"fmt"
)

// MaxEntries bounds the schedule size. The limit comes from the fixed
// key-value slots reserved for feed entries, not from memory pressure.
const MaxEntries = 10

// rotation bounds for a single trigger
const (
	MinRotations = 1
	MaxRotations = 3
)

// ErrFull is returned by callers that need to surface a rejected Add; the
// schedule itself treats Add at capacity as a silent no-op.
var ErrFull = errors.New("schedule is full")

// ErrNoEntry is returned for an out-of-range entry index.
var ErrNoEntry = errors.New("no such entry")

// Entry is one configured feed trigger: a time of day and how many dispenser
// rotations to run when it fires.
type Entry struct {
	Hour      int `json:"hour"`
	Minute    int `json:"minute"`
	Rotations int `json:"rotations"`
}

// Valid reports whether all fields are within their declared ranges.
func (e Entry) Valid() bool {
	return e.Hour >= 0 && e.Hour <= 23 &&
		e.Minute >= 0 && e.Minute <= 59 &&
		e.Rotations >= MinRotations && e.Rotations <= MaxRotations
}

// MinuteOfDay returns the trigger time as minutes since midnight.
func (e Entry) MinuteOfDay() int {
	return e.Hour*60 + e.Minute
}

// String formats the entry the way menu screens show it, e.g. "08:30 x2".
func (e Entry) String() string {
	return fmt.Sprintf("%02d:%02d x%d", e.Hour, e.Minute, e.Rotations)
}

// Schedule is an ordered list of feed entries. Insertion order is append-only
// and duplicates are legal; each duplicate is an independent trigger, with the
// earliest-inserted one winning a shared minute (see Matcher). Not safe for
// concurrent use: the control loop is the only writer by design.
type Schedule struct {
	entries []Entry
}

// New creates a schedule from the given entries; extras beyond capacity are
// dropped.
func New(entries ...Entry) *Schedule {
	s := &Schedule{entries: make([]Entry, 0, MaxEntries)}
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

// Len returns the number of entries.
func (s *Schedule) Len() int { return len(s.entries) }

// At returns the entry at index i.
func (s *Schedule) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns a copy of the entries in insertion order.
func (s *Schedule) Entries() []Entry {
	res := make([]Entry, len(s.entries))
	copy(res, s.entries)
	return res
}

// Add appends an entry. At capacity the call is a no-op and returns false;
// the caller decides whether that is worth surfacing.
func (s *Schedule) Add(e Entry) bool {
	if len(s.entries) >= MaxEntries {
		return false
	}
	s.entries = append(s.entries, e)
	return true
}

// Remove deletes the entry at index i, shifting later entries down by one and
// preserving their relative order. Returns false for an out-of-range index.
func (s *Schedule) Remove(i int) bool {
	if i < 0 || i >= len(s.entries) {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}
