package schedule

import (
	"context"
	"fmt"
	"log"
)

//go:generate moq -out mocks/kv.go -pkg mocks -skip-ensure -fmt goimports . KV

// KV is the namespaced integer key-value collaborator the store persists
// through. GetInt returns def when the key is absent. Implementations are
// expected to make each call an atomic operation of its own; the store never
// holds a handle across calls.
type KV interface {
	GetInt(ctx context.Context, key string, def int) (int, error)
	PutInt(ctx context.Context, key string, val int) error
}

// persisted layout: an entry count plus one packed integer per entry
const (
	keyCount = "count"
	keyEntry = "feed_%d"
	packHour = 10000
	packMin  = 100
)

// packEntry encodes an entry as a single integer: hour*10000+minute*100+rotations.
func packEntry(e Entry) int {
	return e.Hour*packHour + e.Minute*packMin + e.Rotations
}

// unpackEntry decodes a packed integer, the exact inverse of packEntry.
// Returns ok=false when any decoded field falls out of range, which marks the
// value as corrupted rather than usable; a zero-rotation entry in particular
// must never reach the actuator.
func unpackEntry(v int) (Entry, bool) {
	if v < 0 {
		return Entry{}, false
	}
	e := Entry{
		Hour:      v / packHour,
		Minute:    (v / packMin) % 100,
		Rotations: v % 100,
	}
	return e, e.Valid()
}

// Store loads and saves the schedule through a KV collaborator. Every
// schedule mutation in the system is followed by exactly one Save call, which
// rewrites the full schedule; there are no partial or differential writes.
type Store struct {
	kv KV
}

// NewStore creates a schedule store on top of the given key-value collaborator.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load reads the persisted schedule. Corrupted entries (out-of-range fields
// after decode) are skipped with a warning, shrinking the effective count;
// they are recoverable noise, not errors. A corrupted count is clamped to the
// valid range.
func (st *Store) Load(ctx context.Context) (*Schedule, error) {
	count, err := st.kv.GetInt(ctx, keyCount, 0)
	if err != nil {
		return nil, fmt.Errorf("read schedule count: %w", err)
	}
	if count < 0 || count > MaxEntries {
		log.Printf("[WARN] stored schedule count %d out of range, clamped", count)
		count = clamp(count, 0, MaxEntries)
	}

	s := New()
	for i := 0; i < count; i++ {
		v, err := st.kv.GetInt(ctx, fmt.Sprintf(keyEntry, i), 0)
		if err != nil {
			return nil, fmt.Errorf("read schedule entry %d: %w", i, err)
		}
		e, ok := unpackEntry(v)
		if !ok {
			log.Printf("[WARN] dropping corrupted schedule entry %d (value %d)", i, v)
			continue
		}
		s.Add(e)
	}
	return s, nil
}

// Save writes the count followed by every entry below it. Stale keys above
// the new count are left in place deliberately: the count gates the read loop,
// and leaving them preserves compatibility with schedules written before a
// shrink.
func (st *Store) Save(ctx context.Context, s *Schedule) error {
	if err := st.kv.PutInt(ctx, keyCount, s.Len()); err != nil {
		return fmt.Errorf("write schedule count: %w", err)
	}
	for i, e := range s.Entries() {
		if err := st.kv.PutInt(ctx, fmt.Sprintf(keyEntry, i), packEntry(e)); err != nil {
			return fmt.Errorf("write schedule entry %d: %w", i, err)
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
