package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/kibbler/pkg/schedule/mocks"
)

// mapKV backs the mock with a plain map so save/load round-trips are easy to express
func mapKV(data map[string]int) *mocks.KVMock {
	return &mocks.KVMock{
		GetIntFunc: func(ctx context.Context, key string, def int) (int, error) {
			if v, ok := data[key]; ok {
				return v, nil
			}
			return def, nil
		},
		PutIntFunc: func(ctx context.Context, key string, val int) error {
			data[key] = val
			return nil
		},
	}
}

func TestPackEntry_RoundTrip(t *testing.T) {
	// every in-range field combination survives encode/decode unchanged
	for hour := 0; hour <= 23; hour++ {
		for _, minute := range []int{0, 1, 30, 59} {
			for rotations := MinRotations; rotations <= MaxRotations; rotations++ {
				e := Entry{Hour: hour, Minute: minute, Rotations: rotations}
				got, ok := unpackEntry(packEntry(e))
				require.True(t, ok, "entry %v", e)
				require.Equal(t, e, got)
			}
		}
	}
}

func TestPackEntry_Layout(t *testing.T) {
	// the packed layout is part of the persisted format, pin it down
	assert.Equal(t, 83002, packEntry(Entry{8, 30, 2}))
	assert.Equal(t, 235903, packEntry(Entry{23, 59, 3}))
	assert.Equal(t, 1, packEntry(Entry{0, 0, 1}))
}

func TestUnpackEntry_Corrupted(t *testing.T) {
	tests := []struct {
		name  string
		value int
	}{
		{"zero rotations", 83000},
		{"rotations too big", 83004},
		{"minute out of range", 86001},
		{"hour out of range", 240001},
		{"negative", -1},
		{"garbage", 99999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := unpackEntry(tt.value)
			assert.False(t, ok)
		})
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	data := map[string]int{}
	st := NewStore(mapKV(data))

	orig := New(Entry{8, 0, 2}, Entry{12, 30, 1}, Entry{8, 0, 2}) // duplicate kept as-is
	require.NoError(t, st.Save(context.Background(), orig))

	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orig.Entries(), loaded.Entries())
}

func TestStore_SaveWritesCountAndEntries(t *testing.T) {
	data := map[string]int{}
	kv := mapKV(data)
	st := NewStore(kv)

	require.NoError(t, st.Save(context.Background(), New(Entry{8, 0, 2}, Entry{12, 30, 1})))

	puts := kv.PutIntCalls()
	require.Len(t, puts, 3, "count plus one write per entry")
	assert.Equal(t, "count", puts[0].Key, "count written first")
	assert.Equal(t, 2, puts[0].Val)
	assert.Equal(t, "feed_0", puts[1].Key)
	assert.Equal(t, 80002, puts[1].Val)
	assert.Equal(t, "feed_1", puts[2].Key)
	assert.Equal(t, 123001, puts[2].Val)
}

func TestStore_ShrinkLeavesStaleKeys(t *testing.T) {
	data := map[string]int{}
	st := NewStore(mapKV(data))

	require.NoError(t, st.Save(context.Background(), New(Entry{6, 0, 1}, Entry{12, 0, 2}, Entry{18, 0, 3})))
	require.NoError(t, st.Save(context.Background(), New(Entry{6, 0, 1})))

	assert.Equal(t, 1, data["count"])
	assert.Contains(t, data, "feed_2", "stale key is not cleared")

	// the count gates reads, so the stale keys never surface
	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	e, _ := loaded.At(0)
	assert.Equal(t, Entry{6, 0, 1}, e)
}

func TestStore_LoadSkipsCorruptedEntries(t *testing.T) {
	data := map[string]int{
		"count":  3,
		"feed_0": packEntry(Entry{6, 0, 1}),
		"feed_1": 83000, // zero rotations, corrupted
		"feed_2": packEntry(Entry{18, 0, 3}),
	}
	st := NewStore(mapKV(data))

	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{6, 0, 1}, {18, 0, 3}}, loaded.Entries(), "corrupted entry dropped, count shrinks")
}

func TestStore_LoadClampsCorruptedCount(t *testing.T) {
	data := map[string]int{"count": 5000}
	for i := 0; i < MaxEntries; i++ {
		data[fmt.Sprintf("feed_%d", i)] = packEntry(Entry{Hour: i, Minute: 0, Rotations: 1})
	}
	st := NewStore(mapKV(data))

	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MaxEntries, loaded.Len())

	st = NewStore(mapKV(map[string]int{"count": -2}))
	loaded, err = st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestStore_LoadEmpty(t *testing.T) {
	st := NewStore(mapKV(map[string]int{}))

	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestStore_KVErrors(t *testing.T) {
	boom := errors.New("kv down")

	st := NewStore(&mocks.KVMock{
		GetIntFunc: func(ctx context.Context, key string, def int) (int, error) { return 0, boom },
	})
	_, err := st.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read schedule count")

	st = NewStore(&mocks.KVMock{
		PutIntFunc: func(ctx context.Context, key string, val int) error { return boom },
	})
	err = st.Save(context.Background(), New(Entry{6, 0, 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write schedule count")
}
