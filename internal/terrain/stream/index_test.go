package stream

import (
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

func TestIndexSingleRecordPerKey(t *testing.T) {
	idx := NewIndex()
	key := terrain.ChunkKey{X: 2, Z: 1}

	if !idx.Insert(Record{Key: key, Tier: terrain.TierNear, Handle: 1}) {
		t.Fatal("first insert rejected")
	}
	if idx.Insert(Record{Key: key, Tier: terrain.TierFar, Handle: 2}) {
		t.Fatal("second insert for the same key accepted")
	}
	rec, ok := idx.Get(key)
	if !ok || rec.Handle != 1 || rec.Tier != terrain.TierNear {
		t.Errorf("Get = %+v, %v; want the first record", rec, ok)
	}

	if _, ok := idx.Remove(key); !ok {
		t.Fatal("Remove reported missing key")
	}
	if _, ok := idx.Remove(key); ok {
		t.Error("second Remove reported success")
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
}

func TestIndexRecordsOrdered(t *testing.T) {
	idx := NewIndex()
	for _, k := range []terrain.ChunkKey{{X: 1, Z: 1}, {X: 0, Z: 1}, {X: 5, Z: 0}, {X: 2, Z: 0}} {
		idx.Insert(Record{Key: k})
	}

	want := []terrain.ChunkKey{{X: 2, Z: 0}, {X: 5, Z: 0}, {X: 0, Z: 1}, {X: 1, Z: 1}}
	got := idx.Records()
	if len(got) != len(want) {
		t.Fatalf("Records returned %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Key != want[i] {
			t.Errorf("Records[%d] = %v, want %v", i, got[i].Key, want[i])
		}
	}
}

func TestEventKindString(t *testing.T) {
	if ChunkLoaded.String() != "loaded" || ChunkUnloaded.String() != "unloaded" {
		t.Errorf("unexpected names %q %q", ChunkLoaded, ChunkUnloaded)
	}
}
