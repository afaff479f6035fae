package stream

import (
	"sort"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Handle identifies a realized chunk inside a Realizer.
type Handle uint64

// Record is one resident chunk.
type Record struct {
	Key    terrain.ChunkKey
	Tier   terrain.Tier
	Handle Handle
	Bounds math.AABB // world space
}

// Index tracks resident chunks. It holds at most one record per key.
type Index struct {
	records map[terrain.ChunkKey]Record
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{records: make(map[terrain.ChunkKey]Record)}
}

// Get returns the record for key.
func (x *Index) Get(key terrain.ChunkKey) (Record, bool) {
	r, ok := x.records[key]
	return r, ok
}

// Insert adds r. It returns false and leaves the index unchanged if the
// key is already resident.
func (x *Index) Insert(r Record) bool {
	if _, exists := x.records[r.Key]; exists {
		return false
	}
	x.records[r.Key] = r
	return true
}

// Remove deletes and returns the record for key.
func (x *Index) Remove(key terrain.ChunkKey) (Record, bool) {
	r, ok := x.records[key]
	if ok {
		delete(x.records, key)
	}
	return r, ok
}

// Len returns the number of resident chunks.
func (x *Index) Len() int {
	return len(x.records)
}

// Records returns all records ordered by key (Z, then X).
func (x *Index) Records() []Record {
	out := make([]Record, 0, len(x.records))
	for _, r := range x.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return keyLess(out[i].Key, out[j].Key)
	})
	return out
}

func keyLess(a, b terrain.ChunkKey) bool {
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.X < b.X
}
