package stream

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const testTileRes = 9

// testSelector switches tiers at 300 and 600 world units with small grids
// so builds stay cheap.
func testSelector() terrain.LODSelector {
	return terrain.LODSelector{
		Thresholds: [2]float32{300, 600},
		Grids:      [terrain.TierCount]terrain.GridRes{{X: 5, Z: 5}, {X: 3, Z: 3}, {X: 2, Z: 2}},
	}
}

// latticeField is an n x n lattice of 256-unit chunks.
func latticeField(t *testing.T, n int) *terrain.HeightField {
	t.Helper()
	store := terrain.NewTileStore(terrain.StoreConfig{
		Folder: t.TempDir(),
		Prefix: "height",
		Ext:    ".r16",
		Width:  testTileRes,
		Height: testTileRes,
	})
	size := float32(256 * n)
	return terrain.NewHeightField(terrain.FieldConfig{
		WorldSize:   math.Vec2{X: size, Y: size},
		ChunkSize:   math.Vec2{X: 256, Y: 256},
		RawMax:      65535,
		HeightScale: 100,
	}, store)
}

func putTile(field *terrain.HeightField, key terrain.ChunkKey) {
	samples := make([]uint16, testTileRes*testTileRes)
	for i := range samples {
		samples[i] = uint16(1000*key.X + 10*key.Z + i)
	}
	field.Tiles().Put(terrain.NewTile(key.Tile(), testTileRes, testTileRes, samples))
}

func putAllTiles(field *terrain.HeightField) {
	nx, nz := field.Config().Lattice()
	for z := range nz {
		for x := range nx {
			putTile(field, terrain.ChunkKey{X: x, Z: z})
		}
	}
}

// chunkCenter returns a viewpoint at the centre of key.
func chunkCenter(field *terrain.HeightField, key terrain.ChunkKey) math.Vec3 {
	c := field.Config().ChunkCenter(key)
	return math.Vec3{X: c.X, Y: 50, Z: c.Y}
}

func testConfig() Config {
	return Config{
		Radius:            1,
		CreationBudget:    16,
		IntegrationBudget: 16,
		CompletionQueue:   64,
	}
}

var errRealize = errors.New("upload failed")

// recordingRealizer keeps realized meshes in memory.
type recordingRealizer struct {
	next     Handle
	live     map[Handle]*terrain.Mesh
	attempts map[terrain.ChunkKey]int
	failOnce map[terrain.ChunkKey]bool
	released int
}

func newRecordingRealizer() *recordingRealizer {
	return &recordingRealizer{
		live:     make(map[Handle]*terrain.Mesh),
		attempts: make(map[terrain.ChunkKey]int),
		failOnce: make(map[terrain.ChunkKey]bool),
	}
}

func (r *recordingRealizer) Realize(mesh *terrain.Mesh) (Handle, error) {
	r.attempts[mesh.Key]++
	if r.failOnce[mesh.Key] {
		delete(r.failOnce, mesh.Key)
		return 0, errRealize
	}
	r.next++
	r.live[r.next] = mesh
	return r.next, nil
}

func (r *recordingRealizer) Release(h Handle) {
	delete(r.live, h)
	r.released++
}

func newTestScheduler(field *terrain.HeightField, cfg Config, pool *Pool) (*Scheduler, *recordingRealizer) {
	realizer := newRecordingRealizer()
	return NewScheduler(field, testSelector(), cfg, pool, realizer), realizer
}

// settle runs passes at vp until nothing is left to admit, build or
// integrate, waiting for the pool between passes.
func settle(t *testing.T, s *Scheduler, pool *Pool, vp math.Vec3) []PassStats {
	t.Helper()
	var passes []PassStats
	for range 100 {
		st := s.Update(vp)
		passes = append(passes, st)
		checkInvariants(t, s)
		pool.Wait()
		if st.Admitted == 0 && st.Completed == 0 && st.InFlight == 0 && st.Pending == 0 {
			return passes
		}
	}
	t.Fatal("scheduler did not settle")
	return nil
}

// checkInvariants verifies that no key is queued twice and that queued
// keys are not already resident at the queued tier.
func checkInvariants(t *testing.T, s *Scheduler) {
	t.Helper()
	seen := make(map[terrain.ChunkKey]bool)
	check := func(key terrain.ChunkKey, tier terrain.Tier) {
		if seen[key] {
			t.Fatalf("chunk %v queued twice", key)
		}
		seen[key] = true
		if rec, ok := s.Index().Get(key); ok && rec.Tier == tier {
			t.Fatalf("chunk %v queued while resident at %v", key, tier)
		}
	}
	for _, j := range s.inflight {
		check(j.key, j.tier)
	}
	for _, p := range s.pending {
		check(p.key, p.tier)
	}
}

// replayEvents fails if a key is loaded twice without an unload in between
// or unloaded while not loaded. It returns the final loaded set.
func replayEvents(t *testing.T, live map[terrain.ChunkKey]bool, events []Event) map[terrain.ChunkKey]bool {
	t.Helper()
	if live == nil {
		live = make(map[terrain.ChunkKey]bool)
	}
	for _, ev := range events {
		switch ev.Kind {
		case ChunkLoaded:
			if live[ev.Key] {
				t.Fatalf("chunk %v loaded twice", ev.Key)
			}
			live[ev.Key] = true
		case ChunkUnloaded:
			if !live[ev.Key] {
				t.Fatalf("chunk %v unloaded while not loaded", ev.Key)
			}
			delete(live, ev.Key)
		}
	}
	return live
}

func keysOf(events []Event, kind EventKind) []terrain.ChunkKey {
	var keys []terrain.ChunkKey
	for _, ev := range events {
		if ev.Kind == kind {
			keys = append(keys, ev.Key)
		}
	}
	return keys
}
