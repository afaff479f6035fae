// Package stream keeps the chunks around a moving viewpoint resident at
// the right level of detail. Mesh builds run on a worker pool; everything
// else happens on the goroutine calling Scheduler.Update.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config holds the per-pass streaming limits.
type Config struct {
	Radius            int     // chunks around the viewer's chunk
	CreationBudget    int     // max jobs admitted per pass
	IntegrationBudget int     // max meshes realized per pass
	CompletionQueue   int     // max finished meshes awaiting integration
	Hysteresis        float32 // LOD margin in world units; 0 disables
}

// DefaultConfig returns the default streaming limits.
func DefaultConfig() Config {
	return Config{
		Radius:            2,
		CreationBudget:    8,
		IntegrationBudget: 2,
		CompletionQueue:   64,
	}
}

// Validate checks the limits.
func (c Config) Validate() error {
	var errs []error
	if c.Radius < 0 {
		errs = append(errs, fmt.Errorf("radius %d is negative", c.Radius))
	}
	if c.CreationBudget <= 0 {
		errs = append(errs, errors.New("creation budget must be positive"))
	}
	if c.IntegrationBudget <= 0 {
		errs = append(errs, errors.New("integration budget must be positive"))
	}
	if c.CompletionQueue <= 0 {
		errs = append(errs, errors.New("completion queue must be positive"))
	}
	if c.Hysteresis < 0 {
		errs = append(errs, errors.New("hysteresis must not be negative"))
	}
	return errors.Join(errs...)
}

// Desired is one entry of the desired set.
type Desired struct {
	Key      terrain.ChunkKey
	Tier     terrain.Tier
	Distance float32
}

// PassStats summarizes one Update pass.
type PassStats struct {
	Desired        int
	Despawned      int
	Cancelled      int
	Admitted       int
	SkippedMissing int
	Completed      int
	Integrated     int
	InFlight       int
	Pending        int
	Resident       int
}

type job struct {
	key  terrain.ChunkKey
	tier terrain.Tier
	task *Task
}

type pendingMesh struct {
	key  terrain.ChunkKey
	tier terrain.Tier
	mesh *terrain.Mesh
}

// Scheduler drives chunk streaming. It is not safe for concurrent use;
// call Update once per frame from one goroutine.
type Scheduler struct {
	field    *terrain.HeightField
	selector terrain.LODSelector
	cfg      Config
	pool     *Pool
	realizer Realizer
	log      *zap.Logger

	index    *Index
	inflight []*job
	pending  []pendingMesh
	events   []Event
}

// NewScheduler creates a scheduler over field. Builds run on pool and
// finished meshes are handed to realizer.
func NewScheduler(field *terrain.HeightField, selector terrain.LODSelector, cfg Config, pool *Pool, realizer Realizer) *Scheduler {
	return &Scheduler{
		field:    field,
		selector: selector,
		cfg:      cfg,
		pool:     pool,
		realizer: realizer,
		log:      logger.Named("stream"),
		index:    NewIndex(),
	}
}

// Index returns the resident chunk index.
func (s *Scheduler) Index() *Index {
	return s.index
}

// InFlight returns the number of running builds.
func (s *Scheduler) InFlight() int {
	return len(s.inflight)
}

// Pending returns the number of finished meshes awaiting integration.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// DrainEvents returns and clears the events emitted since the last call.
func (s *Scheduler) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// Update runs one streaming pass for the given viewpoint.
func (s *Scheduler) Update(viewpoint math.Vec3) PassStats {
	var st PassStats

	desired := s.DesiredSet(viewpoint)
	st.Desired = len(desired)

	want := make(map[terrain.ChunkKey]terrain.Tier, len(desired))
	for _, d := range desired {
		want[d.Key] = d.Tier
	}

	st.Despawned, st.Cancelled = s.reconcile(want)
	st.Admitted, st.SkippedMissing = s.admit(desired)
	st.Completed = s.poll()
	st.Integrated = s.integrate()

	st.InFlight = len(s.inflight)
	st.Pending = len(s.pending)
	st.Resident = s.index.Len()

	if st.Despawned+st.Admitted+st.Completed+st.Integrated > 0 {
		s.log.Debug("stream pass",
			zap.Int("desired", st.Desired),
			zap.Int("despawned", st.Despawned),
			zap.Int("admitted", st.Admitted),
			zap.Int("skipped_missing", st.SkippedMissing),
			zap.Int("completed", st.Completed),
			zap.Int("integrated", st.Integrated),
			zap.Int("in_flight", st.InFlight),
			zap.Int("pending", st.Pending),
			zap.Int("resident", st.Resident))
	}
	return st
}

// DesiredSet returns the chunks that should be resident for viewpoint,
// nearest first. The window is the square of cfg.Radius chunks around the
// viewer's chunk, clipped to the lattice.
func (s *Scheduler) DesiredSet(viewpoint math.Vec3) []Desired {
	fc := s.field.Config()
	eye := viewpoint.XZ()
	center := fc.ChunkAt(eye)
	r := s.cfg.Radius

	out := make([]Desired, 0, (2*r+1)*(2*r+1))
	for cz := center.Z - r; cz <= center.Z+r; cz++ {
		for cx := center.X - r; cx <= center.X+r; cx++ {
			key := terrain.ChunkKey{X: cx, Z: cz}
			if !fc.InLattice(key) {
				continue
			}
			dist := eye.Distance(fc.ChunkCenter(key))
			out = append(out, Desired{Key: key, Tier: s.pickTier(key, dist), Distance: dist})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return keyLess(out[i].Key, out[j].Key)
	})
	return out
}

// pickTier applies hysteresis against the newest tier the key has: a
// queued build wins over the resident record it is about to replace.
func (s *Scheduler) pickTier(key terrain.ChunkKey, dist float32) terrain.Tier {
	if s.cfg.Hysteresis > 0 {
		if tier, ok := s.queuedTier(key); ok {
			return s.selector.PickSticky(dist, tier, s.cfg.Hysteresis)
		}
		if rec, ok := s.index.Get(key); ok {
			return s.selector.PickSticky(dist, rec.Tier, s.cfg.Hysteresis)
		}
	}
	return s.selector.Pick(dist)
}

// reconcile despawns residents and drops queued work that no longer match
// the desired set.
func (s *Scheduler) reconcile(want map[terrain.ChunkKey]terrain.Tier) (despawned, cancelled int) {
	for _, rec := range s.index.Records() {
		if tier, ok := want[rec.Key]; ok && tier == rec.Tier {
			continue
		}
		s.index.Remove(rec.Key)
		s.realizer.Release(rec.Handle)
		s.events = append(s.events, eventFor(ChunkUnloaded, rec))
		despawned++
	}

	kept := s.inflight[:0]
	for _, j := range s.inflight {
		if tier, ok := want[j.key]; ok && tier == j.tier {
			kept = append(kept, j)
			continue
		}
		j.task.Cancel()
		cancelled++
	}
	clear(s.inflight[len(kept):])
	s.inflight = kept

	queued := s.pending[:0]
	for _, p := range s.pending {
		if tier, ok := want[p.key]; ok && tier == p.tier {
			queued = append(queued, p)
			continue
		}
		cancelled++
	}
	clear(s.pending[len(queued):])
	s.pending = queued

	return despawned, cancelled
}

// queuedTier returns the tier of the in-flight or pending build for key.
func (s *Scheduler) queuedTier(key terrain.ChunkKey) (terrain.Tier, bool) {
	for _, j := range s.inflight {
		if j.key == key {
			return j.tier, true
		}
	}
	for _, p := range s.pending {
		if p.key == key {
			return p.tier, true
		}
	}
	return 0, false
}

func (s *Scheduler) queued(key terrain.ChunkKey) bool {
	_, ok := s.queuedTier(key)
	return ok
}

// admit submits builds for desired chunks that are neither resident at the
// desired tier nor queued, up to the creation budget.
func (s *Scheduler) admit(desired []Desired) (admitted, skipped int) {
	fc := s.field.Config()
	tiles := s.field.Tiles()

	for _, d := range desired {
		if admitted >= s.cfg.CreationBudget {
			break
		}
		if rec, ok := s.index.Get(d.Key); ok && rec.Tier == d.Tier {
			continue
		}
		if s.queued(d.Key) {
			continue
		}

		own, ok := tiles.Fetch(d.Key.Tile())
		if !ok {
			skipped++
			continue
		}

		req := terrain.BuildRequest{
			Key:  d.Key,
			Tier: d.Tier,
			Grid: s.selector.Grid(d.Tier),
			Tiles: terrain.ChunkTiles{
				Own:     own,
				Right:   s.neighbour(d.Key.Right()),
				Up:      s.neighbour(d.Key.Up()),
				UpRight: s.neighbour(d.Key.UpRight()),
			},
		}
		task := s.pool.Submit(func(ctx context.Context) *terrain.Mesh {
			if ctx.Err() != nil {
				return nil
			}
			return terrain.BuildChunkMesh(fc, req)
		})
		s.inflight = append(s.inflight, &job{key: d.Key, tier: d.Tier, task: task})
		admitted++
	}
	return admitted, skipped
}

// neighbour fetches a seam tile. Keys outside the lattice are never probed.
func (s *Scheduler) neighbour(key terrain.ChunkKey) *terrain.Tile {
	if !s.field.Config().InLattice(key) {
		return nil
	}
	tile, _ := s.field.Tiles().Fetch(key.Tile())
	return tile
}

// poll moves finished builds to the completion queue while it has room.
func (s *Scheduler) poll() int {
	completed := 0
	kept := s.inflight[:0]
	for _, j := range s.inflight {
		if len(s.pending) >= s.cfg.CompletionQueue {
			kept = append(kept, j)
			continue
		}
		mesh, done := j.task.Poll()
		if !done {
			kept = append(kept, j)
			continue
		}
		completed++
		if mesh == nil {
			s.log.Warn("mesh build produced no result", zap.Stringer("chunk", j.key))
			continue
		}
		s.pending = append(s.pending, pendingMesh{key: j.key, tier: j.tier, mesh: mesh})
	}
	clear(s.inflight[len(kept):])
	s.inflight = kept
	return completed
}

// integrate realizes up to IntegrationBudget queued meshes.
func (s *Scheduler) integrate() int {
	n := min(s.cfg.IntegrationBudget, len(s.pending))
	batch := s.pending[:n]

	integrated := 0
	for _, p := range batch {
		handle, err := s.realizer.Realize(p.mesh)
		if err != nil {
			s.log.Warn("failed to realize chunk", zap.Stringer("chunk", p.key), zap.Error(err))
			continue
		}

		rec := Record{Key: p.key, Tier: p.tier, Handle: handle, Bounds: p.mesh.WorldBounds()}
		if !s.index.Insert(rec) {
			s.log.Error("chunk already resident", zap.Stringer("chunk", p.key))
			s.realizer.Release(handle)
			continue
		}
		s.events = append(s.events, eventFor(ChunkLoaded, rec))
		integrated++
	}

	rest := copy(s.pending, s.pending[n:])
	clear(s.pending[rest:])
	s.pending = s.pending[:rest]
	return integrated
}

// Close cancels and awaits outstanding builds, then releases every
// resident chunk.
func (s *Scheduler) Close() {
	for _, j := range s.inflight {
		j.task.Cancel()
	}
	for _, j := range s.inflight {
		j.task.Wait()
	}
	s.inflight = nil
	s.pending = nil

	for _, rec := range s.index.Records() {
		s.index.Remove(rec.Key)
		s.realizer.Release(rec.Handle)
		s.events = append(s.events, eventFor(ChunkUnloaded, rec))
	}
}
