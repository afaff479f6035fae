package terrain

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// FieldConfig is the immutable world metadata of a heightfield.
// ChunkSize must tile WorldSize exactly; one tile covers one chunk.
type FieldConfig struct {
	Origin      math.Vec2 // world XZ of the lattice's (0,0) corner
	WorldSize   math.Vec2
	ChunkSize   math.Vec2
	RawMin      float32
	RawMax      float32
	HeightScale float32
}

// Lattice returns the number of chunks along X and Z.
func (c FieldConfig) Lattice() (int, int) {
	return int(c.WorldSize.X / c.ChunkSize.X), int(c.WorldSize.Y / c.ChunkSize.Y)
}

// InLattice reports whether key lies inside [0,nx) x [0,nz).
func (c FieldConfig) InLattice(key ChunkKey) bool {
	nx, nz := c.Lattice()
	return key.X >= 0 && key.Z >= 0 && key.X < nx && key.Z < nz
}

// ChunkMin returns the world XZ of a chunk's minimum corner.
func (c FieldConfig) ChunkMin(key ChunkKey) math.Vec2 {
	return math.Vec2{
		X: c.Origin.X + float32(key.X)*c.ChunkSize.X,
		Y: c.Origin.Y + float32(key.Z)*c.ChunkSize.Y,
	}
}

// ChunkMax returns the world XZ of a chunk's maximum corner.
func (c FieldConfig) ChunkMax(key ChunkKey) math.Vec2 {
	return c.ChunkMin(key).Add(c.ChunkSize)
}

// ChunkCenter returns the world XZ centre of a chunk.
func (c FieldConfig) ChunkCenter(key ChunkKey) math.Vec2 {
	return c.ChunkMin(key).Add(c.ChunkSize.Scale(0.5))
}

// ChunkAt returns the chunk containing a world XZ point. The result may lie
// outside the lattice.
func (c FieldConfig) ChunkAt(p math.Vec2) ChunkKey {
	return ChunkKey{
		X: int(gomath.Floor(float64((p.X - c.Origin.X) / c.ChunkSize.X))),
		Z: int(gomath.Floor(float64((p.Y - c.Origin.Y) / c.ChunkSize.Y))),
	}
}

// Normalize maps a raw sample into [0,1]. A degenerate range maps to 0.
func (c FieldConfig) Normalize(raw float32) float32 {
	if c.RawMax <= c.RawMin {
		return 0
	}
	return math.Clamp((raw-c.RawMin)/(c.RawMax-c.RawMin), 0, 1)
}

// WorldHeight converts a raw sample to a world-space height.
func (c FieldConfig) WorldHeight(raw float32) float32 {
	return c.Normalize(raw) * c.HeightScale
}

// HeightField samples world heights from a TileStore.
type HeightField struct {
	cfg   FieldConfig
	tiles *TileStore
}

// NewHeightField creates a heightfield backed by tiles.
func NewHeightField(cfg FieldConfig, tiles *TileStore) *HeightField {
	return &HeightField{cfg: cfg, tiles: tiles}
}

// Config returns the field metadata.
func (f *HeightField) Config() FieldConfig {
	return f.cfg
}

// Tiles returns the backing tile store.
func (f *HeightField) Tiles() *TileStore {
	return f.tiles
}

// Sample returns the bilinear world height at (x, z). It reports false
// outside the world rectangle or when the covering tile cannot be loaded.
func (f *HeightField) Sample(x, z float32) (float32, bool) {
	return f.sample(x, z, f.tiles.Fetch)
}

// Cached returns a view of the field that only reads tiles already in the
// store. It never touches the disk, so it suits per-frame queries on the
// render goroutine.
func (f *HeightField) Cached() HeightSource {
	return cachedField{f}
}

type cachedField struct {
	f *HeightField
}

func (c cachedField) Sample(x, z float32) (float32, bool) {
	return c.f.sample(x, z, c.f.tiles.Cached)
}

func (f *HeightField) sample(x, z float32, tileAt func(TileCoord) (*Tile, bool)) (float32, bool) {
	lx := x - f.cfg.Origin.X
	lz := z - f.cfg.Origin.Y
	if lx < 0 || lz < 0 || lx >= f.cfg.WorldSize.X || lz >= f.cfg.WorldSize.Y {
		return 0, false
	}

	cx := int(lx / f.cfg.ChunkSize.X)
	cz := int(lz / f.cfg.ChunkSize.Y)
	u := (lx - float32(cx)*f.cfg.ChunkSize.X) / f.cfg.ChunkSize.X
	v := (lz - float32(cz)*f.cfg.ChunkSize.Y) / f.cfg.ChunkSize.Y

	tile, ok := tileAt(TileCoord{X: cx, Z: cz})
	if !ok {
		return 0, false
	}
	return f.cfg.WorldHeight(tile.SampleUV(u, v)), true
}

// SampleNormal estimates the surface normal at (x, z).
func (f *HeightField) SampleNormal(x, z float32) (math.Vec3, bool) {
	return NormalFrom(f, x, z)
}
