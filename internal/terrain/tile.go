package terrain

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Tile is an immutable raster of raw 16-bit height samples.
// A *Tile is the shared handle: copying the pointer never copies samples,
// and nothing writes to samples after NewTile returns, so a tile may be
// read from any goroutine.
type Tile struct {
	coord   TileCoord
	width   int
	height  int
	samples []uint16
}

// NewTile wraps samples (row-major, width*height long). The tile takes
// ownership of the slice; callers must not modify it afterwards.
func NewTile(coord TileCoord, width, height int, samples []uint16) *Tile {
	return &Tile{
		coord:   coord,
		width:   width,
		height:  height,
		samples: samples,
	}
}

// Coord returns the lattice coordinate.
func (t *Tile) Coord() TileCoord { return t.coord }

// Width returns the sample count along X.
func (t *Tile) Width() int { return t.width }

// Height returns the sample count along Z.
func (t *Tile) Height() int { return t.height }

// At returns the raw sample at (x, z), clamped to the tile bounds.
func (t *Tile) At(x, z int) uint16 {
	x = min(max(x, 0), t.width-1)
	z = min(max(z, 0), t.height-1)
	return t.samples[z*t.width+x]
}

// Bilinear interpolates raw samples at fractional pixel coordinates.
// Coordinates outside the tile are clamped to its border; there is no
// wraparound.
func (t *Tile) Bilinear(px, pz float32) float32 {
	px = math.Clamp(px, 0, float32(t.width-1))
	pz = math.Clamp(pz, 0, float32(t.height-1))

	x0 := int(px)
	z0 := int(pz)
	x1 := min(x0+1, t.width-1)
	z1 := min(z0+1, t.height-1)
	dx := px - float32(x0)
	dz := pz - float32(z0)

	h00 := float32(t.At(x0, z0))
	h10 := float32(t.At(x1, z0))
	h01 := float32(t.At(x0, z1))
	h11 := float32(t.At(x1, z1))

	return math.Lerp(math.Lerp(h00, h10, dx), math.Lerp(h01, h11, dx), dz)
}

// SampleUV samples at normalized tile coordinates, (0,0) being the first
// sample and (1,1) the last.
func (t *Tile) SampleUV(u, v float32) float32 {
	return t.Bilinear(u*float32(t.width-1), v*float32(t.height-1))
}
