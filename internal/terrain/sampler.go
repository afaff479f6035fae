package terrain

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// NormalProbe is the world-space offset used for central-difference normals.
const NormalProbe float32 = 0.5

// HeightSource answers ground height queries.
type HeightSource interface {
	Sample(x, z float32) (float32, bool)
}

// Sampler is the query surface gameplay code consumes: camera grounding,
// unit collision, and scenery placement. The known implementations are
// *HeightField and FlatGround.
type Sampler interface {
	HeightSource
	SampleNormal(x, z float32) (math.Vec3, bool)
}

var (
	_ Sampler = (*HeightField)(nil)
	_ Sampler = FlatGround{}
)

// NormalFrom estimates a normal by central differences of src at
// NormalProbe. Missing neighbour heights fall back to the centre height.
// It reports false only when the centre itself has no height.
func NormalFrom(src HeightSource, x, z float32) (math.Vec3, bool) {
	h, ok := src.Sample(x, z)
	if !ok {
		return math.Vec3{}, false
	}
	at := func(sx, sz float32) float32 {
		if v, ok := src.Sample(sx, sz); ok {
			return v
		}
		return h
	}

	e := NormalProbe
	hl := at(x-e, z)
	hr := at(x+e, z)
	hd := at(x, z-e)
	hu := at(x, z+e)

	return math.Vec3{X: hl - hr, Y: 2 * e, Z: hd - hu}.Normalize(), true
}

// FlatGround is a heightless plane at Y, used where no terrain is loaded
// and as a test double.
type FlatGround struct {
	Y float32
}

// Sample always returns the plane height.
func (g FlatGround) Sample(x, z float32) (float32, bool) {
	return g.Y, true
}

// SampleNormal always points up.
func (g FlatGround) SampleNormal(x, z float32) (math.Vec3, bool) {
	return NormalFrom(g, x, z)
}
