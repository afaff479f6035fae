// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/midgard-terrain/pkg/math"

// BoxLineVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// BoxLines returns the 12 edges of b as 24 line endpoints.
func BoxLines(b math.AABB) [BoxLineVertexCount]math.Vec3 {
	lo, hi := b.Min, b.Max
	c := [8]math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	return [BoxLineVertexCount]math.Vec3{
		// Bottom face
		c[0], c[1], c[1], c[2], c[2], c[3], c[3], c[0],
		// Top face
		c[4], c[5], c[5], c[6], c[6], c[7], c[7], c[4],
		// Vertical edges
		c[0], c[4], c[1], c[5], c[2], c[6], c[3], c[7],
	}
}

// Pad grows b by padding on every side.
func Pad(b math.AABB, padding float32) math.AABB {
	p := math.Vec3{X: padding, Y: padding, Z: padding}
	return math.AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}
