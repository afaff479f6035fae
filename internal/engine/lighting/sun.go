// Package lighting provides lighting utilities for terrain rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// SunDirection converts azimuth/elevation angles in degrees to a unit
// vector pointing towards the sun. Azimuth rotates around Y starting at +Z,
// elevation is measured up from the horizon.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * gomath.Pi / 180.0
	el := float64(elevation) * gomath.Pi / 180.0

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// LightDirection returns the direction sunlight travels, for shaders that
// take the incoming light vector.
func LightDirection(azimuth, elevation float32) [3]float32 {
	return SunDirection(azimuth, elevation).Scale(-1).Array()
}
