// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// FlyCamera is a free-look camera that can be kept above the ground.
type FlyCamera struct {
	Position math.Vec3

	// Orientation (radians). Yaw 0 looks along -Z.
	Yaw   float32
	Pitch float32

	// Constraints
	MinPitch  float32
	MaxPitch  float32
	Clearance float32 // minimum height above ground

	// Sensitivity
	Speed           float32 // world units per second
	LookSensitivity float32 // radians per pixel
}

// NewFlyCamera creates a fly camera at pos with default settings.
func NewFlyCamera(pos math.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:        pos,
		Pitch:           -0.3,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		Clearance:       2,
		Speed:           150,
		LookSensitivity: 0.003,
	}
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	cp := gomath.Cos(float64(c.Pitch))
	return math.Vec3{
		X: float32(cp * gomath.Sin(float64(c.Yaw))),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: float32(-cp * gomath.Cos(float64(c.Yaw))),
	}
}

// Right returns the unit right direction on the XZ plane.
func (c *FlyCamera) Right() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Z: float32(gomath.Sin(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position, c.Position.Add(c.Forward()), up)
}

// Look rotates the camera by a mouse delta in pixels.
func (c *FlyCamera) Look(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.LookSensitivity
	c.Pitch = math.Clamp(c.Pitch-deltaY*c.LookSensitivity, c.MinPitch, c.MaxPitch)
}

// Move translates the camera. forward and right follow the view direction;
// up is world +Y. Each axis is expected in [-1, 1].
func (c *FlyCamera) Move(forward, right, up, dt float32) {
	step := c.Forward().Scale(forward).
		Add(c.Right().Scale(right)).
		Add(math.Vec3{Y: up})
	c.Position = c.Position.Add(step.Scale(c.Speed * dt))
}

// Ground lifts the camera to Clearance above the height at its XZ
// position. It reports false when the ground height is unknown there, in
// which case the camera is left untouched.
func (c *FlyCamera) Ground(src terrain.HeightSource) bool {
	h, ok := src.Sample(c.Position.X, c.Position.Z)
	if !ok {
		return false
	}
	if floor := h + c.Clearance; c.Position.Y < floor {
		c.Position.Y = floor
	}
	return true
}
