package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

type noGround struct{}

func (noGround) Sample(x, z float32) (float32, bool) { return 0, false }

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestGround(t *testing.T) {
	tests := []struct {
		name   string
		startY float32
		src    terrain.HeightSource
		wantY  float32
		wantOK bool
	}{
		{"below ground", 5, terrain.FlatGround{Y: 10}, 12, true},
		{"inside clearance", 11, terrain.FlatGround{Y: 10}, 12, true},
		{"above ground", 50, terrain.FlatGround{Y: 10}, 50, true},
		{"unknown ground", -100, noGround{}, -100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewFlyCamera(math.Vec3{X: 1, Y: tt.startY, Z: 2})
			if ok := cam.Ground(tt.src); ok != tt.wantOK {
				t.Errorf("Ground() = %v, want %v", ok, tt.wantOK)
			}
			if cam.Position.Y != tt.wantY {
				t.Errorf("Y = %v, want %v", cam.Position.Y, tt.wantY)
			}
		})
	}
}

func TestForwardAndRight(t *testing.T) {
	cam := NewFlyCamera(math.Vec3{})
	cam.Pitch = 0

	f := cam.Forward()
	if !near(f.X, 0) || !near(f.Y, 0) || !near(f.Z, -1) {
		t.Errorf("Forward() = %v, want (0,0,-1)", f)
	}
	r := cam.Right()
	if !near(r.X, 1) || !near(r.Z, 0) {
		t.Errorf("Right() = %v, want (1,0,0)", r)
	}

	cam.Yaw = gomath.Pi / 2
	f = cam.Forward()
	if !near(f.X, 1) || !near(f.Z, 0) {
		t.Errorf("Forward() after quarter turn = %v, want (1,0,0)", f)
	}
}

func TestLookClampsPitch(t *testing.T) {
	cam := NewFlyCamera(math.Vec3{})
	cam.Look(0, -1e6)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("Pitch = %v, want %v", cam.Pitch, cam.MaxPitch)
	}
	cam.Look(0, 1e6)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("Pitch = %v, want %v", cam.Pitch, cam.MinPitch)
	}
}

func TestMove(t *testing.T) {
	cam := NewFlyCamera(math.Vec3{})
	cam.Pitch = 0
	cam.Speed = 10

	cam.Move(1, 0, 0, 0.5)
	if !near(cam.Position.Z, -5) || !near(cam.Position.X, 0) {
		t.Errorf("after forward move: %v", cam.Position)
	}
	cam.Move(0, 1, 1, 1)
	if !near(cam.Position.X, 10) || !near(cam.Position.Y, 10) {
		t.Errorf("after right+up move: %v", cam.Position)
	}
}

func TestViewMatrixPutsTargetAhead(t *testing.T) {
	cam := NewFlyCamera(math.Vec3{X: 3, Y: 4, Z: 5})
	target := cam.Position.Add(cam.Forward().Scale(10))

	p := cam.ViewMatrix().Apply(target)
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, -10) {
		t.Errorf("target in view space = %v, want (0,0,-10)", p)
	}
}
