package lighting

import (
	gomath "math"
	"testing"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		x, y, z            float32
	}{
		{"zenith", 0, 90, 0, 1, 0},
		{"horizon +Z", 0, 0, 0, 0, 1},
		{"horizon +X", 90, 0, 1, 0, 0},
		{"horizon -Z", 180, 0, 0, 0, -1},
	}
	const eps = 1e-5
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SunDirection(tt.azimuth, tt.elevation)
			if gomath.Abs(float64(d.X-tt.x)) > eps || gomath.Abs(float64(d.Y-tt.y)) > eps || gomath.Abs(float64(d.Z-tt.z)) > eps {
				t.Errorf("SunDirection(%v, %v) = %+v, want (%v, %v, %v)", tt.azimuth, tt.elevation, d, tt.x, tt.y, tt.z)
			}
			if l := d.Length(); gomath.Abs(float64(l-1)) > eps {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}

func TestLightDirectionPointsDown(t *testing.T) {
	d := LightDirection(135, 50)
	if d[1] >= 0 {
		t.Errorf("light should travel downwards, got %v", d)
	}
}
