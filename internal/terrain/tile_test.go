package terrain

import "testing"

func TestTileBilinear(t *testing.T) {
	// 2x2 tile: 0 100 / 200 300
	tile := NewTile(TileCoord{}, 2, 2, []uint16{0, 100, 200, 300})

	tests := []struct {
		name   string
		px, pz float32
		want   float32
	}{
		{"corner 00", 0, 0, 0},
		{"corner 11", 1, 1, 300},
		{"mid x", 0.5, 0, 50},
		{"mid z", 0, 0.5, 100},
		{"centre", 0.5, 0.5, 150},
		{"clamped low", -3, -3, 0},
		{"clamped high", 9, 9, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tile.Bilinear(tt.px, tt.pz); !approx(got, tt.want, 1e-4) {
				t.Errorf("Bilinear(%v,%v) = %v, want %v", tt.px, tt.pz, got, tt.want)
			}
		})
	}
}

func TestTileSampleUVEndpoints(t *testing.T) {
	tile := memTile(TileCoord{}, 5, func(x, z int) uint16 { return uint16(x + 10*z) })

	if got := tile.SampleUV(0, 0); got != 0 {
		t.Errorf("SampleUV(0,0) = %v, want 0", got)
	}
	if got := tile.SampleUV(1, 1); got != 44 {
		t.Errorf("SampleUV(1,1) = %v, want 44", got)
	}
	if got := tile.SampleUV(1, 0); got != 4 {
		t.Errorf("SampleUV(1,0) = %v, want 4", got)
	}
}

func TestTileAtClamps(t *testing.T) {
	tile := memTile(TileCoord{}, 3, func(x, z int) uint16 { return uint16(x + 10*z) })
	if got := tile.At(-1, 5); got != 20 {
		t.Errorf("At(-1,5) = %d, want 20", got)
	}
}
