package terrain

import (
	"testing"

	"github.com/Faultbox/midgard-terrain/pkg/formats"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func testStoreConfig(dir string, res int) StoreConfig {
	return StoreConfig{
		Folder: dir,
		Prefix: "height",
		Ext:    ".r16",
		Width:  res,
		Height: res,
	}
}

// testFieldConfig is a 4x4 lattice of 256-unit chunks with full-range
// normalization and a height scale of 100.
func testFieldConfig() FieldConfig {
	return FieldConfig{
		Origin:      math.Vec2{X: 0, Y: 0},
		WorldSize:   math.Vec2{X: 1024, Y: 1024},
		ChunkSize:   math.Vec2{X: 256, Y: 256},
		RawMin:      0,
		RawMax:      65535,
		HeightScale: 100,
	}
}

func fillSamples(w, h int, fn func(x, z int) uint16) []uint16 {
	samples := make([]uint16, w*h)
	for z := range h {
		for x := range w {
			samples[z*w+x] = fn(x, z)
		}
	}
	return samples
}

func writeTile(t *testing.T, cfg StoreConfig, coord TileCoord, fn func(x, z int) uint16) {
	t.Helper()
	raw := &formats.RAW16{Width: cfg.Width, Height: cfg.Height, Samples: fillSamples(cfg.Width, cfg.Height, fn)}
	if err := formats.WriteRAW16File(cfg.Path(coord), raw); err != nil {
		t.Fatalf("writing tile %v: %v", coord, err)
	}
}

func memTile(coord TileCoord, res int, fn func(x, z int) uint16) *Tile {
	return NewTile(coord, res, res, fillSamples(res, res, fn))
}

func constant(v uint16) func(x, z int) uint16 {
	return func(x, z int) uint16 { return v }
}

func approx(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}
