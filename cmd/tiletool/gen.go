package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/formats"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// synth describes a procedural landscape over the whole lattice. Heights
// are a function of world position only, so adjacent tiles share their
// edge samples exactly.
type synth struct {
	field    terrain.FieldConfig
	period   float32 // wavelength of the rolling hills, world units
	ridge    float32 // weight of the ridge term in [0,1]
	detail   float32 // amplitude of the Perlin detail term
	noise    *perlin.Perlin
	rawMin   float32
	rawRange float32
}

// Perlin octave settings.
const (
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 4
)

func newSynth(cfg *config.Config, period, ridge, detail float32, seed int64) synth {
	return synth{
		field:    cfg.FieldConfig(),
		period:   period,
		ridge:    ridge,
		detail:   detail,
		noise:    perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		rawMin:   cfg.Terrain.RawMin,
		rawRange: cfg.Terrain.RawMax - cfg.Terrain.RawMin,
	}
}

// level returns the normalized height in [0,1] at lattice-local (lx, lz).
func (s synth) level(lx, lz float32) float32 {
	k := 2 * gomath.Pi / float64(s.period)
	x, z := float64(lx)*k, float64(lz)*k

	hills := 0.5 + 0.3*gomath.Sin(x)*gomath.Cos(z*0.7) + 0.1*gomath.Sin(x*2.3+z*1.7)
	ridge := 1 - gomath.Abs(gomath.Sin(x*0.35+z*0.5))
	h := (1-float64(s.ridge))*hills + float64(s.ridge)*ridge*ridge
	h += float64(s.detail) * s.noise.Noise2D(x*0.8, z*0.8)
	return float32(max(0, min(1, h)))
}

// sampleTile renders the tile for coord. Pixel (i, j) sits at
// u = i/(width-1), v = j/(height-1) across the chunk.
func (s synth) sampleTile(coord terrain.TileCoord, width, height int) *formats.RAW16 {
	out := &formats.RAW16{Width: width, Height: height, Samples: make([]uint16, width*height)}
	base := tileBase(s.field, coord)
	for j := 0; j < height; j++ {
		lz := base.Y + float32(j)/float32(height-1)*s.field.ChunkSize.Y
		for i := 0; i < width; i++ {
			lx := base.X + float32(i)/float32(width-1)*s.field.ChunkSize.X
			raw := s.rawMin + s.level(lx, lz)*s.rawRange
			out.Samples[j*width+i] = uint16(gomath.Round(float64(raw)))
		}
	}
	return out
}

// tileBase returns the lattice-local XZ of the tile's (0,0) corner.
func tileBase(fc terrain.FieldConfig, coord terrain.TileCoord) math.Vec2 {
	return math.Vec2{X: float32(coord.X) * fc.ChunkSize.X, Y: float32(coord.Z) * fc.ChunkSize.Y}
}

// colorTile renders a size x size colour image shaded by height.
func (s synth) colorTile(coord terrain.TileCoord, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	base := tileBase(s.field, coord)
	for j := 0; j < size; j++ {
		lz := base.Y + (float32(j)+0.5)/float32(size)*s.field.ChunkSize.Y
		for i := 0; i < size; i++ {
			lx := base.X + (float32(i)+0.5)/float32(size)*s.field.ChunkSize.X
			img.SetRGBA(i, j, heightColor(s.level(lx, lz)))
		}
	}
	return img
}

var colorRamp = []struct {
	at float32
	c  color.RGBA
}{
	{0.00, color.RGBA{R: 38, G: 72, B: 128, A: 255}},
	{0.25, color.RGBA{R: 194, G: 178, B: 128, A: 255}},
	{0.40, color.RGBA{R: 86, G: 140, B: 60, A: 255}},
	{0.70, color.RGBA{R: 110, G: 96, B: 80, A: 255}},
	{0.90, color.RGBA{R: 240, G: 240, B: 245, A: 255}},
}

func heightColor(h float32) color.RGBA {
	if h <= colorRamp[0].at {
		return colorRamp[0].c
	}
	for i := 1; i < len(colorRamp); i++ {
		lo, hi := colorRamp[i-1], colorRamp[i]
		if h <= hi.at {
			t := (h - lo.at) / (hi.at - lo.at)
			lerp := func(a, b uint8) uint8 { return uint8(float32(a) + (float32(b)-float32(a))*t) }
			return color.RGBA{R: lerp(lo.c.R, hi.c.R), G: lerp(lo.c.G, hi.c.G), B: lerp(lo.c.B, hi.c.B), A: 255}
		}
	}
	return colorRamp[len(colorRamp)-1].c
}

func cmdGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file")
	out := fs.String("out", "", "Output folder (default: terrain.tile_folder)")
	compress := fs.Bool("zstd", false, "Write zstd-compressed tiles (.r16.zst)")
	tilesX := fs.Int("tiles-x", 0, "Lattice width in tiles (default: config)")
	tilesZ := fs.Int("tiles-z", 0, "Lattice depth in tiles (default: config)")
	size := fs.Int("size", 0, "Tile resolution in samples (default: config)")
	period := fs.Float64("period", 1500, "Hill wavelength in world units")
	ridge := fs.Float64("ridge", 0.35, "Ridge weight in [0,1]")
	detail := fs.Float64("detail", 0.15, "Perlin detail amplitude")
	seed := fs.Int64("seed", 1, "Noise seed")
	withColor := fs.Bool("color", false, "Also write colour tiles")
	colorSize := fs.Int("color-size", 256, "Colour tile size in pixels")
	saveConfig := fs.String("save-config", "", "Write the resulting config to this path")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *out)
	t := &cfg.Terrain
	if *tilesX > 0 {
		t.TilesX = *tilesX
	}
	if *tilesZ > 0 {
		t.TilesZ = *tilesZ
	}
	if *size > 1 {
		t.TileWidth, t.TileHeight = *size, *size
	}
	if *compress && !formats.IsCompressedPath(t.TileExt) {
		t.TileExt += formats.CompressedExt
	}
	if *withColor && t.ColorFolder == "" {
		t.ColorFolder = t.TileFolder
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Error: %v", err)
	}
	if *period <= 0 || *ridge < 0 || *ridge > 1 {
		fatalf("Error: period must be positive and ridge within [0,1]")
	}

	store := cfg.TileStore()
	if err := os.MkdirAll(store.Folder, 0755); err != nil {
		fatalf("Error: %v", err)
	}
	colorStore, colorOn := cfg.ColorTiles()
	if *withColor && colorOn {
		if err := os.MkdirAll(colorStore.Folder, 0755); err != nil {
			fatalf("Error: %v", err)
		}
	}

	s := newSynth(cfg, float32(*period), float32(*ridge), float32(*detail), *seed)
	written := 0
	for z := 0; z < t.TilesZ; z++ {
		for x := 0; x < t.TilesX; x++ {
			coord := terrain.TileCoord{X: x, Z: z}
			tile := s.sampleTile(coord, t.TileWidth, t.TileHeight)
			if err := formats.WriteRAW16File(store.Path(coord), tile); err != nil {
				fatalf("Error writing %s: %v", store.Path(coord), err)
			}
			if *withColor && colorOn {
				if err := writePNG(colorStore.Path(coord), s.colorTile(coord, *colorSize)); err != nil {
					fatalf("Error writing %s: %v", colorStore.Path(coord), err)
				}
			}
			written++
		}
	}

	fmt.Printf("Wrote %d tiles (%dx%d samples) to %s\n", written, t.TileWidth, t.TileHeight, store.Folder)

	if *saveConfig != "" {
		if err := cfg.SaveTo(*saveConfig); err != nil {
			fatalf("Error saving config: %v", err)
		}
		fmt.Printf("Config: %s\n", *saveConfig)
	}
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}
