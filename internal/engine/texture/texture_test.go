package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	return img
}

func writeImage(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	src := testImage(8, 4)

	tests := []struct {
		name   string
		file   string
		encode func(f *os.File) error
	}{
		{"png", "color_y0_x0.png", func(f *os.File) error { return png.Encode(f, src) }},
		{"bmp", "color_y0_x1.bmp", func(f *os.File) error { return bmp.Encode(f, src) }},
		{"tiff", "color_y1_x0.tif", func(f *os.File) error { return tiff.Encode(f, src, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeImage(t, path, tt.encode)

			img, err := Load(path, 0)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
				t.Errorf("size = %v, want 8x4", img.Bounds())
			}
			if got := img.RGBAAt(3, 2); got != (color.RGBA{R: 30, G: 20, B: 200, A: 255}) {
				t.Errorf("pixel (3,2) = %v", got)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "tile.gif"), 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("gif: expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing: expected os.ErrNotExist, got %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(corrupt, 0); err == nil {
		t.Error("corrupt: expected decode error")
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxSize int
		wantW   int
		wantH   int
	}{
		{"unchanged", 16, 8, 0, 16, 8},
		{"within limit", 16, 8, 16, 16, 8},
		{"wide downscale", 64, 32, 16, 16, 8},
		{"tall downscale", 10, 40, 20, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ToRGBA(testImage(tt.w, tt.h), tt.maxSize)
			if out.Bounds() != image.Rect(0, 0, tt.wantW, tt.wantH) {
				t.Errorf("bounds = %v, want %dx%d", out.Bounds(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestToRGBARebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 9))
	src.SetRGBA(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	out := ToRGBA(src, 0)
	if out.Bounds().Min != (image.Point{}) {
		t.Fatalf("origin = %v, want (0,0)", out.Bounds().Min)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
}
