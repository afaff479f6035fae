package formats

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// createTestRAW16 builds a raster whose samples encode their own position.
func createTestRAW16(width, height int) *RAW16 {
	r := &RAW16{Width: width, Height: height, Samples: make([]uint16, width*height)}
	for y := range height {
		for x := range width {
			r.Samples[y*width+x] = uint16(y*1000 + x)
		}
	}
	return r
}

func TestParseRAW16_LittleEndianRowMajor(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[0:], 0x0102)
	binary.LittleEndian.PutUint16(data[2:], 0xFFFF)
	binary.LittleEndian.PutUint16(data[4:], 7)
	binary.LittleEndian.PutUint16(data[6:], 9)

	r, err := ParseRAW16(data, 2, 2)
	if err != nil {
		t.Fatalf("ParseRAW16 failed: %v", err)
	}
	if r.At(0, 0) != 0x0102 {
		t.Errorf("At(0,0) = %#x, want 0x0102", r.At(0, 0))
	}
	if r.At(1, 0) != 0xFFFF {
		t.Errorf("At(1,0) = %#x, want 0xffff", r.At(1, 0))
	}
	if r.At(0, 1) != 7 || r.At(1, 1) != 9 {
		t.Errorf("second row = %d,%d, want 7,9", r.At(0, 1), r.At(1, 1))
	}
}

func TestParseRAW16_Truncated(t *testing.T) {
	_, err := ParseRAW16(make([]byte, 7), 2, 2)
	if !errors.Is(err, ErrTruncatedRAW16) {
		t.Errorf("expected ErrTruncatedRAW16, got %v", err)
	}
}

func TestParseRAW16_InvalidDimensions(t *testing.T) {
	_, err := ParseRAW16(make([]byte, 8), 0, 2)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestParseRAW16_IgnoresTrailingBytes(t *testing.T) {
	data := append(createTestRAW16(3, 2).Encode(), 0xAA, 0xBB)
	r, err := ParseRAW16(data, 3, 2)
	if err != nil {
		t.Fatalf("ParseRAW16 failed: %v", err)
	}
	if r.At(2, 1) != 1002 {
		t.Errorf("At(2,1) = %d, want 1002", r.At(2, 1))
	}
}

func TestRAW16File_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"plain", "tile_y0_x0.r16"},
		{"zstd", "tile_y0_x0.r16.zst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			want := createTestRAW16(17, 9)
			if err := WriteRAW16File(path, want); err != nil {
				t.Fatalf("WriteRAW16File failed: %v", err)
			}

			got, err := ReadRAW16File(path, 17, 9)
			if err != nil {
				t.Fatalf("ReadRAW16File failed: %v", err)
			}
			for i := range want.Samples {
				if got.Samples[i] != want.Samples[i] {
					t.Fatalf("sample %d = %d, want %d", i, got.Samples[i], want.Samples[i])
				}
			}
		})
	}
}

func TestReadRAW16File_ShortFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "short.r16")
	if err := os.WriteFile(plain, make([]byte, 10), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRAW16File(plain, 4, 4); !errors.Is(err, ErrTruncatedRAW16) {
		t.Errorf("plain: expected ErrTruncatedRAW16, got %v", err)
	}

	packed := filepath.Join(dir, "short.r16.zst")
	if err := WriteRAW16File(packed, createTestRAW16(2, 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRAW16File(packed, 4, 4); !errors.Is(err, ErrTruncatedRAW16) {
		t.Errorf("zstd: expected ErrTruncatedRAW16, got %v", err)
	}
}

func TestReadRAW16File_Missing(t *testing.T) {
	_, err := ReadRAW16File(filepath.Join(t.TempDir(), "nope.r16"), 2, 2)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
