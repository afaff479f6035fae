// Package formats provides readers and writers for terrain data files.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// RAW16 format errors.
var (
	ErrInvalidDimensions = errors.New("invalid RAW16 dimensions")
	ErrTruncatedRAW16    = errors.New("truncated RAW16 data")
)

// CompressedExt marks a RAW16 tile stored as a zstd stream.
const CompressedExt = ".zst"

// RAW16 is a headerless raster of little-endian unsigned 16-bit samples
// stored row-major with the origin at local (0,0).
type RAW16 struct {
	Width   int
	Height  int
	Samples []uint16
}

// ByteSize returns the payload size for a width x height raster.
func ByteSize(width, height int) int {
	return width * height * 2
}

// At returns the sample at (x, y). Coordinates must be in range.
func (r *RAW16) At(x, y int) uint16 {
	return r.Samples[y*r.Width+x]
}

// ParseRAW16 decodes the first width*height*2 bytes of data.
// Trailing bytes are ignored.
func ParseRAW16(data []byte, width, height int) (*RAW16, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	need := ByteSize(width, height)
	if len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTruncatedRAW16, len(data), need)
	}

	samples := make([]uint16, width*height)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(data[i*2:])
	}

	return &RAW16{Width: width, Height: height, Samples: samples}, nil
}

// DecodeRAW16 reads exactly width*height*2 bytes from r.
func DecodeRAW16(r io.Reader, width, height int) (*RAW16, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	buf := make([]byte, ByteSize(width, height))
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedRAW16, err)
		}
		return nil, err
	}
	return ParseRAW16(buf, width, height)
}

// IsCompressedPath reports whether path names a zstd-compressed tile.
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// ReadRAW16File loads a tile from disk. Plain files are size-checked
// before reading; compressed files are checked after decompression.
func ReadRAW16File(path string, width, height int) (*RAW16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if IsCompressedPath(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		return DecodeRAW16(dec, width, height)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if need := int64(ByteSize(width, height)); info.Size() < need {
		return nil, fmt.Errorf("%w: file is %d bytes, need %d", ErrTruncatedRAW16, info.Size(), need)
	}
	return DecodeRAW16(f, width, height)
}

// Encode returns the little-endian byte payload.
func (r *RAW16) Encode() []byte {
	out := make([]byte, len(r.Samples)*2)
	for i, s := range r.Samples {
		binary.LittleEndian.PutUint16(out[i*2:], s)
	}
	return out
}

// WriteRAW16File writes r to path, compressing when the path ends in .zst.
func WriteRAW16File(path string, r *RAW16) error {
	data := r.Encode()
	if !IsCompressedPath(path) {
		return os.WriteFile(path, data, 0644)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
