package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestBoxLines(t *testing.T) {
	box := math.AABB{Min: math.Vec3{X: 0, Y: 0, Z: 0}, Max: math.Vec3{X: 2, Y: 3, Z: 4}}
	lines := BoxLines(box)

	for i, p := range lines {
		if (p.X != 0 && p.X != 2) || (p.Y != 0 && p.Y != 3) || (p.Z != 0 && p.Z != 4) {
			t.Fatalf("vertex %d = %+v is not a box corner", i, p)
		}
	}

	// Every edge differs along exactly one axis.
	for i := 0; i < len(lines); i += 2 {
		a, b := lines[i], lines[i+1]
		diff := 0
		if a.X != b.X {
			diff++
		}
		if a.Y != b.Y {
			diff++
		}
		if a.Z != b.Z {
			diff++
		}
		if diff != 1 {
			t.Errorf("edge %d: %+v -> %+v spans %d axes", i/2, a, b, diff)
		}
	}
}

func TestPad(t *testing.T) {
	box := Pad(math.AABB{Min: math.Vec3{X: 1, Y: 1, Z: 1}, Max: math.Vec3{X: 2, Y: 2, Z: 2}}, 0.5)
	if box.Min != (math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) || box.Max != (math.Vec3{X: 2.5, Y: 2.5, Z: 2.5}) {
		t.Errorf("Pad = %+v", box)
	}
}

func TestChunkBounds(t *testing.T) {
	records := []stream.Record{
		{Key: terrain.ChunkKey{X: 0, Z: 0}, Tier: terrain.TierNear, Bounds: math.AABB{Max: math.Vec3{X: 1, Y: 1, Z: 1}}},
		{Key: terrain.ChunkKey{X: 1, Z: 0}, Tier: terrain.TierFar, Bounds: math.AABB{Max: math.Vec3{X: 1, Y: 1, Z: 1}}},
	}
	verts := ChunkBounds(records, 0)
	if len(verts) != 2*BoxLineVertexCount {
		t.Fatalf("got %d vertices, want %d", len(verts), 2*BoxLineVertexCount)
	}
	near, far := verts[0], verts[BoxLineVertexCount]
	if [3]float32{near.R, near.G, near.B} != TierColors[terrain.TierNear] {
		t.Errorf("near colour = %v", [3]float32{near.R, near.G, near.B})
	}
	if [3]float32{far.R, far.G, far.B} != TierColors[terrain.TierFar] {
		t.Errorf("far colour = %v", [3]float32{far.R, far.G, far.B})
	}
}

func TestLatticeGrid(t *testing.T) {
	fc := terrain.FieldConfig{
		Origin:    math.Vec2{X: -100, Y: 0},
		WorldSize: math.Vec2{X: 300, Y: 200},
		ChunkSize: math.Vec2{X: 100, Y: 100},
	}
	verts := LatticeGrid(fc, 5)

	// 4 lines along Z and 3 along X
	if len(verts) != 2*(4+3) {
		t.Fatalf("got %d vertices, want 14", len(verts))
	}
	if verts[0].X != -100 || verts[0].Z != 0 || verts[1].Z != 200 {
		t.Errorf("first line = %+v -> %+v", verts[0], verts[1])
	}
	if last := verts[len(verts)-1]; last.X != 200 || last.Z != 200 || last.Y != 5 {
		t.Errorf("last vertex = %+v", last)
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "terrain")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue (GL order).
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if want := filepath.Join(dir, "terrain_2024-05-01_12-30-00.000.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("top pixel should be blue, got r=%d b=%d", r, b)
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r == 0 {
		t.Error("bottom pixel should be red")
	}

	if _, err := sc.CaptureFromPixels(pixels[:4], 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
