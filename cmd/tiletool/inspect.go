package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file")
	tiles := fs.String("tiles", "", "Height tile folder")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *tiles)
	store := terrain.NewTileStore(cfg.TileStore())
	t := cfg.Terrain

	var missing []terrain.TileCoord
	lo, hi := uint16(0xFFFF), uint16(0)
	for z := 0; z < t.TilesZ; z++ {
		for x := 0; x < t.TilesX; x++ {
			coord := terrain.TileCoord{X: x, Z: z}
			tile, ok := store.Fetch(coord)
			if !ok {
				missing = append(missing, coord)
				continue
			}
			for j := 0; j < tile.Height(); j++ {
				for i := 0; i < tile.Width(); i++ {
					v := tile.At(i, j)
					lo, hi = min(lo, v), max(hi, v)
				}
			}
		}
	}

	fc := cfg.FieldConfig()
	fmt.Printf("Folder:   %s\n", t.TileFolder)
	fmt.Printf("Lattice:  %d x %d tiles of %d x %d samples\n", t.TilesX, t.TilesZ, t.TileWidth, t.TileHeight)
	fmt.Printf("World:    (%.0f,%.0f) .. (%.0f,%.0f)\n",
		fc.Origin.X, fc.Origin.Y, fc.Origin.X+fc.WorldSize.X, fc.Origin.Y+fc.WorldSize.Y)
	fmt.Printf("Loaded:   %d\n", store.Len())
	fmt.Printf("Missing:  %d\n", len(missing))
	if store.Len() > 0 {
		fmt.Printf("Raw:      %d .. %d\n", lo, hi)
		fmt.Printf("Height:   %.2f .. %.2f\n", fc.WorldHeight(float32(lo)), fc.WorldHeight(float32(hi)))
	}
	for i, c := range missing {
		if i == 10 {
			fmt.Printf("  ... and %d more\n", len(missing)-10)
			break
		}
		fmt.Printf("  missing %s: %s\n", c, cfg.TileStore().Path(c))
	}

	if len(missing) > 0 {
		os.Exit(1)
	}
}

func cmdSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file")
	tiles := fs.String("tiles", "", "Height tile folder")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tiletool sample [options] <x> <z>")
		os.Exit(1)
	}
	x, z := parseCoord(fs.Arg(0)), parseCoord(fs.Arg(1))

	cfg := loadConfig(*configPath, *tiles)
	field := terrain.NewHeightField(cfg.FieldConfig(), terrain.NewTileStore(cfg.TileStore()))

	h, ok := field.Sample(x, z)
	if !ok {
		fatalf("No height at (%.2f, %.2f): outside the world or tile missing", x, z)
	}
	n, _ := field.SampleNormal(x, z)

	fmt.Printf("Point:  (%.2f, %.2f)\n", x, z)
	fmt.Printf("Chunk:  %s\n", field.Config().ChunkAt(math.Vec2{X: x, Y: z}))
	fmt.Printf("Height: %.3f\n", h)
	fmt.Printf("Normal: (%.4f, %.4f, %.4f)\n", n.X, n.Y, n.Z)
}

func cmdChunks(args []string) {
	fs := flag.NewFlagSet("chunks", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file")
	tiles := fs.String("tiles", "", "Height tile folder")
	radius := fs.Int("radius", -1, "Streaming radius override")
	passes := fs.Int("passes", 0, "Run N streaming passes and print their statistics")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tiletool chunks [options] <x> <z> [y]")
		os.Exit(1)
	}
	eye := math.Vec3{X: parseCoord(fs.Arg(0)), Z: parseCoord(fs.Arg(1))}
	if fs.NArg() > 2 {
		eye.Y = parseCoord(fs.Arg(2))
	}

	cfg := loadConfig(*configPath, *tiles)
	if *radius >= 0 {
		cfg.Streaming.Radius = *radius
	}

	sched, pool := newDryScheduler(cfg)
	defer pool.Close()
	defer sched.Close()

	selector := cfg.LODSelector()
	desired := sched.DesiredSet(eye)
	fmt.Printf("Viewpoint (%.1f, %.1f, %.1f): %d chunks\n", eye.X, eye.Y, eye.Z, len(desired))
	for _, d := range desired {
		g := selector.Grid(d.Tier)
		fmt.Printf("  %-10s %-4s %4dx%-4d %9.1f\n", d.Key, d.Tier, g.X, g.Z, d.Distance)
	}

	for i := 0; i < *passes; i++ {
		st := sched.Update(eye)
		fmt.Printf("pass %2d: admitted=%d skipped=%d completed=%d integrated=%d inflight=%d pending=%d resident=%d\n",
			i+1, st.Admitted, st.SkippedMissing, st.Completed, st.Integrated, st.InFlight, st.Pending, st.Resident)
		if st.InFlight == 0 && st.Pending == 0 && st.Resident+st.SkippedMissing >= st.Desired {
			break
		}
		pool.Wait()
	}
}

// countingRealizer stands in for the GL realizer when no window exists.
type countingRealizer struct {
	next      stream.Handle
	triangles map[stream.Handle]int
}

func (r *countingRealizer) Realize(mesh *terrain.Mesh) (stream.Handle, error) {
	r.next++
	r.triangles[r.next] = mesh.TriangleCount()
	return r.next, nil
}

func (r *countingRealizer) Release(h stream.Handle) {
	delete(r.triangles, h)
}

func newDryScheduler(cfg *config.Config) (*stream.Scheduler, *stream.Pool) {
	field := terrain.NewHeightField(cfg.FieldConfig(), terrain.NewTileStore(cfg.TileStore()))
	pool := stream.NewPool(cfg.Streaming.Workers)
	realizer := &countingRealizer{triangles: make(map[stream.Handle]int)}
	return stream.NewScheduler(field, cfg.LODSelector(), cfg.StreamConfig(), pool, realizer), pool
}

func parseCoord(s string) float32 {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		fatalf("Invalid coordinate %q: %v", s, err)
	}
	return float32(v)
}
