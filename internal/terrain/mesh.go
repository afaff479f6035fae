package terrain

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Vertex is a chunk mesh vertex. Position is relative to the chunk's
// minimum corner; TexCoord spans the chunk's colour tile.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh is a built chunk ready for GPU upload.
type Mesh struct {
	Key      ChunkKey
	Tier     Tier
	Origin   math.Vec3 // world placement of the local origin
	Vertices []Vertex
	Indices  []uint32
	Bounds   math.AABB // local space
	Fallback bool      // own tile was missing; mesh is a flat quad
}

// WorldBounds returns the bounds in world space.
func (m *Mesh) WorldBounds() math.AABB {
	return m.Bounds.Translate(m.Origin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ChunkTiles is the tile snapshot a build reads. Own is the chunk's tile;
// the neighbours are optional and only feed the +X and +Z seams.
type ChunkTiles struct {
	Own     *Tile
	Right   *Tile
	Up      *Tile
	UpRight *Tile
}

// BuildRequest describes one chunk build.
type BuildRequest struct {
	Key   ChunkKey
	Tier  Tier
	Grid  GridRes
	Tiles ChunkTiles
}

// BuildChunkMesh triangulates a chunk. It never fails: a missing own tile
// yields a flat quad over the chunk footprint.
func BuildChunkMesh(cfg FieldConfig, req BuildRequest) *Mesh {
	corner := cfg.ChunkMin(req.Key)
	mesh := &Mesh{
		Key:    req.Key,
		Tier:   req.Tier,
		Origin: math.Vec3{X: corner.X, Y: 0, Z: corner.Y},
	}

	if req.Tiles.Own == nil {
		buildFlatQuad(mesh, cfg.ChunkSize)
		return mesh
	}

	g := seamGrid{
		cfg:   cfg,
		tiles: req.Tiles,
		nx:    max(req.Grid.X, 2),
		nz:    max(req.Grid.Z, 2),
	}

	mesh.Vertices = make([]Vertex, 0, g.nx*g.nz)
	mesh.Bounds = math.EmptyAABB()
	for j := range g.nz {
		for i := range g.nx {
			u, v := g.uv(i, j)
			pos := math.Vec3{X: u * cfg.ChunkSize.X, Y: g.height(i, j), Z: v * cfg.ChunkSize.Y}
			mesh.Bounds.Extend(pos)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos.Array(),
				Normal:   g.normal(i, j).Array(),
				TexCoord: [2]float32{u, v},
			})
		}
	}

	mesh.Indices = gridIndices(g.nx, g.nz)
	return mesh
}

// seamGrid samples heights on a chunk's vertex grid. Indices may step one
// past either end so normals can use central differences at the border.
type seamGrid struct {
	cfg    FieldConfig
	tiles  ChunkTiles
	nx, nz int
}

func (g seamGrid) uv(i, j int) (float32, float32) {
	return float32(i) / float32(g.nx-1), float32(j) / float32(g.nz-1)
}

// height returns the world height at grid index (i, j). The +X edge reads
// the right neighbour's first column, the +Z edge reads the up neighbour's
// first row, and the shared corner reads the diagonal neighbour's first
// sample. An absent neighbour falls back to the clamped own tile.
func (g seamGrid) height(i, j int) float32 {
	u, v := g.uv(i, j)
	tile := g.tiles.Own

	switch {
	case u >= 1 && v >= 1:
		if g.tiles.UpRight != nil {
			tile, u, v = g.tiles.UpRight, u-1, v-1
		}
	case u >= 1:
		if g.tiles.Right != nil {
			tile, u = g.tiles.Right, u-1
		}
	case v >= 1:
		if g.tiles.Up != nil {
			tile, v = g.tiles.Up, v-1
		}
	}

	return g.cfg.WorldHeight(tile.SampleUV(math.Clamp(u, 0, 1), math.Clamp(v, 0, 1)))
}

// sampled reports whether grid index (i, j) reads real data rather than a
// clamped repeat of the border. Steps past the -X or -Z edge never do;
// steps past the +X or +Z edge do when height has the neighbour to read.
func (g seamGrid) sampled(i, j int) bool {
	switch {
	case i < 0 || j < 0:
		return false
	case i >= g.nx && j >= g.nz-1, j >= g.nz && i >= g.nx-1:
		return g.tiles.UpRight != nil
	case i >= g.nx:
		return g.tiles.Right != nil
	case j >= g.nz:
		return g.tiles.Up != nil
	}
	return true
}

// normal converts the UV-space difference into a world-space slope using
// the chunk footprint. Central where both sides are sampled, one-sided at
// an edge without data beyond it.
func (g seamGrid) normal(i, j int) math.Vec3 {
	du := 1 / float32(g.nx-1)
	dv := 1 / float32(g.nz-1)

	i0, i1 := g.span(i, j, 1, 0)
	j0, j1 := g.span(i, j, 0, 1)

	dhdu := (g.height(i1, j) - g.height(i0, j)) / (float32(i1-i0) * du)
	dhdv := (g.height(i, j1) - g.height(i, j0)) / (float32(j1-j0) * dv)

	sx := dhdu / g.cfg.ChunkSize.X
	sz := dhdv / g.cfg.ChunkSize.Y
	return math.Vec3{X: -sx, Y: 1, Z: -sz}.Normalize()
}

// span returns the lower and upper indices along (di, dj) around (i, j),
// pulled back to (i, j) where the step would leave the sampled area.
func (g seamGrid) span(i, j, di, dj int) (int, int) {
	lo, hi := -1, 1
	if !g.sampled(i-di, j-dj) {
		lo = 0
	}
	if !g.sampled(i+di, j+dj) {
		hi = 0
	}
	if di != 0 {
		return i + lo, i + hi
	}
	return j + lo, j + hi
}

// gridIndices emits two counter-clockwise (seen from +Y) triangles per cell.
func gridIndices(nx, nz int) []uint32 {
	indices := make([]uint32, 0, (nx-1)*(nz-1)*6)
	for j := range nz - 1 {
		for i := range nx - 1 {
			a := uint32(j*nx + i)
			b := a + 1
			c := a + uint32(nx)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return indices
}

// buildFlatQuad fills mesh with one upward-facing quad over the footprint.
func buildFlatQuad(mesh *Mesh, size math.Vec2) {
	up := [3]float32{0, 1, 0}
	mesh.Fallback = true
	mesh.Vertices = []Vertex{
		{Position: [3]float32{0, 0, 0}, Normal: up, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{size.X, 0, 0}, Normal: up, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{0, 0, size.Y}, Normal: up, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{size.X, 0, size.Y}, Normal: up, TexCoord: [2]float32{1, 1}},
	}
	mesh.Indices = gridIndices(2, 2)
	mesh.Bounds = math.AABB{
		Max: math.Vec3{X: size.X, Y: 0, Z: size.Y},
	}
}
