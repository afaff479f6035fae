package debug

import (
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
)

// LineVertex is one endpoint of a coloured debug line.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// TierColors are the overlay colours per LOD tier.
var TierColors = [terrain.TierCount][3]float32{
	{0.95, 0.30, 0.25}, // near
	{0.95, 0.80, 0.20}, // mid
	{0.30, 0.60, 0.95}, // far
}

var unknownTierColor = [3]float32{0.6, 0.6, 0.6}

// ChunkBounds returns wireframe boxes around every record, coloured by tier.
func ChunkBounds(records []stream.Record, padding float32) []LineVertex {
	vertices := make([]LineVertex, 0, len(records)*BoxLineVertexCount)
	for _, rec := range records {
		color := unknownTierColor
		if rec.Tier < terrain.TierCount {
			color = TierColors[rec.Tier]
		}
		for _, p := range BoxLines(Pad(rec.Bounds, padding)) {
			vertices = append(vertices, LineVertex{p.X, p.Y, p.Z, color[0], color[1], color[2]})
		}
	}
	return vertices
}

// LatticeGrid returns lines along every chunk border of the lattice at a
// fixed height.
func LatticeGrid(fc terrain.FieldConfig, height float32) []LineVertex {
	nx, nz := fc.Lattice()
	gridColor := [3]float32{0.5, 0.5, 0.5}
	minX, minZ := fc.Origin.X, fc.Origin.Y
	maxX, maxZ := minX+fc.WorldSize.X, minZ+fc.WorldSize.Y

	vertices := make([]LineVertex, 0, 2*(nx+nz+2))

	// Lines along Z
	for x := 0; x <= nx; x++ {
		worldX := minX + float32(x)*fc.ChunkSize.X
		vertices = append(vertices,
			LineVertex{worldX, height, minZ, gridColor[0], gridColor[1], gridColor[2]},
			LineVertex{worldX, height, maxZ, gridColor[0], gridColor[1], gridColor[2]},
		)
	}

	// Lines along X
	for z := 0; z <= nz; z++ {
		worldZ := minZ + float32(z)*fc.ChunkSize.Y
		vertices = append(vertices,
			LineVertex{minX, height, worldZ, gridColor[0], gridColor[1], gridColor[2]},
			LineVertex{maxX, height, worldZ, gridColor[0], gridColor[1], gridColor[2]},
		)
	}

	return vertices
}
