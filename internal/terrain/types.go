// Package terrain provides tile-backed heightfield sampling, LOD selection,
// and chunk mesh construction for streamed landscapes.
package terrain

import "fmt"

// TileCoord identifies one tile in the tile lattice.
type TileCoord struct {
	X, Z int
}

// String returns "(x,z)".
func (c TileCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// ChunkKey identifies one chunk in the chunk lattice.
// One tile spans exactly one chunk, so the two lattices coincide.
type ChunkKey struct {
	X, Z int
}

// String returns "(x,z)".
func (k ChunkKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.X, k.Z)
}

// Tile returns the coordinate of the tile backing this chunk.
func (k ChunkKey) Tile() TileCoord {
	return TileCoord{X: k.X, Z: k.Z}
}

// Right returns the chunk at +X.
func (k ChunkKey) Right() ChunkKey {
	return ChunkKey{X: k.X + 1, Z: k.Z}
}

// Up returns the chunk at +Z.
func (k ChunkKey) Up() ChunkKey {
	return ChunkKey{X: k.X, Z: k.Z + 1}
}

// UpRight returns the diagonal chunk at +X+Z.
func (k ChunkKey) UpRight() ChunkKey {
	return ChunkKey{X: k.X + 1, Z: k.Z + 1}
}

// GridRes is a vertex grid resolution.
type GridRes struct {
	X, Z int
}
