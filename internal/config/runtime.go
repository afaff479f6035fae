package config

import (
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// TileStore returns the height tile location.
func (c *Config) TileStore() terrain.StoreConfig {
	t := c.Terrain
	return terrain.StoreConfig{
		Folder: t.TileFolder,
		Prefix: t.TilePrefix,
		Ext:    t.TileExt,
		Width:  t.TileWidth,
		Height: t.TileHeight,
	}
}

// ColorTiles returns the colour tile location and whether colour tiles
// are enabled.
func (c *Config) ColorTiles() (terrain.StoreConfig, bool) {
	t := c.Terrain
	return terrain.StoreConfig{
		Folder: t.ColorFolder,
		Prefix: t.ColorPrefix,
		Ext:    t.ColorExt,
	}, t.ColorFolder != ""
}

// FieldConfig returns the heightfield metadata. World size follows from
// the lattice extent and chunk size.
func (c *Config) FieldConfig() terrain.FieldConfig {
	t := c.Terrain
	return terrain.FieldConfig{
		Origin:      math.Vec2{X: t.OriginX, Y: t.OriginZ},
		WorldSize:   math.Vec2{X: float32(t.TilesX) * t.ChunkWidth, Y: float32(t.TilesZ) * t.ChunkDepth},
		ChunkSize:   math.Vec2{X: t.ChunkWidth, Y: t.ChunkDepth},
		RawMin:      t.RawMin,
		RawMax:      t.RawMax,
		HeightScale: t.HeightScale,
	}
}

// LODSelector returns the tier selector.
func (c *Config) LODSelector() terrain.LODSelector {
	l := c.LOD
	return terrain.LODSelector{
		Thresholds: [2]float32{l.NearDistance, l.MidDistance},
		Grids: [terrain.TierCount]terrain.GridRes{
			{X: l.NearGrid, Z: l.NearGrid},
			{X: l.MidGrid, Z: l.MidGrid},
			{X: l.FarGrid, Z: l.FarGrid},
		},
	}
}

// StreamConfig returns the scheduler limits.
func (c *Config) StreamConfig() stream.Config {
	s := c.Streaming
	return stream.Config{
		Radius:            s.Radius,
		CreationBudget:    s.CreationBudget,
		IntegrationBudget: s.IntegrationBudget,
		CompletionQueue:   s.CompletionQueue,
		Hysteresis:        c.LOD.Hysteresis,
	}
}
