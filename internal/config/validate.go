package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the startup invariants the streaming core relies on.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	t := c.Terrain
	if t.TileFolder == "" {
		add("terrain.tile_folder is empty")
	}
	if t.TileWidth <= 0 || t.TileHeight <= 0 {
		add("terrain tile resolution %dx%d must be positive", t.TileWidth, t.TileHeight)
	}
	if t.TilesX <= 0 || t.TilesZ <= 0 {
		add("terrain lattice %dx%d must be positive", t.TilesX, t.TilesZ)
	}
	if t.ChunkWidth <= 0 || t.ChunkDepth <= 0 {
		add("terrain chunk size %gx%g must be positive", t.ChunkWidth, t.ChunkDepth)
	}

	if err := c.LODSelector().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lod: %w", err))
	}
	if err := c.StreamConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("streaming: %w", err))
	}
	if c.Streaming.Workers < 0 {
		add("streaming.workers %d is negative", c.Streaming.Workers)
	}

	g := c.Graphics
	if g.Width <= 0 || g.Height <= 0 {
		add("graphics size %dx%d must be positive", g.Width, g.Height)
	}
	if g.MSAA < 0 || g.MSAA > 16 {
		add("graphics.msaa %d out of range [0, 16]", g.MSAA)
	}
	if g.FOV <= 0 || g.FOV >= 180 {
		add("graphics.fov %g out of range (0, 180)", g.FOV)
	}
	if g.FarPlane <= 0 {
		add("graphics.far_plane %g must be positive", g.FarPlane)
	}
	if g.SunElevation <= 0 || g.SunElevation > 90 {
		add("graphics.sun_elevation %g out of range (0, 90]", g.SunElevation)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
