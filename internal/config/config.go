// Package config handles terrain viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	LOD       LODConfig       `yaml:"lod"`
	Streaming StreamingConfig `yaml:"streaming"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig describes the tile lattice and how raw samples map to
// world heights.
type TerrainConfig struct {
	TileFolder  string  `yaml:"tile_folder"`
	TilePrefix  string  `yaml:"tile_prefix"`
	TileExt     string  `yaml:"tile_ext"` // ".r16" or ".r16.zst"
	TileWidth   int     `yaml:"tile_width"`
	TileHeight  int     `yaml:"tile_height"`
	TilesX      int     `yaml:"tiles_x"`
	TilesZ      int     `yaml:"tiles_z"`
	RawMin      float32 `yaml:"raw_min"`
	RawMax      float32 `yaml:"raw_max"`
	OriginX     float32 `yaml:"origin_x"`
	OriginZ     float32 `yaml:"origin_z"`
	HeightScale float32 `yaml:"height_scale"`
	ChunkWidth  float32 `yaml:"chunk_width"`
	ChunkDepth  float32 `yaml:"chunk_depth"`

	// Colour tiles are optional; an empty folder disables them.
	ColorFolder string `yaml:"color_folder"`
	ColorPrefix string `yaml:"color_prefix"`
	ColorExt    string `yaml:"color_ext"`
}

// LODConfig holds tier distances and vertex grids.
type LODConfig struct {
	NearDistance float32 `yaml:"near_distance"`
	MidDistance  float32 `yaml:"mid_distance"`
	NearGrid     int     `yaml:"near_grid"`
	MidGrid      int     `yaml:"mid_grid"`
	FarGrid      int     `yaml:"far_grid"`
	Hysteresis   float32 `yaml:"hysteresis"` // 0 disables
}

// StreamingConfig holds per-frame streaming limits.
type StreamingConfig struct {
	Radius            int `yaml:"radius"`
	CreationBudget    int `yaml:"creation_budget"`
	IntegrationBudget int `yaml:"integration_budget"`
	CompletionQueue   int `yaml:"completion_queue"`
	Workers           int `yaml:"workers"` // 0 = one per CPU
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	MSAA       int     `yaml:"msaa"`
	FOV        float32 `yaml:"fov"`
	FarPlane   float32 `yaml:"far_plane"`

	// Sun position in degrees
	SunAzimuth   float32 `yaml:"sun_azimuth"`
	SunElevation float32 `yaml:"sun_elevation"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			TileFolder:  "tiles",
			TilePrefix:  "height",
			TileExt:     ".r16",
			TileWidth:   1024,
			TileHeight:  1024,
			TilesX:      16,
			TilesZ:      16,
			RawMin:      0,
			RawMax:      65535,
			HeightScale: 400,
			ChunkWidth:  256,
			ChunkDepth:  256,
			ColorPrefix: "color",
			ColorExt:    ".png",
		},
		LOD: LODConfig{
			NearDistance: 600,
			MidDistance:  1200,
			NearGrid:     129,
			MidGrid:      65,
			FarGrid:      33,
		},
		Streaming: StreamingConfig{
			Radius:            2,
			CreationBudget:    8,
			IntegrationBudget: 2,
			CompletionQueue:   64,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
			FOV:        60,
			FarPlane:   8000,

			SunAzimuth:    135,
			SunElevation:  50,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
