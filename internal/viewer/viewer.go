// Package viewer implements the terrain viewer main loop.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const (
	windowTitle = "Midgard Terrain"
	nearPlane   = 0.5
	boostFactor = 4

	boundsPadding = 0.5
	pickStep      = 2
)

var skyColor = [3]float32{0.55, 0.70, 0.85}

// Viewer is the terrain viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	chunks   *scene.ChunkRenderer
	lines    *scene.LineRenderer
	shots    *debug.ScreenshotCapture

	field     *terrain.HeightField
	pool      *stream.Pool
	scheduler *stream.Scheduler
	camera    *camera.FlyCamera
	grounded  bool

	showBounds bool
	showGrid   bool
	wantShot   bool
	grid       []debug.LineVertex

	loaded   int
	unloaded int
}

// New creates the window, GL state and streaming pipeline.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("tiles", cfg.Terrain.TileFolder),
		zap.Int("tiles_x", cfg.Terrain.TilesX),
		zap.Int("tiles_z", cfg.Terrain.TilesZ),
		zap.Int("radius", cfg.Streaming.Radius),
	)

	v := &Viewer{cfg: cfg, grounded: true}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      window.TerrainTitle(windowTitle, cfg.Terrain.TileFolder, cfg.Terrain.TilesX, cfg.Terrain.TilesZ),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	drawW, drawH := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      drawW,
		Height:     drawH,
		ClearColor: skyColor,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	colorTiles, useColor := cfg.ColorTiles()
	v.chunks, err = scene.NewChunkRenderer(scene.ChunkRendererConfig{
		HeightScale: cfg.Terrain.HeightScale,
		ColorTiles:  colorTiles,
		UseColor:    useColor,
		FogColor:    skyColor,
		FogFar:      cfg.Graphics.FarPlane,
	})
	if err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to create chunk renderer: %w", err)
	}

	v.chunks.LightDir = lighting.LightDirection(cfg.Graphics.SunAzimuth, cfg.Graphics.SunElevation)

	v.lines, err = scene.NewLineRenderer()
	if err != nil {
		v.chunks.Destroy()
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to create line renderer: %w", err)
	}

	v.input = input.New()
	v.shots = debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "terrain")

	fieldCfg := cfg.FieldConfig()
	v.field = terrain.NewHeightField(fieldCfg, terrain.NewTileStore(cfg.TileStore()))
	v.pool = stream.NewPool(cfg.Streaming.Workers)
	v.scheduler = stream.NewScheduler(v.field, cfg.LODSelector(), cfg.StreamConfig(), v.pool, v.chunks)

	center := fieldCfg.Origin.Add(fieldCfg.WorldSize.Scale(0.5))
	v.camera = camera.NewFlyCamera(math.Vec3{X: center.X, Y: cfg.Terrain.HeightScale, Z: center.Y})
	v.camera.Speed = fieldCfg.ChunkSize.X
	v.grid = debug.LatticeGrid(fieldCfg, fieldCfg.WorldHeight(fieldCfg.RawMax))

	logger.Info("viewer initialized", zap.Int("workers", v.pool.Workers()))
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Move camera and stream
		v.updateCamera(dt)
		st := v.scheduler.Update(v.camera.Position)
		v.consumeEvents()

		// 3. Render
		v.render()
		if v.wantShot {
			v.wantShot = false
			v.screenshot()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.ShowStats(window.Stats{
				FPS:       frameCount,
				Resident:  st.Resident,
				Triangles: v.chunks.TriangleCount(),
				Building:  st.InFlight + st.Pending,
			})
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("resident", st.Resident),
				zap.Int("loaded_total", v.loaded),
				zap.Int("unloaded_total", v.unloaded))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseDrag:
			v.camera.Look(float32(event.DeltaX), float32(event.DeltaY))
		case input.EventClick:
			v.pick(event.X, event.Y)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F1:
				v.renderer.ToggleWireframe()
			case sdl.SCANCODE_F2:
				v.chunks.TintTiers = !v.chunks.TintTiers
			case sdl.SCANCODE_F3:
				v.showBounds = !v.showBounds
			case sdl.SCANCODE_F4:
				v.showGrid = !v.showGrid
			case sdl.SCANCODE_F11:
				v.window.ToggleFullscreen()
			case sdl.SCANCODE_F12:
				v.wantShot = true
			case sdl.SCANCODE_G:
				v.grounded = !v.grounded
				logger.Info("camera grounding", zap.Bool("enabled", v.grounded))
			}
		}
	}
}

func (v *Viewer) updateCamera(dt float32) {
	in := v.input
	forward := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := in.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := in.Axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_LCTRL)
	if in.IsKeyHeld(sdl.SCANCODE_LSHIFT) {
		dt *= boostFactor
	}
	v.camera.Move(forward, right, up, dt)

	if v.grounded {
		v.camera.Ground(v.field.Cached())
	}
}

// consumeEvents drains chunk lifecycle events.
func (v *Viewer) consumeEvents() {
	for _, ev := range v.scheduler.DrainEvents() {
		switch ev.Kind {
		case stream.ChunkLoaded:
			v.loaded++
		case stream.ChunkUnloaded:
			v.unloaded++
		}
		logger.Debug("chunk event",
			zap.Stringer("kind", ev.Kind),
			zap.Stringer("chunk", ev.Key),
			zap.Stringer("tier", ev.Tier))
	}
}

func (v *Viewer) fovY() float32 {
	return float32(float64(v.cfg.Graphics.FOV) * gomath.Pi / 180)
}

func (v *Viewer) render() {
	v.renderer.Begin()

	proj := math.Perspective(v.fovY(), v.renderer.Aspect(), nearPlane, v.cfg.Graphics.FarPlane)
	viewProj := proj.Mul(v.camera.ViewMatrix())
	v.chunks.Render(viewProj, v.camera.Position)

	if v.showGrid {
		v.lines.Draw(viewProj, v.grid)
	}
	if v.showBounds {
		v.lines.Draw(viewProj, debug.ChunkBounds(v.scheduler.Index().Records(), boundsPadding))
	}
}

// pick reports the ground point and resident chunk under the cursor.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.Size()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), v.fovY(),
		v.camera.Position, v.camera.Forward(), v.camera.Right())

	// March only where resident chunks are, against cached tiles.
	records := v.scheduler.Index().Records()
	from, to, ok := ray.ResidentSpan(records)
	if !ok {
		logger.Info("pick: no resident terrain under cursor")
		return
	}
	point, ok := ray.IntersectHeightSpan(v.field.Cached(), from, min(to, v.cfg.Graphics.FarPlane), pickStep)
	if !ok {
		logger.Info("pick: no ground under cursor")
		return
	}
	fields := []zap.Field{
		zap.Float32("x", point.X),
		zap.Float32("y", point.Y),
		zap.Float32("z", point.Z),
	}
	if n, ok := terrain.NormalFrom(v.field.Cached(), point.X, point.Z); ok {
		fields = append(fields, zap.Float32("slope", 1-n.Y))
	}
	if rec, _, ok := ray.PickChunk(records); ok {
		fields = append(fields, zap.Stringer("chunk", rec.Key), zap.Stringer("tier", rec.Tier))
	}
	logger.Info("pick", fields...)
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close stops streaming and releases all resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.scheduler != nil {
		v.scheduler.Close()
		v.consumeEvents()
	}
	if v.pool != nil {
		v.pool.Close()
	}
	if v.lines != nil {
		v.lines.Destroy()
	}
	if v.chunks != nil {
		v.chunks.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
