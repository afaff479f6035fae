// Package scene renders streamed terrain chunks.
package scene

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ErrEmptyMesh is returned when a mesh has no geometry to upload.
var ErrEmptyMesh = errors.New("empty mesh")

// MaxColorTextureSize caps colour tile uploads.
const MaxColorTextureSize = 2048

// ChunkRendererConfig configures a ChunkRenderer.
type ChunkRendererConfig struct {
	HeightScale float32
	ColorTiles  terrain.StoreConfig
	UseColor    bool // load colour tiles from ColorTiles
	FogColor    [3]float32
	FogFar      float32
}

// ChunkRenderer uploads chunk meshes to the GPU and draws them. It
// implements stream.Realizer and must only be used on the GL thread.
type ChunkRenderer struct {
	cfg ChunkRendererConfig
	log *zap.Logger

	program uint32

	// Uniform locations
	locViewProj    int32
	locModel       int32
	locColor       int32
	locUseColor    int32
	locHeightScale int32
	locLightDir    int32
	locCameraPos   int32
	locFogFar      int32
	locFogColor    int32
	locTint        int32

	chunks    map[stream.Handle]*gpuChunk
	next      stream.Handle
	triangles int

	// TintTiers shades chunks by LOD tier for debugging.
	TintTiers bool
	LightDir  [3]float32
}

type gpuChunk struct {
	key        terrain.ChunkKey
	tier       terrain.Tier
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	model      math.Mat4
	texture    uint32
}

var _ stream.Realizer = (*ChunkRenderer)(nil)

// NewChunkRenderer compiles the chunk shader.
func NewChunkRenderer(cfg ChunkRendererConfig) (*ChunkRenderer, error) {
	r := &ChunkRenderer{
		cfg:      cfg,
		log:      logger.Named("scene"),
		chunks:   make(map[stream.Handle]*gpuChunk),
		LightDir: [3]float32{-0.4, -1.0, -0.3},
	}

	program, err := shader.CompileProgram(shaders.ChunkVertexShader, shaders.ChunkFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}
	r.program = program

	r.locViewProj = shader.GetUniform(program, "uViewProj")
	r.locModel = shader.GetUniform(program, "uModel")
	r.locColor = shader.GetUniform(program, "uColor")
	r.locUseColor = shader.GetUniform(program, "uUseColor")
	r.locHeightScale = shader.GetUniform(program, "uHeightScale")
	r.locLightDir = shader.GetUniform(program, "uLightDir")
	r.locCameraPos = shader.GetUniform(program, "uCameraPos")
	r.locFogFar = shader.GetUniform(program, "uFogFar")
	r.locFogColor = shader.GetUniform(program, "uFogColor")
	r.locTint = shader.GetUniform(program, "uTint")

	return r, nil
}

// Realize uploads mesh and returns its handle.
func (r *ChunkRenderer) Realize(mesh *terrain.Mesh) (stream.Handle, error) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return 0, fmt.Errorf("chunk %v: %w", mesh.Key, ErrEmptyMesh)
	}

	c := &gpuChunk{
		key:        mesh.Key,
		tier:       mesh.Tier,
		indexCount: int32(len(mesh.Indices)),
		model:      math.Translate(mesh.Origin),
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &c.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if r.cfg.UseColor && !mesh.Fallback {
		c.texture = r.loadColorTile(mesh.Key)
	}

	r.next++
	r.chunks[r.next] = c
	r.triangles += mesh.TriangleCount()
	return r.next, nil
}

// loadColorTile uploads the colour tile for key, or returns 0 if there is
// none.
func (r *ChunkRenderer) loadColorTile(key terrain.ChunkKey) uint32 {
	path := r.cfg.ColorTiles.Path(key.Tile())
	img, err := texture.Load(path, MaxColorTextureSize)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Warn("failed to load colour tile", zap.String("path", path), zap.Error(err))
		}
		return 0
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return texID
}

// Release frees the GPU resources of h.
func (r *ChunkRenderer) Release(h stream.Handle) {
	c, ok := r.chunks[h]
	if !ok {
		r.log.Warn("release of unknown chunk handle", zap.Uint64("handle", uint64(h)))
		return
	}
	delete(r.chunks, h)
	r.triangles -= int(c.indexCount / 3)
	c.destroy()
}

func (c *gpuChunk) destroy() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.ebo != 0 {
		gl.DeleteBuffers(1, &c.ebo)
	}
	if c.texture != 0 {
		gl.DeleteTextures(1, &c.texture)
	}
}

// Len returns the number of uploaded chunks.
func (r *ChunkRenderer) Len() int {
	return len(r.chunks)
}

// TriangleCount returns the triangles across all uploaded chunks.
func (r *ChunkRenderer) TriangleCount() int {
	return r.triangles
}

var tierTints = [terrain.TierCount][3]float32{
	{1.0, 0.85, 0.85},
	{0.85, 1.0, 0.85},
	{0.85, 0.85, 1.0},
}

// Render draws every uploaded chunk.
func (r *ChunkRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3) {
	if len(r.chunks) == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform1f(r.locHeightScale, r.cfg.HeightScale)
	gl.Uniform3f(r.locLightDir, r.LightDir[0], r.LightDir[1], r.LightDir[2])
	gl.Uniform3f(r.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)
	gl.Uniform1f(r.locFogFar, r.cfg.FogFar)
	gl.Uniform3f(r.locFogColor, r.cfg.FogColor[0], r.cfg.FogColor[1], r.cfg.FogColor[2])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.locColor, 0)

	for _, c := range r.chunks {
		gl.UniformMatrix4fv(r.locModel, 1, false, c.model.Ptr())

		tint := [3]float32{1, 1, 1}
		if r.TintTiers && c.tier < terrain.TierCount {
			tint = tierTints[c.tier]
		}
		gl.Uniform3f(r.locTint, tint[0], tint[1], tint[2])

		if c.texture != 0 {
			gl.Uniform1i(r.locUseColor, 1)
			gl.BindTexture(gl.TEXTURE_2D, c.texture)
		} else {
			gl.Uniform1i(r.locUseColor, 0)
		}

		gl.BindVertexArray(c.vao)
		gl.DrawElements(gl.TRIANGLES, c.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (r *ChunkRenderer) Destroy() {
	for h, c := range r.chunks {
		c.destroy()
		delete(r.chunks, h)
	}
	r.triangles = 0
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
