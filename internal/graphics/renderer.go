package graphics

import (
	"fmt"
	"log/slog"

	"blockworld/internal/config"
	"blockworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	skyColor = mgl32.Vec3{130.0 / 255, 172.0 / 255, 254.0 / 255}
	fogColor = mgl32.Vec3{186.0 / 255, 210.0 / 255, 255.0 / 255}
)

// FrameStats describes one rendered frame.
type FrameStats struct {
	Uploaded int
	Drawn    int
	Culled   int
}

// Renderer draws a world's chunk meshes with the terrain shader.
type Renderer struct {
	log       *slog.Logger
	shader    *Shader
	atlas     *Texture
	factory   GLMeshFactory
	chunkSize float32
	aoOn      bool

	FogDistance float32
}

// NewRenderer initialises GL state, the terrain shader and the atlas texture. A GL context
// must be current on the calling thread.
func NewRenderer(cfg *config.Config, log *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(skyColor.X(), skyColor.Y(), skyColor.Z(), 1)

	shader, err := NewEmbeddedShader("terrain")
	if err != nil {
		return nil, err
	}
	atlas, err := LoadAtlas(cfg.Atlas.Path, cfg.Atlas.Size, cfg.Atlas.TileSize, log)
	if err != nil {
		shader.Delete()
		return nil, err
	}
	w := cfg.World
	return &Renderer{
		log:         log,
		shader:      shader,
		atlas:       atlas,
		chunkSize:   float32(w.ChunkSize),
		aoOn:        cfg.Meshing.AmbientOcclusion,
		FogDistance: float32(max(w.ChunksX, w.ChunksZ)*w.ChunkSize) * 0.75,
	}, nil
}

// Factory returns the GPU mesh factory used for uploads.
func (r *Renderer) Factory() world.GPUMeshFactory { return r.factory }

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Frame uploads rebuilt meshes and draws every chunk inside the view frustum.
func (r *Renderer) Frame(w *world.World, cam *Camera) FrameStats {
	var stats FrameStats
	stats.Uploaded = w.UploadPending(r.factory)

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if config.GetWireframeMode() {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	pv := cam.ProjectView()
	frustum := NewFrustum(pv)

	r.shader.Use()
	r.atlas.Bind(0)
	r.shader.SetInt("atlas", 0)
	r.shader.SetMatrix4("projectView", pv)
	r.shader.SetVector3("eyePosition", cam.Position)
	r.shader.SetVector3("fogColor", fogColor)
	r.shader.SetFloat("fogDistance", r.FogDistance)
	ao := float32(0)
	if r.aoOn {
		ao = 0.6
	}
	r.shader.SetFloat("aoStrength", ao)

	size := mgl32.Vec3{r.chunkSize, r.chunkSize, r.chunkSize}
	w.Draw(func(origin mgl32.Vec3, m world.GPUMesh) {
		if !frustum.ContainsAABB(origin, origin.Add(size), 1) {
			stats.Culled++
			return
		}
		r.shader.SetMatrix4("model", mgl32.Translate3D(origin.X(), origin.Y(), origin.Z()))
		m.Draw()
		stats.Drawn++
	})
	return stats
}

// Release frees the shader, atlas and every chunk mesh of w.
func (r *Renderer) Release(w *world.World) {
	w.Release()
	r.atlas.Delete()
	r.shader.Delete()
}
