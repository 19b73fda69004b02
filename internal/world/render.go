package world

import (
	"blockworld/internal/meshing"
	"blockworld/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUMesh is a mesh resident on the GPU. All methods run on the render thread.
type GPUMesh interface {
	Upload(m *meshing.Mesh)
	Draw()
	Release()
}

// GPUMeshFactory allocates GPU meshes.
type GPUMeshFactory interface {
	NewMesh() GPUMesh
}

// UploadPending uploads every mesh rebuilt since the last call and returns how many were
// uploaded. It must be called from the render thread.
func (w *World) UploadPending(factory GPUMeshFactory) int {
	defer profiling.Track("render.Upload")()
	n := 0
	for _, m := range w.meshes {
		mesh, gen := m.take()
		if mesh == nil || gen <= m.uploaded {
			continue
		}
		if m.gpu == nil {
			m.gpu = factory.NewMesh()
		}
		m.gpu.Upload(mesh)
		m.uploaded = gen
		m.vertices = mesh.VertexCount
		n++
	}
	return n
}

// Draw calls fn for every uploaded chunk mesh in grid order, empty meshes included.
// origin is the world-space position of the chunk's minimum corner.
func (w *World) Draw(fn func(origin mgl32.Vec3, m GPUMesh)) {
	s := float32(w.chunkSize)
	for _, m := range w.meshes {
		if m.gpu == nil {
			continue
		}
		origin := mgl32.Vec3{float32(m.pos.X) * s, float32(m.pos.Y) * s, float32(m.pos.Z) * s}
		fn(origin, m.gpu)
	}
}

// Vertices returns the total uploaded vertex count.
func (w *World) Vertices() int {
	n := 0
	for _, m := range w.meshes {
		n += m.vertices
	}
	return n
}

// Release frees every GPU mesh. It must be called from the render thread.
func (w *World) Release() {
	for _, m := range w.meshes {
		if m.gpu != nil {
			m.gpu.Release()
			m.gpu = nil
		}
		m.uploaded = 0
		m.vertices = 0
	}
}
