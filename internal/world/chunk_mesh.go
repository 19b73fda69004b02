package world

import (
	"sync"
	"sync/atomic"

	"blockworld/internal/chunk"
	"blockworld/internal/meshing"
)

// ChunkMesh tracks the render state of one chunk.
//
// dirty means the CPU mesh is stale and the chunk sits in the work queue.
// gpuDirty means a freshly built mesh waits for upload on the render thread.
type ChunkMesh struct {
	pos chunk.Coord

	dirty    atomic.Bool
	gpuDirty atomic.Bool
	ticket   atomic.Uint64 // generation handed to the next build

	mu         sync.Mutex
	pending    *meshing.Mesh
	pendingGen uint64
	uploaded   uint64

	// Render thread only.
	gpu      GPUMesh
	vertices int
}

func newChunkMesh(pos chunk.Coord) *ChunkMesh {
	return &ChunkMesh{pos: pos}
}

// Position returns the chunk-grid coordinate of the mesh.
func (m *ChunkMesh) Position() chunk.Coord { return m.pos }

// Dirty reports whether the CPU mesh needs a rebuild.
func (m *ChunkMesh) Dirty() bool { return m.dirty.Load() }

// GPUDirty reports whether a built mesh waits for upload.
func (m *ChunkMesh) GPUDirty() bool { return m.gpuDirty.Load() }

// VertexCount returns the vertex count of the last uploaded mesh.
func (m *ChunkMesh) VertexCount() int { return m.vertices }

// Generation returns the generation of the newest published mesh.
func (m *ChunkMesh) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingGen
}

// begin issues a generation for a build and clears dirty. Clearing happens before the
// snapshot is taken so an edit racing the build re-queues the chunk.
func (m *ChunkMesh) begin() uint64 {
	gen := m.ticket.Add(1)
	m.dirty.Store(false)
	return gen
}

// publish stores mesh as pending unless a newer generation is already published.
func (m *ChunkMesh) publish(gen uint64, mesh *meshing.Mesh) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen <= m.pendingGen {
		return false
	}
	m.pending = mesh
	m.pendingGen = gen
	m.gpuDirty.Store(true)
	return true
}

// take hands the pending mesh to the render thread.
func (m *ChunkMesh) take() (*meshing.Mesh, uint64) {
	if !m.gpuDirty.CompareAndSwap(true, false) {
		return nil, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mesh := m.pending
	m.pending = nil
	return mesh, m.pendingGen
}
