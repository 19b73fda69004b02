package graphics

import (
	"blockworld/internal/meshing"
	"blockworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Attribute locations shared with shaders/terrain.vert.
const (
	attribPosition = iota
	attribTexCoord
	attribNormal
	attribAmbient
)

// GLMesh is a chunk mesh stored in one VAO with a VBO per attribute stream.
type GLMesh struct {
	vao         uint32
	vbos        [4]uint32
	vertexCount int32
}

// GLMeshFactory allocates GLMesh values. It implements world.GPUMeshFactory.
type GLMeshFactory struct{}

// NewMesh implements world.GPUMeshFactory.
func (GLMeshFactory) NewMesh() world.GPUMesh {
	m := &GLMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(int32(len(m.vbos)), &m.vbos[0])

	gl.BindVertexArray(m.vao)
	sizes := [4]int32{meshing.PositionSize, meshing.TexCoordSize, meshing.NormalSize, meshing.AmbientSize}
	for loc, vbo := range m.vbos {
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), sizes[loc], gl.FLOAT, false, 0, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

// Upload replaces the buffer contents with mesh.
func (m *GLMesh) Upload(mesh *meshing.Mesh) {
	streams := [4][]float32{
		attribPosition: mesh.Positions,
		attribTexCoord: mesh.TexCoords,
		attribNormal:   mesh.Normals,
		attribAmbient:  mesh.Ambient,
	}
	for loc, data := range streams {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[loc])
		if len(data) == 0 {
			gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
			continue
		}
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.vertexCount = int32(mesh.VertexCount)
}

// Draw issues the draw call. Empty meshes draw nothing.
func (m *GLMesh) Draw() {
	if m.vertexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.vertexCount)
	gl.BindVertexArray(0)
}

// Release frees the GL objects.
func (m *GLMesh) Release() {
	gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
	gl.DeleteVertexArrays(1, &m.vao)
	m.vertexCount = 0
}
