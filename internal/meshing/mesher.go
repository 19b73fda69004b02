package meshing

import (
	"errors"
	"fmt"

	"blockworld/internal/block"
	"blockworld/internal/chunk"
	"blockworld/internal/profiling"
)

// ErrUnknownBlock is returned when a chunk holds an id with no registry entry.
var ErrUnknownBlock = errors.New("unknown block type")

// Float counts per vertex for each attribute stream.
const (
	PositionSize = 3
	TexCoordSize = 2
	NormalSize   = 3
	AmbientSize  = 1
)

// Mesh holds parallel per-vertex attribute buffers in chunk-local coordinates.
type Mesh struct {
	Positions   []float32
	TexCoords   []float32
	Normals     []float32
	Ambient     []float32
	VertexCount int
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return m == nil || m.VertexCount == 0
}

// Quads returns the number of emitted faces.
func (m *Mesh) Quads() int {
	if m == nil {
		return 0
	}
	return m.VertexCount / 6
}

func (m *Mesh) grow(quads int) {
	n := quads * 6
	m.Positions = make([]float32, 0, n*PositionSize)
	m.TexCoords = make([]float32, 0, n*TexCoordSize)
	m.Normals = make([]float32, 0, n*NormalSize)
	m.Ambient = make([]float32, 0, n*AmbientSize)
}

// Mesher turns a chunk and its six face neighbours into a culled, ambient-occluded mesh.
// A Mesher holds no per-build state and can be shared by many goroutines.
type Mesher struct {
	registry *block.Registry
	ao       bool
}

// NewMesher creates a mesher resolving textures through reg.
func NewMesher(reg *block.Registry, ambientOcclusion bool) *Mesher {
	return &Mesher{registry: reg, ao: ambientOcclusion}
}

// sampler reads cells relative to the centre chunk, crossing into face neighbours.
type sampler struct {
	center chunk.Volume
	nb     *chunk.Neighbours
	size   int
}

// at returns the block at centre-local (x, y, z). A coordinate out of range on exactly one
// axis reads the face neighbour on that axis; out of range on two or more axes reads air.
func (s *sampler) at(x, y, z int) block.Type {
	var face block.Face
	out := 0
	switch {
	case x < 0:
		face, x, out = block.FaceLeft, x+s.size, out+1
	case x >= s.size:
		face, x, out = block.FaceRight, x-s.size, out+1
	}
	switch {
	case y < 0:
		face, y, out = block.FaceBottom, y+s.size, out+1
	case y >= s.size:
		face, y, out = block.FaceTop, y-s.size, out+1
	}
	switch {
	case z < 0:
		face, z, out = block.FaceBack, z+s.size, out+1
	case z >= s.size:
		face, z, out = block.FaceFront, z-s.size, out+1
	}
	switch out {
	case 0:
		return s.center.Block(x, y, z)
	case 1:
		v := s.nb[face]
		if v == nil {
			return block.Air
		}
		return v.Block(x, y, z)
	default:
		return block.Air
	}
}

func (s *sampler) solid(x, y, z int) float32 {
	if s.at(x, y, z) != block.Air {
		return 1
	}
	return 0
}

// Build meshes center. Neighbours are indexed by block.Face; nil entries read as air.
// The returned mesh is freshly allocated and owned by the caller.
func (m *Mesher) Build(center chunk.Volume, neighbours chunk.Neighbours) (*Mesh, error) {
	defer profiling.Track("meshing.Build")()

	size := center.Size()
	s := sampler{center: center, nb: &neighbours, size: size}

	var entries [256]*block.Entry
	span := m.registry.Atlas().TileSpan()

	mesh := &Mesh{}
	mesh.grow(size * size)
	for y := range size {
		for z := range size {
			for x := range size {
				t := center.Block(x, y, z)
				if t == block.Air {
					continue
				}
				e := entries[t]
				if e == nil {
					var ok bool
					if e, ok = m.registry.Lookup(t); !ok {
						return nil, fmt.Errorf("mesh chunk cell (%d,%d,%d) id %d: %w", x, y, z, t, ErrUnknownBlock)
					}
					entries[t] = e
				}
				for _, f := range block.Faces {
					nx, ny, nz := f.Normal()
					if s.at(x+nx, y+ny, z+nz) != block.Air {
						continue
					}
					m.emitFace(mesh, &s, &faceTables[f], e.UV(f), span.X(), x, y, z)
				}
			}
		}
	}
	return mesh, nil
}

func (m *Mesher) emitFace(mesh *Mesh, s *sampler, ft *faceTable, uv [2]float32, span float32, x, y, z int) {
	var occ [8]float32
	if m.ao {
		for i, o := range ft.ao {
			occ[i] = s.solid(x+o[0], y+o[1], z+o[2])
		}
	}
	for v := range 6 {
		p := ft.verts[v]
		mesh.Positions = append(mesh.Positions, float32(x+p[0]), float32(y+p[1]), float32(z+p[2]))
		mesh.TexCoords = append(mesh.TexCoords, uv[0]+vertexUV[v][0]*span, uv[1]+vertexUV[v][1]*span)
		mesh.Normals = append(mesh.Normals, ft.normal[0], ft.normal[1], ft.normal[2])
		c := vertexCorners[v]
		mesh.Ambient = append(mesh.Ambient, occ[c[0]]+occ[c[1]]+occ[c[2]])
	}
	mesh.VertexCount += 6
}
