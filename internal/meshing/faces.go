package meshing

import "blockworld/internal/block"

// Corner sample slots inside faceTable.ao.
const (
	aoTop = iota
	aoRight
	aoLeft
	aoBottom
	aoTopRight
	aoTopLeft
	aoBottomRight
	aoBottomLeft
)

type offset [3]int

// faceTable describes one quad: six vertex corners (two triangles) relative to the
// cell origin and the eight cells sampled for ambient occlusion, all in the layer
// beyond the face.
type faceTable struct {
	face   block.Face
	normal [3]float32
	verts  [6]offset
	ao     [8]offset
}

// Per-vertex corner triples in emission order. A vertex darkens by one step for each
// solid cell among its two edge neighbours and the diagonal between them.
var vertexCorners = [6][3]int{
	{aoRight, aoBottom, aoBottomRight}, // a10
	{aoLeft, aoBottom, aoBottomLeft},   // a00
	{aoRight, aoTop, aoTopRight},       // a11
	{aoLeft, aoTop, aoTopLeft},         // a01
	{aoRight, aoTop, aoTopRight},       // a11
	{aoLeft, aoBottom, aoBottomLeft},   // a00
}

// Texture corners per vertex, as multiples of the tile span.
var vertexUV = [6][2]float32{
	{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 1}, {1, 0},
}

var faceTables = [block.FaceCount]faceTable{
	block.FaceTop: {
		face:   block.FaceTop,
		normal: [3]float32{0, 1, 0},
		verts:  [6]offset{{0, 1, 1}, {1, 1, 1}, {0, 1, 0}, {1, 1, 0}, {0, 1, 0}, {1, 1, 1}},
		ao:     [8]offset{{0, 1, -1}, {-1, 1, 0}, {1, 1, 0}, {0, 1, 1}, {-1, 1, -1}, {1, 1, -1}, {-1, 1, 1}, {1, 1, 1}},
	},
	block.FaceBottom: {
		face:   block.FaceBottom,
		normal: [3]float32{0, -1, 0},
		verts:  [6]offset{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}, {0, 0, 1}, {1, 0, 0}},
		ao:     [8]offset{{0, -1, 1}, {-1, -1, 0}, {1, -1, 0}, {0, -1, -1}, {-1, -1, 1}, {1, -1, 1}, {-1, -1, -1}, {1, -1, -1}},
	},
	block.FaceRight: {
		face:   block.FaceRight,
		normal: [3]float32{1, 0, 0},
		verts:  [6]offset{{1, 0, 1}, {1, 0, 0}, {1, 1, 1}, {1, 1, 0}, {1, 1, 1}, {1, 0, 0}},
		ao:     [8]offset{{1, 1, 0}, {1, 0, 1}, {1, 0, -1}, {1, -1, 0}, {1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1}},
	},
	block.FaceLeft: {
		face:   block.FaceLeft,
		normal: [3]float32{-1, 0, 0},
		verts:  [6]offset{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {0, 1, 0}, {0, 0, 1}},
		ao:     [8]offset{{-1, 1, 0}, {-1, 0, -1}, {-1, 0, 1}, {-1, -1, 0}, {-1, 1, -1}, {-1, 1, 1}, {-1, -1, -1}, {-1, -1, 1}},
	},
	block.FaceFront: {
		face:   block.FaceFront,
		normal: [3]float32{0, 0, 1},
		verts:  [6]offset{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1}, {0, 1, 1}, {1, 0, 1}},
		ao:     [8]offset{{0, 1, 1}, {-1, 0, 1}, {1, 0, 1}, {0, -1, 1}, {-1, 1, 1}, {1, 1, 1}, {-1, -1, 1}, {1, -1, 1}},
	},
	block.FaceBack: {
		face:   block.FaceBack,
		normal: [3]float32{0, 0, -1},
		verts:  [6]offset{{1, 0, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}, {1, 1, 0}, {0, 0, 0}},
		ao:     [8]offset{{0, 1, -1}, {1, 0, -1}, {-1, 0, -1}, {0, -1, -1}, {1, 1, -1}, {-1, 1, -1}, {1, -1, -1}, {-1, -1, -1}},
	},
}
