package block

// Type identifies the kind of block stored in a voxel cell.
type Type uint8

// Air is the absence of geometry. Every other value indexes (1-based) into a Registry.
const (
	Air Type = iota
	Grass
	Stone
	Bedrock
	Dirt
)

// Face identifies one of the six axis-aligned faces of a block.
type Face int

const (
	FaceFront  Face = iota // +Z
	FaceBack               // -Z
	FaceTop                // +Y
	FaceBottom             // -Y
	FaceRight              // +X
	FaceLeft               // -X
)

// FaceCount is the number of faces on a block.
const FaceCount = 6

// Faces lists every face in registry order.
var Faces = [FaceCount]Face{FaceFront, FaceBack, FaceTop, FaceBottom, FaceRight, FaceLeft}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() (x, y, z int) {
	switch f {
	case FaceFront:
		return 0, 0, 1
	case FaceBack:
		return 0, 0, -1
	case FaceTop:
		return 0, 1, 0
	case FaceBottom:
		return 0, -1, 0
	case FaceRight:
		return 1, 0, 0
	case FaceLeft:
		return -1, 0, 0
	default:
		return 0, 0, 0
	}
}

// Opposite returns the face pointing the other way.
func (f Face) Opposite() Face {
	switch f {
	case FaceFront:
		return FaceBack
	case FaceBack:
		return FaceFront
	case FaceTop:
		return FaceBottom
	case FaceBottom:
		return FaceTop
	case FaceRight:
		return FaceLeft
	default:
		return FaceRight
	}
}

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceRight:
		return "right"
	case FaceLeft:
		return "left"
	default:
		return "unknown"
	}
}
