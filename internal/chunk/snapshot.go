package chunk

import "blockworld/internal/block"

// Snapshot is a frozen copy of a chunk. It is safe to read from any goroutine.
type Snapshot struct {
	pos     Coord
	size    int
	version uint64
	blocks  []block.Type
}

// Position returns the chunk-grid coordinate the snapshot was taken from.
func (s *Snapshot) Position() Coord { return s.pos }

// Size returns the edge length in blocks.
func (s *Snapshot) Size() int { return s.size }

// Version returns the chunk version at the time of the snapshot.
func (s *Snapshot) Version() uint64 { return s.version }

// Block returns the block at local coordinates, or air when out of range.
func (s *Snapshot) Block(x, y, z int) block.Type {
	if s.blocks == nil || x < 0 || y < 0 || z < 0 || x >= s.size || y >= s.size || z >= s.size {
		return block.Air
	}
	return s.blocks[Index(x, y, z, s.size)]
}

// Neighbours holds the six face-adjacent volumes of a chunk indexed by block.Face.
// A nil entry is an absent neighbour and reads as air.
type Neighbours [block.FaceCount]Volume
