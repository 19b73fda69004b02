package chunk

import (
	"sync"
	"sync/atomic"

	"blockworld/internal/block"
)

// DefaultSize is the edge length of a chunk in blocks.
const DefaultSize = 32

// Coord is a chunk position in chunk-grid units (not blocks).
type Coord struct {
	X, Y, Z int
}

// Volume is a read-only cubic block volume.
type Volume interface {
	Size() int
	Block(x, y, z int) block.Type
}

// Chunk is a cube of size^3 blocks. The backing array is allocated once by Create;
// before that every read returns air and every write is dropped.
type Chunk struct {
	mu      sync.RWMutex
	pos     Coord
	size    int
	blocks  []block.Type
	version atomic.Uint64
}

// New returns an unallocated chunk at pos.
func New(pos Coord, size int) *Chunk {
	if size <= 0 {
		size = DefaultSize
	}
	return &Chunk{pos: pos, size: size}
}

// Create allocates the block array. It reports false when the chunk was already allocated.
func (c *Chunk) Create() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blocks != nil {
		return false
	}
	c.blocks = make([]block.Type, c.size*c.size*c.size)
	return true
}

// Allocated reports whether Create has run.
func (c *Chunk) Allocated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks != nil
}

// Position returns the chunk-grid coordinate.
func (c *Chunk) Position() Coord {
	return c.pos
}

// Size returns the edge length in blocks.
func (c *Chunk) Size() int {
	return c.size
}

// Version increases every time a block changes.
func (c *Chunk) Version() uint64 {
	return c.version.Load()
}

// Index linearises local coordinates. Horizontal layers are contiguous.
func Index(x, y, z, size int) int {
	return x + z*size + y*size*size
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < c.size && y < c.size && z < c.size
}

// Block returns the block at local coordinates, or air when out of range.
func (c *Chunk) Block(x, y, z int) block.Type {
	if !c.inBounds(x, y, z) {
		return block.Air
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.blocks == nil {
		return block.Air
	}
	return c.blocks[Index(x, y, z, c.size)]
}

// IsAir reports whether the local cell is air.
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.Block(x, y, z) == block.Air
}

// SetBlock stores t at local coordinates. Out of range or unallocated writes are ignored.
// It reports whether the stored value changed.
func (c *Chunk) SetBlock(x, y, z int, t block.Type) bool {
	if !c.inBounds(x, y, z) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blocks == nil {
		return false
	}
	i := Index(x, y, z, c.size)
	if c.blocks[i] == t {
		return false
	}
	c.blocks[i] = t
	c.version.Add(1)
	return true
}

// Fill sets every cell to t.
func (c *Chunk) Fill(t block.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blocks == nil {
		return
	}
	for i := range c.blocks {
		c.blocks[i] = t
	}
	c.version.Add(1)
}

// Update runs fn with exclusive access to the raw block array, which may be nil.
// Generators use it to populate a chunk without taking the lock per cell.
func (c *Chunk) Update(fn func(blocks []block.Type)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.blocks)
	c.version.Add(1)
}

// Count returns the number of non-air cells.
func (c *Chunk) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, b := range c.blocks {
		if b != block.Air {
			n++
		}
	}
	return n
}

// Snapshot returns an immutable copy of the chunk's blocks.
func (c *Chunk) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := &Snapshot{pos: c.pos, size: c.size, version: c.version.Load()}
	if c.blocks != nil {
		s.blocks = make([]block.Type, len(c.blocks))
		copy(s.blocks, c.blocks)
	}
	return s
}
