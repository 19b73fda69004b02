package block

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnregistered is returned when a block id has no registry entry.
var ErrUnregistered = errors.New("block type not registered")

// Atlas resolves a tile coordinate of the texture atlas into UV space.
type Atlas interface {
	// TileOrigin returns the UV origin of tile (tx, ty).
	TileOrigin(tx, ty int) mgl32.Vec2
	// TileSpan returns the UV extent of a single tile.
	TileSpan() mgl32.Vec2
}

// GridAtlas is a square atlas made of equally sized square tiles.
type GridAtlas struct {
	TileSize  int // pixels per tile edge
	AtlasSize int // pixels per atlas edge
}

// TileOrigin implements Atlas.
func (a GridAtlas) TileOrigin(tx, ty int) mgl32.Vec2 {
	s := a.TileSpan()
	return mgl32.Vec2{float32(tx) * s.X(), float32(ty) * s.Y()}
}

// TileSpan implements Atlas.
func (a GridAtlas) TileSpan() mgl32.Vec2 {
	if a.AtlasSize <= 0 {
		return mgl32.Vec2{}
	}
	s := float32(a.TileSize) / float32(a.AtlasSize)
	return mgl32.Vec2{s, s}
}

// Tile is an integer tile coordinate inside the atlas.
type Tile struct{ X, Y int }

// Entry holds the UV origin of every face of a block type.
type Entry struct {
	Name  string
	Faces [FaceCount]mgl32.Vec2
}

// UV returns the UV origin for the given face.
func (e *Entry) UV(f Face) mgl32.Vec2 {
	return e.Faces[f]
}

// Registry maps block types to their atlas faces. Entries are only ever appended.
type Registry struct {
	mu      sync.RWMutex
	atlas   Atlas
	entries []Entry
}

// NewRegistry creates an empty registry resolving tiles through atlas.
func NewRegistry(atlas Atlas) *Registry {
	return &Registry{atlas: atlas}
}

// Atlas returns the atlas the registry was built with.
func (r *Registry) Atlas() Atlas {
	return r.atlas
}

// RegisterUniform registers a block using the same tile on every face.
func (r *Registry) RegisterUniform(name string, all Tile) Type {
	return r.register(name, all, all, all, all, all, all)
}

// RegisterSided registers a block with distinct side, top and bottom tiles.
func (r *Registry) RegisterSided(name string, side, top, bottom Tile) Type {
	return r.register(name, side, side, top, bottom, side, side)
}

// RegisterAxis registers a block with one tile for the four horizontal faces and another
// for top and bottom.
func (r *Registry) RegisterAxis(name string, horizontal, vertical Tile) Type {
	return r.register(name, horizontal, horizontal, vertical, vertical, horizontal, horizontal)
}

func (r *Registry) register(name string, front, back, top, bottom, right, left Tile) Type {
	e := Entry{Name: name}
	for f, t := range [FaceCount]Tile{front, back, top, bottom, right, left} {
		e.Faces[f] = r.atlas.TileOrigin(t.X, t.Y)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return Type(len(r.entries))
}

// Lookup returns the entry for t. Air and ids past the end resolve to no entry.
func (r *Registry) Lookup(t Type) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := int(t) - 1
	if i < 0 || i >= len(r.entries) {
		return nil, false
	}
	return &r.entries[i], true
}

// Len returns the number of registered block types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Validate checks that every listed type has an entry.
func (r *Registry) Validate(types ...Type) error {
	for _, t := range types {
		if t == Air {
			continue
		}
		if _, ok := r.Lookup(t); !ok {
			return fmt.Errorf("block %d: %w", t, ErrUnregistered)
		}
	}
	return nil
}

// NewDefaultRegistry registers the terrain blocks in id order: grass, stone, bedrock, dirt.
func NewDefaultRegistry(atlas Atlas) *Registry {
	r := NewRegistry(atlas)
	r.RegisterSided("grass", Tile{3, 15}, Tile{0, 15}, Tile{2, 15})
	r.RegisterUniform("stone", Tile{1, 15})
	r.RegisterUniform("bedrock", Tile{1, 14})
	r.RegisterUniform("dirt", Tile{2, 15})
	return r
}
