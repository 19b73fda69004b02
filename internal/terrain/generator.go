package terrain

import (
	"fmt"
	"math"

	"blockworld/internal/block"
	"blockworld/internal/chunk"
	"blockworld/internal/config"
	"blockworld/internal/noise"
)

// Populator fills a chunk with blocks.
type Populator interface {
	Populate(c *chunk.Chunk)
}

// FromConfig returns the populator selected by cfg.Generator.
func FromConfig(seed int64, cfg config.Terrain) (Populator, error) {
	switch cfg.Generator {
	case config.GeneratorNoise, "":
		return NewGenerator(seed, cfg), nil
	case config.GeneratorFlat:
		return Flat{Height: cfg.FlatHeight}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", cfg.Generator)
	}
}

// Generator handles noise-driven terrain generation. It is safe for concurrent use.
type Generator struct {
	src *noise.Source
	cfg config.Terrain
}

// NewGenerator creates a generator for seed.
func NewGenerator(seed int64, cfg config.Terrain) *Generator {
	return &Generator{src: noise.NewSource(seed), cfg: cfg}
}

// p samples the unit field at (x, z) scaled by the base frequency.
func (g *Generator) p(x, z float64) float64 {
	f := g.cfg.Frequency
	return g.src.Unit2(x*f, z*f)
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// SurfaceHeight returns the absolute terrain height of column (gx, gz), in blocks.
func (g *Generator) SurfaceHeight(gx, gz int) int {
	x, z := float64(gx), float64(gz)

	if !g.cfg.Biomes {
		return int(48*g.p(x, z)) + g.cfg.BaseHeight
	}
	hills := int(48*g.p(x, z) + 12*g.p(5*x, 5*z) + 32*g.p(0.1*x, 0.1*z))
	plains := int(20 + 3*g.p(0.4*x, 0.4*z) + 12*g.p(0.1*x, 0.1*z))
	peak := math.Max(g.p(2*x, 2*z), 0)
	mountains := int(30 + (peak*peak*peak*128-20*g.p(8*x+3829, 8*z-9438))*g.p(0.1*x, 0.1*z) + 3*g.p(12*x, 12*z))

	h := int(mix(float64(hills), float64(plains), g.p(0.05*x, 0.05*z)))
	h = int(mix(float64(h), float64(mountains), g.p(0.05*x+3243, 0.05*z-3923)))
	return h + g.cfg.BaseHeight
}

// Column fills dst (length size) with the blocks of column (gx, gz) in vertical slot.
func (g *Generator) Column(dst []block.Type, gx, gz, slot, size int) {
	for i := range dst {
		dst[i] = block.Air
	}
	h := g.SurfaceHeight(gx, gz) - slot*size
	fill := min(max(h, 0), size)
	white := g.src.White2(int64(gx), int64(gz))
	stoneBelow := float64(h) - float64(g.cfg.DirtDepth) - white*g.cfg.DirtJitter

	start := 0
	if slot == 0 {
		start = 1
		dst[0] = block.Bedrock
	}
	caveScale := g.cfg.CaveScale * g.cfg.Frequency
	for y := start; y < fill; y++ {
		if g.cfg.Caves {
			gy := slot*size + y
			if g.src.Signed3(float64(gx)*caveScale, float64(gy)*caveScale, float64(gz)*caveScale) <= g.cfg.CaveThreshold {
				continue
			}
		}
		switch {
		case fill == h && y == fill-1:
			dst[y] = block.Grass
		case float64(y) < stoneBelow:
			dst[y] = block.Stone
		default:
			dst[y] = block.Dirt
		}
	}
}

// Populate allocates c if needed and fills it from the noise fields.
func (g *Generator) Populate(c *chunk.Chunk) {
	c.Create()
	size := c.Size()
	pos := c.Position()
	col := make([]block.Type, size)
	c.Update(func(blocks []block.Type) {
		for lx := range size {
			for lz := range size {
				g.Column(col, pos.X*size+lx, pos.Z*size+lz, pos.Y, size)
				for y, b := range col {
					blocks[chunk.Index(lx, y, lz, size)] = b
				}
			}
		}
	})
}

// Flat is a fixed-height generator: bedrock, dirt, then one grass layer.
type Flat struct {
	Height int
}

// Populate fills c with flat layers.
func (f Flat) Populate(c *chunk.Chunk) {
	c.Create()
	size := c.Size()
	base := c.Position().Y * size
	c.Update(func(blocks []block.Type) {
		for y := range size {
			b := f.BlockAt(base + y)
			if b == block.Air {
				continue
			}
			for lx := range size {
				for lz := range size {
					blocks[chunk.Index(lx, y, lz, size)] = b
				}
			}
		}
	})
}

// BlockAt returns the block at absolute height gy.
func (f Flat) BlockAt(gy int) block.Type {
	switch {
	case gy < 0 || gy >= f.Height:
		return block.Air
	case gy == 0:
		return block.Bedrock
	case gy == f.Height-1:
		return block.Grass
	default:
		return block.Dirt
	}
}
