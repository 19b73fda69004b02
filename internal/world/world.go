package world

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"time"

	"blockworld/internal/block"
	"blockworld/internal/chunk"
	"blockworld/internal/config"
	"blockworld/internal/profiling"

	"golang.org/x/sync/errgroup"
)

// Populator fills a freshly created chunk.
type Populator interface {
	Populate(c *chunk.Chunk)
}

// World is a fixed grid of chunks with one mesh per chunk. Chunks and meshes share the
// linearisation x + z*X + y*X*Z and live for the lifetime of the world.
type World struct {
	log              *slog.Logger
	sizeX, sizeY     int
	sizeZ, chunkSize int

	chunks []*chunk.Chunk
	meshes []*ChunkMesh
	queue  *dirtyQueue
}

// New allocates the chunk grid described by cfg. Chunk storage is created by Generate.
func New(cfg config.World, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		log:       log,
		sizeX:     cfg.ChunksX,
		sizeY:     cfg.ChunksY,
		sizeZ:     cfg.ChunksZ,
		chunkSize: cfg.ChunkSize,
		queue:     newDirtyQueue(),
	}
	n := w.sizeX * w.sizeY * w.sizeZ
	w.chunks = make([]*chunk.Chunk, n)
	w.meshes = make([]*ChunkMesh, n)
	for y := range w.sizeY {
		for z := range w.sizeZ {
			for x := range w.sizeX {
				pos := chunk.Coord{X: x, Y: y, Z: z}
				i := w.index(x, y, z)
				w.chunks[i] = chunk.New(pos, w.chunkSize)
				w.meshes[i] = newChunkMesh(pos)
			}
		}
	}
	return w
}

// Dims returns the grid size in chunks.
func (w *World) Dims() (x, y, z int) { return w.sizeX, w.sizeY, w.sizeZ }

// ChunkSize returns the chunk edge length in blocks.
func (w *World) ChunkSize() int { return w.chunkSize }

// Len returns the number of chunks in the grid.
func (w *World) Len() int { return len(w.chunks) }

func (w *World) index(x, y, z int) int {
	return x + z*w.sizeX + y*w.sizeX*w.sizeZ
}

func (w *World) inGrid(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < w.sizeX && y < w.sizeY && z < w.sizeZ
}

// Chunk returns the chunk at grid coordinates, or nil outside the grid.
func (w *World) Chunk(cx, cy, cz int) *chunk.Chunk {
	if !w.inGrid(cx, cy, cz) {
		return nil
	}
	return w.chunks[w.index(cx, cy, cz)]
}

// Mesh returns the mesh state at grid coordinates, or nil outside the grid.
func (w *World) Mesh(cx, cy, cz int) *ChunkMesh {
	if !w.inGrid(cx, cy, cz) {
		return nil
	}
	return w.meshes[w.index(cx, cy, cz)]
}

// Generate creates and populates every chunk in parallel, then queues every mesh for a
// rebuild in grid order.
func (w *World) Generate(ctx context.Context, p Populator) error {
	defer profiling.Track("world.Generate")()
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runtime.NumCPU(), 1))
	for _, c := range w.chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.Create()
			p.Populate(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("generate world: %w", err)
	}

	for i := range w.meshes {
		w.markDirty(i)
	}
	w.log.Info("world generated",
		"chunks", len(w.chunks),
		"dims", fmt.Sprintf("%dx%dx%d", w.sizeX, w.sizeY, w.sizeZ),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// markDirty queues chunk i unless it is already queued.
func (w *World) markDirty(i int) {
	if w.meshes[i].dirty.CompareAndSwap(false, true) {
		w.queue.push(i)
	}
}

// MarkDirty queues the chunk at grid coordinates for a rebuild.
func (w *World) MarkDirty(cx, cy, cz int) {
	if !w.inGrid(cx, cy, cz) {
		return
	}
	w.markDirty(w.index(cx, cy, cz))
}

// Pending returns the number of chunks waiting for a rebuild.
func (w *World) Pending() int {
	return w.queue.len()
}

// resolve maps world block coordinates to a chunk and local coordinates.
func (w *World) resolve(x, y, z int) (cx, cy, cz, lx, ly, lz int, ok bool) {
	s := w.chunkSize
	cx, cy, cz = floorDiv(x, s), floorDiv(y, s), floorDiv(z, s)
	if !w.inGrid(cx, cy, cz) {
		return 0, 0, 0, 0, 0, 0, false
	}
	return cx, cy, cz, mod(x, s), mod(y, s), mod(z, s), true
}

// Block returns the block at world coordinates. Outside the grid it is air.
func (w *World) Block(x, y, z int) block.Type {
	cx, cy, cz, lx, ly, lz, ok := w.resolve(x, y, z)
	if !ok {
		return block.Air
	}
	return w.chunks[w.index(cx, cy, cz)].Block(lx, ly, lz)
}

// IsAir reports whether the block at world coordinates is air.
func (w *World) IsAir(x, y, z int) bool {
	return w.Block(x, y, z) == block.Air
}

// SetBlock writes t at world coordinates and queues the affected meshes: the owning chunk,
// plus the neighbour across every chunk face the cell touches. Writes outside the grid and
// writes that do not change the cell are ignored. It reports whether the cell changed.
func (w *World) SetBlock(x, y, z int, t block.Type) bool {
	cx, cy, cz, lx, ly, lz, ok := w.resolve(x, y, z)
	if !ok {
		return false
	}
	if !w.chunks[w.index(cx, cy, cz)].SetBlock(lx, ly, lz, t) {
		return false
	}
	w.MarkDirty(cx, cy, cz)

	last := w.chunkSize - 1
	if lx == 0 {
		w.MarkDirty(cx-1, cy, cz)
	} else if lx == last {
		w.MarkDirty(cx+1, cy, cz)
	}
	if ly == 0 {
		w.MarkDirty(cx, cy-1, cz)
	} else if ly == last {
		w.MarkDirty(cx, cy+1, cz)
	}
	if lz == 0 {
		w.MarkDirty(cx, cy, cz-1)
	} else if lz == last {
		w.MarkDirty(cx, cy, cz+1)
	}
	return true
}

// FillSphere sets every cell within radius of (x, y, z) to t. With rng non-nil the
// boundary is roughened by shrinking the radius up to one block per cell.
// It returns the number of cells changed.
func (w *World) FillSphere(x, y, z, radius int, t block.Type, rng *rand.Rand) int {
	changed := 0
	for ox := -radius; ox < radius; ox++ {
		for oy := -radius; oy < radius; oy++ {
			for oz := -radius; oz < radius; oz++ {
				limit := float64(radius)
				if rng != nil {
					limit -= rng.Float64()
				}
				if math.Sqrt(float64(ox*ox+oy*oy+oz*oz)) > limit {
					continue
				}
				if w.SetBlock(x+ox, y+oy, z+oz, t) {
					changed++
				}
			}
		}
	}
	return changed
}

// Neighbours returns frozen snapshots of the six face neighbours of a chunk. Missing or
// unallocated neighbours are left nil.
func (w *World) Neighbours(cx, cy, cz int) chunk.Neighbours {
	var nb chunk.Neighbours
	for _, f := range block.Faces {
		dx, dy, dz := f.Normal()
		c := w.Chunk(cx+dx, cy+dy, cz+dz)
		if c == nil || !c.Allocated() {
			continue
		}
		nb[f] = c.Snapshot()
	}
	return nb
}

// Stats summarises the world contents.
type Stats struct {
	Chunks    int
	Allocated int
	Solid     int
	Pending   int
}

// Stats counts allocated chunks and solid cells.
func (w *World) Stats() Stats {
	s := Stats{Chunks: len(w.chunks), Pending: w.queue.len()}
	for _, c := range w.chunks {
		if c.Allocated() {
			s.Allocated++
			s.Solid += c.Count()
		}
	}
	return s
}
