package world

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"blockworld/internal/chunk"
	"blockworld/internal/meshing"

	"golang.org/x/sync/errgroup"
)

// Builder turns a chunk volume and its neighbours into a mesh.
type Builder interface {
	Build(center chunk.Volume, neighbours chunk.Neighbours) (*meshing.Mesh, error)
}

// Scheduler rebuilds dirty chunk meshes on background workers.
type Scheduler struct {
	world   *World
	builder Builder
	workers int
	log     *slog.Logger

	built atomic.Uint64
	stale atomic.Uint64
}

// NewScheduler creates a scheduler with the given number of workers (at least one).
func NewScheduler(w *World, b Builder, workers int, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		world:   w,
		builder: b,
		workers: max(workers, 1),
		log:     log,
	}
}

// Built returns the number of meshes built so far.
func (s *Scheduler) Built() uint64 { return s.built.Load() }

// Run starts the workers and blocks until ctx is cancelled or a build fails. A build
// error stops every worker and is returned.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for id := range s.workers {
		g.Go(func() error {
			return s.worker(ctx, id)
		})
	}
	s.log.Info("mesh scheduler started", "workers", s.workers)
	err := g.Wait()
	if err != nil {
		s.log.Error("mesh scheduler stopped", "error", err)
		return err
	}
	s.log.Info("mesh scheduler stopped", "built", s.built.Load(), "superseded", s.stale.Load())
	return nil
}

func (s *Scheduler) worker(ctx context.Context, id int) error {
	q := s.world.queue
	for {
		if ctx.Err() != nil {
			return nil
		}
		i, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-q.signal:
			}
			continue
		}
		if err := s.rebuild(i); err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
	}
}

// Flush rebuilds every queued chunk on the calling goroutine.
func (s *Scheduler) Flush() error {
	for {
		i, ok := s.world.queue.pop()
		if !ok {
			return nil
		}
		if err := s.rebuild(i); err != nil {
			return err
		}
	}
}

func (s *Scheduler) rebuild(i int) error {
	m := s.world.meshes[i]
	gen := m.begin()

	pos := m.pos
	center := s.world.chunks[i].Snapshot()
	nb := s.world.Neighbours(pos.X, pos.Y, pos.Z)

	mesh, err := s.builder.Build(center, nb)
	if err != nil {
		s.world.markDirty(i)
		return fmt.Errorf("chunk %v: %w", pos, err)
	}
	if !m.publish(gen, mesh) {
		s.stale.Add(1)
		return nil
	}
	s.built.Add(1)
	s.log.Debug("chunk meshed", "chunk", pos, "generation", gen, "vertices", mesh.VertexCount)
	return nil
}
