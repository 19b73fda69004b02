// Command worldstat generates and meshes a world without a window and reports
// what it built.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/meshing"
	"blockworld/internal/profiling"
	"blockworld/internal/terrain"
	"blockworld/internal/world"
)

// headlessMesh keeps only the vertex count of an uploaded mesh.
type headlessMesh struct{ vertices int }

func (m *headlessMesh) Upload(mesh *meshing.Mesh) { m.vertices = mesh.VertexCount }
func (m *headlessMesh) Draw()                     {}
func (m *headlessMesh) Release()                  { m.vertices = 0 }

type headlessFactory struct{}

func (headlessFactory) NewMesh() world.GPUMesh { return &headlessMesh{} }

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := run(cfg, log); err != nil {
		log.Error("worldstat failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := block.NewDefaultRegistry(block.GridAtlas{TileSize: cfg.Atlas.TileSize, AtlasSize: cfg.Atlas.Size})
	gen, err := terrain.FromConfig(cfg.Seed, cfg.Terrain)
	if err != nil {
		return err
	}

	start := time.Now()
	w := world.New(cfg.World, log)
	if err := w.Generate(ctx, gen); err != nil {
		return err
	}
	generated := time.Since(start)

	start = time.Now()
	sched := world.NewScheduler(w, meshing.NewMesher(registry, cfg.Meshing.AmbientOcclusion), cfg.Workers(), log)
	if err := sched.Flush(); err != nil {
		return err
	}
	meshed := time.Since(start)
	uploaded := w.UploadPending(headlessFactory{})

	st := w.Stats()
	log.Info("world stats",
		"seed", cfg.Seed,
		"generator", cfg.Terrain.Generator,
		"chunks", st.Chunks,
		"allocated", st.Allocated,
		"solid", st.Solid,
		"meshes", uploaded,
		"vertices", w.Vertices(),
		"generate", generated,
		"mesh", meshed)
	log.Info("profile", "top", profiling.TopN(5))
	w.Release()
	return nil
}
