package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/meshing"
	"blockworld/internal/terrain"
	"blockworld/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW and GL calls must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := run(cfg, log); err != nil {
		log.Error("blockworld exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := block.NewDefaultRegistry(block.GridAtlas{TileSize: cfg.Atlas.TileSize, AtlasSize: cfg.Atlas.Size})
	if err := registry.Validate(block.Grass, block.Stone, block.Bedrock, block.Dirt); err != nil {
		return err
	}
	gen, err := terrain.FromConfig(cfg.Seed, cfg.Terrain)
	if err != nil {
		return err
	}

	w := world.New(cfg.World, log)
	if err := w.Generate(ctx, gen); err != nil {
		return err
	}

	mesher := meshing.NewMesher(registry, cfg.Meshing.AmbientOcclusion)
	sched := world.NewScheduler(w, mesher, cfg.Workers(), log)
	schedErr := make(chan error, 1)
	go func() { schedErr <- sched.Run(ctx) }()

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	loop, err := newLoop(cfg, log, window, w)
	if err != nil {
		return err
	}
	defer loop.Release()

	schedDone, err := loop.Run(ctx, schedErr)
	cancel()
	// Surface a mesher failure that raced the shutdown.
	return awaitScheduler(schedDone, err, schedErr)
}
