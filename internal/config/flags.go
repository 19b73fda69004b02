package config

import (
	"flag"
	"fmt"
)

// Parse binds the common command-line flags to a default config, parses args, loads the
// file named by -config and merges it under the explicitly set flags.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()
	path := fs.String("config", "", "path to a YAML config file")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&cfg.World.ChunksX, "chunks-x", cfg.World.ChunksX, "grid width in chunks")
	fs.IntVar(&cfg.World.ChunksY, "chunks-y", cfg.World.ChunksY, "grid height in chunks")
	fs.IntVar(&cfg.World.ChunksZ, "chunks-z", cfg.World.ChunksZ, "grid depth in chunks")
	fs.IntVar(&cfg.World.ChunkSize, "chunk-size", cfg.World.ChunkSize, "chunk edge length in blocks")
	fs.StringVar(&cfg.Terrain.Generator, "generator", cfg.Terrain.Generator, "terrain generator (noise or flat)")
	fs.BoolVar(&cfg.Terrain.Caves, "caves", cfg.Terrain.Caves, "carve caves")
	fs.IntVar(&cfg.Meshing.Workers, "workers", cfg.Meshing.Workers, "mesh workers (0 = one per CPU)")
	fs.BoolVar(&cfg.Meshing.AmbientOcclusion, "ao", cfg.Meshing.AmbientOcclusion, "per-vertex ambient occlusion")
	fs.StringVar(&cfg.Atlas.Path, "atlas", cfg.Atlas.Path, "texture atlas image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *path != "" {
		fromFile, err := Load(*path)
		if err != nil {
			return nil, err
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
