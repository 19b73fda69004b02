package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.ChunksX != 12 || cfg.World.ChunksY != 8 || cfg.World.ChunkSize != 32 {
		t.Fatalf("unexpected defaults: %+v", cfg.World)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockworld.yaml")
	data := []byte("seed: 99\nworld:\n  chunks_x: 2\n  chunks_y: 1\n  chunks_z: 3\n  chunk_size: 16\nterrain:\n  caves: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.World != (World{ChunksX: 2, ChunksY: 1, ChunksZ: 3, ChunkSize: 16}) {
		t.Errorf("World = %+v", cfg.World)
	}
	if cfg.Terrain.Caves {
		t.Errorf("caves not disabled")
	}
	// Unset keys keep their defaults.
	if cfg.Terrain.Frequency != 0.01 || !cfg.Meshing.AmbientOcclusion {
		t.Errorf("defaults lost: %+v %+v", cfg.Terrain, cfg.Meshing)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("terrain:\n  generator: lava\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load error = %v, want ErrInvalid", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load error = %v, want not-exist", err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero chunks":     func(c *Config) { c.World.ChunksY = 0 },
		"tiny chunk":      func(c *Config) { c.World.ChunkSize = 1 },
		"bad frequency":   func(c *Config) { c.Terrain.Frequency = 0 },
		"negative worker": func(c *Config) { c.Meshing.Workers = -1 },
		"atlas mismatch":  func(c *Config) { c.Atlas.Size = 250 },
		"log level":       func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestMergeExplicitFlagsWin(t *testing.T) {
	flags := Default()
	flags.Seed = 7
	flags.Meshing.Workers = 3
	flags.World.ChunksX = 5

	file := Default()
	file.Seed = 100
	file.Meshing.Workers = 8
	file.World.ChunksX = 9
	file.Terrain.Caves = false

	Merge(flags, file, map[string]bool{"seed": true, "workers": true})
	if flags.Seed != 7 || flags.Meshing.Workers != 3 {
		t.Errorf("explicit flags overwritten: seed=%d workers=%d", flags.Seed, flags.Meshing.Workers)
	}
	if flags.World.ChunksX != 9 || flags.Terrain.Caves {
		t.Errorf("file values not applied: chunks_x=%d caves=%v", flags.World.ChunksX, flags.Terrain.Caves)
	}
}

func TestWorkersResolvesZero(t *testing.T) {
	c := Default()
	c.Meshing.Workers = 0
	if c.Workers() < 1 {
		t.Fatalf("Workers() = %d", c.Workers())
	}
	c.Meshing.Workers = 2
	if c.Workers() != 2 {
		t.Fatalf("Workers() = %d, want 2", c.Workers())
	}
}

func TestToggleWireframeMode(t *testing.T) {
	before := GetWireframeMode()
	if ToggleWireframeMode() == before {
		t.Fatalf("toggle did not change state")
	}
	ToggleWireframeMode()
	if GetWireframeMode() != before {
		t.Fatalf("double toggle did not restore state")
	}
}

func TestParseFlagsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockworld.yaml")
	if err := os.WriteFile(path, []byte("seed: 5\nmeshing:\n  workers: 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-config", path, "-workers", "2", "-chunks-x", "3"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 5 {
		t.Errorf("Seed = %d, want 5 from file", cfg.Seed)
	}
	if cfg.Meshing.Workers != 2 || cfg.World.ChunksX != 3 {
		t.Errorf("flags lost: workers=%d chunks_x=%d", cfg.Meshing.Workers, cfg.World.ChunksX)
	}
}

func TestParseRejectsInvalidFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := Parse(fs, []string{"-chunk-size", "1"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse = %v, want ErrInvalid", err)
	}
}
