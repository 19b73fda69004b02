package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Generator types accepted by Terrain.Generator.
const (
	GeneratorNoise = "noise"
	GeneratorFlat  = "flat"
)

// Config holds the full blockworld configuration.
type Config struct {
	Seed     int64   `yaml:"seed"`
	LogLevel string  `yaml:"log_level"`
	World    World   `yaml:"world"`
	Terrain  Terrain `yaml:"terrain"`
	Meshing  Meshing `yaml:"meshing"`
	Atlas    Atlas   `yaml:"atlas"`
	Window   Window  `yaml:"window"`
}

// World sizes the chunk grid.
type World struct {
	ChunksX   int `yaml:"chunks_x"`
	ChunksY   int `yaml:"chunks_y"`
	ChunksZ   int `yaml:"chunks_z"`
	ChunkSize int `yaml:"chunk_size"`
}

// Terrain tunes the procedural generator.
type Terrain struct {
	Generator     string  `yaml:"generator"` // "noise" or "flat"
	Frequency     float64 `yaml:"frequency"`
	BaseHeight    int     `yaml:"base_height"`
	Biomes        bool    `yaml:"biomes"`
	Caves         bool    `yaml:"caves"`
	CaveScale     float64 `yaml:"cave_scale"`
	CaveThreshold float64 `yaml:"cave_threshold"`
	DirtDepth     int     `yaml:"dirt_depth"`
	DirtJitter    float64 `yaml:"dirt_jitter"`
	FlatHeight    int     `yaml:"flat_height"`
}

// Meshing controls the background mesh workers.
type Meshing struct {
	Workers          int  `yaml:"workers"` // 0 = one per CPU
	AmbientOcclusion bool `yaml:"ambient_occlusion"`
}

// Atlas describes the block texture atlas.
type Atlas struct {
	Path     string `yaml:"path"`
	TileSize int    `yaml:"tile_size"`
	Size     int    `yaml:"size"`
}

// Window configures the viewer window.
type Window struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Title  string  `yaml:"title"`
	VSync  bool    `yaml:"vsync"`
	FOV    float32 `yaml:"fov"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Seed:     1337,
		LogLevel: "info",
		World: World{
			ChunksX:   12,
			ChunksY:   8,
			ChunksZ:   12,
			ChunkSize: 32,
		},
		Terrain: Terrain{
			Generator:     GeneratorNoise,
			Frequency:     0.01,
			BaseHeight:    32,
			Biomes:        true,
			Caves:         true,
			CaveScale:     4,
			CaveThreshold: -0.49,
			DirtDepth:     4,
			DirtJitter:    3,
			FlatHeight:    8,
		},
		Meshing: Meshing{
			Workers:          0,
			AmbientOcclusion: true,
		},
		Atlas: Atlas{
			Path:     "assets/atlas.png",
			TileSize: 16,
			Size:     256,
		},
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "blockworld",
			VSync:  true,
			FOV:    70,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	w := c.World
	if w.ChunksX <= 0 || w.ChunksY <= 0 || w.ChunksZ <= 0 {
		return fmt.Errorf("%w: world dimensions must be positive, got %dx%dx%d", ErrInvalid, w.ChunksX, w.ChunksY, w.ChunksZ)
	}
	if w.ChunkSize < 2 || w.ChunkSize > 256 {
		return fmt.Errorf("%w: chunk_size %d out of range [2,256]", ErrInvalid, w.ChunkSize)
	}
	switch c.Terrain.Generator {
	case GeneratorNoise, GeneratorFlat:
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalid, c.Terrain.Generator)
	}
	if c.Terrain.Frequency <= 0 {
		return fmt.Errorf("%w: terrain frequency must be positive", ErrInvalid)
	}
	if c.Terrain.DirtDepth < 0 || c.Terrain.FlatHeight < 0 {
		return fmt.Errorf("%w: negative terrain depth", ErrInvalid)
	}
	if c.Meshing.Workers < 0 {
		return fmt.Errorf("%w: meshing workers must not be negative", ErrInvalid)
	}
	if c.Atlas.TileSize <= 0 || c.Atlas.Size <= 0 || c.Atlas.Size%c.Atlas.TileSize != 0 {
		return fmt.Errorf("%w: atlas size %d is not a multiple of tile size %d", ErrInvalid, c.Atlas.Size, c.Atlas.TileSize)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Workers resolves the configured worker count.
func (c *Config) Workers() int {
	if c.Meshing.Workers > 0 {
		return c.Meshing.Workers
	}
	return runtime.NumCPU()
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}

// Merge applies file-loaded values into cfg, except for fields whose
// command-line flag was explicitly set. explicitFlags holds flag names.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	flags := *cfg
	*cfg = *fromFile
	if explicitFlags["seed"] {
		cfg.Seed = flags.Seed
	}
	if explicitFlags["log-level"] {
		cfg.LogLevel = flags.LogLevel
	}
	if explicitFlags["chunks-x"] {
		cfg.World.ChunksX = flags.World.ChunksX
	}
	if explicitFlags["chunks-y"] {
		cfg.World.ChunksY = flags.World.ChunksY
	}
	if explicitFlags["chunks-z"] {
		cfg.World.ChunksZ = flags.World.ChunksZ
	}
	if explicitFlags["chunk-size"] {
		cfg.World.ChunkSize = flags.World.ChunkSize
	}
	if explicitFlags["generator"] {
		cfg.Terrain.Generator = flags.Terrain.Generator
	}
	if explicitFlags["caves"] {
		cfg.Terrain.Caves = flags.Terrain.Caves
	}
	if explicitFlags["workers"] {
		cfg.Meshing.Workers = flags.Meshing.Workers
	}
	if explicitFlags["ao"] {
		cfg.Meshing.AmbientOcclusion = flags.Meshing.AmbientOcclusion
	}
	if explicitFlags["atlas"] {
		cfg.Atlas.Path = flags.Atlas.Path
	}
}
