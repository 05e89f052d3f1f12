package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Upper bounds shared with config.schema.json. Flags bypass the schema, so
// Validate enforces them again.
const (
	MaxChunksLimit = 1 << 16
	MaxTickRate    = 1000
)

// Config holds the engine configuration.
type Config struct {
	Seed      int64  `yaml:"seed"`
	Generator string `yaml:"generator"` // "default" or "flat"
	Noise     string `yaml:"noise"`     // "simplex" or "value"

	ChunkWidth   int     `yaml:"chunk_width"`
	ChunkHeight  int     `yaml:"chunk_height"`
	ChunkDepth   int     `yaml:"chunk_depth"`
	MaxChunks    int     `yaml:"max_chunks"`
	RenderRadius int     `yaml:"render_radius"` // in chunks
	BlockSize    float64 `yaml:"block_size"`

	Terrain Terrain `yaml:"terrain"`
	Viewer  Viewer  `yaml:"viewer"`

	TickRate        int    `yaml:"tick_rate"`        // ticks per second
	MaxTicks        uint64 `yaml:"max_ticks"`        // 0 = run until stopped
	PrebuildWorkers int    `yaml:"prebuild_workers"` // 0 = build meshes lazily while drawing
	StatsInterval   int    `yaml:"stats_interval"`   // ticks between stats lines, 0 = off
	LogLevel        string `yaml:"log_level"`
}

// Terrain shapes the fractal height field.
type Terrain struct {
	Scale        float64 `yaml:"scale"`
	Persistence  float64 `yaml:"persistence"`
	Lacunarity   float64 `yaml:"lacunarity"`
	Octaves      int     `yaml:"octaves"`
	Amplitude    float64 `yaml:"amplitude"`
	SeaLevel     int     `yaml:"sea_level"`
	BedrockLevel int     `yaml:"bedrock_level"`
	DirtDepth    int     `yaml:"dirt_depth"`
}

// Viewer is a straight-line camera path for headless runs.
type Viewer struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Z         float64 `yaml:"z"`
	VelocityX float64 `yaml:"velocity_x"` // blocks per tick
	VelocityZ float64 `yaml:"velocity_z"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Generator:    "default",
		Noise:        "simplex",
		ChunkWidth:   16,
		ChunkHeight:  384,
		ChunkDepth:   16,
		MaxChunks:    256,
		RenderRadius: 1,
		BlockSize:    1,
		Terrain: Terrain{
			Scale:        0.02,
			Persistence:  0.5,
			Lacunarity:   2.0,
			Octaves:      4,
			Amplitude:    20,
			SeaLevel:     63,
			BedrockLevel: 4,
			DirtDepth:    5,
		},
		Viewer:        Viewer{X: 8, Y: 64.8, Z: 8},
		TickRate:      60,
		StatsInterval: 60,
		LogLevel:      "info",
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.Generator = fromFile.Generator
	}
	if !explicitFlags["noise"] {
		cfg.Noise = fromFile.Noise
	}
	if !explicitFlags["max-chunks"] {
		cfg.MaxChunks = fromFile.MaxChunks
	}
	if !explicitFlags["render-radius"] {
		cfg.RenderRadius = fromFile.RenderRadius
	}
	if !explicitFlags["block-size"] {
		cfg.BlockSize = fromFile.BlockSize
	}
	if !explicitFlags["tick-rate"] {
		cfg.TickRate = fromFile.TickRate
	}
	if !explicitFlags["max-ticks"] {
		cfg.MaxTicks = fromFile.MaxTicks
	}
	if !explicitFlags["workers"] {
		cfg.PrebuildWorkers = fromFile.PrebuildWorkers
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}

	// Not exposed as flags.
	cfg.ChunkWidth = fromFile.ChunkWidth
	cfg.ChunkHeight = fromFile.ChunkHeight
	cfg.ChunkDepth = fromFile.ChunkDepth
	cfg.Terrain = fromFile.Terrain
	cfg.Viewer = fromFile.Viewer
	cfg.StatsInterval = fromFile.StatsInterval
}

// Validate checks cross-field constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Generator == "default" || c.Generator == "flat", "generator %q", c.Generator)
	check(c.Noise == "simplex" || c.Noise == "value", "noise %q", c.Noise)
	check(c.ChunkWidth > 0 && c.ChunkHeight > 0 && c.ChunkDepth > 0,
		"chunk dimensions %dx%dx%d", c.ChunkWidth, c.ChunkHeight, c.ChunkDepth)
	check(c.MaxChunks > 0 && c.MaxChunks <= MaxChunksLimit, "max_chunks %d", c.MaxChunks)
	check(c.RenderRadius >= 0, "render_radius %d", c.RenderRadius)
	check(c.BlockSize > 0, "block_size %v", c.BlockSize)
	check(c.TickRate > 0 && c.TickRate <= MaxTickRate, "tick_rate %d", c.TickRate)
	check(c.PrebuildWorkers >= 0, "prebuild_workers %d", c.PrebuildWorkers)
	check(c.StatsInterval >= 0, "stats_interval %d", c.StatsInterval)
	check(c.Terrain.Octaves >= 0, "terrain.octaves %d", c.Terrain.Octaves)
	check(c.Terrain.BedrockLevel >= 0, "terrain.bedrock_level %d", c.Terrain.BedrockLevel)
	_, err := c.Level()
	check(err == nil, "log_level %q", c.LogLevel)
	check(c.Terrain.BedrockLevel+1 < c.ChunkHeight,
		"terrain.bedrock_level %d leaves no room in chunk height %d", c.Terrain.BedrockLevel, c.ChunkHeight)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn" or "error").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return l, nil
}
