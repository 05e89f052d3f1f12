package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("  \n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Parse(empty) = %+v, want defaults", cfg)
	}
}

func TestParsePartial(t *testing.T) {
	data := []byte(`
seed: 12345
generator: flat
render_radius: 3
terrain:
  octaves: 6
viewer:
  velocity_x: 0.5
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", cfg.Seed)
	}
	if cfg.Generator != "flat" {
		t.Errorf("Generator = %q, want flat", cfg.Generator)
	}
	if cfg.RenderRadius != 3 {
		t.Errorf("RenderRadius = %d, want 3", cfg.RenderRadius)
	}
	if cfg.Terrain.Octaves != 6 {
		t.Errorf("Terrain.Octaves = %d, want 6", cfg.Terrain.Octaves)
	}
	if cfg.Terrain.Scale != 0.02 {
		t.Errorf("Terrain.Scale = %v, want default 0.02", cfg.Terrain.Scale)
	}
	if cfg.Viewer.VelocityX != 0.5 || cfg.Viewer.X != 8 {
		t.Errorf("Viewer = %+v, want velocity_x 0.5 and default x", cfg.Viewer)
	}
	if cfg.MaxChunks != 256 {
		t.Errorf("MaxChunks = %d, want default 256", cfg.MaxChunks)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "view_distance: 4\n"},
		{"unknown nested key", "terrain:\n  roughness: 2\n"},
		{"wrong type", "max_chunks: lots\n"},
		{"fractional integer", "render_radius: 1.5\n"},
		{"bad generator", "generator: caves\n"},
		{"negative radius", "render_radius: -1\n"},
		{"zero block size", "block_size: 0\n"},
		{"bad log level", "log_level: loud\n"},
		{"not a mapping", "- 1\n- 2\n"},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: Parse error = %v, want ErrInvalid", tt.name, err)
		}
	}

	if _, err := Parse([]byte("seed: [1, 2\n")); err == nil {
		t.Error("malformed yaml: Parse succeeded")
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"max chunks over limit", func(c *Config) { c.MaxChunks = MaxChunksLimit + 1 }},
		{"huge max chunks", func(c *Config) { c.MaxChunks = 1 << 40 }},
		{"tick rate over limit", func(c *Config) { c.TickRate = 2_000_000_000 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		tt.mutate(c)
		if err := c.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: Validate error = %v, want ErrInvalid", tt.name, err)
		}
	}

	c := DefaultConfig()
	c.MaxChunks = MaxChunksLimit
	c.TickRate = MaxTickRate
	if err := c.Validate(); err != nil {
		t.Errorf("Validate at limits: %v", err)
	}
	if _, err := Parse([]byte("max_chunks: 65537\n")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Parse(max_chunks: 65537) error = %v, want ErrInvalid", err)
	}
}

func TestParseCrossFieldValidation(t *testing.T) {
	_, err := Parse([]byte("chunk_height: 4\nterrain:\n  bedrock_level: 4\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Parse error = %v, want ErrInvalid", err)
	}
}

func TestMarshalParse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = -7
	cfg.Noise = "value"
	cfg.MaxTicks = 120
	cfg.Viewer.VelocityZ = -0.25

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal(cfg)): %v\n%s", err, data)
	}
	if *got != *cfg {
		t.Errorf("Parse(Marshal(cfg)) = %+v, want %+v", got, cfg)
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.RenderRadius = 5

	fromFile := DefaultConfig()
	fromFile.Seed = 2
	fromFile.RenderRadius = 2
	fromFile.Generator = "flat"
	fromFile.ChunkHeight = 128

	Merge(cfg, fromFile, map[string]bool{"render-radius": true})

	if cfg.Seed != 2 {
		t.Errorf("Seed = %d, want 2 from file", cfg.Seed)
	}
	if cfg.RenderRadius != 5 {
		t.Errorf("RenderRadius = %d, want 5 from flag", cfg.RenderRadius)
	}
	if cfg.Generator != "flat" {
		t.Errorf("Generator = %q, want flat", cfg.Generator)
	}
	if cfg.ChunkHeight != 128 {
		t.Errorf("ChunkHeight = %d, want 128", cfg.ChunkHeight)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		c := &Config{LogLevel: tt.in}
		got, err := c.Level()
		if err != nil || got != tt.want {
			t.Errorf("Level(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := (&Config{LogLevel: "chatty"}).Level(); err == nil {
		t.Error("Level(chatty) succeeded")
	}
}

func TestShippedPresetsParse(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "presets", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no presets found")
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Parse(data); err != nil {
			t.Errorf("%s: %v", filepath.Base(p), err)
		}
	}
}
