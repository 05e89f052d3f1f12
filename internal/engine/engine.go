package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelworld/internal/engine/config"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/gen"
)

// FrameStats describes one frame.
type FrameStats struct {
	Tick      uint64
	Stream    world.StreamResult
	Prebuilt  int
	Drawn     int
	Triangles int
}

// Engine drives the world one frame at a time: streaming update, optional
// parallel mesh prebuild, then the draw phase.
type Engine struct {
	cfg   *config.Config
	log   *slog.Logger
	world *world.World
	tick  uint64
}

// New creates an Engine with the given config and logger.
func New(cfg *config.Config, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	noise, err := gen.NewNoise(cfg.Noise, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	generator, err := gen.New(cfg.Generator, noise, TerrainParams(cfg), cfg.ChunkHeight)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	w, err := world.New(WorldOptions(cfg), generator, log)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	return &Engine{cfg: cfg, log: log, world: w}, nil
}

// WorldOptions maps cfg onto world options.
func WorldOptions(cfg *config.Config) world.Options {
	return world.Options{
		Dimensions: chunk.Dimensions{
			Width:  cfg.ChunkWidth,
			Height: cfg.ChunkHeight,
			Depth:  cfg.ChunkDepth,
		},
		MaxChunks:    cfg.MaxChunks,
		RenderRadius: cfg.RenderRadius,
		BlockSize:    float32(cfg.BlockSize),
	}
}

// TerrainParams maps cfg onto generator parameters.
func TerrainParams(cfg *config.Config) gen.Params {
	t := cfg.Terrain
	return gen.Params{
		Scale:        t.Scale,
		Persistence:  t.Persistence,
		Lacunarity:   t.Lacunarity,
		Octaves:      t.Octaves,
		Amplitude:    t.Amplitude,
		SeaLevel:     t.SeaLevel,
		BedrockLevel: t.BedrockLevel,
		DirtDepth:    t.DirtDepth,
	}
}

// World returns the engine's chunk store.
func (e *Engine) World() *world.World { return e.world }

// Tick returns the number of frames stepped so far.
func (e *Engine) Tick() uint64 { return e.tick }

// Step runs one frame with the viewer at pos.
func (e *Engine) Step(ctx context.Context, pos mgl32.Vec3, r Renderer) (FrameStats, error) {
	stats := FrameStats{Tick: e.tick}

	stats.Stream = e.world.UpdateStreaming(pos)

	if e.cfg.PrebuildWorkers > 0 {
		n, err := e.world.PrebuildMeshes(ctx, e.cfg.PrebuildWorkers)
		stats.Prebuilt = n
		if err != nil {
			return stats, fmt.Errorf("frame %d: %w", e.tick, err)
		}
	}

	e.world.ForEachActive(func(c *chunk.Chunk) {
		m := e.world.Mesh(c)
		r.Draw(c.Pos(), m)
		stats.Drawn++
		stats.Triangles += m.TriangleCount()
	})

	e.tick++
	return stats, nil
}

// Run steps frames at the configured tick rate until ctx is cancelled or
// MaxTicks frames have run.
func (e *Engine) Run(ctx context.Context, v Viewer, r Renderer) error {
	e.log.Info("engine started",
		"generator", e.cfg.Generator,
		"noise", e.cfg.Noise,
		"seed", e.cfg.Seed,
		"renderRadius", e.cfg.RenderRadius,
		"tickRate", e.cfg.TickRate,
		"spawnHeight", e.world.SpawnHeight(),
	)

	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			e.log.Info("engine shutting down", "ticks", e.tick)
			return nil
		}

		stats, err := e.Step(ctx, v.Position(e.tick), r)
		if err != nil {
			if ctx.Err() != nil {
				e.log.Info("engine shutting down", "ticks", e.tick)
				return nil
			}
			return err
		}
		if stats.Stream.Created > 0 {
			e.log.Debug("chunks streamed",
				"center", stats.Stream.Center,
				"created", stats.Stream.Created,
				"chunks", e.world.Count(),
			)
		}
		if n := e.cfg.StatsInterval; n > 0 && stats.Tick%uint64(n) == 0 {
			e.logStats(stats)
		}
		if e.cfg.MaxTicks > 0 && e.tick >= e.cfg.MaxTicks {
			e.log.Info("tick limit reached", "ticks", e.tick)
			return nil
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
}

func (e *Engine) logStats(stats FrameStats) {
	e.log.Info("frame",
		"tick", stats.Tick,
		"center", stats.Stream.Center,
		"active", stats.Stream.Active,
		"dropped", stats.Stream.Dropped,
		"chunks", e.world.Count(),
		"drawn", stats.Drawn,
		"triangles", humanize.Comma(int64(stats.Triangles)),
		"arena", fmt.Sprintf("%s / %s", humanize.IBytes(uint64(e.world.ArenaUsed())), humanize.IBytes(uint64(e.world.ArenaCap()))),
	)
}

// Close releases the world's memory.
func (e *Engine) Close() {
	e.world.Close()
}
