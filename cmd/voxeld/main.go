package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/OCharnyshevich/voxelworld/internal/engine"
	"github.com/OCharnyshevich/voxelworld/internal/engine/config"
	"github.com/OCharnyshevich/voxelworld/internal/engine/storage"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		dataDir    = flag.String("data", "./data", "data directory holding config.yaml and presets/")
		preset     = flag.String("preset", "", "load presets/<name>.yaml instead of config.yaml")
		saveConfig = flag.Bool("save-config", false, "write the effective config to config.yaml")
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.Generator, "generator", cfg.Generator, `terrain generator: "default" or "flat"`)
	flag.StringVar(&cfg.Noise, "noise", cfg.Noise, `noise source: "simplex" or "value"`)
	flag.IntVar(&cfg.MaxChunks, "max-chunks", cfg.MaxChunks, "chunk store capacity")
	flag.IntVar(&cfg.RenderRadius, "render-radius", cfg.RenderRadius, "streaming radius in chunks")
	flag.Float64Var(&cfg.BlockSize, "block-size", cfg.BlockSize, "block edge length in world units")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "frames per second")
	flag.Uint64Var(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "stop after this many frames (0 = run until interrupted)")
	flag.IntVar(&cfg.PrebuildWorkers, "workers", cfg.PrebuildWorkers, "mesh prebuild workers (0 = build while drawing)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	level := new(slog.LevelVar)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	store, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open data directory", "error", err)
		os.Exit(1)
	}

	fromFile := config.DefaultConfig()
	if *preset != "" {
		fromFile, err = store.LoadPreset(*preset)
	} else {
		err = store.LoadConfig(fromFile)
	}
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fromFile, explicit)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}
	l, _ := cfg.Level()
	level.Set(l)

	if *saveConfig {
		if err := store.SaveConfig(cfg); err != nil {
			log.Error("save config", "error", err)
			os.Exit(1)
		}
		log.Info("saved config", "dir", store.Dir())
	}

	eng, err := engine.New(cfg, log)
	if err != nil {
		log.Error("create engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	viewer := engine.LinearPath{
		Start:    mgl32.Vec3{float32(cfg.Viewer.X), float32(cfg.Viewer.Y), float32(cfg.Viewer.Z)},
		Velocity: mgl32.Vec3{float32(cfg.Viewer.VelocityX), 0, float32(cfg.Viewer.VelocityZ)},
	}
	renderer := &engine.StatsRenderer{}

	if err := eng.Run(ctx, viewer, renderer); err != nil {
		log.Error("engine error", "error", err)
		os.Exit(1)
	}

	log.Info("run finished",
		"ticks", eng.Tick(),
		"chunks", eng.World().Count(),
		"draws", humanize.Comma(int64(renderer.Draws)),
		"triangles", humanize.Comma(int64(renderer.Triangles)),
		"vertices", humanize.Comma(int64(renderer.Vertices)),
	)
}
