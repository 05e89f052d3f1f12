package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/voxelworld/internal/engine/config"
	"github.com/OCharnyshevich/voxelworld/internal/engine/storage"
)

func main() {
	var (
		src     = flag.String("src", "git::https://github.com/OCharnyshevich/voxelworld.git//presets", "go-getter source of the preset bundle")
		dataDir = flag.String("data", "./data", "data directory to install presets into")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *src == "" {
		log.Error("source url required")
		os.Exit(2)
	}

	store, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open data directory", "error", err)
		os.Exit(1)
	}

	tmp := filepath.Join(store.Dir(), "presets.download")
	if err := os.RemoveAll(tmp); err != nil {
		log.Error("clear download directory", "error", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmp)

	log.Info("start downloading presets", "src", *src)
	if err := get.Get(tmp, *src); err != nil {
		log.Error("download presets", "src", *src, "error", err)
		os.Exit(1)
	}

	installed, rejected := install(store, tmp, log)
	log.Info("done installing presets", "installed", installed, "rejected", rejected, "dir", store.PresetDir())
	if rejected > 0 {
		os.Exit(1)
	}
}

// install validates every *.yaml file in dir and saves the valid ones as presets.
func install(store *storage.Storage, dir string, log *slog.Logger) (installed, rejected int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error("read download directory", "error", err)
		return 0, 1
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn("read preset", "name", name, "error", err)
			rejected++
			continue
		}
		cfg, err := config.Parse(data)
		if err != nil {
			log.Warn("invalid preset", "name", name, "error", err)
			rejected++
			continue
		}
		if err := store.SavePreset(name, cfg); err != nil {
			log.Warn("save preset", "name", name, "error", err)
			rejected++
			continue
		}
		log.Info("installed preset", "name", name, "generator", cfg.Generator, "seed", cfg.Seed)
		installed++
	}
	return installed, rejected
}
