package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OCharnyshevich/voxelworld/internal/engine/config"
)

const (
	configFile = "config.yaml"
	presetDir  = "presets"
	presetExt  = ".yaml"
)

// ErrPresetNotFound is returned by LoadPreset for a missing preset file.
var ErrPresetNotFound = errors.New("preset not found")

// Storage handles file-based persistence for config and world presets.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, presetDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the storage root.
func (s *Storage) Dir() string { return s.dir }

// PresetDir returns the directory preset files live in.
func (s *Storage) PresetDir() string { return filepath.Join(s.dir, presetDir) }

// LoadConfig reads config.yaml into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, configFile)
	loaded, err := s.readConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	*cfg = *loaded
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.yaml atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.dir, configFile), data)
}

// LoadPreset reads presets/<name>.yaml.
func (s *Storage) LoadPreset(name string) (*config.Config, error) {
	if !validPresetName(name) {
		return nil, fmt.Errorf("preset %q: %w", name, ErrPresetNotFound)
	}
	path := filepath.Join(s.PresetDir(), name+presetExt)
	cfg, err := s.readConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("preset %q: %w", name, ErrPresetNotFound)
		}
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	s.log.Info("loaded preset", "name", name, "path", path)
	return cfg, nil
}

// SavePreset writes cfg to presets/<name>.yaml atomically.
func (s *Storage) SavePreset(name string, cfg *config.Config) error {
	if !validPresetName(name) {
		return fmt.Errorf("preset %q: invalid name", name)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.PresetDir(), name+presetExt), data)
}

// Presets returns the names of all preset files, sorted.
func (s *Storage) Presets() ([]string, error) {
	entries, err := os.ReadDir(s.PresetDir())
	if err != nil {
		return nil, fmt.Errorf("read preset dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != presetExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), presetExt))
	}
	sort.Strings(names)
	return names, nil
}

// validPresetName rejects names that would escape the preset directory.
func validPresetName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func (s *Storage) readConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// atomicWrite writes data to path using a temp file + rename.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
