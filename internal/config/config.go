package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultPath is the prefs file, relative to the process working directory.
const DefaultPath = "config/showcase.json"

// Environment variables that override file values (usually set through .env).
const (
	EnvSeed     = "SHOWCASE_SEED"
	EnvAssetDir = "SHOWCASE_ASSET_DIR"
	EnvCatalog  = "SHOWCASE_CATALOG"
	EnvCacheDir = "SHOWCASE_CACHE_DIR"
)

// Prefs holds window, hero and viewer preferences. Persisted across runs.
type Prefs struct {
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	TargetFPS    int    `json:"target_fps"`
	ShowFPS      bool   `json:"show_fps"`
	ShowMemAlloc bool   `json:"show_memalloc"`
	ShowStats    bool   `json:"show_stats"`
	GridVisible  bool   `json:"grid_visible"`
	Touch        bool   `json:"touch"`
	StartMode    string `json:"start_mode"`
	// Seed drives hero construction; 0 means seed from the clock.
	Seed        uint64 `json:"seed,omitempty"`
	AssetDir    string `json:"asset_dir"`
	CacheDir    string `json:"cache_dir"`
	CatalogPath string `json:"catalog_path,omitempty"`
	// Font names an overlay font under <asset_dir>/fonts; empty uses raylib's default.
	Font       string `json:"font,omitempty"`
	Fullscreen bool   `json:"fullscreen"`
}

// Default returns default preferences (hero mode, grid on, overlays off).
func Default() Prefs {
	return Prefs{
		WindowWidth:  1280,
		WindowHeight: 720,
		TargetFPS:    60,
		GridVisible:  true,
		StartMode:    "hero",
		AssetDir:     "public",
		CacheDir:     ".cache/models",
	}
}

// Load reads preferences from path. A missing or invalid file yields Default() without creating a file.
// Zero values in the file fall back to their defaults.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	p.fill()
	return p, nil
}

func (p *Prefs) fill() {
	d := Default()
	if p.WindowWidth <= 0 {
		p.WindowWidth = d.WindowWidth
	}
	if p.WindowHeight <= 0 {
		p.WindowHeight = d.WindowHeight
	}
	if p.TargetFPS <= 0 {
		p.TargetFPS = d.TargetFPS
	}
	if p.StartMode == "" {
		p.StartMode = d.StartMode
	}
	if p.AssetDir == "" {
		p.AssetDir = d.AssetDir
	}
	if p.CacheDir == "" {
		p.CacheDir = d.CacheDir
	}
}

// ApplyEnv overrides fields from SHOWCASE_* environment variables.
func (p *Prefs) ApplyEnv() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSeed, err)
		}
		p.Seed = seed
	}
	if v := os.Getenv(EnvAssetDir); v != "" {
		p.AssetDir = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		p.CatalogPath = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		p.CacheDir = v
	}
	return nil
}

// Save writes preferences to path, creating the directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
