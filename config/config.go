// Package config loads the simulation settings. Embedded defaults are read
// first and a user file, YAML or TOML, is layered on top of them.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Tick    TickConfig     `yaml:"tick" toml:"tick"`
	Window  WindowConfig   `yaml:"window" toml:"window"`
	Player  PlayerConfig   `yaml:"player" toml:"player"`
	Weapon  WeaponConfig   `yaml:"weapon" toml:"weapon"`
	Effects EffectsConfig  `yaml:"effects" toml:"effects"`
	Sprites []SpriteConfig `yaml:"sprites" toml:"sprites"`
	Scene   SceneConfig    `yaml:"scene" toml:"scene"`
	Logging LoggingConfig  `yaml:"logging" toml:"logging"`
}

// TickConfig holds the fixed timestep.
type TickConfig struct {
	DT           float64 `yaml:"dt" toml:"dt"`                       // seconds per tick
	CompactEvery int     `yaml:"compact_every" toml:"compact_every"` // ticks between storage compactions, 0 disables
}

// WindowConfig holds display settings for the interactive demo.
type WindowConfig struct {
	Width         int     `yaml:"width" toml:"width"`
	Height        int     `yaml:"height" toml:"height"`
	Title         string  `yaml:"title" toml:"title"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit" toml:"pixels_per_unit"`
}

// PlayerConfig holds look and movement constants.
type PlayerConfig struct {
	Sensitivity float64 `yaml:"sensitivity" toml:"sensitivity"` // radians per pointer unit per second
	PitchLimit  float64 `yaml:"pitch_limit" toml:"pitch_limit"`
	Speed       float64 `yaml:"speed" toml:"speed"`
}

// WeaponConfig describes the player's weapon.
type WeaponConfig struct {
	Sprite       string `yaml:"sprite" toml:"sprite"`
	ReloadFrames int    `yaml:"reload_frames" toml:"reload_frames"`
	DecalSprite  string `yaml:"decal_sprite" toml:"decal_sprite"`
}

// EffectsConfig holds animation periods in seconds.
type EffectsConfig struct {
	EffectPeriod float64 `yaml:"effect_period" toml:"effect_period"`
	DecalPeriod  float64 `yaml:"decal_period" toml:"decal_period"`
}

// SpriteConfig defines one sprite sheet laid out as a grid.
type SpriteConfig struct {
	Key         string `yaml:"key" toml:"key"`
	Path        string `yaml:"path" toml:"path"`
	FrameWidth  int    `yaml:"frame_width" toml:"frame_width"`
	FrameHeight int    `yaml:"frame_height" toml:"frame_height"`
	Columns     int    `yaml:"columns" toml:"columns"`
	Rows        int    `yaml:"rows" toml:"rows"`
}

// SceneConfig lists the static geometry and the player start.
type SceneConfig struct {
	Player PlayerStart   `yaml:"player" toml:"player"`
	Floors []FloorConfig `yaml:"floors" toml:"floors"`
	Boxes  []BoxConfig   `yaml:"boxes" toml:"boxes"`
}

// PlayerStart is where the player spawns.
type PlayerStart struct {
	Position [3]float64 `yaml:"position" toml:"position"`
}

// FloorConfig is a horizontal collidable disc.
type FloorConfig struct {
	Center [3]float64 `yaml:"center" toml:"center"`
	Radius float64    `yaml:"radius" toml:"radius"`
}

// BoxConfig is an axis-aligned collidable cube.
type BoxConfig struct {
	Center [3]float64 `yaml:"center" toml:"center"`
	Size   float64    `yaml:"size" toml:"size"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console or json
}

// Default returns the embedded defaults. It panics if they do not parse,
// which only a broken build can cause.
func Default() *Config {
	cfg, err := parseDefaults()
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func parseDefaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration at path over the embedded defaults. Only
// keys present in the file are overwritten, except lists, which replace
// the default list wholesale. Files ending in .toml are decoded as TOML,
// everything else as YAML. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := parseDefaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Tick.DT <= 0 {
		err = multierr.Append(err, fmt.Errorf("tick.dt must be positive, got %v", c.Tick.DT))
	}
	if c.Tick.CompactEvery < 0 {
		err = multierr.Append(err, fmt.Errorf("tick.compact_every must not be negative"))
	}
	if c.Player.PitchLimit <= 0 {
		err = multierr.Append(err, fmt.Errorf("player.pitch_limit must be positive"))
	}
	if c.Weapon.ReloadFrames < 0 {
		err = multierr.Append(err, fmt.Errorf("weapon.reload_frames must not be negative"))
	}
	if c.Effects.EffectPeriod <= 0 || c.Effects.DecalPeriod <= 0 {
		err = multierr.Append(err, fmt.Errorf("effects periods must be positive"))
	}

	seen := make(map[string]bool, len(c.Sprites))
	for i, s := range c.Sprites {
		switch {
		case s.Key == "":
			err = multierr.Append(err, fmt.Errorf("sprites[%d]: empty key", i))
		case seen[s.Key]:
			err = multierr.Append(err, fmt.Errorf("sprites[%d]: duplicate key %q", i, s.Key))
		}
		seen[s.Key] = true
		if s.Columns <= 0 || s.Rows <= 0 {
			err = multierr.Append(err, fmt.Errorf("sprite %q: columns and rows must be positive", s.Key))
		}
	}
	if c.Weapon.Sprite != "" && !seen[c.Weapon.Sprite] {
		err = multierr.Append(err, fmt.Errorf("weapon.sprite %q is not a defined sprite", c.Weapon.Sprite))
	}

	for i, f := range c.Scene.Floors {
		if f.Radius <= 0 {
			err = multierr.Append(err, fmt.Errorf("scene.floors[%d]: radius must be positive", i))
		}
	}
	for i, b := range c.Scene.Boxes {
		if b.Size <= 0 {
			err = multierr.Append(err, fmt.Errorf("scene.boxes[%d]: size must be positive", i))
		}
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	return err
}

// Sprite returns the sheet definition for key.
func (c *Config) Sprite(key string) (SpriteConfig, bool) {
	for _, s := range c.Sprites {
		if s.Key == key {
			return s, true
		}
	}
	return SpriteConfig{}, false
}
