package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/hero"
	"github.com/san-kum/artplum/internal/plum"
	"github.com/san-kum/artplum/internal/surface"
)

const (
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultTickRate  = 40
	DefaultColor     = "#ffffff15"
	DefaultLineWidth = 1.0
	DefaultTheme     = "minimal"
	DefaultMaxTicks  = 20000
)

var (
	ErrInvalidColor  = errors.New("config: invalid color")
	ErrInvalidConfig = errors.New("config: invalid value")
)

type Config struct {
	Width      float64       `yaml:"width"`
	Height     float64       `yaml:"height"`
	Ratio      float64       `yaml:"ratio"`
	Seed       int64         `yaml:"seed"`
	TickRate   float64       `yaml:"tick_rate"`
	StartDelay time.Duration `yaml:"start_delay"`
	Intro      bool          `yaml:"intro"`
	Color      string        `yaml:"color"`
	LineWidth  float64       `yaml:"line_width"`
	Theme      string        `yaml:"theme"`
	MaxTicks   int           `yaml:"max_ticks"`
	Debug      bool          `yaml:"debug"`
	Plum       plum.Params   `yaml:"plum"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		TickRate:   DefaultTickRate,
		StartDelay: hero.DefaultStartDelay,
		Color:      DefaultColor,
		LineWidth:  DefaultLineWidth,
		Theme:      DefaultTheme,
		MaxTicks:   DefaultMaxTicks,
		Plum:       plum.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base, so keys absent from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that cannot be clamped. Surface size is not
// checked: a degenerate size just draws nothing.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("%w: start_delay must not be negative, got %v", ErrInvalidConfig, c.StartDelay)
	}
	if _, err := ParseColor(c.Color); err != nil {
		return err
	}
	return c.Plum.Validate()
}

func (c *Config) Interval() time.Duration {
	if c.TickRate <= 0 {
		return driver.DefaultInterval
	}
	return time.Duration(float64(time.Second) / c.TickRate)
}

// DriverConfig converts the file representation into a driver.Config. An
// unparsable color falls back to the default stroke color.
func (c *Config) DriverConfig() driver.Config {
	col, err := ParseColor(c.Color)
	if err != nil {
		col = surface.DefaultColor
	}
	return driver.Config{
		Width:    c.Width,
		Height:   c.Height,
		Interval: c.Interval(),
		Seed:     c.Seed,
		Params:   c.Plum,
		Surface: surface.Options{
			Ratio:     c.Ratio,
			Color:     col,
			LineWidth: c.LineWidth,
		},
	}
}

func (c *Config) HeroConfig() hero.Config {
	h := hero.DefaultConfig(c.DriverConfig())
	h.StartDelay = c.StartDelay
	return h
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
