package config

import (
	"sort"

	"github.com/san-kum/artplum/internal/plum"
)

func preset(w, h float64, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = w, h
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var Presets = map[string]*Config{
	"default": preset(800, 600, nil),
	"mobile":  preset(400, 800, nil),
	"hd": preset(1920, 1080, func(c *Config) {
		c.Ratio = 2
	}),
	"dense": preset(800, 600, func(c *Config) {
		c.Plum.YoungThreshold = 60
		c.Plum.MaxSegmentLength = 8
	}),
	"sparse": preset(800, 600, func(c *Config) {
		c.Plum.YoungThreshold = 15
		c.Plum.YoungRate = 0.7
	}),
	"still": preset(800, 600, func(c *Config) {
		c.Plum.YoungRate = 0
		c.Plum.OldRate = 0
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StillParams stops every branch after its first segment.
func StillParams() plum.Params {
	return GetPreset("still").Plum
}
