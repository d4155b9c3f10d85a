package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/artplum/internal/config"
)

var (
	width      float64
	height     float64
	ratio      float64
	seed       int64
	maxTicks   int
	presetName string
	configFile string
	envFile    string
	logDir     string
	debug      bool
)

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.Float64Var(&width, "width", config.DefaultWidth, "surface width in logical units")
	f.Float64Var(&height, "height", config.DefaultHeight, "surface height in logical units")
	f.Float64Var(&ratio, "ratio", 0, "device pixel ratio (0 probes the display)")
	f.Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	f.StringVar(&presetName, "preset", "", "start from a named preset")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&envFile, "env", ".env", "dotenv file with ARTPLUM_* overrides")
	f.StringVar(&logDir, "log-dir", ".artplum/logs", "directory for debug logs")
	f.BoolVar(&debug, "debug", false, "write debug logs")
}

// resolveConfig layers the configuration sources: preset, then config file,
// then environment, then flags given on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	env, err := config.ReadEnv(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("ratio") {
		cfg.Ratio = ratio
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = maxTicks
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the configuration and starts logging. The returned func
// closes the log file.
func setup(cmd *cobra.Command) (*config.Config, func(), error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, func() {}, err
	}
	f := setupLogging(logDir, cfg.Debug)
	return cfg, func() {
		if f != nil {
			f.Close()
		}
	}, nil
}
