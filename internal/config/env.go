package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment keys read by ApplyEnv.
const (
	EnvSeed   = "ARTPLUM_SEED"
	EnvWidth  = "ARTPLUM_WIDTH"
	EnvHeight = "ARTPLUM_HEIGHT"
	EnvRatio  = "ARTPLUM_RATIO"
	EnvTheme  = "ARTPLUM_THEME"
	EnvDebug  = "ARTPLUM_DEBUG"
)

// ReadEnv merges the dotenv file at path (if it exists) with the process
// environment. Process variables win, as with godotenv.Load.
func ReadEnv(path string) (map[string]string, error) {
	env := map[string]string{}
	if path != "" {
		file, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		for k, v := range file {
			env[k] = v
		}
	}
	for _, key := range []string{EnvSeed, EnvWidth, EnvHeight, EnvRatio, EnvTheme, EnvDebug} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides cfg with the ARTPLUM_* values in env.
func (c *Config) ApplyEnv(env map[string]string) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{EnvWidth, &c.Width},
		{EnvHeight, &c.Height},
		{EnvRatio, &c.Ratio},
	}
	for _, f := range floats {
		v, ok := env[f.key]
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, f.key, v)
		}
		*f.dst = parsed
	}

	if v := env[EnvSeed]; v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvSeed, v)
		}
		c.Seed = seed
	}
	if v := env[EnvTheme]; v != "" {
		c.Theme = v
	}
	if v := env[EnvDebug]; v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvDebug, v)
		}
		c.Debug = debug
	}
	return nil
}
