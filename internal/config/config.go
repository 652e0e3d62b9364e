// Package config loads the crashstats command configuration from defaults,
// an optional YAML file and CRASHSTATS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/nao1215/crashstats"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CRASHSTATS_"

// DefaultDataPath is the dataset file name used when none is configured.
const DefaultDataPath = "Crash Statistics Victoria.csv"

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config is the command configuration.
type Config struct {
	DataPath   string   `yaml:"data_path" env:"DATA_PATH"`
	YearMin    int      `yaml:"year_min" env:"YEAR_MIN"`
	YearMax    int      `yaml:"year_max" env:"YEAR_MAX"`
	Categories []string `yaml:"categories" env:"CATEGORIES"`
	Log        Log      `yaml:"log" envPrefix:"LOG_"`
}

// Log configures the zap logger.
type Log struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format string `yaml:"format" env:"FORMAT"`
	// File receives log output when set. The dashboard logs only here.
	File string `yaml:"file" env:"FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataPath:   DefaultDataPath,
		YearMin:    crashstats.DefaultYearMin,
		YearMax:    crashstats.DefaultYearMax,
		Categories: append([]string(nil), crashstats.DefaultCategories...),
		Log: Log{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataPath) == "" {
		errs = append(errs, errors.New("data_path cannot be empty"))
	}
	if c.YearMin > c.YearMax {
		errs = append(errs, fmt.Errorf("year_min %d is after year_max %d", c.YearMin, c.YearMax))
	}
	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("categories cannot be empty"))
	}
	switch c.Log.Format {
	case FormatJSON, FormatConsole, "":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Years lists the selectable years, ascending.
func (c Config) Years() []int {
	years := make([]int, 0, c.YearMax-c.YearMin+1)
	for y := c.YearMin; y <= c.YearMax; y++ {
		years = append(years, y)
	}
	return years
}
