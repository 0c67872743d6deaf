package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"github.com/philipparndt/meshsimplify/pkg/simplify"
)

// DefaultFile is looked up in the working directory when no config file is given
const DefaultFile = "meshsimplify.json"

// Output formats
const (
	FormatBinary = "binary"
	FormatASCII  = "ascii"
)

// Config holds the simplification and output settings.
type Config struct {
	// Simplification
	Quality        float64 `json:"quality"`
	MaxIterations  int     `json:"max_iterations"`
	Aggressiveness float64 `json:"aggressiveness"`

	// Output
	OutputFormat string `json:"output_format"`
	OutputSuffix string `json:"output_suffix"`

	// Watch mode
	WatchDebounceMS int `json:"watch_debounce_ms"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting alone; QualitySet distinguishes an
// explicit --quality 0 from an unset flag.
type Flags struct {
	Quality        float64
	QualitySet     bool
	MaxIterations  int
	Aggressiveness float64
	ASCII          bool
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Quality:         simplify.DefaultQuality,
		MaxIterations:   simplify.DefaultMaxIterationCount,
		Aggressiveness:  simplify.DefaultAggressiveness,
		OutputFormat:    FormatBinary,
		OutputSuffix:    "_simplified",
		WatchDebounceMS: 500,
	}
}

// Load reads a JSON config file. Fields not set in the file keep their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Discover loads path when given, else DefaultFile from the working
// directory when it exists, else the defaults
func Discover(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}

	cfg, err := Load(DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Resolve applies CLI flags and replaces invalid values with defaults.
// CLI flags take priority when non-zero.
func (c *Config) Resolve(flags Flags) {
	if flags.QualitySet {
		c.Quality = flags.Quality
	}
	if flags.MaxIterations > 0 {
		c.MaxIterations = flags.MaxIterations
	}
	if flags.Aggressiveness > 0 {
		c.Aggressiveness = flags.Aggressiveness
	}
	if flags.ASCII {
		c.OutputFormat = FormatASCII
	}

	defaults := Default()
	if math.IsNaN(c.Quality) {
		c.Quality = defaults.Quality
	}
	c.Quality = math.Max(0, math.Min(1, c.Quality))
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaults.MaxIterations
	}
	if c.Aggressiveness <= 0 {
		c.Aggressiveness = defaults.Aggressiveness
	}

	c.OutputFormat = strings.ToLower(c.OutputFormat)
	if c.OutputFormat != FormatASCII {
		c.OutputFormat = FormatBinary
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = defaults.OutputSuffix
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = defaults.WatchDebounceMS
	}
}

// Options converts the settings into simplifier options
func (c Config) Options() simplify.Options {
	return simplify.Options{
		Quality:           c.Quality,
		MaxIterationCount: c.MaxIterations,
		Aggressiveness:    c.Aggressiveness,
	}
}

// ASCII reports whether output should be written as ASCII STL
func (c Config) ASCII() bool {
	return c.OutputFormat == FormatASCII
}

// WatchDebounce returns the watch debounce interval
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}
