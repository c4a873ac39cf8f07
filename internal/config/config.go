/*
PURPOSE:
  Defines the configuration structure and loading logic for Format Bench.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Configure input file, output directory and which reports to write.
  - Configure size buckets and the minimum correlation sample count.

  Implementation-discovered:
  - Needs to support YAML parsing, and TOML for users coming from other tools.
  - Paths like ~/bench/data.csv must work.
  - Sheets use odd units (MiB, minutes); unit tables need to be extendable.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/pipeline
  - Dependencies: gopkg.in/yaml.v3, github.com/pelletier/go-toml/v2,
    github.com/mitchellh/go-homedir

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files fall back to defaults silently.

IMPLEMENTATION RULES:
  - Config struct tags support yaml and toml.
  - Defaults should be sensible (all reports, 2 correlation samples).

USAGE:
  cfg, err := config.Load("format_bench.yaml")
  settings, err := cfg.Settings()

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/settings.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/ingest"
	"github.com/daryltucker/format-bench/internal/model"
)

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"format_bench.yaml", "format_bench.yml", "format_bench.toml"}

// SizeBucket is a named face-count upper bound (thousands of faces, exclusive).
// Zero means unbounded and is only allowed last.
type SizeBucket struct {
	Name          string `yaml:"name" toml:"name"`
	MaxFaceCountK int    `yaml:"max_face_count_k" toml:"max_face_count_k"`
}

// Units extends the built-in unit tables. Keys are suffixes, values the
// multiplier to MB (size) or ms (time).
type Units struct {
	Size map[string]float64 `yaml:"size" toml:"size"`
	Time map[string]float64 `yaml:"time" toml:"time"`
}

// Config represents the full configuration for Format Bench.
type Config struct {
	Input     string   `yaml:"input" toml:"input"`
	OutputDir string   `yaml:"output_dir" toml:"output_dir"`
	Renderers []string `yaml:"renderers" toml:"renderers"`
	// AllowDropped makes a run succeed even when records were dropped.
	AllowDropped          bool         `yaml:"allow_dropped" toml:"allow_dropped"`
	MinCorrelationSamples int          `yaml:"min_correlation_samples" toml:"min_correlation_samples"`
	SizeBuckets           []SizeBucket `yaml:"size_buckets" toml:"size_buckets"`
	// Directions overrides metric directionality: lower, higher or descriptive.
	Directions  map[string]string `yaml:"directions" toml:"directions"`
	Units       Units             `yaml:"units" toml:"units"`
	LogLevel    string            `yaml:"log_level" toml:"log_level"`
	LogFormat   string            `yaml:"log_format" toml:"log_format"`
	ReportTitle string            `yaml:"report_title" toml:"report_title"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	s := engine.DefaultSettings()
	buckets := make([]SizeBucket, len(s.Buckets))
	for i, b := range s.Buckets {
		buckets[i] = SizeBucket{Name: b.Name, MaxFaceCountK: b.MaxFaceCountK}
	}
	return &Config{
		OutputDir:             "results",
		MinCorrelationSamples: s.MinCorrelationSamples,
		SizeBuckets:           buckets,
		LogLevel:              "info",
		LogFormat:             "text",
		ReportTitle:           "3D Format Comparison",
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		path, err = homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", name, err)
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// ExpandPaths resolves a leading ~ in Input and OutputDir.
func (c *Config) ExpandPaths() error {
	var err error
	if c.Input, err = homedir.Expand(c.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if c.OutputDir, err = homedir.Expand(c.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}
	return nil
}

// Settings builds the aggregation settings and validates them.
func (c *Config) Settings() (engine.Settings, error) {
	s := engine.DefaultSettings()
	s.MinCorrelationSamples = c.MinCorrelationSamples
	if len(c.SizeBuckets) > 0 {
		s.Buckets = make([]engine.Bucket, len(c.SizeBuckets))
		for i, b := range c.SizeBuckets {
			s.Buckets[i] = engine.Bucket{Name: b.Name, MaxFaceCountK: b.MaxFaceCountK}
		}
	}
	for name, dir := range c.Directions {
		m := model.Metric(name)
		if !m.Known() {
			return s, fmt.Errorf("directions: unknown metric %q", name)
		}
		d, err := engine.ParseDirection(dir)
		if err != nil {
			return s, fmt.Errorf("directions: %s: %w", name, err)
		}
		s.Directions[m] = d
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// NormalizerUnits returns the built-in unit tables extended with Units.
func (c *Config) NormalizerUnits() ingest.Units {
	u := ingest.DefaultUnits()
	for k, v := range c.Units.Size {
		u.Size[k] = v
	}
	for k, v := range c.Units.Time {
		u.Time[k] = v
	}
	return u
}
