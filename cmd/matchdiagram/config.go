package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zentner-kyle/matchdiagram/pkg/evaluator"
)

// Config is the CLI's YAML-backed defaults, in the shape of
// theRebelliousNerd-codenerd's Config structs (SPEC_FULL §8): a flat set of
// fields with DefaultConfig supplying the zero-value fallbacks, loaded with
// a plain yaml.Unmarshal rather than a schema-validating loader, since
// there's only a handful of scalar fields here.
type Config struct {
	MaxDepth   int    `yaml:"max_depth"`
	LogLevel   string `yaml:"log_level"`
	SampleFile string `yaml:"sample_file"`
}

// DefaultConfig returns the CLI's built-in defaults, overridden by whatever
// a loaded config file sets explicitly.
func DefaultConfig() Config {
	return Config{
		MaxDepth: evaluator.DefaultMaxDepth,
		LogLevel: "info",
	}
}

// LoadConfig reads path as YAML over DefaultConfig's defaults. A missing
// path is not an error: the CLI runs fine on defaults alone.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("matchdiagram: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("matchdiagram: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
