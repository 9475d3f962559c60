package graph

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Engine defaults. Thresholds are policy, not magic constants, so every one
// of them is overridable through Config.
const (
	DefaultHubMultiplier = 3.0
	DefaultHubMinNodes   = 5
	DefaultRecordCap     = 15000
)

var validate = validator.New()

// Config holds the tunable knobs of the graph engine.
type Config struct {
	// HubMultiplier flags a node as a hub when its call count exceeds this
	// multiple of the mean call count across all nodes.
	HubMultiplier float64 `yaml:"hub_multiplier" validate:"gt=0"`
	// HubMinNodes disables hub detection below this graph size, where an
	// average is not meaningful.
	HubMinNodes int `yaml:"hub_min_nodes" validate:"gte=0"`
	// RecordCap truncates the input record set to its first N entries.
	RecordCap int `yaml:"record_cap" validate:"gt=0"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		HubMultiplier: DefaultHubMultiplier,
		HubMinNodes:   DefaultHubMinNodes,
		RecordCap:     DefaultRecordCap,
	}
}

// Validate checks the configuration. A malformed configuration is a caller
// defect and fails fast, unlike malformed data records.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &EngineError{Op: "Validate", Entity: "config", Cause: ErrInvalidConfig, Context: err.Error()}
	}
	return nil
}

// LoadConfig reads a YAML configuration file, applying defaults for any
// omitted field.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
