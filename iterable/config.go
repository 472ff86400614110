package iterable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultName = "default"

// Config holds Iterable initialization parameters. It only exists during
// New; the constructed Iterable keeps the resolved values.
type Config struct {
	// Name labels the Iterable in emitted events.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Observer lists registered observability.Observer names, comma separated
	// ("noop", "slog", "slog,record").
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`

	// MaxBuffered caps pending snapshots. 0 means unbounded: a consumer that
	// never pulls lets the buffer grow without limit.
	MaxBuffered int `json:"max_buffered,omitempty" yaml:"max_buffered,omitempty"`
}

// DefaultConfig returns the defaults: name "default", the "noop" observer
// and an unbounded buffer.
func DefaultConfig() Config {
	return Config{
		Name:        defaultName,
		Observer:    "noop",
		MaxBuffered: 0,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.MaxBuffered > 0 {
		c.MaxBuffered = source.MaxBuffered
	}
}

// Validate reports configuration errors wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.MaxBuffered < 0 {
		return fmt.Errorf("%w: max_buffered must be >= 0, got %d", ErrInvalidConfig, c.MaxBuffered)
	}
	return nil
}

// LoadConfig reads a JSON or YAML config file (chosen by extension: .yaml
// and .yml are YAML, anything else JSON), merges it over DefaultConfig and
// validates the result.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
