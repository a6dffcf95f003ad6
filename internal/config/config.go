// Package config loads facet's optional project configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unbound-force/facet/internal/catalog"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = ".facet.yaml"

// Config is the project configuration.
type Config struct {
	Annotate AnnotateConfig `yaml:"annotate"`
}

// AnnotateConfig configures report generation.
type AnnotateConfig struct {
	// OutputDir receives generated reports.
	OutputDir string `yaml:"output_dir"`

	// Maxima overrides the color scale maximum per metric id.
	// Metrics without an entry use built-in maxima.
	Maxima map[string]float64 `yaml:"maxima"`
}

// DefaultConfig returns the configuration used when no file is
// present.
func DefaultConfig() *Config {
	return &Config{
		Annotate: AnnotateConfig{
			OutputDir: "reports",
		},
	}
}

// Load reads the configuration at path. An empty path means
// DefaultPath; a missing file at either is not an error and yields
// DefaultConfig. Unknown keys, unknown metric ids, and non-positive
// maxima are rejected.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func unmarshalStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	cat := catalog.Default()
	for id, max := range c.Annotate.Maxima {
		if _, ok := cat.GroupOf(id); !ok {
			return fmt.Errorf("maxima: unknown metric %q", id)
		}
		if max <= 0 {
			return fmt.Errorf("maxima: %s must be positive, got %v", id, max)
		}
	}
	return nil
}
