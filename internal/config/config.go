// Package config loads the optional YAML configuration file consumed by the
// CLI. Flags always win over file values; the file only supplies defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the avrogen.yaml layout.
type Config struct {
	// Namespace qualifies generated named types.
	Namespace string `yaml:"namespace"`

	// TypeName selects the component schema (OpenAPI) or names the root
	// record (JSON samples).
	TypeName string `yaml:"typeName"`

	// Unified switches to single-document output with name references.
	Unified bool `yaml:"unified"`

	// Output is the default output path.
	Output string `yaml:"output"`

	// LogLevel sets the CLI diagnostic verbosity.
	LogLevel string `yaml:"logLevel"`
}

// Load reads and decodes a config file. A missing path is an error; callers
// decide whether the file was optional before calling.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
