package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a config file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the format from the file extension. Anything that is
// not .toml is read as YAML.
func FormatForPath(filePath string) Format {
	if strings.EqualFold(filepath.Ext(filePath), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadFileConfig loads and validates configuration from a YAML or TOML file.
func LoadFileConfig(filePath string) (*FileConfig, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
	}
	return ParseFileConfig(buf, FormatForPath(filePath))
}

// ParseFileConfig decodes buf on top of Default and validates the result.
func ParseFileConfig(buf []byte, format Format) (*FileConfig, error) {
	config := Default()
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(buf), config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(buf, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseConfiguration decodes a bare tunnel Configuration, as pushed by a
// server or stored in shared state.
func ParseConfiguration(buf []byte) (*Configuration, error) {
	var c Configuration
	if err := yaml.Unmarshal(buf, &c); err != nil {
		return nil, fmt.Errorf("failed to parse tunnel options: %w", err)
	}
	return &c, nil
}
