package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the syntax of a file from its extension. Unknown
// extensions are read as YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Decode parses data in the given format into v.
func Decode(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatJSON:
		// Comments and trailing commas are allowed.
		return json.Unmarshal(jsonc.ToJSON(data), v)
	default:
		return yaml.Unmarshal(data, v)
	}
}

// Load reads a configuration file into v, choosing the parser by
// extension.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	format := FormatOf(path)
	if err := Decode(format, data, v); err != nil {
		return fmt.Errorf("failed to parse %s from %s: %w", strings.ToUpper(string(format)), path, err)
	}
	return nil
}

// SaveYAML saves a struct to a YAML file.
func SaveYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
