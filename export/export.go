// Package export renders raw configuration snapshots in interchange
// formats.
//
// The native text form stays the storage format; export exists for tools
// that want to consume a store's raw state as TOML, YAML, or JSON. Values
// export as the raw strings they are stored as; typed interpretation is
// the reader's business.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects an export encoding.
type Format string

const (
	// FormatTOML renders sections as TOML tables.
	FormatTOML Format = "toml"

	// FormatYAML renders sections as nested YAML mappings.
	FormatYAML Format = "yaml"

	// FormatJSON renders sections as nested JSON objects.
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", name)
	}
}

// Render encodes the snapshot in the given format. The output always ends
// with a newline.
func Render(f Format, snap map[string]map[string]string) ([]byte, error) {
	switch f {
	case FormatTOML:
		return TOML(snap)
	case FormatYAML:
		return YAML(snap)
	case FormatJSON:
		return JSON(snap)
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// TOML renders the snapshot as TOML, one table per section, keys sorted.
func TOML(snap map[string]map[string]string) ([]byte, error) {
	out, err := toml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding toml: %w", err)
	}
	return out, nil
}

// YAML renders the snapshot as YAML, one mapping per section, keys sorted.
func YAML(snap map[string]map[string]string) ([]byte, error) {
	out, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return out, nil
}

// JSON renders the snapshot as indented JSON, keys sorted.
func JSON(snap map[string]map[string]string) ([]byte, error) {
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(out, '\n'), nil
}
