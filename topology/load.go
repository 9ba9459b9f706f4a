package topology

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

//go:embed definitions
var definitions embed.FS

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", configError("topology", "unsupported topology file %s, expected .yaml, .yml or .toml", path)
	}
}

// Load reads, parses and validates a topology file.
func Load(path string) (*Network, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile(%s) %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes a topology and validates it. Unknown fields are rejected so
// typos surface as configuration errors.
func Parse(data []byte, format Format) (*Network, error) {
	var n Network
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&n); err != nil {
			return nil, configError("topology", "decoding yaml: %v", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&n); err != nil {
			return nil, configError("topology", "decoding toml: %v", err)
		}
	default:
		return nil, configError("topology", "unknown format %q", format)
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// Builtin returns one of the topologies shipped with the module.
func Builtin(name string) (*Network, error) {
	for _, format := range []Format{FormatYAML, FormatTOML} {
		data, err := definitions.ReadFile(fmt.Sprintf("definitions/%s.%s", name, format))
		if err != nil {
			continue
		}
		return Parse(data, format)
	}
	return nil, configError("network", "unknown builtin topology %q, have %s", name,
		strings.Join(BuiltinNames(), ", "))
}

func BuiltinNames() []string {
	entries, err := definitions.ReadDir("definitions")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Resolve loads a topology from a file path when ref looks like one and
// falls back to the builtin definitions otherwise.
func Resolve(ref string) (*Network, error) {
	if strings.ContainsAny(ref, `/\`) || filepath.Ext(ref) != "" {
		return Load(ref)
	}
	return Builtin(ref)
}
