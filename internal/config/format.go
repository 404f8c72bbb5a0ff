package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCUE  Format = "cue"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// toJSON converts a document in any supported format to JSON.
func toJSON(data []byte, format Format, name string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatCUE:
		return cueToJSON(data, name)
	}

	var doc any
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		var table map[string]any
		if _, err := toml.Decode(string(data), &table); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		doc = table
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	out, err := json.Marshal(jsonCompatible(doc))
	if err != nil {
		return nil, fmt.Errorf("convert %s to JSON: %w", format, err)
	}
	return out, nil
}

// cueToJSON evaluates a CUE document. The result must be concrete.
func cueToJSON(data []byte, name string) ([]byte, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE config is not concrete: %w", err)
	}
	out, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("convert CUE to JSON: %w", err)
	}
	return out, nil
}

// jsonCompatible rewrites YAML mappings with non-string keys and TOML
// table arrays into the generic shapes encoding/json handles.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = jsonCompatible(elem)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = jsonCompatible(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = jsonCompatible(elem)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = jsonCompatible(elem)
		}
		return out
	default:
		return v
	}
}
