// Package loader decodes JSON and YAML schema documents into the
// map[string]any trees consumed by the validate and synth packages.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Decode decodes a JSON or YAML document. Input starting with '{' or '['
// is read as JSON (numbers kept as json.Number); anything else as YAML.
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if v, err := DecodeJSON(trimmed); err == nil {
			return v, nil
		}
	}
	return DecodeYAML(data)
}

// DecodeJSON decodes a single JSON value with go-json, preserving number
// precision.
func DecodeJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("loader: invalid JSON: %w", err)
	}
	return v, nil
}

// DecodeYAML decodes the first document of a YAML stream.
func DecodeYAML(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("loader: invalid YAML: %w", err)
	}
	return yamlNormalizeValue(node), nil
}

// ReadFile reads and decodes a document from disk.
func ReadFile(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadSchemaFile reads a document whose root must be an object.
func ReadSchemaFile(path string) (map[string]any, error) {
	v, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("loader: %s: root is %T, want object", path, v)
	}
	return m, nil
}

// Canonical round-trips v through JSON so that every number becomes a
// json.Number and every container a map[string]any or []any. The result
// shares nothing with v.
func Canonical(v any) (any, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("loader: cannot marshal value: %w", err)
	}
	return DecodeJSON(b)
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
