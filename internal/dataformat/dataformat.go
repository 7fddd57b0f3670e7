// Package dataformat decodes TOML, JSON and YAML documents into values.
package dataformat

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8. Invalid
// bytes are never replaced.
var ErrInvalidUTF8 = ferrors.ContentError("content is not valid UTF-8").Build()

// Format identifies a serialization format.
type Format string

const (
	TOML Format = "toml"
	JSON Format = "json"
	YAML Format = "yaml"
)

// FromExt maps a file extension (with or without the dot) to a Format.
func FromExt(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		return TOML, true
	case "json":
		return JSON, true
	case "yaml", "yml":
		return YAML, true
	}
	return "", false
}

// Parse decodes data. Empty input decodes to an empty dict.
func Parse(f Format, data []byte) (value.Value, error) {
	if !utf8.Valid(data) {
		return value.Value{}, ErrInvalidUTF8
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return value.DictOf(nil), nil
	}

	var raw any
	switch f {
	case TOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return value.Value{}, fmt.Errorf("TOML deserialization failed: %w", err)
		}
		raw = doc
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return value.Value{}, fmt.Errorf("YAML deserialization failed: %w", err)
		}
	case JSON:
		v, err := value.ParseJSON(data)
		if err != nil {
			return value.Value{}, fmt.Errorf("JSON deserialization failed: %w", err)
		}
		return v, nil
	default:
		return value.Value{}, fmt.Errorf("unsupported data format %q", f)
	}

	v, err := value.FromAny(raw)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s deserialization failed: %w", strings.ToUpper(string(f)), err)
	}
	return v, nil
}

// ParseFile reads and decodes path.
func ParseFile(f Format, path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	return Parse(f, data)
}

// Copy decodes data and writes the result to sink.
func Copy(f Format, data []byte, sink value.Sink) error {
	v, err := Parse(f, data)
	if err != nil {
		return err
	}
	return sink.Write(v)
}

// CopyFile decodes path and writes the result to sink.
func CopyFile(f Format, path string, sink value.Sink) error {
	v, err := ParseFile(f, path)
	if err != nil {
		return err
	}
	return sink.Write(v)
}
