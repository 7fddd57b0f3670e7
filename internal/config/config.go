// Package config loads site settings from config.toml.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"git.home.luguber.info/inful/mockingbird/internal/dataformat"
	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/urlpath"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// FileName is the settings file looked up in the input directory.
const FileName = "config.toml"

// SearchIndexMode selects the search index output.
type SearchIndexMode string

const (
	SearchIndexNone   SearchIndexMode = "none"
	SearchIndexJSON   SearchIndexMode = "json"
	SearchIndexSQLite SearchIndexMode = "sqlite"
)

// Settings is the decoded config.toml.
type Settings struct {
	// Root is the absolute base URL every generated URL is prefixed with.
	Root string `toml:"root"`
	// Aliases maps link prefixes to URLs. The empty alias is Root.
	Aliases map[string]string `toml:"aliases"`
	Build   BuildConfig       `toml:"build"`

	// Globals holds every top-level key, with root and aliases normalized.
	// Templates see it as G.
	Globals value.Dict `toml:"-"`
}

// BuildConfig tunes the build itself.
type BuildConfig struct {
	// Concurrency caps parallel item rendering. Zero means one worker per CPU.
	Concurrency        int             `toml:"concurrency"`
	SnippetLength      int             `toml:"snippet_length"`
	SearchIndex        SearchIndexMode `toml:"search_index"`
	StylesheetCompiler string          `toml:"stylesheet_compiler"`
}

// Default returns settings for a site without config.toml.
func Default() *Settings {
	s := &Settings{
		Build: BuildConfig{
			SnippetLength:      250,
			SearchIndex:        SearchIndexJSON,
			StylesheetCompiler: "sass",
		},
	}
	s.normalize(nil)
	return s
}

// Load reads settings from path. .env files next to it are loaded into the
// process environment first and ${VAR} references in the file are expanded.
// A missing file yields Default().
func Load(path string) (*Settings, error) {
	loadEnvFiles(filepath.Dir(path))

	// #nosec G304 -- path is the site's own config file.
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	s, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid config file").
			WithContext("path", path).
			Build()
	}
	return s, nil
}

// Parse decodes and validates TOML settings.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	s.Aliases = nil
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "TOML deserialization failed").Build()
	}

	doc, err := dataformat.Parse(dataformat.TOML, data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "TOML deserialization failed").Build()
	}
	globals, _ := doc.AsDict()
	s.normalize(globals)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) normalize(globals value.Dict) {
	s.Root = urlpath.MakeAbsolute(s.Root)
	if s.Aliases == nil {
		s.Aliases = make(map[string]string)
	}
	s.Aliases[""] = s.Root
	if mode, err := searchIndexModes.NormalizeWithError(string(s.Build.SearchIndex)); err == nil {
		s.Build.SearchIndex = mode
	}

	g := make(value.Dict, len(globals)+2)
	for k, v := range globals {
		g[k] = v
	}
	g["root"] = value.String(s.Root)
	aliases := make(value.Dict, len(s.Aliases))
	for k, v := range s.Aliases {
		aliases[k] = value.String(v)
	}
	g["aliases"] = value.DictOf(aliases)
	s.Globals = g
}

// SetGlobal adds a global unless the config file already defines it.
func (s *Settings) SetGlobal(key string, v value.Value) {
	if _, ok := s.Globals[key]; ok {
		return
	}
	s.Globals[key] = v
}
