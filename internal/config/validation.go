package config

import "git.home.luguber.info/inful/mockingbird/internal/foundation"

var searchIndexModes = foundation.NewNormalizer(map[string]SearchIndexMode{
	"none":   SearchIndexNone,
	"json":   SearchIndexJSON,
	"sqlite": SearchIndexSQLite,
}, SearchIndexJSON)

var buildValidator = foundation.NewValidatorChain(
	foundation.Field(func(b BuildConfig) SearchIndexMode { return b.SearchIndex },
		foundation.OneOf("search_index", []SearchIndexMode{SearchIndexNone, SearchIndexJSON, SearchIndexSQLite})),
	foundation.Field(func(b BuildConfig) int { return b.Concurrency }, foundation.NonNegative("concurrency")),
	foundation.Field(func(b BuildConfig) int { return b.SnippetLength }, foundation.NonNegative("snippet_length")),
	foundation.Field(func(b BuildConfig) string { return b.StylesheetCompiler }, foundation.NotEmpty("stylesheet_compiler")),
)

// Validate checks the build settings and reports every invalid field at once.
func (s *Settings) Validate() error {
	return buildValidator.Validate(s.Build).ToError()
}
