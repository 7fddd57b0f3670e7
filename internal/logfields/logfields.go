package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyCollection = "collection"
	KeyKind       = "kind"
	KeyTemplate   = "template"
	KeyCount      = "count"
	KeyEntries    = "entries"
	KeyLanguage   = "language"
	KeyTrigger    = "trigger"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Collection(name string) slog.Attr { return slog.String(KeyCollection, name) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Entries(n int) slog.Attr          { return slog.Int(KeyEntries, n) }
func Language(l string) slog.Attr      { return slog.String(KeyLanguage, l) }
func Trigger(t string) slog.Attr       { return slog.String(KeyTrigger, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
