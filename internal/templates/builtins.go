package templates

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"git.home.luguber.info/inful/mockingbird/internal/slug"
	"git.home.luguber.info/inful/mockingbird/internal/urlpath"
)

// dateLayouts are tried in order when a date is given as a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

func builtinFuncs(rootURL string) template.FuncMap {
	return template.FuncMap{
		"join": func(parts ...string) string {
			return urlpath.Join(rootURL, parts...)
		},
		"now": func() int64 {
			return time.Now().Unix()
		},
		"deslug":  slug.Undo,
		"slugify": slug.Make,
		"date":    formatDate,
		"split": func(sep, s string) []string {
			return strings.Split(s, sep)
		},
		"get": func(m any, key string, def any) any {
			if d, ok := m.(map[string]any); ok {
				if v, ok := d[key]; ok && v != nil {
					return v
				}
			}
			return def
		},
	}
}

// formatDate formats v with a Go time layout. v may be a Unix timestamp or a
// date, time, or date-time string.
func formatDate(layout string, v any) (string, error) {
	switch x := v.(type) {
	case int:
		return time.Unix(int64(x), 0).UTC().Format(layout), nil
	case int64:
		return time.Unix(x, 0).UTC().Format(layout), nil
	case uint64:
		return time.Unix(int64(x), 0).UTC().Format(layout), nil
	case time.Time:
		return x.Format(layout), nil
	case string:
		if ts, err := strconv.ParseInt(x, 10, 64); err == nil {
			return time.Unix(ts, 0).UTC().Format(layout), nil
		}
		for _, l := range dateLayouts {
			if t, err := time.Parse(l, x); err == nil {
				return t.Format(layout), nil
			}
		}
		return "", fmt.Errorf("failed to parse %q as a date", x)
	}
	return "", fmt.Errorf("`date` must be applied to a string or integer, found %T", v)
}
