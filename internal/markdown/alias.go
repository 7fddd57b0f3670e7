package markdown

import "strings"

// Alias rewrites link destinations of the form "@name/rest" using a table of
// URL prefixes. Unknown names are left alone.
type Alias struct {
	Base
	table map[string]string
}

func NewAlias(table map[string]string) *Alias {
	return &Alias{table: table}
}

func (a *Alias) Remap(s Stream) Stream {
	return StreamFunc(func() (Event, bool) {
		ev, ok := s.Next()
		if ok && ev.IsStart(TagLink) {
			ev.Tag.Dest = a.Rewrite(ev.Tag.Dest)
		}
		return ev, ok
	})
}

// Rewrite resolves a single destination.
func (a *Alias) Rewrite(dest string) string {
	if !strings.HasPrefix(dest, "@") {
		return dest
	}
	name, suffix, _ := strings.Cut(dest[1:], "/")
	prefix, ok := a.table[name]
	if !ok {
		return dest
	}
	if !strings.HasSuffix(prefix, "/") && suffix != "" && !strings.HasPrefix(suffix, "/") {
		return prefix + "/" + suffix
	}
	return prefix + suffix
}
