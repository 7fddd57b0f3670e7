// Package urlpath joins and normalizes site URLs. A URL is either absolute
// (it has a scheme or starts with '/') or relative.
package urlpath

import (
	"path/filepath"
	"strings"
)

// Scheme returns the scheme of u, if any. A ':' only starts a scheme when it
// comes before any '?' or '/' and is not preceded by a '#'.
func Scheme(u string) (string, bool) {
	i := strings.IndexAny(u, ":?/")
	if i <= 0 || u[i] != ':' {
		return "", false
	}
	if strings.IndexByte(u[:i], '#') >= 0 {
		return "", false
	}
	return u[:i], true
}

// IsAbsolute reports whether u starts with '/' or has a scheme.
func IsAbsolute(u string) bool {
	if strings.HasPrefix(u, "/") {
		return true
	}
	_, ok := Scheme(u)
	return ok
}

// Append adds next to base. A next with a scheme replaces base entirely;
// otherwise exactly one '/' separates the two.
func Append(base, next string) string {
	if _, ok := Scheme(next); ok {
		return next
	}
	switch b, n := strings.HasSuffix(base, "/"), strings.HasPrefix(next, "/"); {
	case b && n:
		return base + next[1:]
	case b || n:
		return base + next
	default:
		return base + "/" + next
	}
}

// Join appends every part to base in order.
func Join(base string, parts ...string) string {
	for _, p := range parts {
		base = Append(base, p)
	}
	return base
}

// Prepend puts prefix in front of u unless u already has a scheme.
func Prepend(u, prefix string) string {
	if _, ok := Scheme(u); ok {
		return u
	}
	return Append(prefix, u)
}

// MakeAbsolute prefixes u with '/' unless it has a scheme.
func MakeAbsolute(u string) string { return Prepend(u, "/") }

// MakeRelative strips the scheme and any leading '/' from u.
func MakeRelative(u string) string {
	if s, ok := Scheme(u); ok {
		u = u[len(s)+1:]
	}
	return strings.TrimLeft(u, "/")
}

// FromPath converts a file system path to a URL path, resolving '.' and '..'
// lexically. A '..' never climbs above the start of the path.
func FromPath(p string) string {
	p = filepath.ToSlash(p)
	rooted := strings.HasPrefix(p, "/")
	var parts []string
	for _, c := range strings.Split(p, "/") {
		switch c {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, c)
		}
	}
	out := strings.Join(parts, "/")
	if rooted {
		return "/" + out
	}
	return out
}
