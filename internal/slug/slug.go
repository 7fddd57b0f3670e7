// Package slug turns arbitrary titles and file names into URL-safe slugs.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into an ASCII base under NFD.
var transliterations = map[rune]string{
	'Æ': "AE", 'æ': "ae",
	'Œ': "OE", 'œ': "oe",
	'Ø': "O", 'ø': "o",
	'ß': "ss", 'ẞ': "SS",
	'Ð': "D", 'ð': "d",
	'Đ': "D", 'đ': "d",
	'Þ': "TH", 'þ': "th",
	'Ł': "L", 'ł': "l",
	'Ħ': "H", 'ħ': "h",
	'ı': "i",
	'Ŋ': "NG", 'ŋ': "ng",
}

// ascii returns an ASCII rendition of r, or "" if it has none.
func ascii(r rune) string {
	if r < unicode.MaxASCII {
		return string(r)
	}
	if s, ok := transliterations[r]; ok {
		return s
	}
	var b strings.Builder
	for _, d := range norm.NFD.String(string(r)) {
		switch {
		case unicode.Is(unicode.Mn, d):
		case d < unicode.MaxASCII:
			b.WriteRune(d)
		default:
			return ""
		}
	}
	return b.String()
}

// Make lowercases s, transliterates it to ASCII, and joins every run of
// characters other than letters, digits and '_' into a single '-'. Leading
// and trailing separators are dropped.
func Make(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	needDash := false
	for _, r := range s {
		t := ascii(r)
		if t == "" {
			t = "-"
		}
		for i := 0; i < len(t); i++ {
			c := t[i]
			switch {
			case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			case c >= 'A' && c <= 'Z':
				c += 'a' - 'A'
			default:
				needDash = out.Len() > 0
				continue
			}
			if needDash {
				out.WriteByte('-')
				needDash = false
			}
			out.WriteByte(c)
		}
	}
	return out.String()
}

// Undo replaces the dashes of a slug with spaces.
func Undo(s string) string {
	return strings.ReplaceAll(s, "-", " ")
}

// IsTemplate reports whether s likely contains template syntax: a '{'
// followed directly by '{' or '%'.
func IsTemplate(s string) bool {
	for {
		i := strings.IndexByte(s, '{')
		if i < 0 || i+1 >= len(s) {
			return false
		}
		if s[i+1] == '{' || s[i+1] == '%' {
			return true
		}
		s = s[i+1:]
	}
}
