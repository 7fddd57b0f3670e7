// Package highlight renders source code to classed HTML.
//
// Lexer lookup tables are built once per process. WarmUp starts that work in
// the background so it can overlap with discovery.
package highlight

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Languages resolved eagerly by WarmUp.
var warmLanguages = []string{"go", "rust", "python", "javascript", "typescript", "bash", "toml", "yaml", "json", "html", "css"}

type registry struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
	lexers    sync.Map // string -> chroma.Lexer
}

var (
	once   sync.Once
	shared *registry
)

func get() *registry {
	once.Do(func() {
		r := &registry{
			formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true)),
			style:     styles.Fallback,
		}
		for _, name := range warmLanguages {
			r.lexer(name)
		}
		shared = r
	})
	return shared
}

// WarmUp initializes the shared tables in the background.
func WarmUp() {
	go get()
}

func (r *registry) lexer(lang string) chroma.Lexer {
	key := strings.ToLower(strings.TrimSpace(lang))
	if l, ok := r.lexers.Load(key); ok {
		return l.(chroma.Lexer)
	}
	var l chroma.Lexer
	if key != "" {
		l = lexers.Get(key)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	actual, _ := r.lexers.LoadOrStore(key, l)
	return actual.(chroma.Lexer)
}

// HTML returns code rendered as a sequence of classed spans, without an
// enclosing <pre>. Unknown languages are rendered as plain text.
func HTML(lang, code string) (string, error) {
	r := get()
	it, err := r.lexer(lang).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}
	var b strings.Builder
	if err := r.formatter.Format(&b, r.style, it); err != nil {
		return "", fmt.Errorf("format %s: %w", lang, err)
	}
	return b.String(), nil
}

// CodeDiv wraps highlighted html in a two column block: line numbers 1..lines
// on the left and the code on the right.
func CodeDiv(lines int, html string) string {
	var b strings.Builder
	b.WriteString(`<div class="code" style="display: flex;">`)
	b.WriteString(`<pre class="line-nums">`)
	for i := 1; i <= lines; i++ {
		b.WriteString(strconv.Itoa(i))
		if i < lines {
			b.WriteByte('\n')
		}
	}
	b.WriteString(`</pre>`)
	b.WriteString(`<pre class="code">`)
	b.WriteString(html)
	b.WriteString(`</pre></div>`)
	return b.String()
}
