package highlight

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeDiv(t *testing.T) {
	require.Equal(t,
		`<div class="code" style="display: flex;"><pre class="line-nums">1`+"\n"+`2</pre><pre class="code">x</pre></div>`,
		CodeDiv(2, "x"))
	require.Equal(t,
		`<div class="code" style="display: flex;"><pre class="line-nums"></pre><pre class="code"></pre></div>`,
		CodeDiv(0, ""))
}

func TestHTMLKnownLanguage(t *testing.T) {
	out, err := HTML("go", "package main\n")
	require.NoError(t, err)
	require.Contains(t, out, "package")
	require.Contains(t, out, `class="`)
	require.NotContains(t, out, "<pre")
}

func TestHTMLUnknownLanguageFallsBack(t *testing.T) {
	out, err := HTML("no-such-language", "a < b\n")
	require.NoError(t, err)
	require.Contains(t, out, "a &lt; b")
}

func TestWarmUpConcurrentWithUse(t *testing.T) {
	WarmUp()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := HTML("rust", "fn main() {}\n")
			require.NoError(t, err)
		}()
	}
	wg.Wait()
}
