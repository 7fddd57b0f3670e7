package markdown

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

type recordingStage struct {
	Base
	name string
	log  *[]string
	err  error
}

func (r *recordingStage) Preprocess(src string) (string, error) {
	*r.log = append(*r.log, "pre:"+r.name)
	return src + r.name, nil
}

func (r *recordingStage) Remap(s Stream) Stream {
	*r.log = append(*r.log, "remap:"+r.name)
	return s
}

func (r *recordingStage) Finalize() error {
	*r.log = append(*r.log, "final:"+r.name)
	return r.err
}

func TestPipeline_Ordering(t *testing.T) {
	var log []string
	p := New(
		&recordingStage{name: "a", log: &log},
		&recordingStage{name: "b", log: &log},
	).Use(&recordingStage{name: "c", log: &log})

	out, err := p.Run("x")
	require.NoError(t, err)
	require.Equal(t, "xcba", out)
	require.Equal(t, []string{
		"pre:c", "pre:b", "pre:a",
		"remap:c", "remap:b", "remap:a",
		"final:a", "final:b", "final:c",
	}, log)
}

func TestPipeline_FinalizeErrorIsWrapped(t *testing.T) {
	var log []string
	cause := errors.New("sink full")
	p := New(
		&recordingStage{name: "a", log: &log, err: cause},
		&recordingStage{name: "b", log: &log},
	)

	_, err := p.Run("x")
	require.Error(t, err)
	require.ErrorIs(t, err, cause)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "markdown plugin failed", classified.Message())
	require.NotContains(t, log, "final:b")
}

func TestPipeline_InnerStagesSeeEventsFirst(t *testing.T) {
	var content value.Collector
	// The renderer is declared first so it wraps everything else; the anchor
	// stage depends on ids assigned by the auto heading stage declared after it.
	p := New(NewRenderer(&content), NewHeadingAnchor(), NewAutoHeading())

	_, err := p.Run("# Intro\n\n# Intro\n")
	require.NoError(t, err)
	require.Equal(t,
		`<h1 id="intro"><a class="anchor" title="anchor" href="#intro"></a>Intro</h1>`+"\n"+
			`<h1 id="intro-1"><a class="anchor" title="anchor" href="#intro-1"></a>Intro</h1>`+"\n",
		mustString(t, content.Value))
}

func mustString(t *testing.T, v value.Value) string {
	t.Helper()
	s, ok := v.AsString()
	require.True(t, ok, "expected string, got %s", v.Kind())
	return s
}
