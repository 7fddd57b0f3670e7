package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	renderResults  map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	items          int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stageDurations: map[string]int{}, renderResults: map[string]map[ResultLabel]int{}, buildOutcomes: map[BuildOutcomeLabel]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildDurations++
}
func (t *testRecorder) IncRenderResult(kind string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.renderResults[kind]
	if !ok {
		m = map[ResultLabel]int{}
		t.renderResults[kind] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[outcome]++
}
func (t *testRecorder) SetItemsDiscovered(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = n
}

func TestOrNoop(t *testing.T) {
	require.Equal(t, NoopRecorder{}, OrNoop(nil))

	rec := newTestRecorder()
	r := OrNoop(rec)
	r.IncRenderResult("item", ResultSuccess)
	r.IncRenderResult("item", ResultSuccess)
	r.SetItemsDiscovered(4)
	require.Equal(t, 2, rec.renderResults["item"][ResultSuccess])
	require.Equal(t, 4, rec.items)
}
