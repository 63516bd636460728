package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name     string
	priority int
	handles  bool
	outcome  Outcome
	panics   bool
	calls    *[]string
}

func (f *fakeStrategy) Name() string      { return f.name }
func (f *fakeStrategy) Domains() []string { return nil }
func (f *fakeStrategy) Priority() int     { return f.priority }

func (f *fakeStrategy) CanHandle(string, *goquery.Document) bool { return f.handles }

func (f *fakeStrategy) Extract(pageURL string, _ *goquery.Document) Outcome {
	if f.calls != nil {
		*f.calls = append(*f.calls, f.name)
	}
	if f.panics {
		panic("selector blew up")
	}
	return f.outcome
}

func successOutcome(strategy string) Outcome {
	offer := newOffer("https://example.com/jobs/1")
	offer.Title = "Backend Engineer"
	offer.Description = strings.Repeat("Build and run distributed services. ", 5)
	return success(strategy, offer, 0.8)
}

func TestRegistryOrdersByPriority(t *testing.T) {
	r := NewRegistry(
		&fakeStrategy{name: "low", priority: 10},
		&fakeStrategy{name: "high", priority: 100},
		&fakeStrategy{name: "mid", priority: 50},
	)

	var names []string
	for _, s := range r.Strategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"high", "mid", "low"}, names)
}

func TestRegistryTieBreaksByRegistrationOrder(t *testing.T) {
	r := NewRegistry(
		&fakeStrategy{name: "first", priority: 50},
		&fakeStrategy{name: "second", priority: 50},
	)

	var names []string
	for _, s := range r.Strategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"first", "second"}, names)
}

func TestRegistryFirstSuccessWins(t *testing.T) {
	var calls []string
	r := NewRegistry(
		&fakeStrategy{name: "a", priority: 100, handles: true, outcome: Failure("a", "no title"), calls: &calls},
		&fakeStrategy{name: "b", priority: 50, handles: true, outcome: successOutcome("b"), calls: &calls},
		&fakeStrategy{name: "c", priority: 10, handles: true, outcome: successOutcome("c"), calls: &calls},
	)

	out := r.Extract("https://example.com/jobs/1", nil)

	require.True(t, out.Success)
	assert.Equal(t, "b", out.Strategy)
	assert.Equal(t, []string{"a", "b"}, calls, "lower-priority strategies must not run after a success")
}

func TestRegistrySkipsStrategiesThatCannotHandle(t *testing.T) {
	var calls []string
	r := NewRegistry(
		&fakeStrategy{name: "picky", priority: 100, handles: false, outcome: successOutcome("picky"), calls: &calls},
		&fakeStrategy{name: "fallback", priority: 0, handles: true, outcome: successOutcome("fallback"), calls: &calls},
	)

	out := r.Extract("https://example.com/jobs/1", nil)

	require.True(t, out.Success)
	assert.Equal(t, "fallback", out.Strategy)
	assert.Equal(t, []string{"fallback"}, calls)
}

func TestRegistryRecoversFromPanic(t *testing.T) {
	r := NewRegistry(
		&fakeStrategy{name: "explosive", priority: 100, handles: true, panics: true},
		&fakeStrategy{name: "fallback", priority: 0, handles: true, outcome: successOutcome("fallback")},
	)

	out := r.Extract("https://example.com/jobs/1", nil)

	require.True(t, out.Success)
	assert.Equal(t, "fallback", out.Strategy)
}

func TestRegistryCanonicalFailure(t *testing.T) {
	r := NewRegistry(
		&fakeStrategy{name: "a", priority: 100, handles: true, outcome: Failure("a", "no title")},
		&fakeStrategy{name: "b", priority: 50, handles: true, panics: true},
	)

	out := r.Extract("https://example.com/jobs/1", nil)

	assert.False(t, out.Success)
	assert.Nil(t, out.Offer)
	assert.Zero(t, out.Confidence)
	assert.Equal(t, "none", out.Strategy)
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, "no strategy produced a usable result", out.Errors[0])
	assert.Contains(t, out.Errors, "a: no title")
	assert.Contains(t, out.Errors, "b: panic: selector blew up")
}

func TestRegistryNoStrategies(t *testing.T) {
	out := NewRegistry().Extract("https://example.com/jobs/1", nil)

	assert.False(t, out.Success)
	assert.Equal(t, "none", out.Strategy)
}

func TestDefaultRegistryOrder(t *testing.T) {
	var names []string
	for _, s := range DefaultRegistry().Strategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"linkedin", "indeed", "wttj", "generic"}, names)
}
