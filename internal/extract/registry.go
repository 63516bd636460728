package extract

import (
	"fmt"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/observability"
)

// Registry dispatches a page to the highest-priority strategy willing to
// handle it, falling through to the next one on failure.
type Registry struct {
	strategies []Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// DefaultRegistry wires the built-in strategies: site-specific ones first,
// the generic fallback last.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewLinkedInStrategy(),
		NewIndeedStrategy(),
		NewWTTJStrategy(),
		NewGenericStrategy(),
	)
}

// Register inserts a strategy keeping the list sorted by descending
// priority. Registration order breaks ties.
func (r *Registry) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority() > r.strategies[j].Priority()
	})
}

// Strategies returns the registered strategies in dispatch order.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Extract runs the cascade and returns the first successful outcome.
// A strategy that fails or panics never aborts the cascade; its errors
// are carried into the final outcome when everything fails.
func (r *Registry) Extract(pageURL string, doc *goquery.Document) Outcome {
	start := time.Now()
	var errs []string

	for _, s := range r.strategies {
		if !s.CanHandle(pageURL, doc) {
			continue
		}
		out := runStrategy(s, pageURL, doc)
		if out.Success {
			observability.IncExtraction(s.Name(), true)
			observability.ObserveExtractDuration(s.Name(), time.Since(start).Seconds())
			return out
		}
		for _, e := range out.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", s.Name(), e))
		}
	}

	observability.IncExtraction("none", false)
	observability.ObserveExtractDuration("none", time.Since(start).Seconds())
	return Failure("none", append([]string{"no strategy produced a usable result"}, errs...)...)
}

func runStrategy(s Strategy, pageURL string, doc *goquery.Document) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			observability.IncError(observability.ErrorExtraction, "extract")
			out = Failure(s.Name(), fmt.Sprintf("panic: %v", rec))
		}
	}()
	return s.Extract(pageURL, doc)
}
