package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched          uint64            `json:"pages_fetched"`
	ExtractionsTotal      uint64            `json:"extractions_total"`
	ExtractionsFailed     uint64            `json:"extractions_failed"`
	CapturesSaved         uint64            `json:"captures_saved"`
	ErrorsTotal           uint64            `json:"errors_total"`
	ExtractSecondsAvg     float64           `json:"extract_seconds_avg"`
	ExtractionsByStrategy map[string]uint64 `json:"extractions_by_strategy,omitempty"`
	ClassifierDecisions   map[string]uint64 `json:"classifier_decisions,omitempty"`
	ErrorsByType          map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent     map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched      uint64
	extractionsTotal  uint64
	extractionsFailed uint64
	capturesSaved     uint64
	errorsTotal       uint64

	extractCount uint64
	extractNanos uint64

	statsMu               sync.Mutex
	extractionsByStrategy = map[string]uint64{}
	classifierDecisions   = map[string]uint64{}
	errorsByType          = map[string]uint64{}
	errorsByComponent     = map[string]uint64{}
)

func IncPagesFetched(_ string) {
	atomic.AddUint64(&pagesFetched, 1)
}

// IncExtraction records one registry dispatch attributed to the strategy
// that produced the final outcome.
func IncExtraction(strategy string, success bool) {
	if strategy == "" {
		strategy = "unknown"
	}
	atomic.AddUint64(&extractionsTotal, 1)
	if !success {
		atomic.AddUint64(&extractionsFailed, 1)
	}
	statsMu.Lock()
	extractionsByStrategy[strategy]++
	statsMu.Unlock()
}

func IncClassifierDecision(result string) {
	if result == "" {
		result = "unknown"
	}
	statsMu.Lock()
	classifierDecisions[result]++
	statsMu.Unlock()
}

func IncCaptureSaved(_ string) {
	atomic.AddUint64(&capturesSaved, 1)
}

func ObserveExtractDuration(_ string, seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&extractCount, 1)
	atomic.AddUint64(&extractNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	strategyCopy := copyMap(extractionsByStrategy)
	decisionsCopy := copyMap(classifierDecisions)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&extractCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&extractNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		PagesFetched:          atomic.LoadUint64(&pagesFetched),
		ExtractionsTotal:      atomic.LoadUint64(&extractionsTotal),
		ExtractionsFailed:     atomic.LoadUint64(&extractionsFailed),
		CapturesSaved:         atomic.LoadUint64(&capturesSaved),
		ErrorsTotal:           atomic.LoadUint64(&errorsTotal),
		ExtractSecondsAvg:     avg,
		ExtractionsByStrategy: strategyCopy,
		ClassifierDecisions:   decisionsCopy,
		ErrorsByType:          errorsTypeCopy,
		ErrorsByComponent:     errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
