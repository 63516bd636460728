package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ravshanbekov/joblens/internal/httpx"
)

const (
	ErrorNetwork    = "network"
	ErrorParsing    = "parsing"
	ErrorExtraction = "extraction"
	ErrorRateLimit  = "rate_limit"
	ErrorStore      = "store"
	ErrorUnknown    = "unknown"
)

// ClassifyFetchError buckets errors coming out of the fetch layer.
// Anything that is not explicit throttling counts as a network failure.
func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorNetwork
	}
	return ErrorNetwork
}

// ClassifyExtractError buckets errors from the fetch-and-parse path,
// separating malformed payloads from transport failures.
func ClassifyExtractError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "parse document") ||
		strings.Contains(msg, "unexpected content type") ||
		strings.Contains(msg, "unmarshal") ||
		strings.Contains(msg, "invalid character") {
		return ErrorParsing
	}
	return ClassifyFetchError(err)
}
