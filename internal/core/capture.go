package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/content"
	"github.com/ravshanbekov/joblens/internal/extract"
	"github.com/ravshanbekov/joblens/internal/observability"
	"github.com/ravshanbekov/joblens/internal/store"
	"github.com/ravshanbekov/joblens/internal/urlutil"
)

// Fetcher is the page source the capture flow pulls documents from.
type Fetcher interface {
	FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, int, error)
}

// ErrNotFetchable rejects URLs the pipeline refuses to request at all:
// non-HTTP schemes, hostless URLs, static assets.
var ErrNotFetchable = errors.New("url is not fetchable")

// CaptureService runs the capture pipeline: fetch the page, decide
// whether it is a job posting, extract the offer, persist it.
type CaptureService struct {
	fetcher  Fetcher
	registry *extract.Registry
	store    *store.Store
}

func NewCaptureService(fetcher Fetcher, registry *extract.Registry, st *store.Store) *CaptureService {
	return &CaptureService{
		fetcher:  fetcher,
		registry: registry,
		store:    st,
	}
}

// CaptureResult reports one pipeline run. Skipped marks pages the
// classifier rejected; those carry no extraction outcome.
type CaptureResult struct {
	Classifier content.Decision `json:"classifier"`
	Outcome    *extract.Outcome `json:"outcome,omitempty"`
	CaptureID  int              `json:"capture_id,omitempty"`
	Skipped    bool             `json:"skipped"`
}

// CaptureURL fetches the page and runs the rest of the pipeline on it.
// The URL is normalized first so recaptures of the same posting, with or
// without tracking params, land on the same stored row.
func (s *CaptureService) CaptureURL(ctx context.Context, rawURL string) (CaptureResult, error) {
	if !urlutil.IsFetchable(rawURL) {
		return CaptureResult{}, ErrNotFetchable
	}
	pageURL, host, err := urlutil.Normalize(rawURL)
	if err != nil {
		return CaptureResult{}, ErrNotFetchable
	}

	doc, _, err := s.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		observability.IncError(observability.ClassifyExtractError(err), "fetch")
		return CaptureResult{}, err
	}
	observability.IncPagesFetched(host)

	return s.CaptureDocument(ctx, pageURL, doc)
}

// CaptureDocument runs classification, extraction and persistence on an
// already fetched page.
func (s *CaptureService) CaptureDocument(ctx context.Context, rawURL string, doc *goquery.Document) (CaptureResult, error) {
	decision := content.Classify(rawURL, doc)
	if !decision.JobPage {
		slog.Info("page rejected by classifier",
			"url", rawURL,
			"reason", decision.Reason,
			"score", decision.Score)
		return CaptureResult{Classifier: decision, Skipped: true}, nil
	}

	outcome := s.registry.Extract(rawURL, doc)
	result := CaptureResult{Classifier: decision, Outcome: &outcome}
	if !outcome.Success {
		slog.Warn("extraction produced no offer",
			"url", rawURL,
			"errors", outcome.Errors)
		return result, nil
	}

	id, err := s.store.SaveCapture(ctx, captureFromOutcome(outcome))
	if err != nil {
		observability.IncError(observability.ErrorStore, "store")
		return result, fmt.Errorf("save capture: %w", err)
	}
	observability.IncCaptureSaved(outcome.Offer.SourceDomain)
	result.CaptureID = id

	slog.Info("capture saved",
		"url", rawURL,
		"strategy", outcome.Strategy,
		"confidence", outcome.Confidence,
		"capture_id", id)

	return result, nil
}

func captureFromOutcome(out extract.Outcome) store.Capture {
	offer := out.Offer
	c := store.Capture{
		URL:          offer.SourceURL,
		SourceDomain: offer.SourceDomain,
		Title:        offer.Title,
		Company:      offer.Company,
		Location:     offer.Location,
		RemoteType:   offer.RemoteType,
		Description:  offer.Description,
		ContractType: offer.ContractType,
		Experience:   offer.Experience,
		Skills:       offer.Skills,
		Strategy:     out.Strategy,
		Confidence:   out.Confidence,
		PublishedAt:  offer.PublishedAt,
		CapturedAt:   offer.CapturedAt,
	}
	if offer.Salary != nil {
		if offer.Salary.Min > 0 {
			v := offer.Salary.Min
			c.SalaryMin = &v
		}
		if offer.Salary.Max > 0 {
			v := offer.Salary.Max
			c.SalaryMax = &v
		}
		c.SalaryCurrency = offer.Salary.Currency
		c.SalaryPeriod = offer.Salary.Period
	}
	return c
}
