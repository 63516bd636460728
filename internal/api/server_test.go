package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravshanbekov/joblens/internal/core"
	"github.com/ravshanbekov/joblens/internal/extract"
	"github.com/ravshanbekov/joblens/internal/observability"
	"github.com/ravshanbekov/joblens/internal/store"
)

type fetchFunc func(ctx context.Context, rawURL string) (*goquery.Document, int, error)

func (f fetchFunc) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, int, error) {
	return f(ctx, rawURL)
}

const jobPostingPage = `<html><head><title>TechCorp</title>
<script type="application/ld+json">
{"@type": "JobPosting", "title": "Backend Engineer Go",
 "hiringOrganization": {"name": "TechCorp"},
 "description": "<p>On construit la plateforme data.</p>",
 "employmentType": "FULL_TIME"}
</script></head><body></body></html>`

func newTestServer(t *testing.T, fetch fetchFunc) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.NewStoreFromDB(db)
	captures := core.NewCaptureService(fetch, extract.DefaultRegistry(), st)
	return NewServer(st, captures, fetch), mock
}

func doRequest(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestExtractEndpointWithInlineHTML(t *testing.T) {
	s, mock := newTestServer(t, nil)

	mock.ExpectQuery("INSERT INTO captures").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	rec := doRequest(t, s, http.MethodPost, "/extract", PageRequest{
		URL:  "https://jobs.example.com/offre/backend-golang",
		HTML: jobPostingPage,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result core.CaptureResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Skipped)
	assert.True(t, result.Classifier.JobPage)
	require.NotNil(t, result.Outcome)
	assert.True(t, result.Outcome.Success)
	assert.Equal(t, "Backend Engineer Go", result.Outcome.Offer.Title)
	assert.Equal(t, 11, result.CaptureID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractEndpointValidation(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/extract", PageRequest{HTML: "<html></html>"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader([]byte("{not json")))
	raw := httptest.NewRecorder()
	s.Router().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestExtractEndpointSkipsNonJobPage(t *testing.T) {
	s, mock := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/extract", PageRequest{
		URL:  "https://acme.example.com/about",
		HTML: `<html><head><title>About</title></head><body><p>Our team.</p></body></html>`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result core.CaptureResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Skipped)
	assert.Nil(t, result.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractEndpointFetchesWhenHTMLOmitted(t *testing.T) {
	requested := ""
	s, mock := newTestServer(t, func(ctx context.Context, rawURL string) (*goquery.Document, int, error) {
		requested = rawURL
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(jobPostingPage)))
		return doc, 200, err
	})

	mock.ExpectQuery("INSERT INTO captures").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	rec := doRequest(t, s, http.MethodPost, "/extract", PageRequest{
		URL: "https://jobs.example.com/offre/backend-golang",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://jobs.example.com/offre/backend-golang", requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractEndpointReportsFetchFailure(t *testing.T) {
	s, _ := newTestServer(t, func(ctx context.Context, rawURL string) (*goquery.Document, int, error) {
		return nil, 0, errors.New("connection refused")
	})

	rec := doRequest(t, s, http.MethodPost, "/extract", PageRequest{
		URL: "https://jobs.example.com/offre/1",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch page")
}

func TestClassifyEndpoint(t *testing.T) {
	s, _ := newTestServer(t, func(ctx context.Context, rawURL string) (*goquery.Document, int, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(`<html><head><title>Feed</title></head><body></body></html>`)))
		return doc, 200, err
	})

	rec := doRequest(t, s, http.MethodPost, "/classify", PageRequest{
		URL:  "https://jobs.example.com/offre/backend",
		HTML: jobPostingPage,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var decision struct {
		JobPage bool   `json:"job_page"`
		Reason  string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.True(t, decision.JobPage)
	assert.Equal(t, "heuristic_score", decision.Reason)

	// Without inline HTML the page is fetched first; a known board URL
	// is accepted regardless of what comes back.
	rec = doRequest(t, s, http.MethodPost, "/classify", PageRequest{
		URL: "https://www.linkedin.com/jobs/view/3947552841",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.True(t, decision.JobPage)
	assert.Equal(t, "known_board", decision.Reason)
}

func TestListCapturesEndpoint(t *testing.T) {
	s, mock := newTestServer(t, nil)

	capturedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	columns := []string{"id", "url", "source_domain", "title", "company", "location", "remote_type", "description", "contract_type", "experience", "salary_min", "salary_max", "salary_currency", "salary_period", "skills", "strategy", "confidence", "published_at", "captured_at", "created_at"}

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, url, source_domain").
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "https://jobs.example.com/offre/1", "jobs.example.com", "Dev", "", "", "unknown", "Une description.", "", "", nil, nil, nil, nil, []byte(`[]`), "generic", 0.5, nil, capturedAt, capturedAt))

	rec := doRequest(t, s, http.MethodGet, "/captures?limit=5&offset=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Items  []store.Capture `json:"items"`
		Limit  int             `json:"limit"`
		Offset int             `json:"offset"`
		Total  int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 5, payload.Limit)
	assert.Equal(t, 10, payload.Offset)
	assert.Equal(t, 1, payload.Total)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Dev", payload.Items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsAndHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot observability.StatsSnapshot
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))

	rec = doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
