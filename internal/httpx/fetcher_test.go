package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var flakyHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "User-agent: *")
		fmt.Fprintln(w, "Disallow: /private")
	})
	mux.HandleFunc("/job", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Backend Engineer</title></head><body><h1>Backend Engineer</h1></body></html>`)
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok": true}`)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&flakyHits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><p>recovered</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &flakyHits
}

func testFetcher(t *testing.T, srvURL string) *Fetcher {
	t.Helper()
	f := NewFetcher("")
	u, err := url.Parse(srvURL)
	require.NoError(t, err)
	f.SetHostLimit(u.Hostname(), time.Millisecond, 100)
	return f
}

func TestFetcherFetchDocument(t *testing.T) {
	srv, _ := newJobServer(t)
	f := testFetcher(t, srv.URL)

	doc, status, err := f.FetchDocument(context.Background(), srv.URL+"/job")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Backend Engineer", doc.Find("h1").Text())
}

func TestFetcherRejectsNonHTML(t *testing.T) {
	srv, _ := newJobServer(t)
	f := testFetcher(t, srv.URL)

	_, status, err := f.FetchDocument(context.Background(), srv.URL+"/data.json")
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, err.Error(), "unexpected content type")
}

func TestFetcherReportsStatus(t *testing.T) {
	srv, _ := newJobServer(t)
	f := testFetcher(t, srv.URL)

	_, status, err := f.FetchBytes(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestFetcherRetriesThrottling(t *testing.T) {
	srv, hits := newJobServer(t)
	f := testFetcher(t, srv.URL)

	body, status, err := f.FetchBytes(context.Background(), srv.URL+"/flaky")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "recovered")
	assert.EqualValues(t, 2, atomic.LoadInt32(hits))
}

func TestFetcherHonorsRobots(t *testing.T) {
	srv, _ := newJobServer(t)
	f := testFetcher(t, srv.URL)

	_, _, err := f.FetchBytes(context.Background(), srv.URL+"/private")
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(err.Error()), "robots")
}

func TestFetcherContextCanceled(t *testing.T) {
	srv, _ := newJobServer(t)
	f := testFetcher(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.FetchBytes(ctx, srv.URL+"/job")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"empty", "", "", true},
		{"no host", "example.com/jobs", "", true},
		{"defaults to https", "//example.com/jobs", "https://example.com/jobs", false},
		{"keeps explicit scheme", "http://example.com/jobs", "http://example.com/jobs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
