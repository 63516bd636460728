package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/content"
	"github.com/ravshanbekov/joblens/internal/core"
	"github.com/ravshanbekov/joblens/internal/observability"
	"github.com/ravshanbekov/joblens/internal/store"
)

// PageRequest targets one page, either by URL alone or with the HTML
// already in hand; supplying html skips the fetch.
type PageRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	var (
		result core.CaptureResult
		err    error
	)
	if req.HTML != "" {
		doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "Invalid HTML payload")
			return
		}
		result, err = s.captures.CaptureDocument(r.Context(), req.URL, doc)
	} else {
		result, err = s.captures.CaptureURL(r.Context(), req.URL)
	}

	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFetchable):
			respondError(w, http.StatusBadRequest, "URL is not fetchable")
		case result.Outcome != nil:
			// The pipeline ran; only persistence failed.
			respondError(w, http.StatusInternalServerError, "Failed to save capture: "+err.Error())
		default:
			respondError(w, http.StatusBadGateway, "Failed to fetch page: "+err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	var doc *goquery.Document
	if req.HTML != "" {
		parsed, parseErr := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "Invalid HTML payload")
			return
		}
		doc = parsed
	} else {
		fetched, _, err := s.fetcher.FetchDocument(r.Context(), req.URL)
		if err != nil {
			respondError(w, http.StatusBadGateway, "Failed to fetch page: "+err.Error())
			return
		}
		doc = fetched
	}

	respondJSON(w, http.StatusOK, content.Classify(req.URL, doc))
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20)

	captures, total, err := s.store.ListCaptures(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch captures: "+err.Error())
		return
	}
	// Return empty list if nil to be JSON friendly
	if captures == nil {
		captures = []store.Capture{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  captures,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
