package content

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// hasJobPostingLD reports whether any structured-data block in the
// document declares a schema.org JobPosting. Arrays are unwrapped at
// any depth, @graph containers one level deep; blocks that fail to
// decode are ignored.
func hasJobPostingLD(doc *goquery.Document) bool {
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if hasJobPostingJSON(sel.Text()) {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasJobPostingJSON(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return false
	}
	return containsJobPosting(payload)
}

func containsJobPosting(payload any) bool {
	switch t := payload.(type) {
	case map[string]any:
		if isJobPostingType(t["@type"]) {
			return true
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				if m, ok := item.(map[string]any); ok && isJobPostingType(m["@type"]) {
					return true
				}
			}
		}
	case []any:
		for _, item := range t {
			if containsJobPosting(item) {
				return true
			}
		}
	}
	return false
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}
