package extract

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/markdown"
	"github.com/ravshanbekov/joblens/internal/textutil"
)

// jobPosting carries the fields read out of a schema.org JobPosting block.
type jobPosting struct {
	Title          string
	Company        string
	Location       string
	Description    string
	EmploymentType string
	Remote         bool
	PublishedAt    *time.Time
	Salary         *textutil.Salary
	Skills         []string
}

// findJobPosting returns the first JobPosting block embedded in the
// document, or nil. Blocks that fail to parse are skipped; arrays and
// one level of @graph are unwrapped.
func findJobPosting(doc *goquery.Document) *jobPosting {
	if doc == nil {
		return nil
	}
	var posting *jobPosting
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return true
		}
		if m := firstJobPosting(payload); m != nil {
			posting = parsePosting(m)
			return false
		}
		return true
	})
	return posting
}

func firstJobPosting(payload any) map[string]any {
	switch t := payload.(type) {
	case map[string]any:
		if isJobPostingType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				if m, ok := item.(map[string]any); ok && isJobPostingType(m["@type"]) {
					return m
				}
			}
		}
	case []any:
		for _, item := range t {
			if m := firstJobPosting(item); m != nil {
				return m
			}
		}
	}
	return nil
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

func parsePosting(m map[string]any) *jobPosting {
	p := &jobPosting{
		Title:    stringField(m, "title"),
		Company:  nameField(m["hiringOrganization"]),
		Location: parseLocation(m["jobLocation"]),
		Skills:   stringList(m["skills"]),
	}

	if desc := stringField(m, "description"); desc != "" {
		// Structured-data descriptions are usually HTML.
		if md, err := markdown.RenderHTML(desc); err == nil && md != "" {
			p.Description = md
		} else {
			p.Description = desc
		}
	}

	p.EmploymentType = employmentType(m["employmentType"])

	if strings.EqualFold(stringField(m, "jobLocationType"), "TELECOMMUTE") {
		p.Remote = true
	}

	if posted := stringField(m, "datePosted"); posted != "" {
		if ts, ok := parseISODate(posted); ok {
			p.PublishedAt = &ts
		}
	}

	p.Salary = parseBaseSalary(m["baseSalary"])
	return p
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// nameField reads a value publishers write either as a bare string or as
// an object carrying a "name" property.
func nameField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return stringField(t, "name")
	}
	return ""
}

func parseLocation(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if loc := parseLocation(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		switch addr := t["address"].(type) {
		case string:
			return strings.TrimSpace(addr)
		case map[string]any:
			return joinParts(
				stringField(addr, "addressLocality"),
				stringField(addr, "addressRegion"),
				nameField(addr["addressCountry"]),
			)
		}
		return stringField(t, "name")
	}
	return ""
}

func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// employmentType normalizes a schema.org employmentType (string or list)
// to a contract label, passing unrecognized values through unchanged.
func employmentType(v any) string {
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				raw = s
				break
			}
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if kind, ok := textutil.DetectContractType(raw); ok {
		return kind
	}
	return raw
}

func parseISODate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseBaseSalary(v any) *textutil.Salary {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	sal := &textutil.Salary{
		Currency: strings.ToUpper(stringField(m, "currency")),
		Period:   salaryUnit(stringField(m, "unitText")),
	}

	switch value := m["value"].(type) {
	case map[string]any:
		sal.Min = numberField(value, "minValue")
		sal.Max = numberField(value, "maxValue")
		if sal.Min == 0 && sal.Max == 0 {
			single := numberField(value, "value")
			sal.Min, sal.Max = single, single
		}
		if unit := stringField(value, "unitText"); unit != "" {
			sal.Period = salaryUnit(unit)
		}
	case float64:
		sal.Min, sal.Max = value, value
	}

	// Some publishers put the bounds on the amount itself.
	if sal.Min == 0 && sal.Max == 0 {
		sal.Min = numberField(m, "minValue")
		sal.Max = numberField(m, "maxValue")
	}
	if sal.Min == 0 && sal.Max == 0 {
		return nil
	}
	if sal.Max == 0 {
		sal.Max = sal.Min
	}
	if sal.Min == 0 {
		sal.Min = sal.Max
	}
	if sal.Currency == "" {
		sal.Currency = "EUR"
	}
	return sal
}

func numberField(m map[string]any, key string) float64 {
	switch t := m[key].(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// salaryUnit maps a schema.org unitText onto the salary parser's period
// labels, defaulting to year.
func salaryUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "hour", "hourly", "heure":
		return textutil.PeriodHour
	case "day", "daily", "jour":
		return textutil.PeriodDay
	case "month", "monthly", "mois":
		return textutil.PeriodMonth
	default:
		return textutil.PeriodYear
	}
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return splitTrimmed(t, ",")
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

func splitTrimmed(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
