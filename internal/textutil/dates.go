package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeDatePattern = regexp.MustCompile(`(\d+)\s*\+?\s*(hour|heure|day|jour|week|semaine|month|mois)`)

// ParseRelativeDate resolves phrasing like "posted 3 days ago" or
// "il y a 2 semaines" against the supplied reference time.
func ParseRelativeDate(text string, now time.Time) (time.Time, bool) {
	m := relativeDatePattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	switch m[2] {
	case "hour", "heure":
		return now.Add(-time.Duration(n) * time.Hour), true
	case "day", "jour":
		return now.AddDate(0, 0, -n), true
	case "week", "semaine":
		return now.AddDate(0, 0, -7*n), true
	case "month", "mois":
		return now.AddDate(0, -n, 0), true
	}
	return time.Time{}, false
}
