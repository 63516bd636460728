package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	PeriodHour  = "hour"
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Salary is a parsed compensation range. Min and Max are equal when the
// source text carries a single value.
type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Period   string  `json:"period"`
}

var (
	salaryRangePattern  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)(k?)(?:€|\$|£|chf)?[-–à](\d+(?:[.,]\d+)?)(k?)`)
	salarySinglePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)(k?)(€|\$|£|chf)`)
)

// ParseSalary reads a compensation range out of free text. The text is
// lowercased and stripped of whitespace first, so "45 000 € - 55 000 €"
// and "45k-55k€" parse the same way. A range is tried before a single
// value followed by a currency symbol.
func ParseSalary(text string) (Salary, bool) {
	compact := compactText(text)
	if compact == "" {
		return Salary{}, false
	}

	var sal Salary
	if m := salaryRangePattern.FindStringSubmatch(compact); m != nil {
		sal.Min = salaryValue(m[1], m[2] != "")
		sal.Max = salaryValue(m[3], m[4] != "")
	} else if m := salarySinglePattern.FindStringSubmatch(compact); m != nil {
		v := salaryValue(m[1], m[2] != "")
		sal.Min = v
		sal.Max = v
	} else {
		return Salary{}, false
	}

	sal.Currency = salaryCurrency(compact)
	sal.Period = salaryPeriod(compact)
	return sal, true
}

func compactText(text string) string {
	lower := strings.ToLower(text)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lower)
}

func salaryValue(num string, thousands bool) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64)
	if err != nil {
		return 0
	}
	if thousands && v < 1000 {
		v *= 1000
	}
	return v
}

func salaryCurrency(text string) string {
	switch {
	case strings.Contains(text, "$"):
		return "USD"
	case strings.Contains(text, "£"):
		return "GBP"
	case strings.Contains(text, "chf"):
		return "CHF"
	default:
		return "EUR"
	}
}

func salaryPeriod(text string) string {
	switch {
	case strings.Contains(text, "/h") || strings.Contains(text, "heure"):
		return PeriodHour
	case strings.Contains(text, "/j") || strings.Contains(text, "jour"):
		return PeriodDay
	case strings.Contains(text, "/m") || strings.Contains(text, "mois"):
		return PeriodMonth
	default:
		return PeriodYear
	}
}
