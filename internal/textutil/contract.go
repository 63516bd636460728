package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	ExperienceJunior = "Junior (0-2 ans)"
	ExperienceMid    = "Confirmé (3-5 ans)"
	ExperienceSenior = "Senior (5+ ans)"
)

// Contract rules run in order, most specific wording first, so that
// "contractor" resolves to Freelance before the bare "contract" rule
// can claim it. The part-time rule needs the full "temps partiel"
// wording: bare "partiel" would misfire on "télétravail partiel".
var contractRules = []struct {
	value   string
	pattern *regexp.Regexp
}{
	{"Alternance", regexp.MustCompile(`alternance|apprenti`)},
	{"Stage", regexp.MustCompile(`stagiaire|internship|\bstage\b|\bintern\b`)},
	{"Freelance", regexp.MustCompile(`freelance|contractor|indépendant|independant`)},
	{"Temps partiel", regexp.MustCompile(`temps partiel|part[-_ ]time`)},
	{"CDI", regexp.MustCompile(`\bcdi\b|temps plein|full[-_ ]time|permanent|durée indéterminée`)},
	{"CDD", regexp.MustCompile(`\bcdd\b|fixed[-_ ]term|temporary|durée déterminée|\bcontract\b`)},
}

var experienceYearsPattern = regexp.MustCompile(`(\d+)\s*\+?\s*(?:ans?\b|years?)`)

// DetectContractType maps contract wording, including schema.org
// employmentType values such as FULL_TIME, to a canonical label.
func DetectContractType(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range contractRules {
		if rule.pattern.MatchString(lower) {
			return rule.value, true
		}
	}
	return "", false
}

// ExperienceBucket maps a years-of-experience mention to one of three
// seniority buckets.
func ExperienceBucket(text string) (string, bool) {
	m := experienceYearsPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return "", false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	plus := strings.Contains(m[0], "+")
	switch {
	case years <= 2:
		return ExperienceJunior, true
	case years < 5, years == 5 && !plus:
		return ExperienceMid, true
	default:
		return ExperienceSenior, true
	}
}
