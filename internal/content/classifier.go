package content

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/observability"
	"github.com/ravshanbekov/joblens/internal/urlutil"
)

// scoreThreshold is the acceptance bar for the heuristic tier. The bar
// and the weights below are tuned together; moving one without the
// others flips borderline pages.
const scoreThreshold = 3

const (
	titleWeight      = 2
	domWeight        = 2
	jobPostingWeight = 5
)

// jobBoards lists posting sites whose URL shape alone identifies a job
// view. Host matching goes through urlutil.MatchesSite, so country
// variants (indeed.fr, glassdoor.de) ride on the brand entry.
var jobBoards = []struct {
	domain   string
	segments []string
	patterns []*regexp.Regexp
}{
	{domain: "linkedin.com", segments: []string{"/jobs/"}, patterns: []*regexp.Regexp{regexp.MustCompile(`/jobs/view/\d+`)}},
	{domain: "indeed.com", segments: []string{"/viewjob", "/voir-emploi", "/rc/clk"}},
	{domain: "welcometothejungle.com", segments: []string{"/jobs/"}},
	{domain: "glassdoor.com", segments: []string{"/job-listing/", "/partner/jobListing"}},
	{domain: "monster.com", segments: []string{"/job-openings/", "/emploi/offre"}},
	{domain: "apec.fr", segments: []string{"/detail-offre/"}},
	{domain: "pole-emploi.fr", segments: []string{"/offres/recherche/detail/"}},
	{domain: "francetravail.fr", segments: []string{"/offres/recherche/detail/"}},
	{domain: "hellowork.com", patterns: []*regexp.Regexp{regexp.MustCompile(`/emplois/\d+`)}},
}

// urlKeywords are counted once each against the lowercased URL. Kept to
// singular stems so plural path segments do not double count.
var urlKeywords = []string{
	"job",
	"career",
	"emploi",
	"offre",
	"recrutement",
	"poste",
	"position",
	"opening",
	"vacancy",
	"annonce",
}

var titleKeywords = []string{
	"job",
	"emploi",
	"offre",
	"career",
	"hiring",
	"recrutement",
	"poste",
	"h/f",
}

var jobSelectors = []string{
	"[class*='job-description']",
	"[id*='job-description']",
	"[class*='job-title']",
	"[data-testid*='job']",
	"[itemtype*='JobPosting']",
	"a[href*='apply']",
	"button[class*='apply']",
}

// Signals holds the raw evidence collected from one page before any
// weighting is applied.
type Signals struct {
	KnownBoard bool `json:"known_board"`
	URLHits    int  `json:"url_hits"`
	TitleHit   bool `json:"title_hit"`
	DOMHit     bool `json:"dom_hit"`
	JobPosting bool `json:"jsonld_jobposting"`
}

// Decision is the classifier verdict plus the evidence behind it.
type Decision struct {
	JobPage bool    `json:"job_page"`
	Reason  string  `json:"reason"`
	Score   int     `json:"score"`
	Signals Signals `json:"signals"`
}

// Collect gathers classification signals from the URL and, when the
// document is non-nil, from its title, DOM and structured data. A nil
// document leaves the page scored on URL evidence alone.
func Collect(pageURL string, doc *goquery.Document) Signals {
	var signals Signals

	if matchesKnownBoard(pageURL) {
		signals.KnownBoard = true
		return signals
	}

	lowered := strings.ToLower(pageURL)
	for _, kw := range urlKeywords {
		if strings.Contains(lowered, kw) {
			signals.URLHits++
		}
	}

	if doc == nil {
		return signals
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	for _, kw := range titleKeywords {
		if strings.Contains(title, kw) {
			signals.TitleHit = true
			break
		}
	}

	for _, sel := range jobSelectors {
		if doc.Find(sel).Length() > 0 {
			signals.DOMHit = true
			break
		}
	}

	signals.JobPosting = hasJobPostingLD(doc)

	return signals
}

// Score sums the weighted signals. Known-board pages bypass scoring
// entirely and never reach this.
func (s Signals) Score() int {
	score := s.URLHits
	if s.TitleHit {
		score += titleWeight
	}
	if s.DOMHit {
		score += domWeight
	}
	if s.JobPosting {
		score += jobPostingWeight
	}
	return score
}

// Classify decides whether the page is a job posting and keeps the
// evidence around for logging and the API surface.
func Classify(pageURL string, doc *goquery.Document) Decision {
	signals := Collect(pageURL, doc)

	if signals.KnownBoard {
		observability.IncClassifierDecision("known_board")
		return Decision{JobPage: true, Reason: "known_board", Signals: signals}
	}

	score := signals.Score()
	if score >= scoreThreshold {
		observability.IncClassifierDecision("heuristic_score")
		return Decision{JobPage: true, Reason: "heuristic_score", Score: score, Signals: signals}
	}

	observability.IncClassifierDecision("rejected")
	return Decision{JobPage: false, Reason: "no_job_signals", Score: score, Signals: signals}
}

// IsJobPage reports whether the page is worth running extraction on.
func IsJobPage(pageURL string, doc *goquery.Document) bool {
	return Classify(pageURL, doc).JobPage
}

func matchesKnownBoard(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	for _, board := range jobBoards {
		if !urlutil.MatchesSite(host, board.domain) {
			continue
		}
		for _, seg := range board.segments {
			if strings.Contains(u.Path, seg) {
				return true
			}
		}
		for _, pat := range board.patterns {
			if pat.MatchString(u.Path) {
				return true
			}
		}
	}
	return false
}
