package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/textutil"
	"github.com/ravshanbekov/joblens/internal/urlutil"
)

// Selector cascades run from data-attribute hooks down to bare headings
// so a partial site redesign degrades extraction instead of breaking it.
var (
	linkedinTitleSelectors = []string{
		"h1.top-card-layout__title",
		"h1.topcard__title",
		"div.job-details-jobs-unified-top-card__job-title h1",
		"main h1",
		"h1",
	}
	linkedinCompanySelectors = []string{
		"a.topcard__org-name-link",
		"span.topcard__flavor a",
		"div.job-details-jobs-unified-top-card__company-name a",
		"a[data-tracking-control-name='public_jobs_topcard-org-name']",
	}
	linkedinLocationSelectors = []string{
		"span.topcard__flavor--bullet",
		"div.top-card-layout__second-subline span.topcard__flavor--bullet",
		"span.job-details-jobs-unified-top-card__bullet",
	}
	linkedinDescriptionSelectors = []string{
		"div.show-more-less-html__markup",
		"div.description__text section",
		"section.show-more-less-html",
		"div#job-details",
	}
	linkedinSalarySelectors = []string{
		"div.salary.compensation__salary",
		"div.compensation__salary-range",
	}
	linkedinPostedSelectors = []string{
		"span.posted-time-ago__text",
		"span.topcard__flavor--metadata.posted-time-ago__text",
	}
)

// LinkedInStrategy reads public LinkedIn job views.
type LinkedInStrategy struct{}

func NewLinkedInStrategy() *LinkedInStrategy { return &LinkedInStrategy{} }

func (s *LinkedInStrategy) Name() string      { return "linkedin" }
func (s *LinkedInStrategy) Domains() []string { return []string{"linkedin.com"} }
func (s *LinkedInStrategy) Priority() int     { return 100 }

// CanHandle requires both the LinkedIn domain and a /jobs/ path: company
// and feed pages live on the same host but carry no posting.
func (s *LinkedInStrategy) CanHandle(pageURL string, _ *goquery.Document) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return urlutil.MatchesSite(u.Hostname(), "linkedin.com") && strings.Contains(u.Path, "/jobs/")
}

func (s *LinkedInStrategy) Extract(pageURL string, doc *goquery.Document) Outcome {
	if doc == nil {
		return Failure(s.Name(), "document is empty")
	}

	offer := newOffer(pageURL)
	offer.Title = firstText(doc, linkedinTitleSelectors, 200)
	offer.Company = firstText(doc, linkedinCompanySelectors, 150)
	offer.Location = firstText(doc, linkedinLocationSelectors, 160)
	offer.Description = firstMarkdown(doc, linkedinDescriptionSelectors)

	if offer.Title == "" || offer.Description == "" {
		return Failure(s.Name(), "missing required title or description")
	}

	offer.Salary = firstSalary(doc, linkedinSalarySelectors)
	offer.Skills = textutil.ExtractSkills(offer.Description)

	// Criteria items (seniority, employment type) come last so the
	// explicit fields overwrite guesses made from prose.
	fragments := []string{offer.Title, offer.Location, offer.Description}
	fragments = append(fragments, texts(doc, "li.description__job-criteria-item")...)
	applyMetadata(offer, fragments...)

	if posted := firstText(doc, linkedinPostedSelectors, 80); posted != "" {
		if ts, ok := textutil.ParseRelativeDate(posted, time.Now().UTC()); ok {
			offer.PublishedAt = &ts
		}
	}

	return success(s.Name(), offer, siteConfidence(offer, 0.6))
}
