package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/textutil"
	"github.com/ravshanbekov/joblens/internal/urlutil"
)

var (
	indeedTitleSelectors = []string{
		"h1[data-testid='jobsearch-JobInfoHeader-title']",
		"h1.jobsearch-JobInfoHeader-title",
		"h1[data-testid='simpler-jobTitle']",
		"h1",
	}
	indeedCompanySelectors = []string{
		"div[data-testid='inlineHeader-companyName'] a",
		"div[data-company-name='true'] a",
		"div[data-testid='jobsearch-CompanyInfoContainer'] a",
		"div.jobsearch-InlineCompanyRating div",
	}
	indeedLocationSelectors = []string{
		"div[data-testid='inlineHeader-companyLocation']",
		"div[data-testid='jobsearch-JobInfoHeader-companyLocation']",
		"div.jobsearch-JobInfoHeader-subtitle div:last-child",
	}
	indeedDescriptionSelectors = []string{
		"div#jobDescriptionText",
		"div.jobsearch-jobDescriptionText",
		"div.jobsearch-JobComponent-description",
	}
	// Indeed renders salary and contract type in one snippet block.
	indeedDetailsSelectors = []string{
		"div#salaryInfoAndJobType",
		"div[data-testid='attribute_snippet_testid']",
		"span.attribute_snippet",
	}
)

// IndeedStrategy reads Indeed viewjob pages, including the localized
// country sites (indeed.fr, uk.indeed.com) that share the page markup.
type IndeedStrategy struct{}

func NewIndeedStrategy() *IndeedStrategy { return &IndeedStrategy{} }

func (s *IndeedStrategy) Name() string      { return "indeed" }
func (s *IndeedStrategy) Domains() []string { return []string{"indeed.com"} }
func (s *IndeedStrategy) Priority() int     { return 90 }

func (s *IndeedStrategy) CanHandle(pageURL string, _ *goquery.Document) bool {
	return urlutil.MatchesSite(urlutil.Host(pageURL), "indeed.com")
}

func (s *IndeedStrategy) Extract(pageURL string, doc *goquery.Document) Outcome {
	if doc == nil {
		return Failure(s.Name(), "document is empty")
	}

	offer := newOffer(pageURL)
	offer.Title = firstText(doc, indeedTitleSelectors, 200)
	offer.Company = firstText(doc, indeedCompanySelectors, 150)
	offer.Location = firstText(doc, indeedLocationSelectors, 160)
	offer.Description = firstMarkdown(doc, indeedDescriptionSelectors)

	if offer.Title == "" || offer.Description == "" {
		return Failure(s.Name(), "missing required title or description")
	}

	offer.Salary = firstSalary(doc, indeedDetailsSelectors)
	offer.Skills = textutil.ExtractSkills(offer.Description)

	fragments := []string{offer.Title, offer.Location, offer.Description}
	fragments = append(fragments, texts(doc, "div#salaryInfoAndJobType")...)
	fragments = append(fragments, texts(doc, "div[data-testid='attribute_snippet_testid']")...)
	applyMetadata(offer, fragments...)

	return success(s.Name(), offer, siteConfidence(offer, 0.6))
}
