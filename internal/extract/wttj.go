package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/textutil"
	"github.com/ravshanbekov/joblens/internal/urlutil"
)

var (
	wttjTitleSelectors = []string{
		"h1[data-testid='job-title']",
		"div[data-testid='job-header'] h1",
		"main h1",
		"h1",
	}
	wttjCompanySelectors = []string{
		"span[data-testid='job-company-name']",
		"a[data-testid='job-company-link']",
		"a[href*='/companies/'] span",
		"header h2",
	}
	wttjLocationSelectors = []string{
		"span[data-testid='job-location']",
		"div[data-testid='job-metadata'] span[name='location']",
		"i[name='location'] + span",
	}
	wttjDescriptionSelectors = []string{
		"div[data-testid='job-section-description']",
		"section[data-testid='job-description']",
		"div#the-position-section",
		"main section",
	}
	wttjSalarySelectors = []string{
		"span[data-testid='job-salary']",
		"div[data-testid='job-metadata']",
	}
	// The metadata strip under the header lists contract, remote policy
	// and experience as separate tags.
	wttjMetadataSelector = "ul[data-testid='job-metadata'] li, div[data-testid='job-metadata'] span"
)

// WTTJStrategy reads Welcome to the Jungle postings, which mix French
// labels ("CDI", "Télétravail partiel") with English tech vocabulary.
type WTTJStrategy struct{}

func NewWTTJStrategy() *WTTJStrategy { return &WTTJStrategy{} }

func (s *WTTJStrategy) Name() string      { return "wttj" }
func (s *WTTJStrategy) Domains() []string { return []string{"welcometothejungle.com"} }
func (s *WTTJStrategy) Priority() int     { return 80 }

func (s *WTTJStrategy) CanHandle(pageURL string, _ *goquery.Document) bool {
	return urlutil.MatchesSite(urlutil.Host(pageURL), "welcometothejungle.com")
}

func (s *WTTJStrategy) Extract(pageURL string, doc *goquery.Document) Outcome {
	if doc == nil {
		return Failure(s.Name(), "document is empty")
	}

	offer := newOffer(pageURL)
	offer.Title = firstText(doc, wttjTitleSelectors, 200)
	offer.Company = firstText(doc, wttjCompanySelectors, 150)
	offer.Location = firstText(doc, wttjLocationSelectors, 160)
	offer.Description = firstMarkdown(doc, wttjDescriptionSelectors)

	if offer.Title == "" || offer.Description == "" {
		return Failure(s.Name(), "missing required title or description")
	}

	offer.Salary = firstSalary(doc, wttjSalarySelectors)
	offer.Skills = textutil.ExtractSkills(offer.Description)

	fragments := []string{offer.Title, offer.Location, offer.Description}
	fragments = append(fragments, texts(doc, wttjMetadataSelector)...)
	applyMetadata(offer, fragments...)

	return success(s.Name(), offer, siteConfidence(offer, 0.6))
}
