package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ravshanbekov/joblens/internal/textutil"
)

var (
	genericTitleSelectors = []string{
		"h1",
		"h2[class*='title']",
		"h2",
	}
	genericDescriptionSelectors = []string{
		"div[class*='job-description']",
		"div[class*='description']",
		"section[class*='description']",
		"div[id*='description']",
		"article",
		"main",
	}
	genericCompanySelectors = []string{
		"[itemprop='hiringOrganization']",
		"[class*='company-name']",
		"a[class*='company']",
		"span[class*='company']",
	}
	genericLocationSelectors = []string{
		"[itemprop='jobLocation']",
		"[class*='job-location']",
		"[class*='location']",
	}
	genericSalarySelectors = []string{
		"[itemprop='baseSalary']",
		"[class*='salary']",
		"[data-testid*='salary']",
	}
)

// GenericStrategy is the universal fallback: structured data first, then
// meta tags, then selector cascades. Each step fills only the fields the
// previous ones left absent.
type GenericStrategy struct{}

func NewGenericStrategy() *GenericStrategy { return &GenericStrategy{} }

func (s *GenericStrategy) Name() string      { return "generic" }
func (s *GenericStrategy) Domains() []string { return nil }
func (s *GenericStrategy) Priority() int     { return 0 }

func (s *GenericStrategy) CanHandle(string, *goquery.Document) bool { return true }

func (s *GenericStrategy) Extract(pageURL string, doc *goquery.Document) Outcome {
	if doc == nil {
		return Failure(s.Name(), "document is empty")
	}

	offer := newOffer(pageURL)

	posting := findJobPosting(doc)
	if posting != nil {
		offer.Title = posting.Title
		offer.Company = posting.Company
		offer.Location = posting.Location
		offer.Description = posting.Description
		offer.ContractType = posting.EmploymentType
		offer.Salary = posting.Salary
		offer.Skills = posting.Skills
		offer.PublishedAt = posting.PublishedAt
		if posting.Remote {
			offer.RemoteType = textutil.RemoteFull
		}
	}

	if offer.Title == "" {
		offer.Title = metaContent(doc, "meta[property='og:title']", "meta[name='twitter:title']")
	}
	if offer.Description == "" {
		offer.Description = metaContent(doc,
			"meta[property='og:description']",
			"meta[name='twitter:description']",
			"meta[name='description']")
	}
	if offer.Company == "" {
		offer.Company = metaContent(doc, "meta[property='og:site_name']")
	}

	if offer.Title == "" {
		offer.Title = firstText(doc, genericTitleSelectors, 200)
	}
	if offer.Title == "" {
		offer.Title = cleanDocumentTitle(doc)
	}
	if offer.Title == "" {
		offer.Title = pathTitleFromURL(pageURL)
	}
	if offer.Description == "" {
		offer.Description = firstMarkdown(doc, genericDescriptionSelectors)
	}
	if offer.Company == "" {
		offer.Company = firstText(doc, genericCompanySelectors, 150)
	}
	if offer.Location == "" {
		offer.Location = firstText(doc, genericLocationSelectors, 160)
	}

	if offer.Title == "" || offer.Description == "" {
		return Failure(s.Name(), "missing required title or description")
	}

	if offer.Salary == nil {
		offer.Salary = firstSalary(doc, genericSalarySelectors)
	}
	if len(offer.Skills) == 0 {
		offer.Skills = textutil.ExtractSkills(offer.Description)
	}
	if offer.ContractType == "" {
		if kind, ok := textutil.DetectContractType(offer.Title + " " + offer.Description); ok {
			offer.ContractType = kind
		}
	}
	if offer.Experience == "" {
		if bucket, ok := textutil.ExperienceBucket(offer.Description); ok {
			offer.Experience = bucket
		}
	}
	if offer.RemoteType == "" || offer.RemoteType == textutil.RemoteUnknown {
		offer.RemoteType = textutil.DetectRemoteType(offer.Title + " " + offer.Description)
	}

	// Structured data is trusted at a fixed 0.9 no matter what else the
	// page carries; the weighted formula only scores unstructured pages.
	if posting != nil {
		return success(s.Name(), offer, 0.9)
	}
	return success(s.Name(), offer, genericConfidence(offer))
}

func genericConfidence(offer *JobOffer) float64 {
	score := 0.0
	if offer.Title != "" {
		score += 0.25
	}
	if substantial(offer.Description) {
		score += 0.25
	}
	if offer.Company != "" {
		score += 0.15
	}
	if offer.Location != "" {
		score += 0.10
	}
	if offer.Salary != nil {
		score += 0.10
	}
	if len(offer.Skills) > 0 {
		score += 0.10
	}
	if offer.ContractType != "" {
		score += 0.05
	}
	if score > 1 {
		score = 1
	}
	return score
}

// cleanDocumentTitle strips one trailing " | Site" or " - Site" suffix
// from the document title.
func cleanDocumentTitle(doc *goquery.Document) string {
	title := collapseSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	for _, sep := range []string{" | ", " - "} {
		if idx := strings.LastIndex(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return title
}

// pathTitleFromURL falls back to the last URL path segment,
// "senior-go-developer" becoming "Senior Go Developer".
func pathTitleFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(u.Path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.TrimSpace(parts[i])
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, "-", " ")
		p = strings.ReplaceAll(p, "_", " ")
		return cases.Title(language.Und).String(p)
	}
	return ""
}
