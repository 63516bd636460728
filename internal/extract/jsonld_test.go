package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravshanbekov/joblens/internal/textutil"
)

func docFromHTML(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestFindJobPostingFullBlock(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org/",
  "@type": "JobPosting",
  "title": "Développeur Go Senior",
  "description": "<p>Nous construisons la plateforme data.</p><ul><li>Go</li><li>PostgreSQL</li></ul>",
  "hiringOrganization": {"@type": "Organization", "name": "Datawake"},
  "jobLocation": {"@type": "Place", "address": {"@type": "PostalAddress", "addressLocality": "Paris", "addressCountry": "FR"}},
  "employmentType": "FULL_TIME",
  "datePosted": "2025-11-03",
  "baseSalary": {"@type": "MonetaryAmount", "currency": "EUR", "value": {"@type": "QuantitativeValue", "minValue": 55000, "maxValue": 65000, "unitText": "YEAR"}},
  "skills": ["Go", "PostgreSQL", "Kubernetes"]
}
</script></head><body></body></html>`)

	p := findJobPosting(doc)
	require.NotNil(t, p)

	assert.Equal(t, "Développeur Go Senior", p.Title)
	assert.Equal(t, "Datawake", p.Company)
	assert.Equal(t, "Paris, FR", p.Location)
	assert.Equal(t, "Nous construisons la plateforme data.\n\n- Go\n- PostgreSQL", p.Description)
	assert.Equal(t, "CDI", p.EmploymentType)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, p.Skills)

	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), *p.PublishedAt)

	require.NotNil(t, p.Salary)
	assert.Equal(t, textutil.Salary{Min: 55000, Max: 65000, Currency: "EUR", Period: textutil.PeriodYear}, *p.Salary)
}

func TestFindJobPostingUnwrapsGraph(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org/",
  "@graph": [
    {"@type": "WebSite", "name": "Jobs R Us"},
    {"@type": "JobPosting", "title": "Data Engineer", "description": "Pipelines."}
  ]
}
</script></head><body></body></html>`)

	p := findJobPosting(doc)
	require.NotNil(t, p)
	assert.Equal(t, "Data Engineer", p.Title)
}

func TestFindJobPostingUnwrapsArray(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
<script type="application/ld+json">
[
  {"@type": "BreadcrumbList"},
  {"@type": ["JobPosting", "Thing"], "title": "SRE", "description": "On call."}
]
</script></head><body></body></html>`)

	p := findJobPosting(doc)
	require.NotNil(t, p)
	assert.Equal(t, "SRE", p.Title)
}

func TestFindJobPostingSkipsBrokenBlocks(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
<script type="application/ld+json">{not even json</script>
<script type="application/ld+json">{"@type": "JobPosting", "title": "Platform Engineer"}</script>
</head><body></body></html>`)

	p := findJobPosting(doc)
	require.NotNil(t, p)
	assert.Equal(t, "Platform Engineer", p.Title)
}

func TestFindJobPostingAbsent(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
<script type="application/ld+json">{"@type": "Article", "headline": "News"}</script>
</head><body><h1>News</h1></body></html>`)

	assert.Nil(t, findJobPosting(doc))
	assert.Nil(t, findJobPosting(nil))
}

func TestParsePostingVariants(t *testing.T) {
	t.Run("employment type list picks first value", func(t *testing.T) {
		p := parsePosting(map[string]any{
			"@type":          "JobPosting",
			"title":          "Dev",
			"employmentType": []any{"FULL_TIME", "CONTRACTOR"},
		})
		assert.Equal(t, "CDI", p.EmploymentType)
	})

	t.Run("unknown employment type passes through", func(t *testing.T) {
		p := parsePosting(map[string]any{
			"@type":          "JobPosting",
			"title":          "Dev",
			"employmentType": "VOLUNTEER",
		})
		assert.Equal(t, "VOLUNTEER", p.EmploymentType)
	})

	t.Run("bare salary value defaults to EUR per year", func(t *testing.T) {
		p := parsePosting(map[string]any{
			"@type":      "JobPosting",
			"title":      "Dev",
			"baseSalary": map[string]any{"value": 48000.0},
		})
		require.NotNil(t, p.Salary)
		assert.Equal(t, textutil.Salary{Min: 48000, Max: 48000, Currency: "EUR", Period: textutil.PeriodYear}, *p.Salary)
	})

	t.Run("telecommute location type flags remote", func(t *testing.T) {
		p := parsePosting(map[string]any{
			"@type":           "JobPosting",
			"title":           "Dev",
			"jobLocationType": "TELECOMMUTE",
		})
		assert.True(t, p.Remote)
	})

	t.Run("location falls back to place name", func(t *testing.T) {
		p := parsePosting(map[string]any{
			"@type":       "JobPosting",
			"title":       "Dev",
			"jobLocation": map[string]any{"@type": "Place", "name": "Lyon"},
		})
		assert.Equal(t, "Lyon", p.Location)
	})

	t.Run("skills accepts comma separated string", func(t *testing.T) {
		p := parsePosting(map[string]any{
			"@type":  "JobPosting",
			"title":  "Dev",
			"skills": "Go, Docker , Kafka",
		})
		assert.Equal(t, []string{"Go", "Docker", "Kafka"}, p.Skills)
	})
}
