package extract

import (
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/textutil"
	"github.com/ravshanbekov/joblens/internal/urlutil"
)

// JobOffer is the structured record a strategy assembles from a page.
// Title and Description are required for an offer to count as usable;
// everything else is best effort.
type JobOffer struct {
	SourceURL        string           `json:"source_url"`
	SourceDomain     string           `json:"source_domain"`
	Title            string           `json:"title"`
	Company          string           `json:"company,omitempty"`
	Location         string           `json:"location,omitempty"`
	RemoteType       string           `json:"remote_type"`
	Description      string           `json:"description"`
	ContractType     string           `json:"contract_type,omitempty"`
	Experience       string           `json:"experience,omitempty"`
	Salary           *textutil.Salary `json:"salary,omitempty"`
	Skills           []string         `json:"skills,omitempty"`
	RequiredSkills   []string         `json:"required_skills,omitempty"`
	NiceToHaveSkills []string         `json:"nice_to_have_skills,omitempty"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	CapturedAt       time.Time        `json:"captured_at"`
}

// Outcome reports one extraction attempt. Success implies Offer is set
// and Confidence is positive; failure implies Offer is nil.
type Outcome struct {
	Success    bool      `json:"success"`
	Offer      *JobOffer `json:"offer,omitempty"`
	Confidence float64   `json:"confidence"`
	Strategy   string    `json:"strategy"`
	Errors     []string  `json:"errors,omitempty"`
}

// Strategy is one extraction algorithm. Implementations are stateless:
// a single value per variant is registered at startup and shared
// across calls.
type Strategy interface {
	Name() string
	Domains() []string
	Priority() int
	CanHandle(pageURL string, doc *goquery.Document) bool
	Extract(pageURL string, doc *goquery.Document) Outcome
}

func newOffer(pageURL string) *JobOffer {
	return &JobOffer{
		SourceURL:    pageURL,
		SourceDomain: urlutil.Host(pageURL),
		RemoteType:   textutil.RemoteUnknown,
		CapturedAt:   time.Now().UTC(),
	}
}

func success(strategy string, offer *JobOffer, confidence float64) Outcome {
	if confidence > 1 {
		confidence = 1
	}
	return Outcome{
		Success:    true,
		Offer:      offer,
		Confidence: confidence,
		Strategy:   strategy,
	}
}

// Failure is the canonical no-offer outcome.
func Failure(strategy string, errs ...string) Outcome {
	return Outcome{
		Strategy: strategy,
		Errors:   errs,
	}
}
