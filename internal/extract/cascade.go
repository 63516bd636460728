package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/ravshanbekov/joblens/internal/markdown"
	"github.com/ravshanbekov/joblens/internal/textutil"
)

// minDescriptionLen rejects description matches too short to be a real
// posting body, e.g. a teaser line or a cookie banner remnant.
const minDescriptionLen = 100

// firstText tries selectors in order and returns the first match whose
// collapsed text is non-empty and no longer than maxLen runes.
func firstText(doc *goquery.Document, selectors []string, maxLen int) string {
	if doc == nil {
		return ""
	}
	for _, sel := range selectors {
		text := collapseSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
			continue
		}
		return text
	}
	return ""
}

// firstMarkdown renders the first selector match through the markdown
// renderer, moving on when the result is below the description floor.
func firstMarkdown(doc *goquery.Document, selectors []string) string {
	if doc == nil {
		return ""
	}
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		md := markdown.Render(node.Nodes[0])
		if !substantial(md) {
			continue
		}
		return md
	}
	return ""
}

// firstSalary parses compensation text out of the first matching region.
// Salary parsing never runs on the whole description: the range pattern
// is too eager around wording like "3-5 years".
func firstSalary(doc *goquery.Document, selectors []string) *textutil.Salary {
	if doc == nil {
		return nil
	}
	for _, sel := range selectors {
		text := collapseSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if sal, ok := textutil.ParseSalary(text); ok {
			return &sal
		}
	}
	return nil
}

// texts returns the collapsed text of every node the selector matches.
func texts(doc *goquery.Document, selector string) []string {
	if doc == nil {
		return nil
	}
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := collapseSpace(sel.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// metaContent returns the content attribute of the first matching meta
// selector.
func metaContent(doc *goquery.Document, selectors ...string) string {
	if doc == nil {
		return ""
	}
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if text := collapseSpace(content); text != "" {
				return text
			}
		}
	}
	return ""
}

// applyMetadata classifies harvested text fragments into contract type,
// experience bucket and remote mode. Later fragments overwrite earlier
// hits: last match wins.
func applyMetadata(offer *JobOffer, fragments ...string) {
	for _, frag := range fragments {
		if frag == "" {
			continue
		}
		if kind, ok := textutil.DetectContractType(frag); ok {
			offer.ContractType = kind
		}
		if bucket, ok := textutil.ExperienceBucket(frag); ok {
			offer.Experience = bucket
		}
		if remote := textutil.DetectRemoteType(frag); remote != textutil.RemoteUnknown {
			offer.RemoteType = remote
		}
	}
}

// siteConfidence raises a strategy's trust prior by fixed bonuses for
// each populated field, clamped to 1.
func siteConfidence(offer *JobOffer, base float64) float64 {
	score := base
	if offer.Title != "" {
		score += 0.10
	}
	if offer.Company != "" {
		score += 0.10
	}
	if substantial(offer.Description) {
		score += 0.15
	}
	if offer.Location != "" {
		score += 0.05
	}
	if len(offer.Skills) > 0 {
		score += 0.05
	}
	if score > 1 {
		score = 1
	}
	return score
}

func substantial(text string) bool {
	return utf8.RuneCountInString(text) >= minDescriptionLen
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
