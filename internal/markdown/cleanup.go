package markdown

import (
	"regexp"
	"strings"
)

var (
	excessBlank  = regexp.MustCompile(`\n{3,}`)
	spacedBold   = regexp.MustCompile(`\*\*\s+([^*\n]+?)\s+\*\*`)
	spacedItalic = regexp.MustCompile(`(^|[^*])\*\s+([^*\n]+?)\s+\*($|[^*])`)
	emptyBold    = regexp.MustCompile(`\*\*\s*\*\*`)
	bulletGlyph  = regexp.MustCompile(`(?m)^([ \t]*)[•●○▪▸►][ \t]*`)
)

// cleanup is the post-render pass: right-trim lines, tighten emphasis
// markers, drop the empty ones, normalize bullet glyphs to "-", then
// collapse runs of blank lines to one and trim the document. Collapsing
// runs last because the earlier fixes can empty out lines themselves.
func cleanup(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	text = spacedBold.ReplaceAllString(text, "**$1**")
	text = spacedItalic.ReplaceAllString(text, "$1*$2*$3")
	text = emptyBold.ReplaceAllString(text, "")
	text = bulletGlyph.ReplaceAllString(text, "$1- ")

	text = excessBlank.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
