package markdown

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Render converts a markup tree to Markdown. Children render before
// their parent's wrapper is applied, so nested structure (lists inside
// lists, emphasis inside headings) comes out already formatted.
func Render(n *html.Node) string {
	if n == nil {
		return ""
	}
	return cleanup(renderNode(n))
}

// RenderHTML parses an HTML fragment and renders it. Structured-data
// descriptions arrive as raw HTML strings, which is what this is for.
func RenderHTML(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	return Render(doc), nil
}

func renderNode(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
		return renderElement(n)
	case html.DocumentNode:
		return renderChildren(n)
	default:
		// comments, doctype
		return ""
	}
}

func renderChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(renderNode(c))
	}
	return sb.String()
}

func renderElement(n *html.Node) string {
	switch strings.ToLower(n.Data) {
	case "script", "style", "noscript", "iframe", "svg", "canvas":
		return ""
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		return "\n\n" + strings.Repeat("#", level) + " " + strings.TrimSpace(renderChildren(n)) + "\n\n"
	case "strong", "b":
		return "**" + renderChildren(n) + "**"
	case "em", "i":
		return "*" + renderChildren(n) + "*"
	case "u":
		return "_" + renderChildren(n) + "_"
	case "s", "strike", "del":
		return "~~" + renderChildren(n) + "~~"
	case "code":
		return "`" + renderChildren(n) + "`"
	case "a":
		return renderAnchor(n)
	case "ul":
		return "\n" + renderList(n, false) + "\n"
	case "ol":
		return "\n" + renderList(n, true) + "\n"
	case "p":
		return "\n\n" + renderChildren(n) + "\n\n"
	case "br":
		return "\n"
	case "hr":
		return "\n\n---\n\n"
	case "blockquote":
		return "\n\n" + quoteLines(renderChildren(n)) + "\n\n"
	case "pre":
		return "\n\n```\n" + strings.Trim(textContent(n), "\n") + "\n```\n\n"
	case "table":
		return "\n\n" + renderTable(n) + "\n\n"
	case "div", "section", "article":
		return "\n" + renderChildren(n) + "\n"
	default:
		// Unrecognized tags contribute their content without a wrapper.
		return renderChildren(n)
	}
}

// renderAnchor emits [text](href). Script-executing schemes keep the
// text but lose the link.
func renderAnchor(n *html.Node) string {
	text := renderChildren(n)
	href := attrValue(n, "href")
	scheme := strings.ToLower(strings.TrimSpace(href))
	if href == "" || strings.HasPrefix(scheme, "javascript:") || strings.HasPrefix(scheme, "vbscript:") || strings.HasPrefix(scheme, "data:") {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return "[" + strings.TrimSpace(text) + "](" + href + ")"
}

// renderList prefixes each li with its bullet or 1-based position.
// Item content keeps its first line on the marker; continuation lines,
// nested lists included, indent two spaces per level of nesting.
func renderList(n *html.Node, ordered bool) string {
	var items []string
	index := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || !strings.EqualFold(c.Data, "li") {
			continue
		}
		index++
		marker := "- "
		if ordered {
			marker = strconv.Itoa(index) + ". "
		}
		items = append(items, marker+indentContinuation(strings.TrimSpace(renderChildren(c))))
	}
	return strings.Join(items, "\n")
}

func indentContinuation(item string) string {
	lines := strings.Split(item, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = "  " + lines[i]
	}
	return strings.Join(lines, "\n")
}

func quoteLines(content string) string {
	content = excessBlank.ReplaceAllString(strings.TrimSpace(content), "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// renderTable emits pipe-delimited rows with a dashed separator after
// the first row. Pipes inside cells are escaped so columns stay put.
func renderTable(n *html.Node) string {
	rows := collectRows(n)
	if len(rows) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, row := range rows {
		cells := rowCells(row)
		if len(cells) == 0 {
			continue
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 {
			dashes := make([]string, len(cells))
			for j := range dashes {
				dashes[j] = "---"
			}
			sb.WriteString("| " + strings.Join(dashes, " | ") + " |\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func collectRows(n *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if strings.EqualFold(c.Data, "tr") {
				rows = append(rows, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return rows
}

func rowCells(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if !strings.EqualFold(c.Data, "td") && !strings.EqualFold(c.Data, "th") {
			continue
		}
		cell := strings.TrimSpace(renderChildren(c))
		cell = strings.Join(strings.Fields(cell), " ")
		cell = strings.ReplaceAll(cell, "|", "\\|")
		cells = append(cells, cell)
	}
	return cells
}

// textContent gathers the raw text of a subtree, no wrappers applied.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
