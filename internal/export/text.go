package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = map[string]bool{
	"div": true, "section": true, "header": true, "p": true,
	"h1": true, "h2": true, "h3": true, "ul": true, "li": true,
}

// PlainText extracts ATS-friendly text from a rendered preview.
// Section titles are upper-cased and list items are prefixed with "- ".
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &Error{Format: FormatText, Message: "failed to parse HTML", Cause: err}
	}
	doc.Find("script, style, noscript, title").Remove()

	var sb strings.Builder
	walk(doc.Find("body"), &sb)
	return cleanWhitespace(sb.String()), nil
}

func walk(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			sb.WriteString(strings.Join(strings.Fields(s.Text()), " "))
			sb.WriteString(" ")
		case name == "h2":
			sb.WriteString("\n" + strings.ToUpper(strings.TrimSpace(s.Text())) + "\n")
		case blockElements[name]:
			sb.WriteString("\n")
			if name == "li" {
				sb.WriteString("- ")
			}
			walk(s, sb)
			sb.WriteString("\n")
		default:
			walk(s, sb)
		}
	})
}

// cleanWhitespace trims each line and drops empty ones
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
