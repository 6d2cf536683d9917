// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, width: 80}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintDocument outputs a summary of the document: who it is for, how many
// entries each section holds and the order sections render in.
func (p *Printer) PrintDocument(doc types.ResumeData) {
	var sb strings.Builder

	name := doc.PersonalInfo.Name
	if name == "" {
		name = "(unnamed)"
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	if doc.PersonalInfo.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", doc.PersonalInfo.Title))
	}
	sb.WriteString(fmt.Sprintf("Template: %s (%s)\n", doc.ResumeMetadata.Template, doc.ResumeMetadata.ColorScheme))
	sb.WriteString("\n")

	counts := []struct {
		label string
		n     int
	}{
		{"Experience", len(doc.Experience)},
		{"Education", len(doc.Education)},
		{"Skills", len(doc.Skills.All())},
		{"Projects", len(doc.Projects)},
		{"Certifications", len(doc.Certifications)},
		{"Languages", len(doc.Languages)},
		{"Achievements", len(doc.Achievements)},
		{"Activities", len(doc.ExtraCurriculars)},
		{"Custom sections", len(doc.CustomSections)},
	}
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("%-16s %d\n", c.label+":", c.n))
	}

	order := doc.ResumeMetadata.SectionOrder
	if len(order) > 0 {
		sb.WriteString("\nOrder:\n")
		count := min(len(order), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, order[i]))
		}
		if len(order) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(order)-maxItemsToShow))
		}
	}

	p.printBox("RESUME DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFillResult outputs how many entries received drafted bullets
func (p *Printer) PrintFillResult(result assist.FillResult) {
	content := fmt.Sprintf("Drafted:  %d\nFallback: %d", result.Applied, result.Fallback)
	p.printBox("BULLET DRAFTS", content)
}

// PrintValidation outputs the outcome of validating a document
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(path string, err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ VALID: "+truncate(path, boxWidth-13))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	p.printBox("⚠ INVALID: "+truncate(path, boxWidth-15), err.Error())
}

// ReviewMarkdown formats a review as Markdown
func ReviewMarkdown(review *types.Review) string {
	var sb strings.Builder
	sb.WriteString("# Resume review\n\n")
	sb.WriteString(strings.TrimSpace(review.Review))
	sb.WriteString("\n")
	if len(review.Suggestions) > 0 {
		sb.WriteString("\n## Suggestions\n\n")
		for _, s := range review.Suggestions {
			sb.WriteString("- " + strings.TrimSpace(s) + "\n")
		}
	}
	return sb.String()
}

// PrintReview renders a review for the terminal. When styled is false the
// Markdown is written as is, for pipes and files.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReview(review *types.Review, styled bool) error {
	if review == nil {
		return nil
	}
	md := ReviewMarkdown(review)
	if !styled {
		fmt.Fprint(p.out, md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render review: %w", err)
	}
	fmt.Fprint(p.out, out)
	return nil
}
