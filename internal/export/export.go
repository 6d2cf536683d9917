// Package export writes resume snapshots in the formats offered for download.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// Format names an export format
type Format string

// Supported export formats
const (
	FormatJSON  Format = "json"
	FormatHTML  Format = "html"
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatText  Format = "txt"
	FormatLaTeX Format = "tex"
)

// Formats lists every supported format
var Formats = []Format{FormatJSON, FormatHTML, FormatPDF, FormatDOCX, FormatText, FormatLaTeX}

// Error represents a failed export
type Error struct {
	Format  Format
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s export failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s export failed: %s", e.Format, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// JSON writes doc in the import/export file format
func JSON(w io.Writer, doc types.ResumeData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return &Error{Format: FormatJSON, Message: "failed to encode document", Cause: err}
	}
	return nil
}

// HTML writes the preview of doc rendered with the template named in its metadata
func HTML(w io.Writer, p *rendering.Previewer, doc types.ResumeData) error {
	html, err := p.Render(doc)
	if err != nil {
		return &Error{Format: FormatHTML, Message: "failed to render preview", Cause: err}
	}
	if _, err := io.WriteString(w, html); err != nil {
		return &Error{Format: FormatHTML, Message: "failed to write output", Cause: err}
	}
	return nil
}

// LaTeX writes the LaTeX source of doc
func LaTeX(w io.Writer, doc types.ResumeData) error {
	tex, err := rendering.RenderLaTeX(doc)
	if err != nil {
		return &Error{Format: FormatLaTeX, Message: "failed to render LaTeX", Cause: err}
	}
	if _, err := io.WriteString(w, tex); err != nil {
		return &Error{Format: FormatLaTeX, Message: "failed to write output", Cause: err}
	}
	return nil
}
