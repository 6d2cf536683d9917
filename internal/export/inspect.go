package export

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFInfo describes a printed résumé
type PDFInfo struct {
	Pages int
	Text  string
}

// InspectPDF reads back a PDF to count its pages and pull out the text
// layer. Résumés that spill onto a second page are worth a warning.
func InspectPDF(data []byte) (PDFInfo, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFInfo{}, &Error{Format: FormatPDF, Message: "failed to read pdf", Cause: err}
	}

	info := PDFInfo{Pages: reader.NumPage()}
	var sb strings.Builder
	for i := 1; i <= info.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	info.Text = sb.String()
	return info, nil
}
