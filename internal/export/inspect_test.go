package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a PDF with one Helvetica text line per page
func minimalPDF(t *testing.T, lines ...string) []byte {
	t.Helper()

	var objects []string
	kids := make([]string, len(lines))
	objects = append(objects, "", "") // catalog and pages, filled below
	fontID := 3
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	for i, line := range lines {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		contentID := len(objects)
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
			contentID, fontID))
		kids[i] = fmt.Sprintf("%d 0 R", len(objects))
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(lines))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestInspectPDF(t *testing.T) {
	info, err := InspectPDF(minimalPDF(t, "Ada Lovelace", "Second page"))
	require.NoError(t, err)

	assert.Equal(t, 2, info.Pages)
	assert.Contains(t, info.Text, "Ada Lovelace")
	assert.Contains(t, info.Text, "Second page")
}

func TestInspectPDF_NotAPDF(t *testing.T) {
	_, err := InspectPDF([]byte("plain text"))

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, FormatPDF, exportErr.Format)
}
