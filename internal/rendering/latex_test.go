package rendering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() types.ResumeData {
	doc := types.NewResumeData(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	doc.PersonalInfo = types.PersonalInfo{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "555-0100",
		LinkedIn: "linkedin.com/in/ada",
		Summary:  "Engineer with 10% more curiosity",
	}
	doc.Experience = []types.Experience{{
		ID:        "e1",
		Company:   "R&D Labs",
		Position:  "Engineer",
		StartDate: "01/2020",
		Current:   true,
		Bullets:   []string{"Cut costs by $1M", "Built the analytical_engine"},
	}}
	grade := 9.2
	doc.Education = []types.Education{{
		ID:          "ed1",
		Institution: "Cambridge",
		Degree:      "Bachelor's",
		Field:       "Mathematics",
		GradeType:   types.GradeCGPA,
		GradeValue:  &grade,
		StartDate:   "2012",
		EndDate:     "2016",
		Bullets:     []string{},
	}}
	doc.Skills.Languages = []types.Skill{{ID: "s1", Name: "Go", Category: types.SkillLanguages}}
	doc.Skills.Tools = []types.Skill{{ID: "s2", Name: "Docker", Category: types.SkillTools}}
	doc.ResumeMetadata.SectionOrder = append(doc.ResumeMetadata.SectionOrder, "hobbies", "volunteer_work", "empty_one")
	doc.CustomSections = map[string]types.CustomSection{
		"hobbies":        {Title: "Hobbies", Content: "Chess", Bullets: []string{"Chess"}},
		"volunteer_work": {Title: "Volunteer Work", Bullets: []string{"Food bank"}},
		"empty_one":      {Title: "Empty", Bullets: []string{}},
	}
	return doc
}

func TestRenderLaTeX_EscapesAndOrders(t *testing.T) {
	out, err := RenderLaTeX(sampleDocument())
	require.NoError(t, err)

	assert.Contains(t, out, `\documentclass`)
	assert.Contains(t, out, `\textbf{Ada Lovelace}`)
	assert.Contains(t, out, `R\&D Labs`)
	assert.Contains(t, out, `\item Cut costs by \$1M`)
	assert.Contains(t, out, `analytical\_engine`)
	assert.Contains(t, out, `10\% more curiosity`)
	assert.Contains(t, out, "Jan 2020 – Present")
	assert.Contains(t, out, "CGPA: 9.2/10")

	experience := strings.Index(out, `\section*{Work Experience}`)
	education := strings.Index(out, `\section*{Education}`)
	hobbies := strings.Index(out, `\section*{Hobbies}`)
	volunteer := strings.Index(out, `\section*{Volunteer Work}`)
	require.True(t, experience >= 0 && education >= 0 && hobbies >= 0 && volunteer >= 0)
	assert.Less(t, experience, education)
	assert.Less(t, education, hobbies)
	assert.Less(t, hobbies, volunteer)
}

func TestBuildLaTeXData_CoreSectionsUseFixedSlots(t *testing.T) {
	doc := sampleDocument()
	doc.ResumeMetadata.SectionOrder = []string{"hobbies", "skills", "education", "personal", "experience", "volunteer_work"}

	data := BuildLaTeXData(doc)
	keys := make([]string, 0, len(data.Sections))
	for _, s := range data.Sections {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"summary", "experience", "education", "skills", "hobbies", "volunteer_work"}, keys)
}

func TestRenderLaTeX_MatchesPreviewAfterReorder(t *testing.T) {
	doc := sampleDocument()
	order := doc.ResumeMetadata.SectionOrder
	order[1], order[2] = order[2], order[1]
	require.Equal(t, "education", order[1])

	out, err := RenderLaTeX(doc)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, `\section*{Work Experience}`), strings.Index(out, `\section*{Education}`))

	var previewed []string
	renderPreview(t, doc, types.TemplateBasic).Find("section.section").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("data-section")
		previewed = append(previewed, key)
	})
	var rendered []string
	for _, section := range BuildLaTeXData(doc).Sections {
		rendered = append(rendered, section.Key)
	}
	assert.Equal(t, previewed, rendered)
}

func TestBuildLaTeXData_ContactLinks(t *testing.T) {
	doc := sampleDocument()
	doc.PersonalInfo.Website = "https://ada.dev/#work"

	data := BuildLaTeXData(doc)
	assert.Equal(t, []string{
		"ada@example.com",
		"555-0100",
		`\href{https://linkedin.com/in/ada}{linkedin.com/in/ada}`,
		`\href{https://ada.dev/\#work}{https://ada.dev/\#work}`,
	}, data.Contact)
}

func TestRenderLaTeX_OmitsEmptySections(t *testing.T) {
	out, err := RenderLaTeX(sampleDocument())
	require.NoError(t, err)

	assert.NotContains(t, out, `\section*{Projects}`)
	assert.NotContains(t, out, `\section*{Certifications}`)
	assert.NotContains(t, out, `\section*{Empty}`)
}

func TestBuildLaTeXData_SkipsSectionsMissingFromOrder(t *testing.T) {
	doc := sampleDocument()
	doc.ResumeMetadata.SectionOrder = []string{"personal", "skills"}

	data := BuildLaTeXData(doc)
	keys := make([]string, 0, len(data.Sections))
	for _, s := range data.Sections {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"summary", "skills"}, keys)
}

func TestRenderLaTeXFile(t *testing.T) {
	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "test.tex")
	templateContent := `\documentclass{article}
\begin{document}
Name: {{.Name}}
{{range .Sections}}[{{.Title}}]{{end}}
\end{document}`
	require.NoError(t, os.WriteFile(templatePath, []byte(templateContent), 0o644))

	out, err := RenderLaTeXFile(sampleDocument(), templatePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Ada Lovelace")
	assert.Contains(t, out, "[Skills]")
}

func TestRenderLaTeXFile_InvalidPath(t *testing.T) {
	_, err := RenderLaTeXFile(sampleDocument(), "/nonexistent/template.tex")
	require.Error(t, err)
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template file not found")
}

func TestRenderLaTeXFile_InvalidTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "bad.tex")
	require.NoError(t, os.WriteFile(templatePath, []byte(`{{.Name`), 0o644))

	_, err := RenderLaTeXFile(sampleDocument(), templatePath)
	require.Error(t, err)
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "failed to parse template")
}
