package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/nguyenthenguyen/docx"
)

// DOCXFile fills the placeholders of the Word template at templatePath and
// writes the result to w.
func DOCXFile(w io.Writer, templatePath string, doc types.ResumeData) error {
	r, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return &Error{Format: FormatDOCX, Message: fmt.Sprintf("failed to open template %s", templatePath), Cause: err}
	}
	defer r.Close()

	return fillDOCX(w, r.Editable(), doc)
}

// DOCX fills the placeholders of the Word template read from tmpl
func DOCX(w io.Writer, tmpl io.Reader, doc types.ResumeData) error {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, tmpl); err != nil {
		return &Error{Format: FormatDOCX, Message: "failed to read template", Cause: err}
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return &Error{Format: FormatDOCX, Message: "failed to parse template", Cause: err}
	}
	defer r.Close()

	return fillDOCX(w, r.Editable(), doc)
}

func fillDOCX(w io.Writer, d *docx.Docx, doc types.ResumeData) error {
	for placeholder, value := range Placeholders(doc) {
		if err := d.Replace(placeholder, value, -1); err != nil {
			return &Error{Format: FormatDOCX, Message: fmt.Sprintf("failed to replace %s", placeholder), Cause: err}
		}
	}
	if err := d.Write(w); err != nil {
		return &Error{Format: FormatDOCX, Message: "failed to write document", Cause: err}
	}
	return nil
}

// Placeholders maps each {{placeholder}} understood in Word templates to its
// value. Multi-line values become line breaks in the document.
func Placeholders(doc types.ResumeData) map[string]string {
	info := doc.PersonalInfo
	values := map[string]string{
		"name":     info.Name,
		"title":    info.Title,
		"email":    info.Email,
		"phone":    info.Phone,
		"address":  info.Address,
		"linkedin": info.LinkedIn,
		"github":   info.GitHub,
		"website":  info.Website,
		"summary":  info.Summary,

		sections.Experience:       experienceText(doc.Experience),
		sections.Education:        educationText(doc.Education),
		sections.Skills:           skillsText(doc.Skills),
		sections.Projects:         projectsText(doc.Projects),
		sections.Certifications:   certificationsText(doc.Certifications),
		sections.Languages:        languagesText(doc.Languages),
		sections.Achievements:     achievementsText(doc.Achievements),
		sections.ExtraCurriculars: extraCurricularsText(doc.ExtraCurriculars),
	}
	for key, cs := range doc.CustomSections {
		values[key] = bulletBlock(content.Normalize(cs.Content, cs.Bullets))
	}

	out := make(map[string]string, len(values))
	for k, v := range values {
		out["{{"+k+"}}"] = v
	}
	return out
}

func bulletBlock(bullets []string) string {
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		lines = append(lines, content.BulletMarker+" "+b)
	}
	return strings.Join(lines, "\n")
}

func entryText(heading, dates string, bullets []string) string {
	var sb strings.Builder
	sb.WriteString(heading)
	if dates != "" {
		sb.WriteString(" (" + dates + ")")
	}
	if b := bulletBlock(bullets); b != "" {
		sb.WriteString("\n" + b)
	}
	return sb.String()
}

func joinEntries(entries []string) string {
	return strings.Join(entries, "\n\n")
}

func experienceText(list []types.Experience) string {
	entries := make([]string, 0, len(list))
	for _, e := range list {
		heading := strings.Join(nonEmpty(e.Position, e.Company, e.Location), ", ")
		entries = append(entries, entryText(heading, content.DateRange(e.StartDate, e.EndDate, e.Current), e.Bullets))
	}
	return joinEntries(entries)
}

func educationText(list []types.Education) string {
	entries := make([]string, 0, len(list))
	for _, e := range list {
		degree := e.Degree
		if e.Field != "" {
			degree = strings.TrimSpace(degree + " in " + e.Field)
		}
		heading := strings.Join(nonEmpty(degree, e.Institution), ", ")
		entries = append(entries, entryText(heading, content.DateRange(e.StartDate, e.EndDate, e.Current), e.Bullets))
	}
	return joinEntries(entries)
}

func projectsText(list []types.Project) string {
	entries := make([]string, 0, len(list))
	for _, p := range list {
		heading := p.Title
		if len(p.TechStack) > 0 {
			heading += " [" + strings.Join(p.TechStack, ", ") + "]"
		}
		entries = append(entries, entryText(heading, content.DateRange(p.StartDate, p.EndDate, p.Current), p.Bullets))
	}
	return joinEntries(entries)
}

func skillsText(skills types.Skills) string {
	lines := make([]string, 0, len(types.SkillCategories))
	for _, category := range types.SkillCategories {
		bucket := skills.Bucket(category)
		if len(*bucket) == 0 {
			continue
		}
		names := make([]string, 0, len(*bucket))
		for _, s := range *bucket {
			names = append(names, s.Name)
		}
		lines = append(lines, sections.DisplayName(string(category))+": "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

func certificationsText(list []types.Certification) string {
	lines := make([]string, 0, len(list))
	for _, c := range list {
		lines = append(lines, strings.Join(nonEmpty(c.Name, c.Issuer, content.FormatDate(c.Date)), ", "))
	}
	return strings.Join(lines, "\n")
}

func languagesText(list []types.Language) string {
	lines := make([]string, 0, len(list))
	for _, l := range list {
		line := l.Name
		if l.Proficiency != "" {
			line += " (" + string(l.Proficiency) + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func achievementsText(list []types.Achievement) string {
	entries := make([]string, 0, len(list))
	for _, a := range list {
		entries = append(entries, entryText(a.Title, content.FormatDate(a.Date), a.Bullets))
	}
	return joinEntries(entries)
}

func extraCurricularsText(list []types.ExtraCurricular) string {
	entries := make([]string, 0, len(list))
	for _, x := range list {
		entries = append(entries, entryText(x.Title, content.FormatDate(x.Date), x.Bullets))
	}
	return joinEntries(entries)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
