// Package rendering renders resume snapshots as HTML previews and LaTeX source.
package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/resume.tex.tmpl
var defaultLaTeXTemplate string

// LaTeXData is the data passed to the LaTeX template. Every string is
// already escaped.
type LaTeXData struct {
	Name     string
	Contact  []string
	Sections []LaTeXSection
}

// LaTeXSection is one non-empty section of the LaTeX output
type LaTeXSection struct {
	Key   string
	Title string
	Items []LaTeXItem
	Lines []string
}

// LaTeXItem is one entry within a section
type LaTeXItem struct {
	Heading string
	Detail  string
	Dates   string
	Bullets []string
}

// latexBuilder produces a section for key, or ok=false when it has no content
type latexBuilder func(doc types.ResumeData, key string) (LaTeXSection, bool)

var latexRegistry = newLaTeXRegistry()

func newLaTeXRegistry() *sections.Registry[latexBuilder] {
	r := sections.NewRegistry[latexBuilder](latexCustom)
	r.Register(sections.Experience, "Work Experience", latexExperience)
	r.Register(sections.Education, "Education", latexEducation)
	r.Register(sections.Skills, "Skills", latexSkills)
	r.Register(sections.Projects, "Projects", latexProjects)
	r.Register(sections.Certifications, "Certifications", latexCertifications)
	r.Register(sections.Languages, "Languages", latexLanguages)
	r.Register(sections.Achievements, "Achievements", latexAchievements)
	r.Register(sections.ExtraCurriculars, "Extra-Curriculars", latexExtraCurriculars)
	r.Register(sections.Personal, "Personal Information", latexNone)
	r.Register(sections.PersonalInfo, "Personal Information", latexNone)
	r.Register(sections.Summary, "Summary", latexNone)
	return r
}

// RenderLaTeX renders doc with the embedded LaTeX template
func RenderLaTeX(doc types.ResumeData) (string, error) {
	tmpl, err := parseTemplate("resume.tex", defaultLaTeXTemplate)
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, doc)
}

// RenderLaTeXFile renders doc with the LaTeX template at templatePath
func RenderLaTeXFile(doc types.ResumeData, templatePath string) (string, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &TemplateError{Template: templatePath, Message: "template file not found", Cause: err}
		}
		return "", &TemplateError{Template: templatePath, Message: "failed to read template file", Cause: err}
	}

	tmpl, err := parseTemplate(templatePath, string(raw))
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, doc)
}

func executeLaTeX(tmpl *template.Template, doc types.ResumeData) (string, error) {
	data := BuildLaTeXData(doc)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{Template: tmpl.Name(), Message: "failed to execute template", Cause: err}
	}
	return result.String(), nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"join":   strings.Join,
	}).Parse(text)
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

// latexLink renders a profile link. Bare hosts get an https scheme in the
// target but are shown as typed.
func latexLink(v string) string {
	target := v
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	return fmt.Sprintf(`\href{%s}{%s}`, EscapeURL(target), EscapeLaTeX(v))
}

// BuildLaTeXData escapes doc into template data. Core sections keep their
// fixed slots, custom sections follow in section order and empty sections
// are left out.
func BuildLaTeXData(doc types.ResumeData) *LaTeXData {
	info := doc.PersonalInfo
	contact := make([]string, 0, 6)
	for _, v := range []string{info.Email, info.Phone, info.Address} {
		if v = strings.TrimSpace(v); v != "" {
			contact = append(contact, EscapeLaTeX(v))
		}
	}
	for _, v := range []string{info.LinkedIn, info.GitHub, info.Website} {
		if v = strings.TrimSpace(v); v != "" {
			contact = append(contact, latexLink(v))
		}
	}

	data := &LaTeXData{
		Name:    EscapeLaTeX(info.Name),
		Contact: contact,
	}

	if summary := strings.TrimSpace(info.Summary); summary != "" {
		data.Sections = append(data.Sections, LaTeXSection{
			Key:   sections.Summary,
			Title: "Summary",
			Lines: []string{EscapeLaTeX(summary)},
		})
	}

	order := doc.ResumeMetadata.SectionOrder
	entries := make([]sections.Entry[latexBuilder], 0, len(order))
	for _, key := range sections.Slots {
		if key != sections.Summary && sections.Contains(order, key) {
			e, _ := latexRegistry.Lookup(key)
			entries = append(entries, e)
		}
	}
	entries = append(entries, latexRegistry.ResolveCustom(order)...)

	for _, entry := range entries {
		section, ok := entry.Renderer(doc, entry.Key)
		if !ok {
			continue
		}
		section.Key = entry.Key
		if section.Title == "" {
			section.Title = EscapeLaTeX(entry.Title)
		}
		data.Sections = append(data.Sections, section)
	}
	return data
}

func escapeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, EscapeLaTeX(s))
	}
	return out
}

func latexDates(start, end string, current bool) string {
	return EscapeLaTeX(content.DateRange(start, end, current))
}

func latexNone(types.ResumeData, string) (LaTeXSection, bool) {
	return LaTeXSection{}, false
}

func latexExperience(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	items := make([]LaTeXItem, 0, len(doc.Experience))
	for _, e := range doc.Experience {
		items = append(items, LaTeXItem{
			Heading: EscapeLaTeX(e.Position),
			Detail:  EscapeLaTeX(strings.Join(nonEmpty(e.Company, e.Location), ", ")),
			Dates:   latexDates(e.StartDate, e.EndDate, e.Current),
			Bullets: escapeAll(e.Bullets),
		})
	}
	return LaTeXSection{Items: items}, len(items) > 0
}

func latexEducation(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	items := make([]LaTeXItem, 0, len(doc.Education))
	for _, e := range doc.Education {
		degree := e.Degree
		if e.Field != "" {
			degree = strings.TrimSpace(degree + " in " + e.Field)
		}
		if g := gradeLabel(e); g != "" {
			degree = strings.Join(nonEmpty(degree, g), ", ")
		}
		items = append(items, LaTeXItem{
			Heading: EscapeLaTeX(e.Institution),
			Detail:  EscapeLaTeX(degree),
			Dates:   latexDates(e.StartDate, e.EndDate, e.Current),
			Bullets: escapeAll(e.Bullets),
		})
	}
	return LaTeXSection{Items: items}, len(items) > 0
}

func latexSkills(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	var lines []string
	for _, g := range skillGroups(doc.Skills) {
		lines = append(lines, fmt.Sprintf(`\textbf{%s:} %s`, EscapeLaTeX(g.Label), EscapeLaTeX(strings.Join(g.Names, ", "))))
	}
	return LaTeXSection{Lines: lines}, len(lines) > 0
}

func latexProjects(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	items := make([]LaTeXItem, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		items = append(items, LaTeXItem{
			Heading: EscapeLaTeX(p.Title),
			Detail:  EscapeLaTeX(strings.Join(p.TechStack, ", ")),
			Dates:   latexDates(p.StartDate, p.EndDate, p.Current),
			Bullets: escapeAll(p.Bullets),
		})
	}
	return LaTeXSection{Items: items}, len(items) > 0
}

func latexCertifications(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	items := make([]LaTeXItem, 0, len(doc.Certifications))
	for _, c := range doc.Certifications {
		items = append(items, LaTeXItem{
			Heading: EscapeLaTeX(c.Name),
			Detail:  EscapeLaTeX(c.Issuer),
			Dates:   EscapeLaTeX(content.FormatDate(c.Date)),
		})
	}
	return LaTeXSection{Items: items}, len(items) > 0
}

func latexLanguages(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	lines := make([]string, 0, len(doc.Languages))
	for _, l := range doc.Languages {
		line := EscapeLaTeX(l.Name)
		if l.Proficiency != "" {
			line += ": " + EscapeLaTeX(string(l.Proficiency))
		}
		lines = append(lines, line)
	}
	return LaTeXSection{Lines: lines}, len(lines) > 0
}

func latexAchievements(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	items := make([]LaTeXItem, 0, len(doc.Achievements))
	for _, a := range doc.Achievements {
		items = append(items, LaTeXItem{
			Heading: EscapeLaTeX(a.Title),
			Dates:   EscapeLaTeX(content.FormatDate(a.Date)),
			Bullets: escapeAll(a.Bullets),
		})
	}
	return LaTeXSection{Items: items}, len(items) > 0
}

func latexExtraCurriculars(doc types.ResumeData, _ string) (LaTeXSection, bool) {
	items := make([]LaTeXItem, 0, len(doc.ExtraCurriculars))
	for _, x := range doc.ExtraCurriculars {
		items = append(items, LaTeXItem{
			Heading: EscapeLaTeX(x.Title),
			Dates:   EscapeLaTeX(content.FormatDate(x.Date)),
			Bullets: escapeAll(x.Bullets),
		})
	}
	return LaTeXSection{Items: items}, len(items) > 0
}

func latexCustom(doc types.ResumeData, key string) (LaTeXSection, bool) {
	cs, ok := doc.CustomSections[key]
	if !ok {
		return LaTeXSection{}, false
	}
	bullets := content.Normalize(cs.Content, cs.Bullets)
	if len(bullets) == 0 {
		return LaTeXSection{}, false
	}
	title := cs.Title
	if title == "" {
		title = sections.DisplayName(key)
	}
	return LaTeXSection{
		Title: EscapeLaTeX(title),
		Items: []LaTeXItem{{Bullets: escapeAll(bullets)}},
	}, true
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
