package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var coreTitles = map[string]string{
	sections.Summary:          "Professional Summary",
	sections.Experience:       "Experience",
	sections.Education:        "Education",
	sections.Projects:         "Projects",
	sections.Skills:           "Skills",
	sections.Certifications:   "Certifications",
	sections.Languages:        "Languages",
	sections.Achievements:     "Achievements",
	sections.ExtraCurriculars: "Extra-Curricular Activities",
}

// colorSchemes maps the colorScheme setting to an accent color
var colorSchemes = map[string]string{
	"blue":   "#1d4ed8",
	"green":  "#047857",
	"red":    "#b91c1c",
	"purple": "#6d28d9",
	"gray":   "#374151",
	"black":  "#000000",
}

var fontSizes = map[string]string{
	"small":  "13px",
	"medium": "14px",
	"large":  "16px",
}

// Section is one rendered block of the preview
type Section struct {
	Key   string
	Kind  sections.Kind
	Title string
	HTML  template.HTML
}

type pageData struct {
	Personal types.PersonalInfo
	Sections []Section
	Accent   string
	FontSize string
}

type blockData struct {
	Doc    types.ResumeData
	Key    string
	Title  string
	Custom types.CustomSection
}

type skillGroup struct {
	Category types.SkillCategory
	Label    string
	Names    []string
}

var funcs = template.FuncMap{
	"dateRange":   content.DateRange,
	"formatDate":  content.FormatDate,
	"join":        strings.Join,
	"href":        href,
	"grade":       gradeLabel,
	"skillGroups": skillGroups,
}

// Previewer renders HTML previews for the registered page templates
type Previewer struct {
	pages    map[string]*template.Template
	registry *sections.Registry[string]
}

// NewPreviewer parses the embedded templates
func NewPreviewer() (*Previewer, error) {
	p := &Previewer{
		pages:    make(map[string]*template.Template),
		registry: sections.NewRegistry("custom"),
	}
	for _, key := range sections.Slots {
		p.registry.Register(key, coreTitles[key], key)
	}

	for _, name := range []string{types.TemplateBasic, types.TemplateModern} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/sections.html.tmpl",
			fmt.Sprintf("templates/%s.html.tmpl", name),
		)
		if err != nil {
			return nil, &TemplateError{Template: name, Message: "failed to parse page template", Cause: err}
		}
		p.pages[name] = tmpl
	}
	return p, nil
}

// Templates returns the names of the available page templates
func (p *Previewer) Templates() []string {
	return []string{types.TemplateBasic, types.TemplateModern}
}

// Render produces the HTML preview of doc using the template named in its
// metadata. An unknown template name falls back to modern.
func (p *Previewer) Render(doc types.ResumeData) (string, error) {
	return p.RenderWith(doc, doc.ResumeMetadata.Template)
}

// RenderWith produces the HTML preview of doc using the named template
func (p *Previewer) RenderWith(doc types.ResumeData, name string) (string, error) {
	tmpl, ok := p.pages[name]
	if !ok {
		tmpl = p.pages[types.TemplateModern]
	}

	blocks, err := p.renderSections(tmpl, doc)
	if err != nil {
		return "", err
	}

	data := pageData{
		Personal: doc.PersonalInfo,
		Sections: blocks,
		Accent:   lookupOr(colorSchemes, doc.ResumeMetadata.ColorScheme, colorSchemes["blue"]),
		FontSize: lookupOr(fontSizes, doc.ResumeMetadata.FontSize, fontSizes["medium"]),
	}

	var out bytes.Buffer
	if err := tmpl.ExecuteTemplate(&out, "page", data); err != nil {
		return "", &TemplateError{Template: tmpl.Name(), Message: "failed to execute page template", Cause: err}
	}
	return out.String(), nil
}

// renderSections renders core sections in their fixed slots, then custom
// sections in section order. Sections without content are omitted.
func (p *Previewer) renderSections(tmpl *template.Template, doc types.ResumeData) ([]Section, error) {
	order := doc.ResumeMetadata.SectionOrder

	entries := make([]sections.Entry[string], 0, len(order))
	for _, key := range sections.Slots {
		if key == sections.Summary || sections.Contains(order, key) {
			e, _ := p.registry.Lookup(key)
			entries = append(entries, e)
		}
	}
	entries = append(entries, p.registry.ResolveCustom(order)...)

	out := make([]Section, 0, len(entries))
	for _, e := range entries {
		data := blockData{Doc: doc, Key: e.Key, Title: e.Title}
		if e.Kind == sections.KindCustom {
			data.Custom = doc.CustomSections[e.Key]
			if data.Custom.Title != "" {
				data.Title = data.Custom.Title
			}
		}

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, e.Renderer, data); err != nil {
			return nil, &SectionError{Section: e.Key, Cause: err}
		}
		html := strings.TrimSpace(buf.String())
		if html == "" {
			continue
		}
		out = append(out, Section{
			Key:   e.Key,
			Kind:  e.Kind,
			Title: data.Title,
			HTML:  template.HTML(html), //nolint:gosec // produced by html/template
		})
	}
	return out, nil
}

func href(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") || strings.HasPrefix(link, "mailto:") {
		return link
	}
	return "https://" + link
}

func gradeLabel(edu types.Education) string {
	if edu.GradeValue == nil {
		return ""
	}
	gradeType := edu.GradeType
	if gradeType == "" {
		gradeType = types.GradeCGPA
	}
	if gradeType == types.GradePercentage {
		return fmt.Sprintf("%s: %g%%", gradeType.Label(), *edu.GradeValue)
	}
	return fmt.Sprintf("%s: %g/%g", gradeType.Label(), *edu.GradeValue, gradeType.MaxGrade())
}

func skillGroups(skills types.Skills) []skillGroup {
	groups := make([]skillGroup, 0, len(types.SkillCategories))
	for _, category := range types.SkillCategories {
		bucket := skills.Bucket(category)
		if bucket == nil || len(*bucket) == 0 {
			continue
		}
		names := make([]string, 0, len(*bucket))
		for _, s := range *bucket {
			names = append(names, s.Name)
		}
		groups = append(groups, skillGroup{
			Category: category,
			Label:    sections.DisplayName(string(category)),
			Names:    names,
		})
	}
	return groups
}

func lookupOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
