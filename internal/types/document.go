// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"maps"
	"slices"
	"time"
)

// DefaultSectionOrder is the section order of a new document
var DefaultSectionOrder = []string{
	"personal",
	"experience",
	"education",
	"skills",
	"projects",
	"certifications",
	"languages",
	"achievements",
	"extraCurriculars",
}

// ResumeData is the denormalized snapshot of a whole resume document.
// It is the sole input to rendering and export, and the import/export file format.
type ResumeData struct {
	PersonalInfo     PersonalInfo             `json:"personalInfo"`
	Experience       []Experience             `json:"experience"`
	Education        []Education              `json:"education"`
	Skills           Skills                   `json:"skills"`
	Projects         []Project                `json:"projects"`
	Certifications   []Certification          `json:"certifications"`
	Languages        []Language               `json:"languages"`
	Achievements     []Achievement            `json:"achievements"`
	ExtraCurriculars []ExtraCurricular        `json:"extraCurriculars"`
	CustomSections   map[string]CustomSection `json:"customSections"`
	ResumeMetadata   ResumeMetadata           `json:"resumeMetadata"`
}

// DefaultMetadata returns the metadata of an empty document stamped with now
func DefaultMetadata(now time.Time) ResumeMetadata {
	return ResumeMetadata{
		Template:     TemplateModern,
		ColorScheme:  "blue",
		FontSize:     "medium",
		SectionOrder: slices.Clone(DefaultSectionOrder),
		LastUpdated:  now.UTC().Format(time.RFC3339Nano),
	}
}

// NewResumeData returns an empty document with every collection initialized
func NewResumeData(now time.Time) ResumeData {
	return ResumeData{
		Experience: []Experience{},
		Education:  []Education{},
		Skills: Skills{
			Languages:  []Skill{},
			Frameworks: []Skill{},
			Tools:      []Skill{},
		},
		Projects:         []Project{},
		Certifications:   []Certification{},
		Languages:        []Language{},
		Achievements:     []Achievement{},
		ExtraCurriculars: []ExtraCurricular{},
		CustomSections:   map[string]CustomSection{},
		ResumeMetadata:   DefaultMetadata(now),
	}
}

// Bucket returns the skill list for a category, or nil for an unknown category
func (s *Skills) Bucket(c SkillCategory) *[]Skill {
	switch c {
	case SkillLanguages:
		return &s.Languages
	case SkillFrameworks:
		return &s.Frameworks
	case SkillTools:
		return &s.Tools
	}
	return nil
}

// All returns every skill across the buckets in display order
func (s Skills) All() []Skill {
	all := make([]Skill, 0, len(s.Languages)+len(s.Frameworks)+len(s.Tools))
	all = append(all, s.Languages...)
	all = append(all, s.Frameworks...)
	return append(all, s.Tools...)
}

// Clone returns a deep copy of the document so that no slice or map is shared
func (d ResumeData) Clone() ResumeData {
	out := d
	out.Experience = cloneEach(d.Experience, func(e Experience) Experience {
		e.Bullets = cloneSlice(e.Bullets)
		return e
	})
	out.Education = cloneEach(d.Education, func(e Education) Education {
		e.Bullets = cloneSlice(e.Bullets)
		if e.GradeValue != nil {
			v := *e.GradeValue
			e.GradeValue = &v
		}
		return e
	})
	out.Skills = Skills{
		Languages:  cloneSlice(d.Skills.Languages),
		Frameworks: cloneSlice(d.Skills.Frameworks),
		Tools:      cloneSlice(d.Skills.Tools),
	}
	out.Projects = cloneEach(d.Projects, func(p Project) Project {
		p.TechStack = cloneSlice(p.TechStack)
		p.Bullets = cloneSlice(p.Bullets)
		return p
	})
	out.Certifications = cloneSlice(d.Certifications)
	out.Languages = cloneSlice(d.Languages)
	out.Achievements = cloneEach(d.Achievements, func(a Achievement) Achievement {
		a.Bullets = cloneSlice(a.Bullets)
		return a
	})
	out.ExtraCurriculars = cloneEach(d.ExtraCurriculars, func(x ExtraCurricular) ExtraCurricular {
		x.Bullets = cloneSlice(x.Bullets)
		return x
	})
	if d.CustomSections != nil {
		out.CustomSections = make(map[string]CustomSection, len(d.CustomSections))
		for k, v := range d.CustomSections {
			v.Bullets = cloneSlice(v.Bullets)
			out.CustomSections[k] = v
		}
	}
	out.ResumeMetadata.SectionOrder = cloneSlice(d.ResumeMetadata.SectionOrder)
	return out
}

// CustomSectionKeys returns the keys of the custom section map in sorted order
func (d ResumeData) CustomSectionKeys() []string {
	return slices.Sorted(maps.Keys(d.CustomSections))
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return slices.Clone(in)
}

func cloneEach[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
