package store

import (
	"slices"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/types"
)

// Patches carry the fields to change; nil fields are left untouched.
// A nil Bullets slice means "unset", an empty non-nil slice clears bullets.

// PersonalInfoPatch updates the personal info block
type PersonalInfoPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
	GitHub   *string `json:"github,omitempty"`
	Website  *string `json:"website,omitempty"`
	Photo    *string `json:"photo,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	Title    *string `json:"title,omitempty"`
}

func (p PersonalInfoPatch) apply(info *types.PersonalInfo) {
	set(&info.Name, p.Name)
	set(&info.Email, p.Email)
	set(&info.Phone, p.Phone)
	set(&info.Address, p.Address)
	set(&info.LinkedIn, p.LinkedIn)
	set(&info.GitHub, p.GitHub)
	set(&info.Website, p.Website)
	set(&info.Photo, p.Photo)
	set(&info.Summary, p.Summary)
	set(&info.Title, p.Title)
}

// MetadataPatch updates presentation settings. SectionOrder replaces the
// whole order; duplicate keys are dropped keeping the first occurrence.
type MetadataPatch struct {
	Template     *string  `json:"template,omitempty"`
	ColorScheme  *string  `json:"colorScheme,omitempty"`
	FontSize     *string  `json:"fontSize,omitempty"`
	SectionOrder []string `json:"sectionOrder,omitempty"`
}

func (p MetadataPatch) apply(meta *types.ResumeMetadata) {
	set(&meta.Template, p.Template)
	set(&meta.ColorScheme, p.ColorScheme)
	set(&meta.FontSize, p.FontSize)
	if p.SectionOrder != nil {
		meta.SectionOrder = sections.NormalizeOrder(p.SectionOrder, types.DefaultSectionOrder)
	}
}

// ExperiencePatch updates one experience entry
type ExperiencePatch struct {
	Company     *string
	Position    *string
	Location    *string
	StartDate   *string
	EndDate     *string
	Current     *bool
	Description *string
	Bullets     []string
}

func (p ExperiencePatch) apply(e *types.Experience) {
	set(&e.Company, p.Company)
	set(&e.Position, p.Position)
	set(&e.Location, p.Location)
	set(&e.StartDate, p.StartDate)
	set(&e.EndDate, p.EndDate)
	set(&e.Current, p.Current)
	mergeContent(&e.Description, &e.Bullets, p.Description, p.Bullets)
}

// EducationPatch updates one education entry
type EducationPatch struct {
	Institution     *string
	Degree          *string
	Field           *string
	StartDate       *string
	EndDate         *string
	Current         *bool
	GradeType       *types.GradeType
	GradeValue      *float64
	ClearGradeValue bool
	Description     *string
	Bullets         []string
}

func (p EducationPatch) apply(e *types.Education) {
	set(&e.Institution, p.Institution)
	set(&e.Degree, p.Degree)
	set(&e.Field, p.Field)
	set(&e.StartDate, p.StartDate)
	set(&e.EndDate, p.EndDate)
	set(&e.Current, p.Current)
	set(&e.GradeType, p.GradeType)
	switch {
	case p.ClearGradeValue:
		e.GradeValue = nil
	case p.GradeValue != nil:
		v := *p.GradeValue
		e.GradeValue = &v
	}
	mergeContent(&e.Description, &e.Bullets, p.Description, p.Bullets)
}

// ProjectPatch updates one project
type ProjectPatch struct {
	Title       *string
	TechStack   []string
	StartDate   *string
	EndDate     *string
	Current     *bool
	URL         *string
	Description *string
	Bullets     []string
}

func (p ProjectPatch) apply(pr *types.Project) {
	set(&pr.Title, p.Title)
	if p.TechStack != nil {
		pr.TechStack = slices.Clone(p.TechStack)
	}
	set(&pr.StartDate, p.StartDate)
	set(&pr.EndDate, p.EndDate)
	set(&pr.Current, p.Current)
	set(&pr.URL, p.URL)
	mergeContent(&pr.Description, &pr.Bullets, p.Description, p.Bullets)
}

// SkillPatch renames a skill. Moving between buckets is remove plus add.
type SkillPatch struct {
	Name *string
}

func (p SkillPatch) apply(s *types.Skill) {
	set(&s.Name, p.Name)
}

// CertificationPatch updates one certification
type CertificationPatch struct {
	Name         *string
	Issuer       *string
	Date         *string
	CredentialID *string
	URL          *string
}

func (p CertificationPatch) apply(c *types.Certification) {
	set(&c.Name, p.Name)
	set(&c.Issuer, p.Issuer)
	set(&c.Date, p.Date)
	set(&c.CredentialID, p.CredentialID)
	set(&c.URL, p.URL)
}

// LanguagePatch updates one spoken language
type LanguagePatch struct {
	Name        *string
	Proficiency *types.Proficiency
}

func (p LanguagePatch) apply(l *types.Language) {
	set(&l.Name, p.Name)
	set(&l.Proficiency, p.Proficiency)
}

// ActivityPatch updates an achievement or an extracurricular entry
type ActivityPatch struct {
	Title       *string
	Date        *string
	Description *string
	Bullets     []string
}

func (p ActivityPatch) applyAchievement(a *types.Achievement) {
	set(&a.Title, p.Title)
	set(&a.Date, p.Date)
	mergeContent(&a.Description, &a.Bullets, p.Description, p.Bullets)
}

func (p ActivityPatch) applyExtraCurricular(x *types.ExtraCurricular) {
	set(&x.Title, p.Title)
	set(&x.Date, p.Date)
	mergeContent(&x.Description, &x.Bullets, p.Description, p.Bullets)
}

// CustomSectionPatch updates the content of a custom section
type CustomSectionPatch struct {
	Title   *string
	Content *string
	Bullets []string
}

func (p CustomSectionPatch) apply(c *types.CustomSection) {
	set(&c.Title, p.Title)
	mergeContent(&c.Content, &c.Bullets, p.Content, p.Bullets)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// mergeContent applies a description/bullets patch. Explicit bullets win;
// bullets that were derived from the old description follow a new one.
func mergeContent(desc *string, bullets *[]string, patchDesc *string, patchBullets []string) {
	derived := slices.Equal(*bullets, content.DeriveBullets(*desc))
	set(desc, patchDesc)

	switch {
	case patchBullets != nil:
		*bullets = content.Normalize(*desc, patchBullets)
	case patchDesc != nil && derived:
		*bullets = content.DeriveBullets(*desc)
	default:
		*bullets = content.Normalize(*desc, *bullets)
	}
}
