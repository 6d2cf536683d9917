// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// GradeType selects how an education grade is expressed
type GradeType string

const (
	// GradeCGPA is a cumulative grade point average on a 10-point scale
	GradeCGPA GradeType = "cgpa"
	// GradePercentage is a percentage score
	GradePercentage GradeType = "percentage"
)

// MaxGrade returns the upper bound of the range accepted for the grade type.
// Unknown grade types return 0.
func (g GradeType) MaxGrade() float64 {
	switch g {
	case GradeCGPA:
		return 10
	case GradePercentage:
		return 100
	default:
		return 0
	}
}

// Label returns the human readable name of the grade type
func (g GradeType) Label() string {
	if g == GradePercentage {
		return "Percentage"
	}
	return "CGPA"
}

// Proficiency is a spoken language proficiency level
type Proficiency string

// Proficiency levels offered by the editor
const (
	ProficiencyBasic        Proficiency = "Basic"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyNative       Proficiency = "Native"
)

// SkillCategory names one of the three skill buckets
type SkillCategory string

// Skill buckets
const (
	SkillLanguages  SkillCategory = "languages"
	SkillFrameworks SkillCategory = "frameworks"
	SkillTools      SkillCategory = "tools"
)

// SkillCategories lists the buckets in display order
var SkillCategories = []SkillCategory{SkillLanguages, SkillFrameworks, SkillTools}

// Valid reports whether c names a known bucket
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillLanguages, SkillFrameworks, SkillTools:
		return true
	}
	return false
}

// Degrees is the set of degree options offered by the editor, highest last.
var Degrees = []string{
	"High School/10th",
	"Intermediate/12th",
	"Diploma",
	"Bachelor's",
	"Master's",
	"PhD",
	"Other",
}

// Template identifiers for the preview renderer
const (
	TemplateBasic  = "basic"
	TemplateModern = "modern"
)
