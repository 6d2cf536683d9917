// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PersonalInfo holds the contact block at the top of a resume
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
	Photo    string `json:"photo"`
	Summary  string `json:"summary"`
	Title    string `json:"title"`
}

// Experience represents a single position held at a company
type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Current     bool     `json:"current"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// Education represents a degree or schooling entry
type Education struct {
	ID          string    `json:"id"`
	Institution string    `json:"institution"`
	Degree      string    `json:"degree"`
	Field       string    `json:"field"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Current     bool      `json:"current"`
	GradeType   GradeType `json:"gradeType,omitempty" validate:"omitempty,oneof=cgpa percentage"`
	GradeValue  *float64  `json:"gradeValue,omitempty"`
	Description string    `json:"description"`
	Bullets     []string  `json:"bullets"`
}

// Project represents a personal or professional project
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	TechStack   []string `json:"techStack"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Current     bool     `json:"current"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// Skill is a single named skill inside one of the skill buckets
type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name" validate:"required"`
	Category SkillCategory `json:"category" validate:"omitempty,oneof=languages frameworks tools"`
}

// Skills partitions skills into their three buckets
type Skills struct {
	Languages  []Skill `json:"languages"`
	Frameworks []Skill `json:"frameworks"`
	Tools      []Skill `json:"tools"`
}

// Certification represents a professional certification
type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Language represents a spoken language and proficiency level
type Language struct {
	ID          string      `json:"id"`
	Name        string      `json:"name" validate:"required"`
	Proficiency Proficiency `json:"proficiency" validate:"omitempty,oneof=Basic Intermediate Advanced Native"`
}

// Achievement represents an award or notable accomplishment
type Achievement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// ExtraCurricular represents an activity outside work or study
type ExtraCurricular struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// CustomSection holds the free-form content of a user-defined section
type CustomSection struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Bullets []string `json:"bullets"`
}

// ResumeMetadata holds presentation settings and the section order
type ResumeMetadata struct {
	Template     string   `json:"template"`
	ColorScheme  string   `json:"colorScheme"`
	FontSize     string   `json:"fontSize"`
	SectionOrder []string `json:"sectionOrder"`
	LastUpdated  string   `json:"lastUpdated"`
}
