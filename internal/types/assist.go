package types

import "encoding/json"

// AssistSection names the entity kinds the proxy can draft bullets for
type AssistSection string

const (
	AssistExperience AssistSection = "experience"
	AssistProject    AssistSection = "project"
)

// DescriptionData carries the entity fields a bullet prompt is built from.
// The optional hint fields only feed the canned fallback text.
type DescriptionData struct {
	Position     string   `json:"position,omitempty"`
	Company      string   `json:"company,omitempty"`
	Title        string   `json:"title,omitempty"`
	TechStack    []string `json:"techStack,omitempty"`
	Details      string   `json:"details,omitempty"`
	Achievements string   `json:"achievements,omitempty"`
	Impact       string   `json:"impact,omitempty"`
	Purpose      string   `json:"purpose,omitempty"`
	Features     string   `json:"features,omitempty"`
	Metrics      string   `json:"metrics,omitempty"`
}

// DescriptionRequest is the body of POST /generate-description
type DescriptionRequest struct {
	Section AssistSection   `json:"section" validate:"required,oneof=experience project"`
	Data    DescriptionData `json:"data"`
	Model   string          `json:"model,omitempty"`
}

// ContentResponse is returned by the text generating endpoints
type ContentResponse struct {
	Content string `json:"content"`
}

// CoverLetterRequest is the body of POST /generate-cover-letter
type CoverLetterRequest struct {
	Resume         json.RawMessage `json:"resume" validate:"required"`
	JobDescription string          `json:"job_description" validate:"required"`
	Model          string          `json:"model,omitempty"`
}

// ReviewRequest is the body of POST /analyze-resume
type ReviewRequest struct {
	Resume json.RawMessage `json:"resume" validate:"required"`
	Model  string          `json:"model,omitempty"`
}

// Review is the structured résumé critique returned by /analyze-resume
type Review struct {
	Review      string   `json:"review"`
	Suggestions []string `json:"suggestions"`
}

// ChatMessage is one turn of a /chat conversation
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Model    string        `json:"model,omitempty"`
}

// ChatResponse is the assistant reply returned by /chat
type ChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
