package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

const promptFile = "assist.json"

// Default tiers per endpoint when the request names no model
const (
	descriptionModel = string(llm.TierLite)
	letterModel      = string(llm.TierStandard)
	reviewModel      = string(llm.TierStandard)
	chatModel        = string(llm.TierLite)
)

func modelOr(requested, fallback string) string {
	if requested == "" {
		return fallback
	}
	return requested
}

// descriptionPrompt builds the bullet prompt for a section
func descriptionPrompt(req types.DescriptionRequest) (string, error) {
	template, err := prompts.Get(promptFile, string(req.Section)+"-bullets")
	if err != nil {
		return "", err
	}
	details := strings.TrimSpace(req.Data.Details)
	if details == "" {
		details = "(none)"
	}
	return prompts.Format(template, map[string]string{
		"Position":  req.Data.Position,
		"Company":   req.Data.Company,
		"Title":     req.Data.Title,
		"TechStack": strings.Join(req.Data.TechStack, ", "),
		"Details":   details,
	}), nil
}

// handleGenerateDescription drafts bullet points for an experience or project
func (s *Server) handleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req types.DescriptionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	prompt, err := descriptionPrompt(req)
	if err != nil {
		s.upstreamError(w, "Failed to generate description", err)
		return
	}

	text, err := s.llm.GenerateContent(r.Context(), prompt, llm.Options{
		Model:       modelOr(req.Model, descriptionModel),
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		s.upstreamError(w, "Failed to generate description", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ContentResponse{Content: bulletText(text)})
}

// bulletText keeps the "• " lines of model output. Output without markers
// is split into lines and marked.
func bulletText(text string) string {
	if lines := content.BulletLines(text); len(lines) > 0 {
		return strings.Join(lines, "\n")
	}
	return content.FormatBullets(content.DeriveBullets(text))
}

// indentResume pretty-prints the résumé JSON for a prompt
func indentResume(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", &ErrValidation{Field: "resume", Message: "must be valid JSON"}
	}
	return buf.String(), nil
}

func coverLetterPrompt(req types.CoverLetterRequest) (string, error) {
	resume, err := indentResume(req.Resume)
	if err != nil {
		return "", err
	}
	template := prompts.MustGet(promptFile, "cover-letter")
	return prompts.Format(template, map[string]string{
		"Resume":         resume,
		"JobDescription": req.JobDescription,
	}), nil
}

// handleGenerateCoverLetter drafts a cover letter from a résumé and job description
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req types.CoverLetterRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	prompt, err := coverLetterPrompt(req)
	if err != nil {
		s.fail(w, err)
		return
	}

	text, err := s.llm.GenerateContent(r.Context(), prompt, llm.Options{
		Model:       modelOr(req.Model, letterModel),
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		s.upstreamError(w, "Failed to generate cover letter", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ContentResponse{Content: strings.TrimSpace(text)})
}

// handleAnalyzeResume returns a structured review of a résumé
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req types.ReviewRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	resume, err := indentResume(req.Resume)
	if err != nil {
		s.fail(w, err)
		return
	}
	prompt := prompts.Format(prompts.MustGet(promptFile, "review-resume"), map[string]string{"Resume": resume})

	text, err := s.llm.GenerateJSON(r.Context(), prompt, llm.Options{
		Model:       modelOr(req.Model, reviewModel),
		Temperature: 0.5,
		MaxTokens:   1500,
	})
	if err != nil {
		s.upstreamError(w, "Failed to analyze resume", err)
		return
	}

	review, err := parseReview(text)
	if err != nil {
		s.logger.Warn("model returned invalid review JSON")
		s.jsonResponse(w, HTTPStatus(err), map[string]string{
			"error":      err.Error(),
			"rawContent": text,
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, review)
}

func parseReview(text string) (*types.Review, error) {
	var review types.Review
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &review); err != nil {
		return nil, &ErrInvalidModelOutput{Raw: text, Cause: err}
	}
	if review.Suggestions == nil {
		review.Suggestions = []string{}
	}
	return &review, nil
}

// handleChat forwards a conversation to the model
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	messages := make([]llm.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	reply, err := s.llm.Chat(r.Context(), messages, llm.Options{
		Model:       modelOr(req.Model, chatModel),
		Temperature: 0.7,
	})
	if err != nil {
		s.upstreamError(w, "Failed to communicate with the model", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ChatResponse{Role: llm.RoleAssistant, Content: reply})
}
