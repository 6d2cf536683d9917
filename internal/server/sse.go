package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message, details string) {
	s.WriteEvent("error", map[string]string{"error": message, "details": details}) //nolint:errcheck
}

// handleStreamCoverLetter streams a cover letter as "chunk" events followed
// by one "done" event carrying the full text.
func (s *Server) handleStreamCoverLetter(w http.ResponseWriter, r *http.Request) {
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

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var full strings.Builder
	err = s.llm.StreamContent(r.Context(), prompt, llm.Options{
		Model:       modelOr(req.Model, letterModel),
		Temperature: 0.7,
		MaxTokens:   1500,
	}, func(chunk string) error {
		full.WriteString(chunk)
		return sse.WriteEvent("chunk", types.ContentResponse{Content: chunk})
	})
	if err != nil {
		s.logger.Error("cover letter stream failed", zap.Error(err))
		sse.WriteError("Failed to generate cover letter", err.Error())
		return
	}
	sse.WriteEvent("done", types.ContentResponse{Content: strings.TrimSpace(full.String())}) //nolint:errcheck
}
