package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM records calls and returns canned output
type fakeLLM struct {
	mu       sync.Mutex
	text     string
	json     string
	chunks   []string
	err      error
	prompts  []string
	opts     []llm.Options
	messages []llm.Message
}

func (f *fakeLLM) record(prompt string, opts llm.Options) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, opts llm.Options) (string, error) {
	f.record(prompt, opts)
	return f.text, f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, opts llm.Options) (string, error) {
	f.record(prompt, opts)
	return f.json, f.err
}

func (f *fakeLLM) StreamContent(_ context.Context, prompt string, opts llm.Options, fn func(string) error) error {
	f.record(prompt, opts)
	for _, c := range f.chunks {
		if err := fn(c); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.record("", opts)
	f.mu.Lock()
	f.messages = messages
	f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeLLM) ResolveModel(model string) string { return llm.DefaultConfig().Resolve(model) }

func (f *fakeLLM) Close() error { return nil }

func newTestServer(t *testing.T, fake *fakeLLM, cfg Config) *Server {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s := New(cfg, fake, nil)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{})

	rec := do(t, s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is running")

	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])

	rec = do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateDescription(t *testing.T) {
	fake := &fakeLLM{text: "Here are your bullets:\n• Cut costs 20%\n• Led 4 engineers\n• Shipped search"}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/generate-description", types.DescriptionRequest{
		Section: types.AssistExperience,
		Data:    types.DescriptionData{Position: "Engineer", Company: "Acme"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeBody[types.ContentResponse](t, rec)
	assert.Equal(t, "• Cut costs 20%\n• Led 4 engineers\n• Shipped search", out.Content)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "for Engineer at Acme")
	assert.Equal(t, "lite", fake.opts[0].Model)
}

func TestGenerateDescription_ProjectPromptAndUnmarkedOutput(t *testing.T) {
	fake := &fakeLLM{text: "Built a ledger\n\nScaled it to 1M users"}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/generate-description", types.DescriptionRequest{
		Section: types.AssistProject,
		Data:    types.DescriptionData{Title: "Ledger", TechStack: []string{"Go", "Postgres"}},
		Model:   "gemini-custom",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "• Built a ledger\n• Scaled it to 1M users", decodeBody[types.ContentResponse](t, rec).Content)
	assert.Contains(t, fake.prompts[0], `"Ledger" using Go, Postgres`)
	assert.Equal(t, "gemini-custom", fake.opts[0].Model)
}

func TestGenerateDescription_Validation(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{})

	tests := []struct {
		name string
		body any
	}{
		{"missing section", map[string]any{"data": map[string]string{}}},
		{"unknown section", map[string]any{"section": "education"}},
		{"malformed body", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/generate-description", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
		})
	}
}

func TestGenerateDescription_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, &fakeLLM{err: errors.New("quota exceeded")}, Config{})

	rec := do(t, s, http.MethodPost, "/generate-description", types.DescriptionRequest{Section: types.AssistProject})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Failed to generate description", body["error"])
	assert.Equal(t, "quota exceeded", body["details"])
}

func TestGenerateCoverLetter(t *testing.T) {
	fake := &fakeLLM{text: "  Dear hiring manager,\nI am excited.  "}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/generate-cover-letter", map[string]any{
		"resume":          map[string]any{"personalInfo": map[string]string{"name": "Ada"}},
		"job_description": "Build payment systems",
		"model":           "advanced",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "Dear hiring manager,\nI am excited.", decodeBody[types.ContentResponse](t, rec).Content)
	assert.Contains(t, fake.prompts[0], "Build payment systems")
	assert.Contains(t, fake.prompts[0], `"name": "Ada"`)
	assert.Equal(t, "advanced", fake.opts[0].Model)
	assert.InDelta(t, 0.7, fake.opts[0].Temperature, 1e-6)
}

func TestGenerateCoverLetter_RequiresResumeAndJob(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{})

	rec := do(t, s, http.MethodPost, "/generate-cover-letter", map[string]any{"resume": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "job_description")

	rec = do(t, s, http.MethodPost, "/generate-cover-letter", map[string]any{"job_description": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamCoverLetter(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"Dear ", "team,"}}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/generate-cover-letter/stream", map[string]any{
		"resume":          map[string]any{},
		"job_description": "Build things",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: chunk\n"))
	assert.Contains(t, body, "event: done\ndata: {\"content\":\"Dear team,\"}\n\n")
}

func TestStreamCoverLetter_ErrorEvent(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"Dear "}, err: errors.New("stream broke")}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/generate-cover-letter/stream", map[string]any{
		"resume":          map[string]any{},
		"job_description": "Build things",
	})
	assert.Contains(t, rec.Body.String(), "event: error\n")
	assert.NotContains(t, rec.Body.String(), "event: done")
}

func TestAnalyzeResume(t *testing.T) {
	fake := &fakeLLM{json: "```json\n{\"review\": \"Solid\", \"suggestions\": [\"Add metrics\"]}\n```"}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/analyze-resume", map[string]any{"resume": map[string]any{"skills": map[string]any{}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	review := decodeBody[types.Review](t, rec)
	assert.Equal(t, "Solid", review.Review)
	assert.Equal(t, []string{"Add metrics"}, review.Suggestions)
	assert.Equal(t, "standard", fake.opts[0].Model)
}

func TestAnalyzeResume_InvalidModelJSON(t *testing.T) {
	s := newTestServer(t, &fakeLLM{json: "The resume looks fine overall."}, Config{})

	rec := do(t, s, http.MethodPost, "/analyze-resume", map[string]any{"resume": map[string]any{}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "The resume looks fine overall.", body["rawContent"])
	assert.Contains(t, body["error"], "not valid JSON")
}

func TestChat(t *testing.T) {
	fake := &fakeLLM{text: "Happy to help"}
	s := newTestServer(t, fake, Config{})

	rec := do(t, s, http.MethodPost, "/chat", types.ChatRequest{
		Messages: []types.ChatMessage{
			{Role: "system", Content: "Be brief"},
			{Role: "user", Content: "Hi"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, types.ChatResponse{Role: "assistant", Content: "Happy to help"}, decodeBody[types.ChatResponse](t, rec))
	assert.Equal(t, []llm.Message{{Role: "system", Content: "Be brief"}, {Role: "user", Content: "Hi"}}, fake.messages)
}

func TestChat_Validation(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{})

	rec := do(t, s, http.MethodPost, "/chat", map[string]any{"messages": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/chat", map[string]any{
		"messages": []map[string]string{{"role": "robot", "content": "hi"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "role")
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{AllowedOrigin: "https://editor.example"})

	rec := do(t, s, http.MethodOptions, "/chat", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://editor.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &fakeLLM{text: "ok"}, Config{RateLimit: &ratelimit.Config{
		Enabled: true,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/chat", Method: "POST", Limit: 1, Window: time.Hour},
		},
	}})
	body := types.ChatRequest{Messages: []types.ChatMessage{{Role: "user", Content: "hi"}}}

	rec := do(t, s, http.MethodPost, "/chat", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = do(t, s, http.MethodPost, "/chat", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, rec)["error"])

	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessions(t *testing.T) {
	backend := session.NewMemoryBackend()
	s := newTestServer(t, &fakeLLM{}, Config{Sessions: backend})

	editor := store.New()
	editor.UpdatePersonalInfo(store.PersonalInfoPatch{Name: store.Ptr("Ada")})
	doc, err := editor.ExportDocument()
	require.NoError(t, err)

	rec := do(t, s, http.MethodPut, "/sessions/tab-1", string(doc))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/sessions/tab-1?navigation=from-preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Session-Restored"))
	assert.Equal(t, "Ada", decodeBody[types.ResumeData](t, rec).PersonalInfo.Name)

	rec = do(t, s, http.MethodGet, "/sessions/tab-1?navigation=reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[types.ResumeData](t, rec).PersonalInfo.Name)

	saved, err := backend.Load(context.Background(), "tab-1")
	require.NoError(t, err)
	assert.Nil(t, saved, "reload clears the snapshot")
}

func TestSessions_RejectsInvalidDocuments(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{Sessions: session.NewMemoryBackend()})

	rec := do(t, s, http.MethodPut, "/sessions/tab-1", `{"experience": "not a list"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/sessions/tab-1?navigation=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/sessions/"+strings.Repeat("x", 200), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/sessions/tab-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessions_DisabledWithoutBackend(t *testing.T) {
	s := newTestServer(t, &fakeLLM{}, Config{})

	rec := do(t, s, http.MethodGet, "/sessions/tab-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&ErrValidation{Field: "f", Message: "m"}, http.StatusBadRequest},
		{&ErrInvalidModelOutput{Raw: "x"}, http.StatusBadGateway},
		{&store.ValidationError{Field: "document"}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", &store.ValidationError{Field: "x"}), http.StatusBadRequest},
		{&store.DuplicateSectionError{Key: "hobbies"}, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s := New(Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}, &fakeLLM{}, nil)
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
