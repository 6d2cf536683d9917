// Package assist is the client side of the AI proxy. It calls the proxy with
// bounded retry, falls back to canned bullet text when drafting fails, and
// binds store updates to cancellable tasks.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

const (
	// DefaultRetries is the number of retries after the first attempt
	DefaultRetries = 3
	// DefaultBackoff is the delay before the first retry; it doubles per retry
	DefaultBackoff = 500 * time.Millisecond

	maxResponseBytes = 1 << 20
)

// Client calls the proxy endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetries sets the retry count; negative values mean no retries
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// WithBackoff sets the initial retry delay
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithLogger sets the logger for failed attempts
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the proxy at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retries:    DefaultRetries,
		backoff:    DefaultBackoff,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateDescription returns the raw proxy output for a bullet draft
func (c *Client) GenerateDescription(ctx context.Context, section types.AssistSection, data types.DescriptionData) (string, error) {
	var out types.ContentResponse
	err := c.post(ctx, "/generate-description", types.DescriptionRequest{Section: section, Data: data}, &out)
	return out.Content, err
}

// CoverLetter drafts a cover letter for the résumé and job description
func (c *Client) CoverLetter(ctx context.Context, resume types.ResumeData, jobDescription, model string) (string, error) {
	raw, err := json.Marshal(resume)
	if err != nil {
		return "", fmt.Errorf("failed to encode resume: %w", err)
	}
	var out types.ContentResponse
	req := types.CoverLetterRequest{Resume: raw, JobDescription: jobDescription, Model: model}
	if err := c.post(ctx, "/generate-cover-letter", req, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// Review asks the proxy for a structured critique of the résumé
func (c *Client) Review(ctx context.Context, resume types.ResumeData, model string) (*types.Review, error) {
	raw, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resume: %w", err)
	}
	var out types.Review
	if err := c.post(ctx, "/analyze-resume", types.ReviewRequest{Resume: raw, Model: model}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends a conversation and returns the assistant reply
func (c *Client) Chat(ctx context.Context, messages []types.ChatMessage, model string) (string, error) {
	var out types.ChatResponse
	if err := c.post(ctx, "/chat", types.ChatRequest{Messages: messages, Model: model}, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// post sends body to endpoint, retrying transient failures with exponential
// backoff. It gives up early when ctx is done.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to encode request", Cause: err}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.backoff<<(attempt-1)); err != nil {
				return err
			}
		}

		lastErr = c.do(ctx, endpoint, payload, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var httpErr *HTTPError
		if errors.As(lastErr, &httpErr) && !httpErr.Retryable() {
			return lastErr
		}
		c.logger.Warn("proxy request failed",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		var errBody struct {
			Error      string `json:"error"`
			Details    string `json:"details"`
			RawContent string `json:"rawContent"`
		}
		if json.Unmarshal(body, &errBody) == nil {
			httpErr.Message = errBody.Error
			httpErr.Details = errBody.Details
			httpErr.RawContent = errBody.RawContent
		}
		return httpErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Endpoint: endpoint, Message: "malformed response", Cause: err}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
