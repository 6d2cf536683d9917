package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Role names accepted in chat messages
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation
type Message struct {
	Role    string
	Content string
}

// Options tune a single generation call
type Options struct {
	// Model is a tier name or a literal model name; empty means standard
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates free text from a single prompt
	GenerateContent(ctx context.Context, prompt string, opts Options) (string, error)
	// GenerateJSON generates a JSON document from a single prompt
	GenerateJSON(ctx context.Context, prompt string, opts Options) (string, error)
	// StreamContent generates free text and hands it to fn chunk by chunk
	StreamContent(ctx context.Context, prompt string, opts Options, fn func(chunk string) error) error
	// Chat continues a conversation and returns the assistant reply
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
	// ResolveModel returns the concrete model name a request would use
	ResolveModel(model string) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(opts Options) (*genai.GenerativeModel, error) {
	name := c.config.Resolve(opts.Model)
	if name == "" {
		return nil, fmt.Errorf("no model configured for %q", opts.Model)
	}

	model := c.client.GenerativeModel(name)
	model.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxTokens)
	}
	return model, nil
}

// GenerateContent generates text content from a prompt
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, opts Options) (string, error) {
	model, err := c.model(opts)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// StreamContent streams generated text to fn. An error from fn stops the
// stream and is returned as is.
func (c *GeminiClient) StreamContent(ctx context.Context, prompt string, opts Options, fn func(chunk string) error) error {
	model, err := c.model(opts)
	if err != nil {
		return err
	}

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to stream content: %w", err)
		}
		text, err := extractTextFromResponse(resp)
		if err != nil {
			// safety or empty candidates carry no text
			continue
		}
		if err := fn(text); err != nil {
			return err
		}
	}
}

// GenerateJSON generates JSON content from a prompt
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, opts Options) (string, error) {
	model, err := c.model(opts)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Chat sends the last message with the earlier ones as history. System
// messages become the model's system instruction.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("at least one message is required")
	}

	model, err := c.model(opts)
	if err != nil {
		return "", err
	}

	var system []string
	var turns []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(system) > 0 {
		model.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n\n")))
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("conversation has no user message")
	}

	cs := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}
	return extractTextFromResponse(resp)
}

// ResolveModel returns the model name for a tier or literal model
func (c *GeminiClient) ResolveModel(model string) string {
	return c.config.Resolve(model)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
