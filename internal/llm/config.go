// Package llm provides the model configuration and client abstraction used
// by the proxy server.
package llm

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// ModelTier names a capability level; requests pick a tier, the Config maps
// it to a concrete model
type ModelTier string

const (
	// TierLite is for short drafts: bullet points, chat replies
	TierLite ModelTier = "lite"
	// TierStandard is the default for cover letters and reviews
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form reasoning over the whole résumé
	TierAdvanced ModelTier = "advanced"
)

// Tiers lists the known tiers in increasing capability
var Tiers = []ModelTier{TierLite, TierStandard, TierAdvanced}

// IsTier reports whether name is one of the known tier names
func IsTier(name string) bool {
	return slices.Contains(Tiers, ModelTier(name))
}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config maps tiers to models for one provider
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the Gemini tier mapping
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model for tier. A tier without a model falls back to
// standard, then lite; an empty string means nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}

// Resolve maps a request's model field to a concrete model name. Tier names
// go through GetModel, an empty value means the standard tier, and anything
// else is taken as a literal model name.
func (c *Config) Resolve(model string) string {
	switch {
	case model == "":
		return c.GetModel(TierStandard)
	case IsTier(model):
		return c.GetModel(ModelTier(model))
	default:
		return model
	}
}

// WithModel returns a copy of c with tier mapped to model
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := maps.Clone(c.Models)
	if models == nil {
		models = make(map[ModelTier]string, 1)
	}
	models[tier] = model
	return &Config{Provider: c.Provider, Models: models}
}

// WithEnv returns a copy of c with tiers overridden by GEMINI_MODEL_LITE,
// GEMINI_MODEL_STANDARD and GEMINI_MODEL_ADVANCED when they are set
func (c *Config) WithEnv() *Config {
	out := c
	for _, tier := range Tiers {
		key := "GEMINI_MODEL_" + strings.ToUpper(string(tier))
		if model := strings.TrimSpace(os.Getenv(key)); model != "" {
			out = out.WithModel(tier, model)
		}
	}
	return out
}
