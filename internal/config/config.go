// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Editor
	Document     string `json:"document,omitempty" yaml:"document,omitempty"`           // Path to the résumé JSON document
	Template     string `json:"template,omitempty" yaml:"template,omitempty"`           // Preview template: basic or modern
	ColorScheme  string `json:"color_scheme,omitempty" yaml:"color_scheme,omitempty"`   // Overrides the document color scheme
	DocxTemplate string `json:"docx_template,omitempty" yaml:"docx_template,omitempty"` // Word template for DOCX export
	SessionDB    string `json:"session_db,omitempty" yaml:"session_db,omitempty"`       // SQLite file for CLI sessions

	// Proxy
	Port          int    `json:"port,omitempty" yaml:"port,omitempty"`
	BackendURL    string `json:"backend_url,omitempty" yaml:"backend_url,omitempty"`       // Proxy base URL used by generate
	AllowedOrigin string `json:"allowed_origin,omitempty" yaml:"allowed_origin,omitempty"` // CORS origin of the editor
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"`     // PostgreSQL URL for proxy sessions

	// Model
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`     // Tier name or literal model
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Publishing
	Publish PublishConfig `json:"publish,omitzero" yaml:"publish,omitempty"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// PublishConfig names the S3-compatible bucket exports are uploaded to
type PublishConfig struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // non-AWS endpoint, e.g. R2 or MinIO
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Document:    "resume.json",
		Template:    "modern",
		SessionDB:   filepath.Join(".resume-builder", "sessions.db"),
		Port:        3000,
		BackendURL:  "http://localhost:3000",
		Model:       "standard",
		Concurrency: 4,
		Publish:     PublishConfig{Region: "auto"},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables when they are set
func (c *Config) ApplyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.APIKey, "GEMINI_API_KEY")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.BackendURL, "BACKEND_URL")
	setString(&c.AllowedOrigin, "CLIENT_URL")
	setString(&c.Publish.Bucket, "PUBLISH_BUCKET")
	setString(&c.Publish.Endpoint, "PUBLISH_ENDPOINT")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	switch c.Template {
	case "", "basic", "modern":
	default:
		return fmt.Errorf("config error: unknown template %q (want basic or modern)", c.Template)
	}

	if c.DocxTemplate != "" {
		if _, err := os.Stat(c.DocxTemplate); os.IsNotExist(err) {
			return fmt.Errorf("config error: docx template not found: %s", c.DocxTemplate)
		}
	}

	if c.Publish.Endpoint != "" && c.Publish.Bucket == "" {
		return fmt.Errorf("config error: 'publish.endpoint' requires 'publish.bucket'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Document, defaults.Document)
	fill(&result.Template, defaults.Template)
	fill(&result.ColorScheme, defaults.ColorScheme)
	fill(&result.DocxTemplate, defaults.DocxTemplate)
	fill(&result.SessionDB, defaults.SessionDB)
	fill(&result.BackendURL, defaults.BackendURL)
	fill(&result.AllowedOrigin, defaults.AllowedOrigin)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.Publish.Bucket, defaults.Publish.Bucket)
	fill(&result.Publish.Prefix, defaults.Publish.Prefix)
	fill(&result.Publish.Region, defaults.Publish.Region)
	fill(&result.Publish.Endpoint, defaults.Publish.Endpoint)

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
