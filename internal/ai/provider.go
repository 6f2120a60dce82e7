package ai

import (
	"context"
	"fmt"
	"strings"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider defines the interface for chat completion
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Name() string
	Model() string
}

// Config selects and configures a provider. A Provider built from a Config
// never changes; use Reconfigure to get a new one with different credentials.
type Config struct {
	Name              string
	Model             string
	APIKey            string
	BaseURL           string // endpoint override
	MaxTokens         int
	RequestsPerMinute int // 0 disables pacing
}

// WithAPIKey returns a copy of c using key
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// Names lists the supported provider names in menu order
func Names() []string {
	return []string{"openai", "gemini", "groq", "claude"}
}

// Canonical maps aliases to a supported provider name
func Canonical(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai", "gpt":
		return "openai", nil
	case "groq":
		return "groq", nil
	case "gemini", "google":
		return "gemini", nil
	case "claude", "anthropic":
		return "claude", nil
	default:
		return "", fmt.Errorf("unknown provider: %s (supported: %s)", name, strings.Join(Names(), ", "))
	}
}

// NewProvider creates a new chat provider based on cfg.Name
func NewProvider(cfg Config) (Provider, error) {
	name, err := Canonical(cfg.Name)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is not set", name)
	}

	var p Provider
	switch name {
	case "claude":
		p = NewClaudeProvider(cfg)
	default:
		p = NewOpenAIProvider(name, cfg)
	}

	if cfg.RequestsPerMinute > 0 {
		p = RateLimited(p, cfg.RequestsPerMinute)
	}
	return p, nil
}

// Reconfigure builds a fresh provider for cfg with a new API key. The
// returned Config is the one the provider was built from.
func Reconfigure(cfg Config, apiKey string) (Provider, Config, error) {
	next := cfg.WithAPIKey(apiKey)
	p, err := NewProvider(next)
	if err != nil {
		return nil, cfg, err
	}
	return p, next, nil
}

// ProviderError reports a failed chat completion
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
