package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAI-compatible endpoints for the providers that speak the same API
const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

var defaultModels = map[string]string{
	"openai": openai.GPT4oMini,
	"groq":   "llama-3.1-8b-instant",
	"gemini": "gemini-2.0-flash",
}

// OpenAIProvider implements the Provider interface for OpenAI and for the
// OpenAI-compatible Groq and Gemini endpoints
type OpenAIProvider struct {
	client    *openai.Client
	name      string
	model     string
	maxTokens int
}

// NewOpenAIProvider creates a provider for name ("openai", "groq" or "gemini")
func NewOpenAIProvider(name string, cfg Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	switch name {
	case "groq":
		clientCfg.BaseURL = groqBaseURL
	case "gemini":
		clientCfg.BaseURL = geminiBaseURL
	}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModels[name]
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		name:      name,
		model:     model,
		maxTokens: cfg.MaxTokens,
	}
}

func (p *OpenAIProvider) Name() string  { return p.name }
func (p *OpenAIProvider) Model() string { return p.model }

// Complete sends the conversation and returns the first choice's text
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	if p.maxTokens > 0 {
		req.MaxTokens = p.maxTokens
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ProviderError{Provider: p.name, StatusCode: openAIStatus(err), Err: err}
	}

	zap.L().Debug("chat completion",
		zap.String("provider", p.name),
		zap.String("model", p.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.name, Err: fmt.Errorf("empty response from %s", p.name)}
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
