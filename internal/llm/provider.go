package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider answers with no text
var ErrEmptyCompletion = errors.New("empty completion")

// Provider defines the interface for LLM providers used to collect responses
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the model's answer
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains one prompt to send
type CompletionRequest struct {
	Prompt string

	// System is an optional system instruction. The study sends none so that
	// answers reflect the prompt framing alone.
	System string

	// Model overrides the configured model when set
	Model string

	MaxTokens   int
	Temperature float32
}

// Completion contains the model's answer
type Completion struct {
	Text       string
	Model      string // Model that actually answered
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	MaxTokens   int
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Timeout:     60,
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

// resolve fills request fields from the provider config
func (c Config) resolve(req CompletionRequest, defaultModel string) CompletionRequest {
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Model == "" {
		req.Model = defaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1000
	}
	if req.Temperature == 0 {
		req.Temperature = c.Temperature
	}
	return req
}
