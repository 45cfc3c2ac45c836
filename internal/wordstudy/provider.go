// Package wordstudy generates lemma word studies through a configurable LLM
// provider. The feature sits entirely outside the query core; providers are
// selected by configuration behind one capability interface.
package wordstudy

import (
	"context"
	"net/http"
	"time"

	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// Kind identifies a provider family.
type Kind string

const (
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
	KindOllama Kind = "ollama"
	// KindCustom is any OpenAI-compatible endpoint.
	KindCustom Kind = "custom"
)

// Default endpoints and models per provider family.
const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1"
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultOllamaEndpoint = "http://localhost:11434"

	defaultMaxTokens   = 500
	defaultTemperature = 0.7
)

// Request is one generation call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

func (r Request) withDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = defaultMaxTokens
	}
	if r.Temperature == 0 {
		r.Temperature = defaultTemperature
	}
	return r
}

// Provider generates text. Implementations are safe for concurrent use.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the configured provider. An empty provider name means
// the feature is disabled and yields a nil Provider with no error.
func NewProvider(cfg config.WordStudyConfig, apiKey string, client *http.Client) (Provider, error) {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	switch Kind(cfg.Provider) {
	case "":
		return nil, nil
	case KindOpenAI:
		if apiKey == "" {
			return nil, errors.ConfigError("word study provider openai needs an API key", nil).
				WithSuggestion("set " + cfg.APIKeyEnv)
		}
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOpenAIEndpoint
		}
		return newOpenAI(string(KindOpenAI), endpoint, apiKey, cfg.Model, client), nil
	case KindCustom:
		if cfg.Endpoint == "" {
			return nil, errors.ConfigError("word study provider custom needs an endpoint", nil)
		}
		return newOpenAI(string(KindCustom), cfg.Endpoint, apiKey, cfg.Model, client), nil
	case KindGemini:
		if apiKey == "" {
			return nil, errors.ConfigError("word study provider gemini needs an API key", nil).
				WithSuggestion("set " + cfg.APIKeyEnv)
		}
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultGeminiEndpoint
		}
		return &gemini{endpoint: endpoint, apiKey: apiKey, model: cfg.Model, client: client}, nil
	case KindOllama:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOllamaEndpoint
		}
		return &ollama{endpoint: endpoint, model: cfg.Model, client: client}, nil
	default:
		return nil, errors.ConfigError("unknown word study provider: "+cfg.Provider, nil)
	}
}
