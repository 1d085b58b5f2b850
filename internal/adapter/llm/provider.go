package llm

import (
	"context"
	"fmt"
	"net/http"

	"storybuddy/internal/config"
	"storybuddy/internal/domain"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

var defaultModels = map[string]string{
	ProviderGemini: "gemini-1.5-flash",
	ProviderOllama: "llava",
	ProviderOpenAI: "gpt-4o-mini",
}

// New builds the configured language model, wrapped with outbound pacing when llm.rps is set.
func New(ctx context.Context, cfg config.LLMConfig) (domain.LanguageModel, error) {
	var (
		model domain.LanguageModel
		err   error
	)

	provider, modelName := resolveModel(cfg)
	switch provider {
	case ProviderGemini:
		model, err = NewGeminiModel(ctx, cfg.GeminiAPIKey, modelName)
	case ProviderOllama:
		model, err = NewOllamaModel(cfg.OllamaServerURL, modelName, httpClient(cfg))
	case ProviderOpenAI:
		model, err = NewOpenAIModel(cfg.OpenAIAPIKey, modelName, httpClient(cfg))
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewRateLimitedModel(model, cfg.RPS, cfg.Burst), nil
}

// resolveModel fills in the provider default when llm.model is unset.
func resolveModel(cfg config.LLMConfig) (provider, modelName string) {
	provider = cfg.Provider
	if provider == "" {
		provider = ProviderGemini
	}
	modelName = cfg.Model
	if modelName == "" {
		modelName = defaultModels[provider]
	}
	return provider, modelName
}

// httpClient returns nil when no timeout is configured so the client library's default transport is used.
func httpClient(cfg config.LLMConfig) *http.Client {
	if cfg.Timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: cfg.Timeout}
}
