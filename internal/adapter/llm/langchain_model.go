package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storybuddy/internal/domain"
	"storybuddy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// contentGenerator is the part of llms.Model this adapter needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// LangchainModel implements domain.LanguageModel on top of a langchaingo model (Ollama, OpenAI).
type LangchainModel struct {
	llm   contentGenerator
	name  string
	model string
}

// NewOllamaModel creates an Ollama-backed model. A nil httpClient keeps the transport defaults.
func NewOllamaModel(serverURL, modelName string, httpClient *http.Client) (*LangchainModel, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	opts := []ollama.Option{ollama.WithServerURL(serverURL), ollama.WithModel(modelName)}
	if httpClient != nil {
		opts = append(opts, ollama.WithHTTPClient(httpClient))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return &LangchainModel{llm: llm, name: "ollama", model: modelName}, nil
}

// NewOpenAIModel creates an OpenAI-backed model. A nil httpClient keeps the transport defaults.
func NewOpenAIModel(apiKey, modelName string, httpClient *http.Client) (*LangchainModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("openai model name cannot be empty")
	}

	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(modelName)}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return &LangchainModel{llm: llm, name: "openai", model: modelName}, nil
}

func (m *LangchainModel) Name() string { return m.name }

// Model returns the provider-side model name.
func (m *LangchainModel) Model() string { return m.model }

// Generate sends one human message holding the prompt and, optionally, the image.
func (m *LangchainModel) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	parts := []llms.ContentPart{llms.TextContent{Text: prompt}}
	if image != nil {
		parts = append(parts, llms.BinaryPart(image.MIMEType, image.Data))
	}

	resp, err := m.llm.GenerateContent(ctx, []llms.MessageContent{
		{Role: schema.ChatMessageTypeHuman, Parts: parts},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Get().Error("LLM request timed out", zap.String("provider", m.name), zap.Error(err))
			return "", fmt.Errorf("%s request timed out: %w", m.name, err)
		}
		return "", fmt.Errorf("%s call failed: %w", m.name, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response", m.name)
	}

	text := stripThinkBlock(resp.Choices[0].Content)
	if text == "" {
		return "", fmt.Errorf("%s: empty response", m.name)
	}
	return text, nil
}

// stripThinkBlock removes a leading <think>...</think> section that reasoning models emit.
func stripThinkBlock(s string) string {
	s = strings.TrimSpace(s)
	thinkStart := strings.Index(s, "<think>")
	if thinkStart == -1 {
		return s
	}
	thinkEnd := strings.Index(s, "</think>")
	if thinkEnd == -1 || thinkEnd < thinkStart {
		return s
	}
	return strings.TrimSpace(s[:thinkStart] + s[thinkEnd+len("</think>"):])
}

var _ domain.LanguageModel = (*LangchainModel)(nil)
