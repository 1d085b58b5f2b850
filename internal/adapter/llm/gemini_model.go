package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storybuddy/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiModel implements domain.LanguageModel on the Gemini SDK.
// The client is created once and shared by all requests.
type GeminiModel struct {
	client    *genai.Client
	modelName string
}

// NewGeminiModel creates a Gemini-backed model. It does not contact the API.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	apiKey = strings.TrimSpace(apiKey)
	modelName = strings.TrimSpace(modelName)
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiModel{client: client, modelName: modelName}, nil
}

func (g *GeminiModel) Name() string { return "gemini" }

// Generate sends the prompt, plus the image when given, and returns the reply text.
func (g *GeminiModel) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	model := g.client.GenerativeModel(g.modelName)

	resp, err := model.GenerateContent(ctx, geminiParts(prompt, image)...)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

// Close releases the underlying client connection.
func (g *GeminiModel) Close() error {
	return g.client.Close()
}

func geminiParts(prompt string, image *domain.Image) []genai.Part {
	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		parts = append(parts, genai.Blob{MIMEType: image.MIMEType, Data: image.Data})
	}
	return parts
}

// firstText joins the text parts of the first candidate that has content.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

var _ domain.LanguageModel = (*GeminiModel)(nil)
