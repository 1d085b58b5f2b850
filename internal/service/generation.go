package service

import (
	"context"
	"errors"
	"storybuddy/internal/cache"
	"storybuddy/internal/domain"
	"storybuddy/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GenerationService turns child-facing requests into prompts for the language model.
type GenerationService interface {
	TellStory(ctx context.Context, text string) (string, error)
	GenerateQuiz(ctx context.Context, story string) (domain.QuizDocument, error)
	Explain(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// generationService implements GenerationService
type generationService struct {
	model domain.LanguageModel
	cache GenerationCacheService
	group singleflight.Group
}

// NewGenerationService creates a new instance of generationService.
// A nil cache disables response caching.
func NewGenerationService(model domain.LanguageModel, generationCache GenerationCacheService) GenerationService {
	if generationCache == nil {
		generationCache = &noopGenerationCacheService{}
	}
	return &generationService{
		model: model,
		cache: generationCache,
	}
}

// TellStory implements GenerationService
func (s *generationService) TellStory(ctx context.Context, text string) (string, error) {
	prompt := BuildStoryPrompt(text)
	return s.generate(ctx, modeStory, s.cacheKey(modeStory, prompt, nil), prompt, nil)
}

// GenerateQuiz implements GenerationService
func (s *generationService) GenerateQuiz(ctx context.Context, story string) (domain.QuizDocument, error) {
	prompt := BuildQuizPrompt(story)
	key := s.cacheKey(modeQuiz, prompt, nil)
	raw, err := s.generate(ctx, modeQuiz, key, prompt, nil)
	if err != nil {
		return nil, err
	}

	quiz, stats := domain.ParseQuizResponseWithStats(raw)
	if len(quiz) == 0 {
		// An unusable quiz must not be served from the cache for the whole TTL.
		if errEvict := s.cache.Evict(ctx, key); errEvict != nil {
			logger.Get().Warn("Failed to evict empty quiz from cache", zap.Error(errEvict))
		}
	}
	if stats.Parsed < expectedQuizQuestions {
		logger.Get().Warn("Quiz response contained fewer well-formed questions than requested",
			zap.Int("segments", stats.Segments),
			zap.Int("parsed", stats.Parsed),
			zap.Int("dropped", stats.Dropped),
			zap.Int("expected", expectedQuizQuestions))
	} else if stats.Dropped > 0 {
		logger.Get().Debug("Dropped malformed quiz segments",
			zap.Int("segments", stats.Segments),
			zap.Int("dropped", stats.Dropped))
	}
	return quiz, nil
}

// Explain implements GenerationService
func (s *generationService) Explain(ctx context.Context, req domain.GenerationRequest) (string, error) {
	prompt, err := BuildExplainPrompt(req.Text, req.Image != nil)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, modeExplain, s.cacheKey(modeExplain, prompt, req.Image), prompt, req.Image)
}

func (s *generationService) cacheKey(mode, prompt string, image *domain.Image) string {
	var imageData []byte
	if image != nil {
		imageData = image.Data
	}
	return cache.GenerationKey(mode, []byte(s.model.Name()), []byte(prompt), imageData)
}

// generate serves a prompt from the cache when possible and otherwise calls the model once
// per distinct key, sharing the result between concurrent identical requests.
func (s *generationService) generate(ctx context.Context, mode, key, prompt string, image *domain.Image) (string, error) {
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		logger.Get().Debug("Generation cache hit", zap.String("mode", mode), zap.String("key", key))
		return cached, nil
	}
	if !errors.Is(err, ErrGenerationNotCached) {
		logger.Get().Warn("Generation cache lookup failed, calling model",
			zap.String("mode", mode),
			zap.Error(err))
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		text, err := s.model.Generate(ctx, prompt, image)
		if err != nil {
			return "", err
		}
		if errPut := s.cache.Put(ctx, key, text); errPut != nil {
			logger.Get().Warn("Failed to cache generation",
				zap.String("mode", mode),
				zap.Error(errPut))
		}
		return text, nil
	})
	if err != nil {
		logger.Get().Error("Language model call failed",
			zap.String("mode", mode),
			zap.String("model", s.model.Name()),
			zap.Bool("hasImage", image != nil),
			zap.Error(err))
		return "", domain.NewLLMServiceError(err)
	}
	if shared {
		logger.Get().Debug("Shared in-flight generation", zap.String("mode", mode))
	}
	return v.(string), nil
}
