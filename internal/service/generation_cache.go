package service

import (
	"context"
	"errors"
	"fmt"
	"storybuddy/internal/domain"
	"storybuddy/internal/logger"
	"time"

	"go.uber.org/zap"
)

// ErrGenerationNotCached is returned when no raw response is cached for a key.
var ErrGenerationNotCached = errors.New("generation not found in cache")

// GenerationCacheService stores raw model responses keyed by cache.GenerationKey.
type GenerationCacheService interface {
	Put(ctx context.Context, key string, text string) error
	Get(ctx context.Context, key string) (string, error)
	Evict(ctx context.Context, key string) error
}

type generationCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewGenerationCacheService creates a cache-backed service, or a no-op one when cache is nil.
func NewGenerationCacheService(cache domain.Cache, ttl time.Duration) GenerationCacheService {
	if cache == nil {
		logger.Get().Info("GenerationCacheService initialized without cache. Responses will not be cached.")
		return &noopGenerationCacheService{}
	}
	return &generationCacheServiceImpl{
		cache: cache,
		ttl:   ttl,
	}
}

// Put stores a raw model response.
func (s *generationCacheServiceImpl) Put(ctx context.Context, key string, text string) error {
	if text == "" {
		return domain.NewInvalidInputError("cannot cache empty generation")
	}

	if err := s.cache.Set(ctx, key, text, s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set generation to cache for key %s", key), err)
	}
	logger.Get().Debug("Successfully cached generation", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

// Get retrieves a raw model response.
func (s *generationCacheServiceImpl) Get(ctx context.Context, key string) (string, error) {
	text, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return "", ErrGenerationNotCached
		}
		return "", domain.NewInternalError(fmt.Sprintf("failed to get generation from cache for key %s", key), err)
	}
	if text == "" {
		return "", ErrGenerationNotCached
	}
	return text, nil
}

// Evict removes a cached response so the next identical request regenerates it.
func (s *generationCacheServiceImpl) Evict(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete generation from cache for key %s", key), err)
	}
	logger.Get().Debug("Evicted cached generation", zap.String("key", key))
	return nil
}

type noopGenerationCacheService struct{}

func (n *noopGenerationCacheService) Put(ctx context.Context, key string, text string) error {
	return nil
}

func (n *noopGenerationCacheService) Get(ctx context.Context, key string) (string, error) {
	return "", ErrGenerationNotCached
}

func (n *noopGenerationCacheService) Evict(ctx context.Context, key string) error {
	return nil
}
