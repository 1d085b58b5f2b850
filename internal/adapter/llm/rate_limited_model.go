package llm

import (
	"context"
	"fmt"
	"io"

	"storybuddy/internal/domain"

	"golang.org/x/time/rate"
)

// RateLimitedModel paces outbound calls of the wrapped model. It never retries.
type RateLimitedModel struct {
	next    domain.LanguageModel
	limiter *rate.Limiter
}

// NewRateLimitedModel wraps next with a token bucket. rps <= 0 returns next unchanged.
func NewRateLimitedModel(next domain.LanguageModel, rps float64, burst int) domain.LanguageModel {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedModel{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimitedModel) Name() string { return r.next.Name() }

func (r *RateLimitedModel) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s rate limit wait: %w", r.next.Name(), err)
	}
	return r.next.Generate(ctx, prompt, image)
}

// Close releases the wrapped model's client when it holds one.
func (r *RateLimitedModel) Close() error {
	if c, ok := r.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
