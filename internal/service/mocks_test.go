package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"storybuddy/internal/domain"
)

// ManualMockCache for domain.Cache interface
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errors.New("GetFunc not set")
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return errors.New("SetFunc not set")
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return errors.New("DeleteFunc not set")
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// ManualMockModel for domain.LanguageModel interface
type ManualMockModel struct {
	NameValue    string
	GenerateFunc func(ctx context.Context, prompt string, image *domain.Image) (string, error)

	calls      atomic.Int32
	lastPrompt atomic.Value
	lastImage  atomic.Pointer[domain.Image]
}

func (m *ManualMockModel) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *ManualMockModel) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	m.calls.Add(1)
	m.lastPrompt.Store(prompt)
	m.lastImage.Store(image)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, image)
	}
	return "", errors.New("GenerateFunc not set")
}

func (m *ManualMockModel) Calls() int {
	return int(m.calls.Load())
}

func (m *ManualMockModel) LastPrompt() string {
	p, _ := m.lastPrompt.Load().(string)
	return p
}

func (m *ManualMockModel) LastImage() *domain.Image {
	return m.lastImage.Load()
}

// memoryCache is a map-backed domain.Cache.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]string
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.deletes++
	return nil
}

func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *memoryCache) Deletes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletes
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }
