package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store persists vectors by cache key
type Store interface {
	// Get returns the vector for key; ok is false on a miss
	Get(ctx context.Context, key string) (vec []float32, ok bool, err error)
	// Put stores the vector for key
	Put(ctx context.Context, key string, vec []float32) error
}

// CacheKey derives the cache key for text under a model.
// The model is part of the key so vectors never cross embedding-model versions.
func CacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return model + ":" + hex.EncodeToString(h.Sum(nil))
}

// CachedProvider wraps a Provider with a Store. Concurrent requests for the same
// text share one provider call, which a cancelled caller does not abort.
// Store failures degrade to a provider call.
type CachedProvider struct {
	provider Provider
	store    Store
	model    string
	logger   *zap.Logger
	group    singleflight.Group
}

// NewCachedProvider creates a caching provider. A nil logger disables logging.
func NewCachedProvider(provider Provider, store Store, model string, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		provider: provider,
		store:    store,
		model:    model,
		logger:   logger,
	}
}

// Model returns the model name used in cache keys
func (c *CachedProvider) Model() string {
	return c.model
}

// Embed returns the cached vector for text or computes and stores it
func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(c.model, text)

	if vec, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("embedding cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return vec, nil
	}

	// the shared call outlives any single caller; each caller stops waiting on its own ctx
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		vec, err := c.provider.Embed(shared, text)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(shared, key, vec); err != nil {
			c.logger.Warn("embedding cache write failed", zap.String("key", key), zap.Error(err))
		}
		return vec, nil
	})

	select {
	case <-ctx.Done():
		return nil, &UnavailableError{Provider: c.model, Message: "request cancelled", Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		vec := res.Val.([]float32)
		out := make([]float32, len(vec))
		copy(out, vec)
		return out, nil
	}
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]float32
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]float32)}
}

// Get returns a copy of the stored vector
func (s *MemoryStore) Get(_ context.Context, key string) ([]float32, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true, nil
}

// Put stores a copy of vec
func (s *MemoryStore) Put(_ context.Context, key string, vec []float32) error {
	stored := make([]float32, len(vec))
	copy(stored, vec)

	s.mu.Lock()
	s.entries[key] = stored
	s.mu.Unlock()
	return nil
}

// Len returns the number of cached vectors
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// NopStore never caches anything
type NopStore struct{}

// Get always misses
func (NopStore) Get(context.Context, string) ([]float32, bool, error) {
	return nil, false, nil
}

// Put discards vec
func (NopStore) Put(context.Context, string, []float32) error {
	return nil
}
