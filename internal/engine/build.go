package engine

import (
	"context"
	"fmt"

	"github.com/jonathan/fit-engine/internal/config"
	"github.com/jonathan/fit-engine/internal/dictionary"
	"github.com/jonathan/fit-engine/internal/embedding"
	"github.com/jonathan/fit-engine/internal/logging"
	"go.uber.org/zap"
)

// NewFromConfig builds an Engine together with its embedding provider and cache.
// The caller must Close the engine to release the Gemini client and database pool.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.WithFields(logger)

	dict, err := loadDictionary(cfg.Dictionary.Path)
	if err != nil {
		return nil, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	provider, model, err := newProvider(ctx, cfg.Embedding, dict)
	if err != nil {
		return nil, err
	}
	if gp, ok := provider.(*embedding.GeminiProvider); ok {
		closers = append(closers, func() { _ = gp.Close() })
	}
	logger = logging.WithFields(logger, logging.EmbeddingFields(cfg.Embedding.Provider, model)...)

	switch cfg.Embedding.Cache {
	case config.CacheMemory:
		provider = embedding.NewCachedProvider(provider, embedding.NewMemoryStore(), model, logger)
	case config.CachePostgres:
		store, err := embedding.NewPostgresStore(ctx, cfg.Embedding.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, store.Close)
		provider = embedding.NewCachedProvider(provider, store, model, logger)
	}

	eng, err := New(Options{
		Dictionary:  dict,
		Matching:    cfg.Matching,
		Scoring:     cfg.Scoring(),
		Provider:    provider,
		PIIPatterns: cfg.PII.Patterns,
		Concurrency: cfg.Batch.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		cleanup()
		return nil, err
	}
	eng.closers = closers

	logger.Debug("engine ready",
		zap.Int("skills", dict.Len()),
		zap.String("cache", cfg.Embedding.Cache),
	)
	return eng, nil
}

func loadDictionary(path string) (*dictionary.Dictionary, error) {
	if path == "" {
		return dictionary.Default()
	}
	return dictionary.Load(path)
}

// newProvider returns the configured provider and the model name that keys its cache entries
func newProvider(ctx context.Context, cfg config.EmbeddingConfig, dict *dictionary.Dictionary) (embedding.Provider, string, error) {
	switch cfg.Provider {
	case embedding.ProviderGemini:
		p, err := embedding.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, "", err
		}
		return p, p.Model(), nil
	case embedding.ProviderLexical, "":
		p := embedding.NewLexicalProvider(dict.Normalizer(), cfg.Dimensions)
		// dimension changes the vector, so it is part of the model identity
		return p, fmt.Sprintf("%s-%d", p.Model(), p.Dimensions()), nil
	default:
		return nil, "", fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
