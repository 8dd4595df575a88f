// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/fit-engine/internal/embedding"
	"github.com/jonathan/fit-engine/internal/extraction"
	"github.com/jonathan/fit-engine/internal/scoring"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FIT_WEIGHTS_OVERLAP
const EnvPrefix = "FIT"

// Embedding cache backends
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CachePostgres = "postgres"
)

// Config is the full engine and CLI configuration.
// Every field has a default so an empty file (or no file) is valid.
type Config struct {
	Weights    scoring.Weights   `mapstructure:"weights"`
	Bands      scoring.Bands     `mapstructure:"bands"`
	Matching   extraction.Config `mapstructure:"matching"`
	PII        PIIConfig         `mapstructure:"pii"`
	Dictionary DictionaryConfig  `mapstructure:"dictionary"`
	Embedding  EmbeddingConfig   `mapstructure:"embedding"`
	Batch      BatchConfig       `mapstructure:"batch"`
	Log        LogConfig         `mapstructure:"log"`
}

// PIIConfig lists the name→regex patterns that must not survive masking.
// An empty map selects the built-in email, phone and SSN patterns.
type PIIConfig struct {
	Patterns map[string]string `mapstructure:"patterns"`
}

// DictionaryConfig points at a skill dictionary file; empty uses the embedded default
type DictionaryConfig struct {
	Path string `mapstructure:"path"`
}

// EmbeddingConfig selects and tunes the embedding provider
type EmbeddingConfig struct {
	Provider    string `mapstructure:"provider" json:"provider" validate:"oneof=lexical gemini"`
	Model       string `mapstructure:"model" json:"model"`
	APIKey      string `mapstructure:"api_key" json:"-"`
	Dimensions  int    `mapstructure:"dimensions" json:"dimensions" validate:"gte=0"`
	Cache       string `mapstructure:"cache" json:"cache" validate:"oneof=none memory postgres"`
	DatabaseURL string `mapstructure:"database_url" json:"-"`
}

// BatchConfig bounds concurrent pair scoring
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=256"`
}

// LogConfig controls logger encoding and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the built-in configuration
func Default() *Config {
	sc := scoring.DefaultConfig()
	return &Config{
		Weights:  sc.Weights,
		Bands:    sc.Bands,
		Matching: extraction.DefaultConfig(),
		Embedding: EmbeddingConfig{
			Provider:   embedding.ProviderLexical,
			Dimensions: embedding.DefaultLexicalDimensions,
			Cache:      CacheMemory,
		},
		Batch: BatchConfig{Concurrency: 4},
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("weights.similarity", d.Weights.Similarity)
	v.SetDefault("weights.overlap", d.Weights.Overlap)
	v.SetDefault("weights.experience", d.Weights.Experience)

	v.SetDefault("bands.moderate", d.Bands.Moderate)
	v.SetDefault("bands.strong", d.Bands.Strong)
	v.SetDefault("bands.excellent", d.Bands.Excellent)

	v.SetDefault("matching.fuzzy_confidence", d.Matching.FuzzyConfidence)
	v.SetDefault("matching.max_edit_distance", d.Matching.MaxEditDistance)
	v.SetDefault("matching.min_fuzzy_token_length", d.Matching.MinFuzzyTokenLength)

	v.SetDefault("dictionary.path", "")

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("embedding.cache", d.Embedding.Cache)
	v.SetDefault("embedding.database_url", "")

	v.SetDefault("batch.concurrency", d.Batch.Concurrency)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads path (YAML, JSON or TOML by extension) over the defaults and applies
// FIT_-prefixed environment overrides. An empty path loads defaults and environment only.
// The result is validated; misconfiguration is returned rather than corrected.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// the Gemini key and database URL also honour the conventional unprefixed names
	if err := v.BindEnv("embedding.api_key", EnvPrefix+"_EMBEDDING_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key environment: %w", err)
	}
	if err := v.BindEnv("embedding.database_url", EnvPrefix+"_EMBEDDING_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url environment: %w", err)
	}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks ranges and cross-field requirements.
// Scoring and matching policies are checked by their own packages so the
// typed errors (InvalidWeightConfigError, ConfigError) reach the caller.
func (c *Config) Validate() error {
	if err := c.Scoring().Validate(); err != nil {
		return err
	}
	if err := c.Matching.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c.Embedding); err != nil {
		return fmt.Errorf("config error: embedding: %w", err)
	}
	if err := validate.Struct(c.Batch); err != nil {
		return fmt.Errorf("config error: batch: %w", err)
	}

	if c.Embedding.Provider == embedding.ProviderGemini && c.Embedding.APIKey == "" {
		return errors.New("config error: embedding.api_key (or GEMINI_API_KEY) is required for the gemini provider")
	}
	if c.Embedding.Cache == CachePostgres && c.Embedding.DatabaseURL == "" {
		return errors.New("config error: embedding.database_url (or DATABASE_URL) is required for the postgres cache")
	}

	if c.Dictionary.Path != "" {
		if _, err := os.Stat(c.Dictionary.Path); os.IsNotExist(err) {
			return fmt.Errorf("config error: dictionary file not found: %s", c.Dictionary.Path)
		}
	}
	return nil
}

// Scoring returns the scoring policy portion of the configuration
func (c *Config) Scoring() scoring.Config {
	return scoring.Config{Weights: c.Weights, Bands: c.Bands}
}
