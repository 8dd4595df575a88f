// Package embedding provides the text embedding interface consumed by the fit scorer,
// together with a Gemini-backed provider, an offline lexical provider and caching.
package embedding

import "context"

// Provider converts text into a fixed-length vector.
// Implementations must be deterministic for the same text within one model version
// and must return *UnavailableError when the backing service fails.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed calls f
func (f ProviderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// Provider names accepted by configuration
const (
	ProviderLexical = "lexical"
	ProviderGemini  = "gemini"
)
