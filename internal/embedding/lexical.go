package embedding

import (
	"context"
	"errors"
	"hash/fnv"
	"math"

	"github.com/jonathan/fit-engine/internal/parsing"
)

// DefaultLexicalDimensions is the vector size of the lexical provider
const DefaultLexicalDimensions = 512

// LexicalModel names the lexical provider in cache keys and audits
const LexicalModel = "lexical-v1"

// LexicalProvider is an offline provider: a signed feature-hashed bag of lemmas,
// L2-normalized. It needs no network and is fully deterministic.
type LexicalProvider struct {
	normalizer *parsing.Normalizer
	dims       int
}

// NewLexicalProvider creates a lexical provider. Zero dims selects the default size;
// a nil normalizer selects the default normalizer.
func NewLexicalProvider(normalizer *parsing.Normalizer, dims int) *LexicalProvider {
	if normalizer == nil {
		normalizer = parsing.NewNormalizer()
	}
	if dims <= 0 {
		dims = DefaultLexicalDimensions
	}
	return &LexicalProvider{normalizer: normalizer, dims: dims}
}

// Model returns the provider's model name
func (p *LexicalProvider) Model() string {
	return LexicalModel
}

// Dimensions returns the vector size
func (p *LexicalProvider) Dimensions() int {
	return p.dims
}

// Embed hashes each lemma into the vector. Text without tokens yields the zero vector.
func (p *LexicalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UnavailableError{Provider: ProviderLexical, Message: "request cancelled", Cause: err}
	}

	vec := make([]float32, p.dims)

	nt, err := p.normalizer.Normalize(text)
	if err != nil {
		var emptyErr *parsing.EmptyDocumentError
		if errors.As(err, &emptyErr) {
			return vec, nil
		}
		return nil, &UnavailableError{Provider: ProviderLexical, Message: "normalization failed", Cause: err}
	}

	for _, tok := range nt.Tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok.Lemma))
		sum := h.Sum64()

		idx := int(sum % uint64(p.dims))
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}
