// Package extraction finds dictionary skills in normalized text.
package extraction

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"github.com/jonathan/fit-engine/internal/dictionary"
	"github.com/jonathan/fit-engine/internal/types"
)

const (
	exactConfidence = 1.0
	// minStemVariantLength is the shortest variant (in runes) whose stem alone may match
	minStemVariantLength = 4
)

// Config is the fuzzy matching policy. It is tunable and recorded in result audits.
type Config struct {
	// FuzzyConfidence is assigned to stem and edit-distance matches
	FuzzyConfidence float64 `mapstructure:"fuzzy_confidence" validate:"gt=0,lt=1"`
	// MaxEditDistance is the per-token Levenshtein budget; 0 disables edit-distance matching
	MaxEditDistance int `mapstructure:"max_edit_distance" validate:"gte=0,lte=3"`
	// MinFuzzyTokenLength is the shortest token (in runes) eligible for edit-distance matching
	MinFuzzyTokenLength int `mapstructure:"min_fuzzy_token_length" validate:"gte=1"`
}

// DefaultConfig returns the default matching policy
func DefaultConfig() Config {
	return Config{
		FuzzyConfidence:     0.7,
		MaxEditDistance:     1,
		MinFuzzyTokenLength: 6,
	}
}

var validate = validator.New()

// Validate checks the policy ranges
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &ConfigError{Message: "matching policy out of range", Cause: err}
	}
	return nil
}

// Extractor matches dictionary phrases against token sequences.
// It holds only read-only state and is safe for concurrent use.
type Extractor struct {
	dict *dictionary.Dictionary
	cfg  Config
}

// New creates an Extractor over dict with the given policy
func New(dict *dictionary.Dictionary, cfg Config) (*Extractor, error) {
	if dict == nil {
		return nil, errors.New("dictionary is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{dict: dict, cfg: cfg}, nil
}

// Config returns the matching policy
func (e *Extractor) Config() Config {
	return e.cfg
}

// candidate is one dictionary variant matching tokens[start:end]
type candidate struct {
	variant    *dictionary.Variant
	start, end int
	confidence float64
	method     types.MatchMethod
}

func (c candidate) length() int {
	return c.end - c.start
}

// Extract returns the skills found in nt, one entry per canonical name, sorted by name.
// Overlapping matches are resolved longest-first; text without skills yields an empty slice.
func (e *Extractor) Extract(nt *types.NormalizedText) []types.ExtractedSkill {
	if nt == nil || len(nt.Tokens) == 0 {
		return []types.ExtractedSkill{}
	}

	candidates := e.collect(nt.Tokens)
	accepted := selectLongest(candidates, len(nt.Tokens))
	return merge(accepted, nt.Tokens)
}

// collect tries every token window up to the longest dictionary phrase
func (e *Extractor) collect(tokens []types.Token) []candidate {
	var out []candidate
	maxLen := e.dict.MaxPhraseLen()

	for i := range tokens {
		limit := min(maxLen, len(tokens)-i)
		for n := limit; n >= 1; n-- {
			out = append(out, e.matchWindow(tokens[i:i+n], i)...)
		}
	}
	return out
}

// matchWindow returns the matches for one window. An exact hit suppresses fuzzy paths.
func (e *Extractor) matchWindow(window []types.Token, start int) []candidate {
	end := start + len(window)

	texts := make([]string, len(window))
	lemmas := make([]string, len(window))
	for i, tok := range window {
		texts[i] = tok.Text
		lemmas[i] = tok.Lemma
	}

	if v, ok := e.dict.LookupExact(strings.Join(texts, " ")); ok {
		method := types.MatchSynonym
		if v.Canonical {
			method = types.MatchExact
		}
		return []candidate{{variant: v, start: start, end: end, confidence: exactConfidence, method: method}}
	}

	if variants := e.dict.LookupLemma(strings.Join(lemmas, " ")); len(variants) > 0 {
		var out []candidate
		for _, v := range variants {
			if stemEligible(v) {
				out = append(out, candidate{variant: v, start: start, end: end, confidence: e.cfg.FuzzyConfidence, method: types.MatchStem})
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	if e.cfg.MaxEditDistance == 0 {
		return nil
	}

	var out []candidate
	for _, v := range e.dict.VariantsOfLength(len(window)) {
		if e.withinEditDistance(texts, v.Tokens) {
			out = append(out, candidate{variant: v, start: start, end: end, confidence: e.cfg.FuzzyConfidence, method: types.MatchEditDistance})
		}
	}
	return out
}

// stemEligible rejects short variants that are their own stem, so "go" never matches "going"
func stemEligible(v *dictionary.Variant) bool {
	surface := strings.Join(v.Tokens, " ")
	if utf8.RuneCountInString(surface) >= minStemVariantLength {
		return true
	}
	return strings.Join(v.Lemmas, " ") != surface
}

// withinEditDistance reports whether every token pair is equal or a near miss,
// with at least one near miss (full equality is the exact path).
func (e *Extractor) withinEditDistance(got, want []string) bool {
	near := false
	for i := range got {
		if got[i] == want[i] {
			continue
		}
		if !e.nearMiss(got[i], want[i]) {
			return false
		}
		near = true
	}
	return near
}

func (e *Extractor) nearMiss(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la < e.cfg.MinFuzzyTokenLength || lb < e.cfg.MinFuzzyTokenLength {
		return false
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > e.cfg.MaxEditDistance {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= e.cfg.MaxEditDistance
}

// selectLongest keeps non-overlapping candidates, preferring longer phrases,
// then higher confidence, then earlier position, then canonical name.
func selectLongest(candidates []candidate, tokenCount int) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.length() != b.length() {
			return a.length() > b.length()
		}
		if a.confidence != b.confidence {
			return a.confidence > b.confidence
		}
		if a.start != b.start {
			return a.start < b.start
		}
		return a.variant.Skill.Name < b.variant.Skill.Name
	})

	taken := make([]bool, tokenCount)
	accepted := make([]candidate, 0, len(candidates))

	for _, c := range candidates {
		free := true
		for k := c.start; k < c.end; k++ {
			if taken[k] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for k := c.start; k < c.end; k++ {
			taken[k] = true
		}
		accepted = append(accepted, c)
	}
	return accepted
}

// methodRank orders methods so ties on confidence keep the strongest path
var methodRank = map[types.MatchMethod]int{
	types.MatchExact:        3,
	types.MatchSynonym:      2,
	types.MatchStem:         1,
	types.MatchEditDistance: 0,
}

// merge collapses accepted matches into one ExtractedSkill per canonical name
func merge(accepted []candidate, tokens []types.Token) []types.ExtractedSkill {
	byName := make(map[string]*types.ExtractedSkill)

	for _, c := range accepted {
		span := types.Span{Start: tokens[c.start].Span.Start, End: tokens[c.end-1].Span.End}
		name := c.variant.Skill.Name

		existing, ok := byName[name]
		if !ok {
			byName[name] = &types.ExtractedSkill{
				Name:       name,
				Category:   c.variant.Skill.Category,
				Spans:      []types.Span{span},
				Confidence: c.confidence,
				Method:     c.method,
			}
			continue
		}

		existing.Spans = append(existing.Spans, span)
		if c.confidence > existing.Confidence ||
			(c.confidence == existing.Confidence && methodRank[c.method] > methodRank[existing.Method]) {
			existing.Confidence = c.confidence
			existing.Method = c.method
		}
	}

	out := make([]types.ExtractedSkill, 0, len(byName))
	for _, s := range byName {
		sort.Slice(s.Spans, func(i, j int) bool { return s.Spans[i].Start < s.Spans[j].Start })
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
