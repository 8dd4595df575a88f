// Package parsing turns raw document text into a deterministic sequence of normalized tokens.
package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/fit-engine/internal/types"
	"github.com/kljensen/snowball/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// defaultStopWords are dropped from the token sequence. Single-letter and short
// words that double as skill names (c, r, go) are deliberately absent.
var defaultStopWords = []string{
	"a", "an", "the", "and", "or", "nor", "of", "to", "in", "on", "for", "with", "at", "by",
	"from", "as", "is", "are", "was", "were", "be", "been", "being", "this", "that", "these",
	"those", "it", "its", "our", "your", "their", "we", "you", "they", "he", "she", "i", "me",
	"my", "us", "will", "would", "can", "could", "should", "may", "might", "must", "have",
	"has", "had", "do", "does", "did", "not", "no", "but", "if", "than", "then", "so", "such",
	"into", "over", "under", "about", "also", "etc", "via", "per", "who", "what", "which",
	"when", "where", "how", "all", "any", "each", "other", "some", "very", "more", "most",
}

// Normalizer lowercases, tokenizes, removes stop words and lemmatizes text.
// It holds only read-only state and is safe for concurrent use.
type Normalizer struct {
	stopWords map[string]struct{}
}

// NewNormalizer creates a Normalizer with the default English stop-word list
func NewNormalizer() *Normalizer {
	return NewNormalizerWithStopWords(defaultStopWords)
}

// NewNormalizerWithStopWords creates a Normalizer with a custom stop-word list
func NewNormalizerWithStopWords(stopWords []string) *Normalizer {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Normalizer{stopWords: set}
}

// Normalize tokenizes text. The same input always yields the same tokens and spans.
// Returns EmptyDocumentError when the text is blank or contains no usable tokens.
func (n *Normalizer) Normalize(text string) (*types.NormalizedText, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyDocumentError{Message: "text is blank"}
	}

	tokens := n.tokenize(text)
	if len(tokens) == 0 {
		return nil, &EmptyDocumentError{Message: "no usable tokens after normalization"}
	}

	return &types.NormalizedText{
		Original: text,
		Tokens:   tokens,
	}, nil
}

// Phrase normalizes a short phrase (a skill name or synonym) with exactly the same
// rules as document text, so phrases and documents can be compared token by token.
func (n *Normalizer) Phrase(phrase string) []types.Token {
	return n.tokenize(phrase)
}

// IsStopWord reports whether the folded word is dropped by this normalizer
func (n *Normalizer) IsStopWord(word string) bool {
	_, ok := n.stopWords[word]
	return ok
}

func (n *Normalizer) tokenize(text string) []types.Token {
	// Casers are stateful, so each call gets its own.
	folder := cases.Fold()

	var tokens []types.Token
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		s := start
		start = -1

		// Trailing dots are sentence punctuation, not part of the word.
		trimmed := strings.TrimRight(raw, ".")
		if trimmed == "" {
			return
		}
		end = s + len(trimmed)

		folded := folder.String(norm.NFKC.String(trimmed))
		if _, stop := n.stopWords[folded]; stop {
			return
		}
		tokens = append(tokens, types.Token{
			Text:  folded,
			Lemma: lemma(folded),
			Span:  types.Span{Start: s, End: end},
		})
	}

	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if start < 0 {
				start = i
			}
		case r == '+' || r == '#':
			// c++, c#, f#: only as a suffix of a started word
			if start < 0 {
				continue
			}
		case r == '.':
			// node.js, .net, asp.net: keep dots that sit in front of a word character
			if !nextIsWordChar(text, i+1) {
				flush(i)
				continue
			}
			if start < 0 {
				start = i
			}
		default:
			flush(i)
		}
	}
	flush(len(text))

	return tokens
}

func nextIsWordChar(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lemma stems purely alphabetic tokens; tokens carrying digits or symbols
// (c++, node.js, python3) are already canonical and are kept verbatim.
func lemma(word string) string {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return word
		}
	}
	return english.Stem(word, false)
}
