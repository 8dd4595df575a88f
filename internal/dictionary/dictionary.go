// Package dictionary loads the skill taxonomy and builds the immutable phrase index used for extraction.
package dictionary

import (
	"crypto/sha256"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/fit-engine/internal/parsing"
	"github.com/jonathan/fit-engine/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed default_skills.json
var defaultSkills []byte

var validate = validator.New()

// sourceEntry is the on-disk shape: {canonical_name: {category, synonyms}}
type sourceEntry struct {
	Category string   `json:"category" yaml:"category"`
	Synonyms []string `json:"synonyms" yaml:"synonyms"`
}

// Variant is one matchable spelling of a skill: the canonical name or a synonym.
// Variants are shared read-only across requests and must not be modified.
type Variant struct {
	Skill     types.SkillEntry
	Phrase    string
	Tokens    []string
	Lemmas    []string
	Canonical bool
}

// Len returns the number of tokens in the variant
func (v *Variant) Len() int {
	return len(v.Tokens)
}

// Dictionary is an immutable, indexed skill taxonomy.
// It is built once and injected into the components that need it; it is safe for concurrent use.
type Dictionary struct {
	version    string
	normalizer *parsing.Normalizer
	entries    []types.SkillEntry
	byName     map[string]int
	exact      map[string]*Variant
	lemma      map[string][]*Variant
	byLength   map[int][]*Variant
	maxLen     int
}

// New validates entries and builds the phrase index.
// If normalizer is nil the default normalizer is used.
func New(entries []types.SkillEntry, version string, normalizer *parsing.Normalizer) (*Dictionary, error) {
	if len(entries) == 0 {
		return nil, &InvalidDictionaryError{Message: "dictionary contains no skills"}
	}
	if normalizer == nil {
		normalizer = parsing.NewNormalizer()
	}

	d := &Dictionary{
		version:    version,
		normalizer: normalizer,
		entries:    make([]types.SkillEntry, 0, len(entries)),
		byName:     make(map[string]int, len(entries)),
		exact:      make(map[string]*Variant),
		lemma:      make(map[string][]*Variant),
		byLength:   make(map[int][]*Variant),
	}

	sorted := make([]types.SkillEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	seenNames := make(map[string]string, len(sorted))
	for _, entry := range sorted {
		entry.Name = strings.TrimSpace(entry.Name)
		entry.Category = types.Category(strings.ToLower(strings.TrimSpace(string(entry.Category))))

		if err := validate.Struct(entry); err != nil {
			return nil, &InvalidDictionaryError{Skill: entry.Name, Message: "entry failed validation", Cause: err}
		}

		folded := strings.ToLower(entry.Name)
		if prev, dup := seenNames[folded]; dup {
			return nil, &InvalidDictionaryError{
				Skill:   entry.Name,
				Message: fmt.Sprintf("canonical name collides with %q", prev),
			}
		}
		seenNames[folded] = entry.Name

		synonyms := make([]string, 0, len(entry.Synonyms))
		for _, s := range entry.Synonyms {
			synonyms = append(synonyms, strings.TrimSpace(s))
		}
		entry.Synonyms = synonyms

		d.byName[entry.Name] = len(d.entries)
		d.entries = append(d.entries, entry)

		if err := d.index(entry, entry.Name, true); err != nil {
			return nil, err
		}
		for _, syn := range entry.Synonyms {
			if err := d.index(entry, syn, false); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// index adds one spelling of a skill to the exact, lemma and length indexes
func (d *Dictionary) index(entry types.SkillEntry, phrase string, canonical bool) error {
	tokens := d.normalizer.Phrase(phrase)
	if len(tokens) == 0 {
		return &InvalidDictionaryError{
			Skill:   entry.Name,
			Message: fmt.Sprintf("phrase %q has no matchable tokens", phrase),
		}
	}

	v := &Variant{
		Skill:     entry,
		Phrase:    phrase,
		Tokens:    make([]string, len(tokens)),
		Lemmas:    make([]string, len(tokens)),
		Canonical: canonical,
	}
	for i, tok := range tokens {
		v.Tokens[i] = tok.Text
		v.Lemmas[i] = tok.Lemma
	}

	key := strings.Join(v.Tokens, " ")
	if existing, ok := d.exact[key]; ok {
		if existing.Skill.Name == entry.Name {
			// Same skill spelled twice (e.g. "problem-solving" vs "Problem Solving").
			return nil
		}
		return &InvalidDictionaryError{
			Skill:   entry.Name,
			Message: fmt.Sprintf("phrase %q is already claimed by %q", phrase, existing.Skill.Name),
		}
	}
	d.exact[key] = v

	lemmaKey := strings.Join(v.Lemmas, " ")
	d.lemma[lemmaKey] = append(d.lemma[lemmaKey], v)
	d.byLength[v.Len()] = append(d.byLength[v.Len()], v)
	if v.Len() > d.maxLen {
		d.maxLen = v.Len()
	}
	return nil
}

// Parse decodes a taxonomy mapping in "json" or "yaml" format and builds a Dictionary
func Parse(data []byte, format, version string) (*Dictionary, error) {
	source := make(map[string]sourceEntry)

	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &source); err != nil {
			return nil, &InvalidDictionaryError{Message: "failed to parse JSON", Cause: err}
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &source); err != nil {
			return nil, &InvalidDictionaryError{Message: "failed to parse YAML", Cause: err}
		}
	default:
		return nil, &InvalidDictionaryError{Message: fmt.Sprintf("unsupported dictionary format %q", format)}
	}

	entries := make([]types.SkillEntry, 0, len(source))
	for name, src := range source {
		entries = append(entries, types.SkillEntry{
			Name:     name,
			Category: types.Category(src.Category),
			Synonyms: src.Synonyms,
		})
	}

	if version == "" {
		version = ContentVersion(data)
	}
	return New(entries, version, nil)
}

// Load reads a taxonomy file; the format is taken from the file extension
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidDictionaryError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Parse(data, format, "")
}

// Default returns the built-in taxonomy
func Default() (*Dictionary, error) {
	return Parse(defaultSkills, "json", "builtin-"+ContentVersion(defaultSkills))
}

// ContentVersion derives a stable version tag from taxonomy bytes
func ContentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:6])
}

// Version identifies the taxonomy for result audits
func (d *Dictionary) Version() string {
	return d.version
}

// Normalizer returns the normalizer the phrase index was built with
func (d *Dictionary) Normalizer() *parsing.Normalizer {
	return d.normalizer
}

// Len returns the number of canonical skills
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns a copy of all entries sorted by canonical name
func (d *Dictionary) Entries() []types.SkillEntry {
	out := make([]types.SkillEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Entry looks up a skill by canonical name
func (d *Dictionary) Entry(name string) (types.SkillEntry, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return types.SkillEntry{}, false
	}
	return d.entries[idx], true
}

// Canonical resolves a free-form skill name or synonym to its canonical name
func (d *Dictionary) Canonical(phrase string) (string, bool) {
	tokens := d.normalizer.Phrase(phrase)
	if len(tokens) == 0 {
		return "", false
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	if v, ok := d.exact[strings.Join(parts, " ")]; ok {
		return v.Skill.Name, true
	}
	return "", false
}

// MaxPhraseLen returns the token length of the longest indexed spelling
func (d *Dictionary) MaxPhraseLen() int {
	return d.maxLen
}

// LookupExact returns the variant whose folded tokens equal key (tokens joined by a single space)
func (d *Dictionary) LookupExact(key string) (*Variant, bool) {
	v, ok := d.exact[key]
	return v, ok
}

// LookupLemma returns variants whose stemmed tokens equal key
func (d *Dictionary) LookupLemma(key string) []*Variant {
	return d.lemma[key]
}

// VariantsOfLength returns all variants with exactly n tokens
func (d *Dictionary) VariantsOfLength(n int) []*Variant {
	return d.byLength[n]
}
