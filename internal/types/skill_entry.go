// Package types provides type definitions for the structured data shared across the fit engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Category classifies a canonical skill in the dictionary
type Category string

// Skill categories recognized by the dictionary
const (
	CategoryTechnical Category = "technical"
	CategorySoft      Category = "soft"
	CategoryDomain    Category = "domain"
	CategoryTool      Category = "tool"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategorySoft, CategoryDomain, CategoryTool:
		return true
	default:
		return false
	}
}

// SkillEntry is a single canonical skill in the taxonomy.
// Entries are immutable once the dictionary has been loaded.
type SkillEntry struct {
	Name     string   `json:"name" mapstructure:"name" validate:"required"`
	Category Category `json:"category" mapstructure:"category" validate:"required,oneof=technical soft domain tool"`
	Synonyms []string `json:"synonyms,omitempty" mapstructure:"synonyms" validate:"dive,required"`
}

// MatchMethod records which matching path produced an extraction
type MatchMethod string

// Matching paths, from strongest to weakest
const (
	MatchExact        MatchMethod = "exact"
	MatchSynonym      MatchMethod = "synonym"
	MatchStem         MatchMethod = "stem"
	MatchEditDistance MatchMethod = "edit_distance"
)

// Span is a half-open byte range [Start, End) into a document's original text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the byte length of the span
func (s Span) Len() int {
	return s.End - s.Start
}

// ExtractedSkill is a canonical skill found in a document together with its evidence
type ExtractedSkill struct {
	Name       string      `json:"name"`
	Category   Category    `json:"category"`
	Spans      []Span      `json:"spans"`
	Confidence float64     `json:"confidence"`
	Method     MatchMethod `json:"method"`
}

// Approximate reports whether the skill was found only through a fuzzy path (confidence below 1.0)
func (s ExtractedSkill) Approximate() bool {
	return s.Confidence < 1.0
}
