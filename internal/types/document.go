// Package types provides type definitions for the structured data shared across the fit engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "sort"

// DocumentKind distinguishes resumes from job descriptions
type DocumentKind string

// Document kinds
const (
	KindResume DocumentKind = "resume"
	KindJob    DocumentKind = "job"
)

// Token is a single normalized token with the span it came from in the original text
type Token struct {
	Text  string `json:"text"`  // case-folded surface form
	Lemma string `json:"lemma"` // stemmed form used for approximate matching
	Span  Span   `json:"span"`
}

// NormalizedText is the output of the text normalizer: the ordered token sequence
// plus the untouched original text for evidence lookups.
type NormalizedText struct {
	Original string  `json:"original"`
	Tokens   []Token `json:"tokens"`
}

// Document is a parsed resume or job description.
// A Document is built once per parse call and never mutated afterwards;
// re-scoring requires re-parsing.
type Document struct {
	ID           string             `json:"id"`
	Kind         DocumentKind       `json:"kind"`
	Text         string             `json:"text"`
	Tokens       []Token            `json:"tokens"`
	Skills       []ExtractedSkill   `json:"skills"`
	Experience   *ExperienceProfile `json:"experience,omitempty"`
	Requirements []Requirement      `json:"requirements,omitempty"` // job documents only
}

// Skill looks up an extracted skill by canonical name
func (d *Document) Skill(name string) (ExtractedSkill, bool) {
	for _, s := range d.Skills {
		if s.Name == name {
			return s, true
		}
	}
	return ExtractedSkill{}, false
}

// SkillNames returns the sorted canonical names of all extracted skills
func (d *Document) SkillNames() []string {
	names := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Evidence returns the original text covered by a span, or "" if the span is out of range
func (d *Document) Evidence(span Span) string {
	if span.Start < 0 || span.End > len(d.Text) || span.Start >= span.End {
		return ""
	}
	return d.Text[span.Start:span.End]
}
