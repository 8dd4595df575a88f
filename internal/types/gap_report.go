// Package types provides type definitions for the structured data shared across the fit engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Importance is the tier of a job requirement
type Importance string

// Requirement tiers
const (
	MustHave   Importance = "must_have"
	NiceToHave Importance = "nice_to_have"
)

// Presentation weights for missing skills; they never feed the fit score
const (
	mustHaveWeight   = 2.0
	niceToHaveWeight = 1.0
)

// Weight returns the ranking weight of a tier
func (i Importance) Weight() float64 {
	if i == MustHave {
		return mustHaveWeight
	}
	return niceToHaveWeight
}

// Requirement is a canonical skill the job asks for, tagged with its tier
type Requirement struct {
	Skill      string     `json:"skill"`
	Importance Importance `json:"importance"`
}

// MissingSkill is a required skill absent from the resume
type MissingSkill struct {
	Name       string     `json:"name"`
	Tier       Importance `json:"tier"`
	Importance float64    `json:"importance"`
}

// PartialSkill is a required skill the resume only shows through an approximate match
type PartialSkill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// GapReport partitions a job's required skills against a resume
type GapReport struct {
	Matched []string       `json:"matched"`
	Partial []PartialSkill `json:"partial"`
	Missing []MissingSkill `json:"missing"` // sorted by importance desc, then name
}

// RequiredCount returns the number of required skills covered by the report
func (r *GapReport) RequiredCount() int {
	return len(r.Matched) + len(r.Partial) + len(r.Missing)
}

// MustHaveMissing returns missing skills in the must-have tier
func (r *GapReport) MustHaveMissing() []MissingSkill {
	return r.missingByTier(MustHave)
}

// NiceToHaveMissing returns missing skills in the nice-to-have tier
func (r *GapReport) NiceToHaveMissing() []MissingSkill {
	return r.missingByTier(NiceToHave)
}

func (r *GapReport) missingByTier(tier Importance) []MissingSkill {
	out := make([]MissingSkill, 0, len(r.Missing))
	for _, m := range r.Missing {
		if m.Tier == tier {
			out = append(out, m)
		}
	}
	return out
}
