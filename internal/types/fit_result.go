// Package types provides type definitions for the structured data shared across the fit engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// FitBand is the categorical label derived from a fit score
type FitBand string

// Fit bands in ascending order
const (
	BandWeak      FitBand = "Weak"
	BandModerate  FitBand = "Moderate"
	BandStrong    FitBand = "Strong"
	BandExcellent FitBand = "Excellent"
)

// ScoreComponents holds the three sub-metrics that make up a fit score
type ScoreComponents struct {
	Similarity      float64 `json:"similarity"`
	Overlap         float64 `json:"overlap"`
	ExperienceRatio float64 `json:"experience_ratio"`
}

// Audit records the policy a result was produced under
type Audit struct {
	SimilarityWeight   float64 `json:"similarity_weight"`
	OverlapWeight      float64 `json:"overlap_weight"`
	ExperienceWeight   float64 `json:"experience_weight"`
	ModerateThreshold  float64 `json:"moderate_threshold"`
	StrongThreshold    float64 `json:"strong_threshold"`
	ExcellentThreshold float64 `json:"excellent_threshold"`
	FuzzyConfidence    float64 `json:"fuzzy_confidence"`
	MaxEditDistance    int     `json:"max_edit_distance"`
	MinFuzzyTokenLen   int     `json:"min_fuzzy_token_length"`
	DictionaryVersion  string  `json:"dictionary_version,omitempty"`
}

// FitResult is the outcome of scoring one resume against one job.
// A new result always supersedes an earlier one for the same pair; results are never merged.
type FitResult struct {
	ResumeID      string          `json:"resume_id"`
	JobID         string          `json:"job_id"`
	FitScore      float64         `json:"fit_score"`
	FitBand       FitBand         `json:"fit_band"`
	MatchedSkills []string        `json:"matched_skills"`
	MissingSkills []MissingSkill  `json:"missing_skills"`
	PartialSkills []PartialSkill  `json:"partial_skills"`
	Components    ScoreComponents `json:"components"`
	Audit         Audit           `json:"audit"`
}
