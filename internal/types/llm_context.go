// Package types provides type definitions for the structured data shared across the fit engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ContextMissingSkill is the missing-skill shape handed to the language-model layer
type ContextMissingSkill struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// LLMContext is the grounding payload for the explanation and learning-path prompts.
// Field names are a stable contract; the prompting layer reads exactly these fields.
type LLMContext struct {
	ResumeSkills          []string              `json:"resume_skills"`
	JobSkills             []string              `json:"job_skills"`
	MatchedSkills         []string              `json:"matched_skills"`
	MissingSkills         []ContextMissingSkill `json:"missing_skills"`
	PartialSkills         []string              `json:"partial_skills"`
	FitScore              float64               `json:"fit_score"`
	FitBand               FitBand               `json:"fit_band"`
	ExperienceYears       float64               `json:"experience_years"`
	ExperienceRequiredMin *float64              `json:"experience_required_min"`
}
