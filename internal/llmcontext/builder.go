// Package llmcontext assembles the grounding payload handed to the language-model layer.
package llmcontext

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/jonathan/fit-engine/internal/schemas"
	"github.com/jonathan/fit-engine/internal/types"
)

// DefaultPatterns detect PII that masking should already have replaced
var DefaultPatterns = map[string]string{
	"email": `(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`,
	"phone": `(?:\+?\d{1,2}[\s.-]?)?\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`,
	"ssn":   `\b\d{3}-\d{2}-\d{4}\b`,
}

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// Builder checks inputs for leftover PII and assembles LLMContext payloads.
// It only reads its compiled patterns and is safe for concurrent use.
type Builder struct {
	patterns []namedPattern
}

// NewBuilder compiles the given name→regex patterns; nil selects DefaultPatterns
func NewBuilder(patterns map[string]string) (*Builder, error) {
	if patterns == nil {
		patterns = DefaultPatterns
	}

	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	b := &Builder{patterns: make([]namedPattern, 0, len(names))}
	for _, name := range names {
		re, err := regexp.Compile(patterns[name])
		if err != nil {
			return nil, &PatternError{Name: name, Cause: err}
		}
		b.patterns = append(b.patterns, namedPattern{name: name, re: re})
	}
	return b, nil
}

// Detect returns the names of patterns found in text
func (b *Builder) Detect(text string) []string {
	var hits []string
	for _, p := range b.patterns {
		if p.re.MatchString(text) {
			hits = append(hits, p.name)
		}
	}
	return hits
}

// Build asserts both documents are masked and assembles the context payload.
// The payload is validated against the llm_context schema before it is returned.
func (b *Builder) Build(resume, job *types.Document, fit *types.FitResult, report *types.GapReport) (types.LLMContext, error) {
	if resume == nil || job == nil || fit == nil || report == nil {
		return types.LLMContext{}, fmt.Errorf("resume, job, fit result and gap report are required")
	}

	for _, doc := range []*types.Document{resume, job} {
		if hits := b.Detect(doc.Text); len(hits) > 0 {
			return types.LLMContext{}, &UnmaskedInputError{Document: string(doc.Kind), Patterns: hits}
		}
	}

	missing := make([]types.ContextMissingSkill, 0, len(report.Missing))
	for _, m := range report.Missing {
		missing = append(missing, types.ContextMissingSkill{Name: m.Name, Importance: m.Importance})
	}

	partial := make([]string, 0, len(report.Partial))
	for _, p := range report.Partial {
		partial = append(partial, p.Name)
	}

	ctx := types.LLMContext{
		ResumeSkills:  resume.SkillNames(),
		JobSkills:     jobSkillNames(job),
		MatchedSkills: append([]string{}, report.Matched...),
		MissingSkills: missing,
		PartialSkills: partial,
		FitScore:      fit.FitScore,
		FitBand:       fit.FitBand,
	}

	if resume.Experience != nil {
		ctx.ExperienceYears = resume.Experience.TotalYears
	}
	if job.Experience != nil && job.Experience.MinYearsRequired != nil {
		v := *job.Experience.MinYearsRequired
		ctx.ExperienceRequiredMin = &v
	}

	if err := schemas.Validate(schemas.LLMContext, ctx); err != nil {
		return types.LLMContext{}, err
	}
	return ctx, nil
}

// jobSkillNames lists the job's required skills, falling back to everything extracted
func jobSkillNames(job *types.Document) []string {
	if len(job.Requirements) == 0 {
		return job.SkillNames()
	}
	names := make([]string, 0, len(job.Requirements))
	for _, r := range job.Requirements {
		names = append(names, r.Skill)
	}
	sort.Strings(names)
	return names
}
