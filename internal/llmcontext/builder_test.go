package llmcontext

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/fit-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures() (*types.Document, *types.Document, *types.FitResult, *types.GapReport) {
	minYears := 3.0
	resume := &types.Document{
		ID:         "r1",
		Kind:       types.KindResume,
		Text:       "[NAME] - Python and SQL analyst. Contact: [EMAIL]",
		Skills:     []types.ExtractedSkill{{Name: "SQL", Confidence: 1}, {Name: "Python", Confidence: 1}},
		Experience: &types.ExperienceProfile{TotalYears: 4.5},
	}
	job := &types.Document{
		ID:   "j1",
		Kind: types.KindJob,
		Text: "Python, SQL, Statistics, Machine Learning. 3+ years.",
		Requirements: []types.Requirement{
			{Skill: "SQL", Importance: types.MustHave},
			{Skill: "Python", Importance: types.MustHave},
			{Skill: "Statistics", Importance: types.NiceToHave},
			{Skill: "Machine Learning", Importance: types.NiceToHave},
		},
		Experience: &types.ExperienceProfile{MinYearsRequired: &minYears},
	}
	report := &types.GapReport{
		Matched: []string{"Python", "SQL"},
		Partial: []types.PartialSkill{},
		Missing: []types.MissingSkill{
			{Name: "Machine Learning", Tier: types.NiceToHave, Importance: 1},
			{Name: "Statistics", Tier: types.NiceToHave, Importance: 1},
		},
	}
	fit := &types.FitResult{ResumeID: "r1", JobID: "j1", FitScore: 0.675, FitBand: types.BandStrong}
	return resume, job, fit, report
}

func TestBuild_AssemblesContract(t *testing.T) {
	b, err := NewBuilder(nil)
	require.NoError(t, err)

	resume, job, fit, report := fixtures()
	ctx, err := b.Build(resume, job, fit, report)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "SQL"}, ctx.ResumeSkills)
	assert.Equal(t, []string{"Machine Learning", "Python", "SQL", "Statistics"}, ctx.JobSkills)
	assert.Equal(t, []string{"Python", "SQL"}, ctx.MatchedSkills)
	assert.Equal(t, []types.ContextMissingSkill{
		{Name: "Machine Learning", Importance: 1},
		{Name: "Statistics", Importance: 1},
	}, ctx.MissingSkills)
	assert.Equal(t, 0.675, ctx.FitScore)
	assert.Equal(t, types.BandStrong, ctx.FitBand)
	assert.Equal(t, 4.5, ctx.ExperienceYears)
	require.NotNil(t, ctx.ExperienceRequiredMin)
	assert.Equal(t, 3.0, *ctx.ExperienceRequiredMin)

	data, err := json.Marshal(ctx)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 9)
	assert.Equal(t, []any{}, fields["partial_skills"])
}

func TestBuild_NoMinimumIsNull(t *testing.T) {
	b, err := NewBuilder(nil)
	require.NoError(t, err)

	resume, job, fit, report := fixtures()
	job.Experience = nil
	job.Requirements = nil
	job.Skills = []types.ExtractedSkill{{Name: "Python", Confidence: 1}}

	ctx, err := b.Build(resume, job, fit, report)
	require.NoError(t, err)
	assert.Nil(t, ctx.ExperienceRequiredMin)
	assert.Equal(t, []string{"Python"}, ctx.JobSkills)

	data, err := json.Marshal(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"experience_required_min":null`)
}

func TestBuild_UnmaskedInput(t *testing.T) {
	tests := []struct {
		name     string
		resume   string
		job      string
		document string
		pattern  string
	}{
		{"email in resume", "Reach me at jane.doe@example.com", "Python role", "resume", "email"},
		{"phone in job", "Python analyst", "Call (555) 123-4567 to apply", "job", "phone"},
		{"ssn in resume", "SSN 123-45-6789", "Python role", "resume", "ssn"},
	}

	b, err := NewBuilder(nil)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume, job, fit, report := fixtures()
			resume.Text, job.Text = tt.resume, tt.job

			ctx, err := b.Build(resume, job, fit, report)
			assert.Equal(t, types.LLMContext{}, ctx)

			var unmasked *UnmaskedInputError
			require.True(t, errors.As(err, &unmasked))
			assert.Equal(t, tt.document, unmasked.Document)
			assert.Contains(t, unmasked.Patterns, tt.pattern)
		})
	}
}

func TestBuild_MaskedPlaceholdersPass(t *testing.T) {
	b, err := NewBuilder(nil)
	require.NoError(t, err)

	assert.Empty(t, b.Detect("[NAME] <EMAIL> [PHONE] worked 2018 - 2022 on 3 teams"))
}

func TestNewBuilder_CustomPatterns(t *testing.T) {
	b, err := NewBuilder(map[string]string{"employee_id": `EMP-\d{6}`})
	require.NoError(t, err)
	assert.Equal(t, []string{"employee_id"}, b.Detect("badge EMP-123456"))
	assert.Empty(t, b.Detect("jane@example.com"))

	_, err = NewBuilder(map[string]string{"broken": `(`})
	var patternErr *PatternError
	assert.True(t, errors.As(err, &patternErr))
}

func TestBuild_RequiresInputs(t *testing.T) {
	b, err := NewBuilder(nil)
	require.NoError(t, err)

	resume, job, fit, _ := fixtures()
	_, err = b.Build(resume, job, fit, nil)
	assert.Error(t, err)
}
