package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/fit-engine/internal/config"
	"github.com/jonathan/fit-engine/internal/dictionary"
	"github.com/jonathan/fit-engine/internal/embedding"
	"github.com/jonathan/fit-engine/internal/extraction"
	"github.com/jonathan/fit-engine/internal/llmcontext"
	"github.com/jonathan/fit-engine/internal/parsing"
	"github.com/jonathan/fit-engine/internal/scoring"
	"github.com/jonathan/fit-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumeText = `Data analyst who builds reports with Python and SQL.`

const jobText = `Data Analyst
Requirements:
- Python
- SQL
Nice to have:
- Statistics
- Machine Learning`

func testDictionary(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.New([]types.SkillEntry{
		{Name: "Python", Category: types.CategoryTechnical},
		{Name: "SQL", Category: types.CategoryTechnical},
		{Name: "Statistics", Category: types.CategoryDomain},
		{Name: "Machine Learning", Category: types.CategoryTechnical, Synonyms: []string{"ML"}},
		{Name: "Rust", Category: types.CategoryTechnical},
	}, "test-v1", nil)
	require.NoError(t, err)
	return d
}

// countingProvider returns a fixed vector chosen by a text predicate and counts calls per text
type countingProvider struct {
	mu    sync.Mutex
	calls map[string]int
	embed func(text string) ([]float32, error)
}

func newCountingProvider(embed func(text string) ([]float32, error)) *countingProvider {
	return &countingProvider{calls: make(map[string]int), embed: embed}
}

func (p *countingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	p.calls[text]++
	p.mu.Unlock()
	return p.embed(text)
}

func (p *countingProvider) count(text string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[text]
}

// scenarioProvider gives resume/job vectors whose cosine is 0.75
func scenarioProvider() *countingProvider {
	return newCountingProvider(func(text string) ([]float32, error) {
		if strings.Contains(text, "Requirements") {
			return []float32{1, 0}, nil
		}
		return []float32{0.75, 0.6614378}, nil
	})
}

func newTestEngine(t *testing.T, provider embedding.Provider) *Engine {
	t.Helper()
	eng, err := New(Options{Dictionary: testDictionary(t), Provider: provider})
	require.NoError(t, err)
	return eng
}

func TestScore_Scenario(t *testing.T) {
	eng := newTestEngine(t, scenarioProvider())

	resume, err := eng.ParseResume("r1", resumeText)
	require.NoError(t, err)
	job, err := eng.ParseJob("j1", jobText, nil)
	require.NoError(t, err)

	assert.Equal(t, []types.Requirement{
		{Skill: "Python", Importance: types.MustHave},
		{Skill: "SQL", Importance: types.MustHave},
		{Skill: "Machine Learning", Importance: types.NiceToHave},
		{Skill: "Statistics", Importance: types.NiceToHave},
	}, job.Requirements)

	match, err := eng.Score(context.Background(), resume, job)
	require.NoError(t, err)

	fit := match.Result
	assert.Equal(t, "r1", fit.ResumeID)
	assert.Equal(t, "j1", fit.JobID)
	assert.Equal(t, 0.75, fit.Components.Similarity)
	assert.Equal(t, 0.5, fit.Components.Overlap)
	assert.Equal(t, 1.0, fit.Components.ExperienceRatio)
	assert.Equal(t, 0.675, fit.FitScore)
	assert.Equal(t, types.BandStrong, fit.FitBand)
	assert.Equal(t, []string{"Python", "SQL"}, fit.MatchedSkills)
	assert.Equal(t, []types.MissingSkill{
		{Name: "Machine Learning", Tier: types.NiceToHave, Importance: 1.0},
		{Name: "Statistics", Tier: types.NiceToHave, Importance: 1.0},
	}, fit.MissingSkills)
	assert.Empty(t, fit.PartialSkills)
	assert.Equal(t, "test-v1", fit.Audit.DictionaryVersion)
	assert.Equal(t, 0.7, fit.Audit.FuzzyConfidence)
	assert.Equal(t, extraction.DefaultConfig().MinFuzzyTokenLength, fit.Audit.MinFuzzyTokenLen)

	assert.Equal(t, []string{"Python", "SQL"}, match.Context.ResumeSkills)
	assert.Equal(t, []string{"Machine Learning", "Python", "SQL", "Statistics"}, match.Context.JobSkills)
	assert.Equal(t, 0.675, match.Context.FitScore)
	assert.Nil(t, match.Context.ExperienceRequiredMin)
}

func TestScore_Deterministic(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	run := func() *Match {
		resume, err := eng.ParseResume("", resumeText)
		require.NoError(t, err)
		job, err := eng.ParseJob("", jobText, nil)
		require.NoError(t, err)
		match, err := eng.Score(ctx, resume, job)
		require.NoError(t, err)
		return match
	}

	assert.Equal(t, run(), run())
}

func TestScore_PartialSkill(t *testing.T) {
	eng := newTestEngine(t, scenarioProvider())

	resume, err := eng.ParseResume("r", "Wrote pythonn scripts and SQL queries.")
	require.NoError(t, err)
	job, err := eng.ParseJob("j", "Requirements: Python, SQL", nil)
	require.NoError(t, err)

	match, err := eng.Score(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, []string{"SQL"}, match.Result.MatchedSkills)
	assert.Equal(t, []types.PartialSkill{{Name: "Python", Confidence: 0.7}}, match.Result.PartialSkills)
	assert.Empty(t, match.Result.MissingSkills)
	assert.Equal(t, 1.0, match.Result.Components.Overlap)
	assert.Equal(t, []string{"Python"}, match.Context.PartialSkills)
}

func TestScore_ProviderFailure(t *testing.T) {
	failing := embedding.ProviderFunc(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("connection refused")
	})
	eng := newTestEngine(t, failing)

	resume, err := eng.ParseResume("r", resumeText)
	require.NoError(t, err)
	job, err := eng.ParseJob("j", jobText, nil)
	require.NoError(t, err)

	match, err := eng.Score(context.Background(), resume, job)
	assert.Nil(t, match)

	var unavailable *embedding.UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestScore_UnmaskedInput(t *testing.T) {
	eng := newTestEngine(t, scenarioProvider())

	resume, err := eng.ParseResume("r", resumeText+"\nContact: jane.doe@example.com")
	require.NoError(t, err)
	job, err := eng.ParseJob("j", jobText, nil)
	require.NoError(t, err)

	match, err := eng.Score(context.Background(), resume, job)
	assert.Nil(t, match)

	var unmasked *llmcontext.UnmaskedInputError
	require.True(t, errors.As(err, &unmasked))
	assert.Equal(t, []string{"email"}, unmasked.Patterns)
}

func TestScore_NilDocuments(t *testing.T) {
	eng := newTestEngine(t, scenarioProvider())
	_, err := eng.Score(context.Background(), nil, nil)

	var inputErr *scoring.InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestParse_EmptyDocument(t *testing.T) {
	eng := newTestEngine(t, nil)

	for _, text := range []string{"", "   \n\t", "<html><body><nav>Home</nav></body></html>"} {
		_, err := eng.ParseResume("", text)
		var emptyErr *parsing.EmptyDocumentError
		assert.True(t, errors.As(err, &emptyErr), "text %q", text)
	}
}

func TestParse_HTMLSource(t *testing.T) {
	eng := newTestEngine(t, nil)

	job, err := eng.ParseJob("", `<html><body><nav>Jobs</nav><main>
<h2>Requirements</h2><ul><li>Python</li></ul>
<h2>Nice to have</h2><ul><li>Rust</li></ul>
</main></body></html>`, nil)
	require.NoError(t, err)

	assert.NotContains(t, job.Text, "<")
	assert.Equal(t, []types.Requirement{
		{Skill: "Python", Importance: types.MustHave},
		{Skill: "Rust", Importance: types.NiceToHave},
	}, job.Requirements)
}

func TestParseJob_ExplicitRequirements(t *testing.T) {
	eng := newTestEngine(t, nil)

	explicit := eng.Requirements([]string{"python", "ml"}, []string{"Rust", "Python"})
	job, err := eng.ParseJob("j", jobText, explicit)
	require.NoError(t, err)

	assert.Equal(t, []types.Requirement{
		{Skill: "Machine Learning", Importance: types.MustHave},
		{Skill: "Python", Importance: types.MustHave},
		{Skill: "Rust", Importance: types.NiceToHave},
	}, job.Requirements)
}

func TestDocumentID(t *testing.T) {
	eng := newTestEngine(t, nil)

	a, err := eng.ParseResume("", resumeText)
	require.NoError(t, err)
	b, err := eng.ParseResume("", "  "+resumeText+"  ")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, DocumentID(types.KindResume, a.Text), a.ID)
	assert.NotEqual(t, DocumentID(types.KindJob, a.Text), a.ID)
	assert.Len(t, a.ID, 36)
}

func TestScoreBatch(t *testing.T) {
	provider := newCountingProvider(func(text string) ([]float32, error) {
		switch {
		case strings.Contains(text, "FAIL"):
			return nil, &embedding.UnavailableError{Provider: "test", Message: "quota exceeded"}
		case strings.Contains(text, "Python"):
			return []float32{1, 0}, nil
		default:
			return []float32{0, 1}, nil
		}
	})
	eng, err := New(Options{Dictionary: testDictionary(t), Provider: provider, Concurrency: 2})
	require.NoError(t, err)

	resume, err := eng.ParseResume("r", resumeText)
	require.NoError(t, err)

	var jobs []*types.Document
	for _, src := range []struct{ id, text string }{
		{"weak", "Requirements:\n- Statistics"},
		{"failing", "FAIL\nRequirements:\n- Statistics"},
		{"strong", "Requirements:\n- Python\n- SQL"},
	} {
		job, err := eng.ParseJob(src.id, src.text, nil)
		require.NoError(t, err)
		jobs = append(jobs, job)
	}
	jobs = append(jobs, nil)

	results, err := eng.ScoreBatch(context.Background(), resume, jobs)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "strong", results[0].JobID)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 1.0, results[0].Match.Result.FitScore)
	assert.Equal(t, types.BandExcellent, results[0].Match.Result.FitBand)

	assert.Equal(t, "weak", results[1].JobID)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 0.15, results[1].Match.Result.FitScore)

	assert.Equal(t, "failing", results[2].JobID)
	var unavailable *embedding.UnavailableError
	assert.True(t, errors.As(results[2].Err, &unavailable))
	assert.Nil(t, results[2].Match)

	assert.Equal(t, 3, results[3].Index)
	assert.Error(t, results[3].Err)

	assert.Equal(t, 1, provider.count(resume.Text))
	for _, job := range jobs[:3] {
		assert.Equal(t, 1, provider.count(job.Text), job.ID)
	}
}

func TestScoreBatch_ResumeEmbeddingFailure(t *testing.T) {
	failing := embedding.ProviderFunc(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("timeout")
	})
	eng := newTestEngine(t, failing)

	resume, err := eng.ParseResume("r", resumeText)
	require.NoError(t, err)

	results, err := eng.ScoreBatch(context.Background(), resume, nil)
	assert.Nil(t, results)
	var unavailable *embedding.UnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Run("weights", func(t *testing.T) {
		cfg := scoring.DefaultConfig()
		cfg.Weights.Overlap = 0.9
		_, err := New(Options{Scoring: cfg})
		var weightErr *scoring.InvalidWeightConfigError
		assert.True(t, errors.As(err, &weightErr))
	})

	t.Run("matching", func(t *testing.T) {
		cfg := extraction.DefaultConfig()
		cfg.FuzzyConfidence = 1.5
		_, err := New(Options{Matching: cfg})
		var cfgErr *extraction.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("pii pattern", func(t *testing.T) {
		_, err := New(Options{PIIPatterns: map[string]string{"broken": "("}})
		var patternErr *llmcontext.PatternError
		assert.True(t, errors.As(err, &patternErr))
	})
}

func TestNewFromConfig_Lexical(t *testing.T) {
	cfg := config.Default()
	cfg.Embedding.Dimensions = 64

	eng, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer eng.Close()

	_, cached := eng.Provider().(*embedding.CachedProvider)
	assert.True(t, cached)
	assert.Positive(t, eng.Dictionary().Len())

	resume, err := eng.ParseResume("", "Senior Go engineer with Kubernetes and PostgreSQL experience.")
	require.NoError(t, err)
	job, err := eng.ParseJob("", "Requirements:\n- Go\n- Kubernetes\nNice to have:\n- Terraform", nil)
	require.NoError(t, err)

	match, err := eng.Score(context.Background(), resume, job)
	require.NoError(t, err)
	assert.Contains(t, match.Result.MatchedSkills, "Go")
	assert.Contains(t, match.Result.MatchedSkills, "Kubernetes")
	assert.GreaterOrEqual(t, match.Result.FitScore, 0.0)
	assert.LessOrEqual(t, match.Result.FitScore, 1.0)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	cfg := config.Default()
	cfg.Embedding.Provider = "gemini"

	_, err := NewFromConfig(context.Background(), cfg, nil)
	assert.Error(t, err)
}
