package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/fit-engine/internal/dictionary"
	"github.com/jonathan/fit-engine/internal/embedding"
	"github.com/jonathan/fit-engine/internal/experience"
	"github.com/jonathan/fit-engine/internal/extraction"
	"github.com/jonathan/fit-engine/internal/gap"
	"github.com/jonathan/fit-engine/internal/ingestion"
	"github.com/jonathan/fit-engine/internal/llmcontext"
	"github.com/jonathan/fit-engine/internal/logging"
	"github.com/jonathan/fit-engine/internal/schemas"
	"github.com/jonathan/fit-engine/internal/scoring"
	"github.com/jonathan/fit-engine/internal/skills"
	"github.com/jonathan/fit-engine/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds ScoreBatch when Options.Concurrency is unset
const DefaultConcurrency = 4

// documentNamespace seeds content-derived document IDs
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fit-engine/document"))

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Dictionary  *dictionary.Dictionary // nil uses the embedded dictionary
	Matching    extraction.Config      // zero uses extraction.DefaultConfig
	Scoring     scoring.Config         // zero uses scoring.DefaultConfig
	Provider    embedding.Provider     // nil uses the lexical provider
	PIIPatterns map[string]string      // empty uses llmcontext.DefaultPatterns
	Concurrency int                    // ScoreBatch parallelism
	Now         time.Time              // reference time for open-ended roles
	Logger      *zap.Logger
}

// Engine holds read-only components only; every method is safe for concurrent use
type Engine struct {
	dict        *dictionary.Dictionary
	extractor   *extraction.Extractor
	analyzer    *experience.Analyzer
	provider    embedding.Provider
	scorer      *scoring.Scorer
	builder     *llmcontext.Builder
	concurrency int
	logger      *zap.Logger
	closers     []func()
}

// Match is everything produced for one resume/job pair
type Match struct {
	Result  *types.FitResult `json:"result"`
	Gap     *types.GapReport `json:"gap"`
	Context types.LLMContext `json:"context"`
}

// PairResult is one entry of a batch. Err is set instead of Match when the pair failed.
type PairResult struct {
	Index int    `json:"index"`
	JobID string `json:"job_id"`
	Match *Match `json:"match,omitempty"`
	Err   error  `json:"-"`
}

// New validates the options and builds an Engine.
// Configuration errors are returned here so a misconfigured engine never starts.
func New(opts Options) (*Engine, error) {
	dict := opts.Dictionary
	if dict == nil {
		var err error
		if dict, err = dictionary.Default(); err != nil {
			return nil, err
		}
	}

	matching := opts.Matching
	if matching == (extraction.Config{}) {
		matching = extraction.DefaultConfig()
	}
	extractor, err := extraction.New(dict, matching)
	if err != nil {
		return nil, err
	}

	scoringCfg := opts.Scoring
	if scoringCfg == (scoring.Config{}) {
		scoringCfg = scoring.DefaultConfig()
	}

	provider := opts.Provider
	if provider == nil {
		provider = embedding.NewLexicalProvider(dict.Normalizer(), 0)
	}

	scorer, err := scoring.NewScorer(provider, scoringCfg, scoring.AuditInfo{
		FuzzyConfidence:     matching.FuzzyConfidence,
		MaxEditDistance:     matching.MaxEditDistance,
		MinFuzzyTokenLength: matching.MinFuzzyTokenLength,
		DictionaryVersion:   dict.Version(),
	})
	if err != nil {
		return nil, err
	}

	var patterns map[string]string
	if len(opts.PIIPatterns) > 0 {
		patterns = opts.PIIPatterns
	}
	builder, err := llmcontext.NewBuilder(patterns)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Engine{
		dict:        dict,
		extractor:   extractor,
		analyzer:    experience.NewAnalyzer(opts.Now),
		provider:    provider,
		scorer:      scorer,
		builder:     builder,
		concurrency: concurrency,
		logger:      logging.WithFields(opts.Logger, zap.String(logging.FieldDictionary, dict.Version())),
	}, nil
}

// Close releases provider and store resources acquired by NewFromConfig
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// Dictionary returns the skill dictionary in use
func (e *Engine) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// Provider returns the embedding provider in use
func (e *Engine) Provider() embedding.Provider {
	return e.provider
}

// Requirements resolves explicit must-have and nice-to-have lists through the dictionary
func (e *Engine) Requirements(mustHave, niceToHave []string) []types.Requirement {
	return skills.FromLists(mustHave, niceToHave, e.dict)
}

// ParseResume builds a resume Document. An empty id derives one from the content.
func (e *Engine) ParseResume(id, text string) (*types.Document, error) {
	doc, err := e.parse(types.KindResume, id, text)
	if err != nil {
		return nil, err
	}
	doc.Experience = e.analyzer.AnalyzeResume(doc.Text)
	return doc, nil
}

// ParseJob builds a job Document. Explicit requirements replace the ones inferred
// from the job's sections; nil or empty explicit lists fall back to inference.
func (e *Engine) ParseJob(id, text string, explicit []types.Requirement) (*types.Document, error) {
	doc, err := e.parse(types.KindJob, id, text)
	if err != nil {
		return nil, err
	}
	doc.Experience = e.analyzer.AnalyzeJob(doc.Text)
	if len(explicit) > 0 {
		doc.Requirements = skills.Merge(explicit)
	} else {
		doc.Requirements = skills.BuildRequirements(doc)
	}
	return doc, nil
}

func (e *Engine) parse(kind types.DocumentKind, id, text string) (*types.Document, error) {
	cleaned, _, err := ingestion.Prepare(text, ingestion.FormatAuto)
	if err != nil {
		return nil, &ParseError{Kind: string(kind), Message: "failed to prepare text", Cause: err}
	}

	nt, err := e.dict.Normalizer().Normalize(cleaned)
	if err != nil {
		return nil, err
	}

	if id == "" {
		id = DocumentID(kind, cleaned)
	}

	return &types.Document{
		ID:     id,
		Kind:   kind,
		Text:   cleaned,
		Tokens: nt.Tokens,
		Skills: e.extractor.Extract(nt),
	}, nil
}

// DocumentID derives a stable UUIDv5 from the document kind and cleaned text
func DocumentID(kind types.DocumentKind, text string) string {
	return uuid.NewSHA1(documentNamespace, []byte(string(kind)+"\n"+text)).String()
}

// Score produces a fresh Match for the pair
func (e *Engine) Score(ctx context.Context, resume, job *types.Document) (*Match, error) {
	return e.score(ctx, resume, job, nil)
}

func (e *Engine) score(ctx context.Context, resume, job *types.Document, resumeVec []float32) (*Match, error) {
	if resume == nil || job == nil {
		return nil, &scoring.InputError{Message: "resume and job documents are required"}
	}
	start := time.Now()

	required := job.Requirements
	if required == nil {
		required = skills.BuildRequirements(job)
	}
	report := gap.Analyze(resume.Skills, required)

	fit, err := e.scorer.Score(ctx, scoring.Input{
		Resume:          resume,
		Job:             job,
		Gap:             report,
		ResumeEmbedding: resumeVec,
	})
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.FitResult, fit); err != nil {
		return nil, fmt.Errorf("fit result failed schema validation: %w", err)
	}

	payload, err := e.builder.Build(resume, job, fit, report)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("scored pair",
		zap.String(logging.FieldDocument, resume.ID),
		zap.String(logging.FieldJob, job.ID),
		zap.Float64("fit_score", fit.FitScore),
		zap.String("fit_band", string(fit.FitBand)),
		zap.Int("missing", len(report.Missing)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Match{Result: fit, Gap: report, Context: payload}, nil
}

// ScoreBatch scores one resume against many jobs with bounded concurrency.
// The resume is embedded once. A failing pair carries its error and never aborts
// the others; results are sorted by fit score descending with failures last.
func (e *Engine) ScoreBatch(ctx context.Context, resume *types.Document, jobs []*types.Document) ([]PairResult, error) {
	if resume == nil {
		return nil, &scoring.InputError{Message: "resume document is required"}
	}

	resumeVec, err := e.provider.Embed(ctx, resume.Text)
	if err != nil {
		var unavailable *embedding.UnavailableError
		if !errors.As(err, &unavailable) {
			err = &embedding.UnavailableError{Provider: "unknown", Message: "resume embed failed", Cause: err}
		}
		return nil, err
	}

	results := make([]PairResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res := PairResult{Index: i}
			if job != nil {
				res.JobID = job.ID
			}
			res.Match, res.Err = e.score(ctx, resume, job, resumeVec)
			if res.Err != nil {
				e.logger.Warn("pair scoring failed",
					zap.String(logging.FieldDocument, resume.ID),
					zap.String(logging.FieldJob, res.JobID),
					zap.Error(res.Err),
				)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	sortResults(results)
	return results, nil
}

// sortResults orders by fit score descending, then job id; failures keep input order at the end
func sortResults(results []PairResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Err != nil {
			return a.Index < b.Index
		}
		if a.Match.Result.FitScore != b.Match.Result.FitScore {
			return a.Match.Result.FitScore > b.Match.Result.FitScore
		}
		return a.JobID < b.JobID
	})
}
