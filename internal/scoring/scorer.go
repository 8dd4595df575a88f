// Package scoring combines embedding similarity, skill overlap and experience alignment
// into a fit score and band.
package scoring

import (
	"context"
	"errors"

	"github.com/jonathan/fit-engine/internal/embedding"
	"github.com/jonathan/fit-engine/internal/types"
	"golang.org/x/sync/errgroup"
)

// Input is one scoring request. Precomputed embeddings are used as-is; missing ones
// are requested from the provider, at most once per document.
type Input struct {
	Resume          *types.Document
	Job             *types.Document
	Gap             *types.GapReport
	ResumeEmbedding []float32
	JobEmbedding    []float32
}

// AuditInfo is the matching policy recorded alongside each result
type AuditInfo struct {
	FuzzyConfidence     float64
	MaxEditDistance     int
	MinFuzzyTokenLength int
	DictionaryVersion   string
}

// Scorer computes FitResults. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	provider embedding.Provider
	cfg      Config
	audit    AuditInfo
}

// NewScorer validates cfg and creates a Scorer. provider may be nil when every
// request carries both embeddings.
func NewScorer(provider embedding.Provider, cfg Config, audit AuditInfo) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{provider: provider, cfg: cfg, audit: audit}, nil
}

// Config returns the scoring policy
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score produces a fresh FitResult for the pair. Provider failures are returned as
// *embedding.UnavailableError; no score is fabricated on failure.
func (s *Scorer) Score(ctx context.Context, in Input) (*types.FitResult, error) {
	if in.Resume == nil || in.Job == nil {
		return nil, &InputError{Message: "resume and job documents are required"}
	}
	if in.Gap == nil {
		return nil, &InputError{Message: "gap report is required"}
	}

	resumeVec, jobVec, err := s.embeddings(ctx, in)
	if err != nil {
		return nil, err
	}

	cosine, err := Cosine(resumeVec, jobVec)
	if err != nil {
		return nil, err
	}

	components := types.ScoreComponents{
		Similarity:      Round4(Similarity(cosine)),
		Overlap:         Round4(OverlapRatio(in.Gap)),
		ExperienceRatio: Round4(ExperienceRatio(in.Resume.Experience, in.Job.Experience)),
	}
	score := Round4(Combine(s.cfg.Weights, components))

	return &types.FitResult{
		ResumeID:      in.Resume.ID,
		JobID:         in.Job.ID,
		FitScore:      score,
		FitBand:       s.cfg.Bands.Band(score),
		MatchedSkills: append([]string{}, in.Gap.Matched...),
		MissingSkills: append([]types.MissingSkill{}, in.Gap.Missing...),
		PartialSkills: append([]types.PartialSkill{}, in.Gap.Partial...),
		Components:    components,
		Audit: types.Audit{
			SimilarityWeight:   s.cfg.Weights.Similarity,
			OverlapWeight:      s.cfg.Weights.Overlap,
			ExperienceWeight:   s.cfg.Weights.Experience,
			ModerateThreshold:  s.cfg.Bands.Moderate,
			StrongThreshold:    s.cfg.Bands.Strong,
			ExcellentThreshold: s.cfg.Bands.Excellent,
			FuzzyConfidence:    s.audit.FuzzyConfidence,
			MaxEditDistance:    s.audit.MaxEditDistance,
			MinFuzzyTokenLen:   s.audit.MinFuzzyTokenLength,
			DictionaryVersion:  s.audit.DictionaryVersion,
		},
	}, nil
}

// embeddings fills in missing vectors, fetching both concurrently
func (s *Scorer) embeddings(ctx context.Context, in Input) ([]float32, []float32, error) {
	resumeVec, jobVec := in.ResumeEmbedding, in.JobEmbedding
	if resumeVec != nil && jobVec != nil {
		return resumeVec, jobVec, nil
	}
	if s.provider == nil {
		return nil, nil, &InputError{Message: "embedding provider is required when embeddings are not supplied"}
	}

	g, gctx := errgroup.WithContext(ctx)
	if resumeVec == nil {
		g.Go(func() error {
			vec, err := s.embed(gctx, in.Resume.Text)
			resumeVec = vec
			return err
		})
	}
	if jobVec == nil {
		g.Go(func() error {
			vec, err := s.embed(gctx, in.Job.Text)
			jobVec = vec
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return resumeVec, jobVec, nil
}

// embed calls the provider and types any untyped failure as unavailability
func (s *Scorer) embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.provider.Embed(ctx, text)
	if err != nil {
		var unavailable *embedding.UnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, &embedding.UnavailableError{Provider: "unknown", Message: "embed failed", Cause: err}
	}
	return vec, nil
}
