package scoring

import (
	"math"

	"github.com/jonathan/fit-engine/internal/embedding"
	"github.com/jonathan/fit-engine/internal/types"
)

// Cosine returns the cosine similarity of a and b in [-1,1].
// A zero vector has no direction and yields 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &embedding.DimensionMismatchError{Left: len(a), Right: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim)), nil
}

// Similarity clamps a cosine to [0,1]; anti-correlated texts count as unrelated
func Similarity(cosine float64) float64 {
	return math.Max(0, cosine)
}

// OverlapRatio is |matched ∩ required| / |required| over the resume's full skill set.
// Approximate matches are resume skills too, so partial skills count like exact ones;
// their confidence is reported on the result, not folded into the ratio.
// A job without requirements gives 1.
func OverlapRatio(report *types.GapReport) float64 {
	if report == nil || report.RequiredCount() == 0 {
		return 1.0
	}

	covered := len(report.Matched) + len(report.Partial)
	return math.Min(1, float64(covered)/float64(report.RequiredCount()))
}

// ExperienceRatio is min(1, resume years / max(1, job minimum)), or 1 when the job states no minimum
func ExperienceRatio(resume, job *types.ExperienceProfile) float64 {
	if job == nil || job.MinYearsRequired == nil {
		return 1.0
	}

	years := 0.0
	if resume != nil {
		years = resume.TotalYears
	}
	return math.Min(1, years/math.Max(1, *job.MinYearsRequired))
}

// Combine is the weighted sum of the components
func Combine(w Weights, c types.ScoreComponents) float64 {
	return w.Similarity*c.Similarity + w.Overlap*c.Overlap + w.Experience*c.ExperienceRatio
}

// Round4 rounds to the four decimal digits a persisted score carries
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
