package scoring

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/fit-engine/internal/types"
)

// weightSumTolerance absorbs float error when weights are read from text config
const weightSumTolerance = 1e-9

var validate = validator.New()

// Weights are the coefficients of the fit score. They must be non-negative and sum to 1.
type Weights struct {
	Similarity float64 `mapstructure:"similarity" json:"similarity" validate:"gte=0,lte=1"`
	Overlap    float64 `mapstructure:"overlap" json:"overlap" validate:"gte=0,lte=1"`
	Experience float64 `mapstructure:"experience" json:"experience" validate:"gte=0,lte=1"`
}

// DefaultWeights returns 0.4 similarity, 0.45 overlap, 0.15 experience
func DefaultWeights() Weights {
	return Weights{Similarity: 0.4, Overlap: 0.45, Experience: 0.15}
}

// Validate checks ranges and that the weights sum to 1
func (w Weights) Validate() error {
	for _, v := range []float64{w.Similarity, w.Overlap, w.Experience} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidWeightConfigError{Message: "weights must be finite"}
		}
	}
	if err := validate.Struct(w); err != nil {
		return &InvalidWeightConfigError{Message: "weights must be in [0,1]", Cause: err}
	}
	sum := w.Similarity + w.Overlap + w.Experience
	if math.Abs(sum-1) > weightSumTolerance {
		return &InvalidWeightConfigError{Message: fmt.Sprintf("weights sum to %.4f, want 1.0", sum)}
	}
	return nil
}

// Bands are the inclusive lower bounds of the Moderate, Strong and Excellent bands.
// Scores below Moderate are Weak.
type Bands struct {
	Moderate  float64 `mapstructure:"moderate" json:"moderate"`
	Strong    float64 `mapstructure:"strong" json:"strong"`
	Excellent float64 `mapstructure:"excellent" json:"excellent"`
}

// DefaultBands returns thresholds 0.4, 0.65 and 0.85
func DefaultBands() Bands {
	return Bands{Moderate: 0.4, Strong: 0.65, Excellent: 0.85}
}

// Validate checks that thresholds are strictly ascending within (0,1]
func (b Bands) Validate() error {
	if !(b.Moderate > 0 && b.Moderate < b.Strong && b.Strong < b.Excellent && b.Excellent <= 1) {
		return &InvalidWeightConfigError{
			Message: fmt.Sprintf("band thresholds must satisfy 0 < moderate < strong < excellent <= 1, got %.4f/%.4f/%.4f",
				b.Moderate, b.Strong, b.Excellent),
		}
	}
	return nil
}

// Band maps a score to its band; lower bounds are inclusive
func (b Bands) Band(score float64) types.FitBand {
	switch {
	case score >= b.Excellent:
		return types.BandExcellent
	case score >= b.Strong:
		return types.BandStrong
	case score >= b.Moderate:
		return types.BandModerate
	default:
		return types.BandWeak
	}
}

// Config is the scoring policy
type Config struct {
	Weights Weights `mapstructure:"weights" json:"weights"`
	Bands   Bands   `mapstructure:"bands" json:"bands"`
}

// DefaultConfig returns the default weights and bands
func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), Bands: DefaultBands()}
}

// Validate checks weights and bands
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return c.Bands.Validate()
}
