// Package fusion blends a base win probability with the gematria signal
// in logit space and maps it back through a sigmoid, so the adjustment
// stays monotonic in every input.
package fusion

import (
	"fmt"
	"math"

	"github.com/gorillagenics/gorillagenics/internal/gematria"
)

// Probability clamp bounds; a base of exactly 0 or 1 would blow up the
// logit.
const (
	minProb = 0.0001
	maxProb = 0.9999
)

// Confidence tier thresholds on |edge|.
const (
	eliteEdge  = 0.10
	strongEdge = 0.05
)

// Tier is the qualitative confidence band.
type Tier string

const (
	TierElite    Tier = "ELITE"
	TierStrong   Tier = "STRONG"
	TierModerate Tier = "MODERATE"
)

// Weights scale each signal's pull in logit space. Fixed point-estimates;
// kept as shipped for behavioral compatibility.
type Weights struct {
	Base     float64 `yaml:"base"`     // w: multiplier on the base logit
	GAS      float64 `yaml:"gas"`      // alpha
	Birthday float64 `yaml:"birthday"` // beta
	Ritual   float64 `yaml:"ritual"`   // gamma
}

// DefaultWeights returns the shipped blend.
func DefaultWeights() Weights {
	return Weights{Base: 1.0, GAS: 0.35, Birthday: 0.20, Ritual: 0.25}
}

// Validate rejects sign flips that would break monotonicity.
func (w Weights) Validate() error {
	if w.Base <= 0 {
		return fmt.Errorf("base weight must be positive, got %f", w.Base)
	}
	for name, v := range map[string]float64{"gas": w.GAS, "birthday": w.Birthday, "ritual": w.Ritual} {
		if v < 0 {
			return fmt.Errorf("negative fusion weight for %s: %f", name, v)
		}
	}
	return nil
}

// Result is the fused probability with its provenance.
type Result struct {
	FinalProbability float64 `json:"final_probability"`
	EdgeProbability  float64 `json:"edge_probability"`
	Tier             Tier    `json:"confidence_tier"`
	Z                float64 `json:"z"`
}

// Engine applies the logit-space adjustment.
type Engine struct {
	weights Weights
}

// NewEngine validates the weights; zero weights use the defaults.
func NewEngine(weights Weights) (*Engine, error) {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights}, nil
}

// Fuse adjusts baseProbability by the gematria signals. GAS, the birthday
// sub-score, and ritual strength each add weighted evidence to the base
// logit before the sigmoid maps the sum back to a probability.
func (e *Engine) Fuse(baseProbability, gas float64, birthday gematria.BirthdayAlignment, alignment gematria.AlignmentFeatures) Result {
	base := clampProb(baseProbability)

	z := e.weights.Base * logit(base)
	z += e.weights.GAS * gas
	z += e.weights.Birthday * gematria.BirthdaySubScore(birthday)
	z += e.weights.Ritual * alignment.RitualStrength

	final := sigmoid(z)
	edge := final - base

	return Result{
		FinalProbability: final,
		EdgeProbability:  edge,
		Tier:             tierFor(edge),
		Z:                z,
	}
}

// FuseGAS is a convenience over a full gematria result.
func (e *Engine) FuseGAS(baseProbability float64, gas gematria.Result) Result {
	var bday gematria.BirthdayAlignment
	if gas.Birthday != nil {
		bday = *gas.Birthday
	}
	return e.Fuse(baseProbability, gas.GAS, bday, gas.Alignment)
}

func tierFor(edge float64) Tier {
	switch {
	case math.Abs(edge) >= eliteEdge:
		return TierElite
	case math.Abs(edge) >= strongEdge:
		return TierStrong
	default:
		return TierModerate
	}
}

func clampProb(p float64) float64 {
	return math.Max(minProb, math.Min(maxProb, p))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
