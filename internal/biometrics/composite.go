package biometrics

import (
	"fmt"
	"math"
)

// neutralScore is returned when no metrics are present at all.
const neutralScore = 50

// Weights is the composite weight table. It must sum to 1.0 over the full
// registry but is renormalized over whatever subset of metrics showed up.
type Weights map[Metric]float64

// DefaultWeights returns the shipped table.
func DefaultWeights() Weights {
	return Weights{
		MetricSleep:          0.25,
		MetricRecovery:       0.20,
		MetricHydration:      0.15,
		MetricTestosterone:   0.15,
		MetricCortisol:       0.10,
		MetricInjuryRecovery: 0.15,
	}
}

// Validate checks the table sums to 1.0 within tolerance and carries no
// negative weights.
func (w Weights) Validate() error {
	sum := 0.0
	for m, v := range w {
		if v < 0 {
			return fmt.Errorf("negative weight for %s: %f", m, v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("weights sum to %f, expected ~1.0", sum)
	}
	return nil
}

// Component records one metric's part in a composite score for
// auditability.
type Component struct {
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Score is the BioBoost result. It is a value object: created fresh on
// every scoring call and never mutated afterward.
type Score struct {
	Score      int                  `json:"score"`
	Components map[Metric]Component `json:"components"`
	Confidence int                  `json:"confidence"`
}

// Engine combines normalized metrics into the weighted composite.
type Engine struct {
	weights Weights
}

// NewEngine builds an engine over a validated weight table; nil uses the
// defaults.
func NewEngine(weights Weights) (*Engine, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("composite weights: %w", err)
	}
	return &Engine{weights: weights}, nil
}

// Score computes the weighted average over the metrics that are present,
// renormalizing weights over that subset. Metrics outside the weight
// table are ignored. With nothing present the result is the neutral
// default with zero confidence.
func (e *Engine) Score(metrics map[Metric]float64) Score {
	components := make(map[Metric]Component, len(metrics))

	totalWeight := 0.0
	for m := range metrics {
		if w, ok := e.weights[m]; ok {
			totalWeight += w
		}
	}

	if totalWeight == 0 {
		return Score{Score: neutralScore, Components: components, Confidence: 0}
	}

	weighted := 0.0
	present := 0
	for m, value := range metrics {
		w, ok := e.weights[m]
		if !ok {
			continue
		}
		contribution := value * w / totalWeight
		weighted += contribution
		present++
		components[m] = Component{Value: value, Weight: w, Contribution: contribution}
	}

	confidence := float64(present) / float64(len(e.weights)) * 100

	return Score{
		Score:      int(math.Round(weighted)),
		Components: components,
		Confidence: int(math.Round(confidence)),
	}
}
