package gematria

import (
	"fmt"
	"math"
	"time"
)

// Weights blends the alignment features into the final GAS. The defaults
// are fixed point-estimates kept for behavioral compatibility; no further
// tuning is implied.
type Weights struct {
	Exact    float64 `yaml:"exact"`
	Ritual   float64 `yaml:"ritual"`
	Birthday float64 `yaml:"birthday"`
	Master   float64 `yaml:"master"`
}

// DefaultWeights returns the shipped blend.
func DefaultWeights() Weights {
	return Weights{Exact: 0.35, Ritual: 0.40, Birthday: 0.20, Master: 0.05}
}

// Validate checks for non-negative weights summing to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"exact": w.Exact, "ritual": w.Ritual, "birthday": w.Birthday, "master": w.Master,
	} {
		if v < 0 {
			return fmt.Errorf("negative gas weight for %s: %f", name, v)
		}
	}
	sum := w.Exact + w.Ritual + w.Birthday + w.Master
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("gas weights sum to %f, expected ~1.0", sum)
	}
	return nil
}

// Result is the full GAS computation, kept around so the fusion engine
// can reuse the sub-scores without recomputing.
type Result struct {
	GAS         float64            `json:"gas"`
	Ciphers     CipherSet          `json:"ciphers"`
	Date        DateNumerology     `json:"date"`
	Alignment   AlignmentFeatures  `json:"alignment"`
	Birthday    *BirthdayAlignment `json:"birthday,omitempty"`
	BirthdaySub float64            `json:"birthday_sub"`
}

// Engine computes GAS against a fixed ritual catalog and weight blend.
type Engine struct {
	catalog []int
	weights Weights
}

// NewEngine validates the weights; nil catalog and zero weights use the
// defaults.
func NewEngine(catalog []int, weights Weights) (*Engine, error) {
	if catalog == nil {
		catalog = DefaultRitualCatalog()
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{catalog: catalog, weights: weights}, nil
}

// ComputeGAS derives ciphers, date numerology, ritual and birthday
// alignment for a name and game date, then blends them into [0,1].
// Birthday is optional; without one its sub-score is zero.
func (e *Engine) ComputeGAS(name string, gameDate time.Time, birthday *time.Time) Result {
	ciphers := ComputeCiphers(name)
	date := ComputeDateNumerology(gameDate)
	alignment := ComputeAlignment(ciphers, date, e.catalog)

	res := Result{
		Ciphers:   ciphers,
		Date:      date,
		Alignment: alignment,
	}

	if birthday != nil {
		bday := ComputeBirthdayAlignment(gameDate, *birthday)
		res.Birthday = &bday
		res.BirthdaySub = BirthdaySubScore(bday)
	}

	ritualSub := 1.0 - math.Min(float64(alignment.RitualProximity)/10.0, 1.0)

	gas := e.weights.Ritual * ritualSub
	gas += e.weights.Birthday * res.BirthdaySub
	if alignment.ExactMatch {
		gas += e.weights.Exact
	}
	if date.Master {
		gas += e.weights.Master
	}

	res.GAS = math.Max(0, math.Min(1, gas))
	return res
}

// BirthdaySubScore folds the two birthday signals into one sub-score.
func BirthdaySubScore(b BirthdayAlignment) float64 {
	sub := 0.0
	if b.Week {
		sub += 0.7
	}
	if b.Exact {
		sub += 0.3
	}
	return sub
}
