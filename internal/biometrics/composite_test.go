package biometrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil)
	require.NoError(t, err)
	return e
}

func TestScoreEmptyIsNeutral(t *testing.T) {
	e := newEngine(t)

	got := e.Score(map[Metric]float64{})
	assert.Equal(t, 50, got.Score)
	assert.Equal(t, 0, got.Confidence)
	assert.Empty(t, got.Components)
}

func TestScoreFullSet(t *testing.T) {
	e := newEngine(t)

	got := e.Score(map[Metric]float64{
		MetricSleep:          100,
		MetricRecovery:       80,
		MetricHydration:      60,
		MetricTestosterone:   70,
		MetricCortisol:       90,
		MetricInjuryRecovery: 100,
	})

	// .25*100 + .20*80 + .15*60 + .15*70 + .10*90 + .15*100 = 84.5
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, 100, got.Confidence)
	require.Len(t, got.Components, 6)

	// Contributions must reconstruct the score.
	sum := 0.0
	for _, c := range got.Components {
		sum += c.Contribution
	}
	assert.InDelta(t, 84.5, sum, 1e-9)
}

func TestScoreRenormalizesOverSubset(t *testing.T) {
	e := newEngine(t)

	got := e.Score(map[Metric]float64{
		MetricSleep:    90,
		MetricRecovery: 90,
	})

	// Only sleep (.25) and recovery (.20) present: weighted average of two
	// equal values is the value itself.
	assert.Equal(t, 90, got.Score)
	assert.Equal(t, 33, got.Confidence) // round(2/6*100)
}

func TestScoreIgnoresUnknownMetrics(t *testing.T) {
	e := newEngine(t)

	got := e.Score(map[Metric]float64{
		MetricSleep:     80,
		Metric("vibes"): 100,
	})

	assert.Equal(t, 80, got.Score)
	require.Len(t, got.Components, 1)
}

func TestScoreOrderInvariant(t *testing.T) {
	e := newEngine(t)

	a := map[Metric]float64{MetricSleep: 71, MetricCortisol: 40, MetricHydration: 88}
	b := map[Metric]float64{MetricHydration: 88, MetricSleep: 71, MetricCortisol: 40}

	assert.Equal(t, e.Score(a), e.Score(b))
}

func TestScoreRounding(t *testing.T) {
	e := newEngine(t)

	got := e.Score(map[Metric]float64{MetricSleep: 70.4})
	assert.Equal(t, 70, got.Score)

	got = e.Score(map[Metric]float64{MetricSleep: 70.6})
	assert.Equal(t, 71, got.Score)
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	bad := Weights{MetricSleep: 0.5, MetricRecovery: 0.2}
	err := bad.Validate()
	require.Error(t, err)

	negative := Weights{MetricSleep: 1.2, MetricRecovery: -0.2}
	require.Error(t, negative.Validate())

	_, err = NewEngine(bad)
	require.Error(t, err)
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range DefaultWeights() {
		sum += w
	}
	assert.True(t, math.Abs(sum-1.0) < 1e-9)
}
