package fusion

import (
	"math"
	"testing"

	"github.com/gorillagenics/gorillagenics/internal/gematria"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Weights{})
	require.NoError(t, err)
	return e
}

func TestFuseIdentityWithoutSignal(t *testing.T) {
	e := newTestEngine(t)

	got := e.Fuse(0.6, 0, gematria.BirthdayAlignment{}, gematria.AlignmentFeatures{})
	assert.InDelta(t, 0.6, got.FinalProbability, 1e-9)
	assert.InDelta(t, 0.0, got.EdgeProbability, 1e-9)
	assert.Equal(t, TierModerate, got.Tier)
}

func TestFuseMonotonicInGAS(t *testing.T) {
	e := newTestEngine(t)
	bday := gematria.BirthdayAlignment{Week: true}
	align := gematria.AlignmentFeatures{RitualStrength: 0.5}

	for _, base := range []float64{0.1, 0.5, 0.9} {
		prev := -1.0
		for gas := 0.0; gas <= 1.0; gas += 0.05 {
			got := e.Fuse(base, gas, bday, align)
			assert.GreaterOrEqual(t, got.FinalProbability, prev,
				"base %v gas %v", base, gas)
			prev = got.FinalProbability
		}
	}
}

func TestFuseDegenerateProbabilities(t *testing.T) {
	e := newTestEngine(t)

	for _, p := range []float64{0, 1, -0.5, 2} {
		got := e.Fuse(p, 1, gematria.BirthdayAlignment{Exact: true, Week: true},
			gematria.AlignmentFeatures{RitualStrength: 1})
		assert.False(t, math.IsInf(got.Z, 0), "p=%v", p)
		assert.False(t, math.IsNaN(got.FinalProbability), "p=%v", p)
		assert.Greater(t, got.FinalProbability, 0.0)
		assert.Less(t, got.FinalProbability, 1.0)
	}
}

func TestFuseRaisesProbabilityWithFullSignal(t *testing.T) {
	e := newTestEngine(t)

	got := e.Fuse(0.5, 1, gematria.BirthdayAlignment{Exact: true, Week: true},
		gematria.AlignmentFeatures{RitualStrength: 1})

	// z = logit(0.5) + .35 + .20 + .25 = 0.8
	assert.InDelta(t, 0.8, got.Z, 1e-9)
	assert.InDelta(t, sigmoid(0.8), got.FinalProbability, 1e-9)
	assert.Greater(t, got.EdgeProbability, 0.0)
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		edge float64
		want Tier
	}{
		{0.04999, TierModerate},
		{0.05, TierStrong},
		{0.0999, TierStrong},
		{0.10, TierElite},
		{0.25, TierElite},
		{-0.05, TierStrong},
		{-0.10, TierElite},
		{-0.049, TierModerate},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, tierFor(c.edge), "edge %v", c.edge)
	}
}

func TestFuseGASUsesSubScores(t *testing.T) {
	e := newTestEngine(t)

	bday := gematria.BirthdayAlignment{Exact: true, Week: true}
	res := gematria.Result{
		GAS:       0.8,
		Alignment: gematria.AlignmentFeatures{RitualStrength: 1},
		Birthday:  &bday,
	}

	direct := e.Fuse(0.55, 0.8, bday, res.Alignment)
	viaGAS := e.FuseGAS(0.55, res)
	assert.Equal(t, direct, viaGAS)
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	_, err := NewEngine(Weights{Base: -1, GAS: 0.35, Birthday: 0.2, Ritual: 0.25})
	require.Error(t, err)

	_, err = NewEngine(Weights{Base: 1, GAS: -0.35, Birthday: 0.2, Ritual: 0.25})
	require.Error(t, err)
}
