package biometrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAlwaysInRange(t *testing.T) {
	n := NewNormalizer(nil)

	metrics := []Metric{
		MetricSleep, MetricRecovery, MetricHRV, MetricHydration,
		MetricTestosterone, MetricCortisol, MetricPerformance, MetricInjuryRecovery,
		Metric("unknown"),
	}
	raws := []float64{-1000, -1, 0, 0.5, 7, 42, 99, 100, 500, 1e6}

	for _, m := range metrics {
		for _, v := range raws {
			got := n.Normalize(v, m)
			assert.GreaterOrEqual(t, got, 0.0, "metric %s raw %v", m, v)
			assert.LessOrEqual(t, got, 100.0, "metric %s raw %v", m, v)
		}
	}
}

func TestNormalizeSleepCurve(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, 0.0, n.Normalize(0, MetricSleep))
	assert.Equal(t, sleepCeiling, n.Normalize(10, MetricSleep))
	assert.Equal(t, sleepCeiling, n.Normalize(14, MetricSleep))
	assert.Equal(t, 100.0, n.Normalize(8, MetricSleep))

	// Each hour away from optimal costs 15 points.
	assert.Equal(t, 85.0, n.Normalize(7, MetricSleep))
	assert.Equal(t, 70.0, n.Normalize(6, MetricSleep))
	assert.Equal(t, 0.0, n.Normalize(1, MetricSleep))
}

func TestNormalizeCortisolInverted(t *testing.T) {
	n := NewNormalizer(nil)

	// Lower cortisol must never score worse than higher cortisol.
	prev := n.Normalize(0, MetricCortisol)
	for v := 1.0; v <= 40; v++ {
		cur := n.Normalize(v, MetricCortisol)
		assert.LessOrEqual(t, cur, prev, "cortisol %v", v)
		prev = cur
	}
}

func TestNormalizeInjuryRecovery(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, 100.0, n.Normalize(0, MetricInjuryRecovery))
	assert.Equal(t, 95.0, n.Normalize(1, MetricInjuryRecovery))
	assert.Equal(t, 50.0, n.Normalize(10, MetricInjuryRecovery))
	assert.Equal(t, 0.0, n.Normalize(20, MetricInjuryRecovery))
	assert.Equal(t, 0.0, n.Normalize(45, MetricInjuryRecovery))

	prev := n.Normalize(0, MetricInjuryRecovery)
	for d := 1.0; d <= 30; d++ {
		cur := n.Normalize(d, MetricInjuryRecovery)
		assert.LessOrEqual(t, cur, prev, "days %v", d)
		prev = cur
	}
}

func TestNormalizeLinearMetrics(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, 0.0, n.Normalize(0, MetricRecovery))
	assert.Equal(t, 50.0, n.Normalize(50, MetricRecovery))
	assert.Equal(t, 100.0, n.Normalize(100, MetricRecovery))

	// Below-min and above-max clamp instead of extrapolating.
	assert.Equal(t, 0.0, n.Normalize(250, MetricTestosterone))
	assert.Equal(t, 100.0, n.Normalize(1200, MetricTestosterone))
}

func TestNormalizeUnknownMetricClamps(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, 0.0, n.Normalize(-5, Metric("mystery")))
	assert.Equal(t, 73.0, n.Normalize(73, Metric("mystery")))
	assert.Equal(t, 100.0, n.Normalize(240, Metric("mystery")))
}

func TestCustomRanges(t *testing.T) {
	n := NewNormalizer(map[Metric]Range{
		MetricRecovery: {Min: 0, Max: 50},
	})
	require.Equal(t, 100.0, n.Normalize(50, MetricRecovery))
	require.Equal(t, 50.0, n.Normalize(25, MetricRecovery))
}
