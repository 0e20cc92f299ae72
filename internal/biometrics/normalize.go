// Package biometrics converts raw heterogeneous metric feeds into the
// 0-100 BioBoost composite. The inputs are synthetic proxies, not sensor
// data; the job here is deterministic, reproducible scoring.
package biometrics

import "math"

// Metric identifies one entry in the fixed metric registry. Presence and
// absence are explicit map lookups against this enum, never loose string
// keys from upstream payloads.
type Metric string

const (
	MetricSleep          Metric = "sleep"
	MetricRecovery       Metric = "recovery"
	MetricHRV            Metric = "hrv"
	MetricHydration      Metric = "hydration"
	MetricTestosterone   Metric = "testosteroneProxy"
	MetricCortisol       Metric = "cortisolProxy"
	MetricPerformance    Metric = "performance"
	MetricInjuryRecovery Metric = "injuryRecoveryDays"
)

// Range bounds a metric's raw values. Optimal only matters for the
// optimum-seeking curves.
type Range struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Optimal float64 `yaml:"optimal"`
}

// sleepCeiling caps oversleep: past Max hours the score is pinned here
// rather than rewarded further.
const sleepCeiling = 85.0

// injuryPenaltyPerDay is the steep linear penalty for each day of
// projected recovery.
const injuryPenaltyPerDay = 5.0

const sleepPenaltyPerHour = 15.0

// DefaultRanges returns the registry the normalizer ships with.
func DefaultRanges() map[Metric]Range {
	return map[Metric]Range{
		MetricSleep:          {Min: 0, Max: 10, Optimal: 8},
		MetricRecovery:       {Min: 0, Max: 100, Optimal: 90},
		MetricHRV:            {Min: 20, Max: 110, Optimal: 80},
		MetricHydration:      {Min: 0, Max: 100, Optimal: 90},
		MetricTestosterone:   {Min: 300, Max: 1000, Optimal: 750},
		MetricCortisol:       {Min: 5, Max: 30, Optimal: 10},
		MetricPerformance:    {Min: 0, Max: 100, Optimal: 95},
		MetricInjuryRecovery: {Min: 0, Max: 20, Optimal: 0},
	}
}

// Normalizer maps raw metric values onto a common 0-100 scale using
// metric-specific curves.
type Normalizer struct {
	ranges map[Metric]Range
}

// NewNormalizer builds a normalizer; nil ranges use the defaults.
func NewNormalizer(ranges map[Metric]Range) *Normalizer {
	if ranges == nil {
		ranges = DefaultRanges()
	}
	return &Normalizer{ranges: ranges}
}

// Normalize converts a raw value into [0,100]. Unknown metric types fall
// back to a plain clamp.
func (n *Normalizer) Normalize(value float64, metric Metric) float64 {
	r, ok := n.ranges[metric]
	if !ok {
		return clamp(value, 0, 100)
	}

	switch metric {
	case MetricSleep:
		return n.normalizeSleep(value, r)
	case MetricCortisol:
		// Lower is better: invert before the linear curve.
		return linear(r.Max-value, r)
	case MetricInjuryRecovery:
		return n.normalizeInjury(value, r)
	default:
		return linear(value, r)
	}
}

// normalizeSleep is optimum-seeking with a hard ceiling: zero hours score
// zero, anything at or past Max is pinned to the ceiling, and in between
// each hour away from optimal costs a fixed penalty.
func (n *Normalizer) normalizeSleep(hours float64, r Range) float64 {
	if hours <= 0 {
		return 0
	}
	if hours >= r.Max {
		return sleepCeiling
	}
	return clamp(100-sleepPenaltyPerHour*math.Abs(hours-r.Optimal), 0, 100)
}

// normalizeInjury penalizes each projected recovery day steeply: healthy
// is 100, Max days or more is 0.
func (n *Normalizer) normalizeInjury(days float64, r Range) float64 {
	if days <= 0 {
		return 100
	}
	if days >= r.Max {
		return 0
	}
	return clamp(100-injuryPenaltyPerDay*days, 0, 100)
}

func linear(value float64, r Range) float64 {
	if r.Max == r.Min {
		return 0
	}
	return clamp((value-r.Min)/(r.Max-r.Min)*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
