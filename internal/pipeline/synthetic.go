package pipeline

import (
	"hash/fnv"
	"math/rand"

	"github.com/gorillagenics/gorillagenics/internal/biometrics"
)

// MetricsSource supplies per-player biometric readings. Implementations
// must be safe for concurrent use.
type MetricsSource interface {
	PlayerMetrics(playerID string) map[biometrics.Metric]float64
}

// SyntheticMetrics is the offline source: deterministic readings drawn
// from a seed, stable per player ID across runs.
type SyntheticMetrics struct {
	seed int64
}

func NewSyntheticMetrics(seed int64) *SyntheticMetrics {
	return &SyntheticMetrics{seed: seed}
}

func (s *SyntheticMetrics) PlayerMetrics(playerID string) map[biometrics.Metric]float64 {
	h := fnv.New64a()
	h.Write([]byte(playerID))
	r := rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))

	return map[biometrics.Metric]float64{
		biometrics.MetricSleep:        5.5 + r.Float64()*4,
		biometrics.MetricRecovery:     40 + r.Float64()*60,
		biometrics.MetricHRV:          35 + r.Float64()*65,
		biometrics.MetricHydration:    50 + r.Float64()*50,
		biometrics.MetricTestosterone: 350 + r.Float64()*600,
		biometrics.MetricCortisol:     6 + r.Float64()*22,
	}
}
