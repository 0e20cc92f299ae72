// Package config loads and validates the scoring weight tables and the
// application runtime configuration from YAML.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/gorillagenics/gorillagenics/internal/biometrics"
	"github.com/gorillagenics/gorillagenics/internal/fusion"
	"github.com/gorillagenics/gorillagenics/internal/gematria"
)

// WeightsConfig holds every tunable weight table in one file.
type WeightsConfig struct {
	Composite  map[string]float64 `yaml:"composite"`
	Gematria   GematriaWeights    `yaml:"gematria"`
	Fusion     FusionWeights      `yaml:"fusion"`
	Validation ValidationConfig   `yaml:"validation"`
}

// GematriaWeights mirrors the alignment sub-score weighting.
type GematriaWeights struct {
	Exact    float64 `yaml:"exact"`
	Ritual   float64 `yaml:"ritual"`
	Birthday float64 `yaml:"birthday"`
	Master   float64 `yaml:"master"`
}

// FusionWeights mirrors the logit-blend coefficients.
type FusionWeights struct {
	Base     float64 `yaml:"base"`
	GAS      float64 `yaml:"gas"`
	Birthday float64 `yaml:"birthday"`
	Ritual   float64 `yaml:"ritual"`
}

// ValidationConfig bounds the weight tables.
type ValidationConfig struct {
	WeightSumTolerance float64 `yaml:"weight_sum_tolerance"`
	MaxFusionCoeff     float64 `yaml:"max_fusion_coeff"`
}

// WeightsLoader loads and validates the weight tables.
type WeightsLoader struct {
	config *WeightsConfig
}

func NewWeightsLoader() *WeightsLoader {
	return &WeightsLoader{}
}

// LoadFromFile reads and validates a weights YAML file.
func (wl *WeightsLoader) LoadFromFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config WeightsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := wl.validateConfig(&config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	wl.config = &config
	return nil
}

// LoadDefault installs the shipped weight tables.
func (wl *WeightsLoader) LoadDefault() error {
	config := &WeightsConfig{
		Composite: weightsToMap(biometrics.DefaultWeights()),
		Gematria: GematriaWeights{
			Exact:    0.35,
			Ritual:   0.40,
			Birthday: 0.20,
			Master:   0.05,
		},
		Fusion: FusionWeights{
			Base:     1.0,
			GAS:      0.35,
			Birthday: 0.20,
			Ritual:   0.25,
		},
		Validation: ValidationConfig{
			WeightSumTolerance: 0.01,
			MaxFusionCoeff:     2.0,
		},
	}

	if err := wl.validateConfig(config); err != nil {
		return fmt.Errorf("default config validation failed: %w", err)
	}

	wl.config = config
	return nil
}

// CompositeWeights returns the biometric weight table.
func (wl *WeightsLoader) CompositeWeights() (biometrics.Weights, error) {
	if wl.config == nil {
		return nil, fmt.Errorf("weights not loaded - call LoadFromFile or LoadDefault first")
	}

	w := make(biometrics.Weights, len(wl.config.Composite))
	for name, v := range wl.config.Composite {
		w[biometrics.Metric(name)] = v
	}
	return w, nil
}

// GematriaWeights returns the alignment weighting.
func (wl *WeightsLoader) GematriaWeights() (gematria.Weights, error) {
	if wl.config == nil {
		return gematria.Weights{}, fmt.Errorf("weights not loaded")
	}
	g := wl.config.Gematria
	return gematria.Weights{
		Exact:    g.Exact,
		Ritual:   g.Ritual,
		Birthday: g.Birthday,
		Master:   g.Master,
	}, nil
}

// FusionWeights returns the logit-blend coefficients.
func (wl *WeightsLoader) FusionWeights() (fusion.Weights, error) {
	if wl.config == nil {
		return fusion.Weights{}, fmt.Errorf("weights not loaded")
	}
	f := wl.config.Fusion
	return fusion.Weights{
		Base:     f.Base,
		GAS:      f.GAS,
		Birthday: f.Birthday,
		Ritual:   f.Ritual,
	}, nil
}

func (wl *WeightsLoader) validateConfig(config *WeightsConfig) error {
	tol := config.Validation.WeightSumTolerance
	if tol <= 0 {
		tol = 0.01
	}
	maxCoeff := config.Validation.MaxFusionCoeff
	if maxCoeff <= 0 {
		maxCoeff = 2.0
	}

	var compositeSum float64
	for name, v := range config.Composite {
		if v < 0 {
			return fmt.Errorf("composite weight %s is negative: %.3f", name, v)
		}
		compositeSum += v
	}
	if len(config.Composite) > 0 && math.Abs(compositeSum-1.0) > tol {
		return fmt.Errorf("composite weights sum to %.4f, expected 1.0 ± %.3f", compositeSum, tol)
	}

	g := config.Gematria
	gSum := g.Exact + g.Ritual + g.Birthday + g.Master
	for name, v := range map[string]float64{"exact": g.Exact, "ritual": g.Ritual, "birthday": g.Birthday, "master": g.Master} {
		if v < 0 {
			return fmt.Errorf("gematria weight %s is negative: %.3f", name, v)
		}
	}
	if math.Abs(gSum-1.0) > tol {
		return fmt.Errorf("gematria weights sum to %.4f, expected 1.0 ± %.3f", gSum, tol)
	}

	f := config.Fusion
	for name, v := range map[string]float64{"base": f.Base, "gas": f.GAS, "birthday": f.Birthday, "ritual": f.Ritual} {
		if v < 0 || v > maxCoeff {
			return fmt.Errorf("fusion coefficient %s (%.3f) outside [0, %.1f]", name, v, maxCoeff)
		}
	}

	return nil
}

func weightsToMap(w biometrics.Weights) map[string]float64 {
	out := make(map[string]float64, len(w))
	for m, v := range w {
		out[string(m)] = v
	}
	return out
}

// GetDefaultWeightsPath returns the default weights file path.
func GetDefaultWeightsPath() string {
	return filepath.Join("config", "weights.yaml")
}
