package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the runtime configuration for a scoring run.
type AppConfig struct {
	Season    int             `yaml:"season"`
	Week      int             `yaml:"week"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     RedisConfig     `yaml:"redis"`
	Providers ProvidersConfig `yaml:"providers"`
	Selector  SelectorConfig  `yaml:"selector"`
	Bankroll  BankrollConfig  `yaml:"bankroll"`
	LogLevel  string          `yaml:"log_level"`
}

// CacheConfig sets per-cache freshness windows in minutes.
type CacheConfig struct {
	OddsTTLMins     int    `yaml:"odds_ttl_mins"`
	ScheduleTTLMins int    `yaml:"schedule_ttl_mins"`
	PicksTTLMins    int    `yaml:"picks_ttl_mins"`
	PlayersTTLMins  int    `yaml:"players_ttl_mins"`
	OffenseTTLMins  int    `yaml:"offense_ttl_mins"`
	Version         string `yaml:"version"`
}

// GetOddsTTL returns the odds freshness window as a time.Duration
func (c *CacheConfig) GetOddsTTL() time.Duration {
	return time.Duration(c.OddsTTLMins) * time.Minute
}

// GetScheduleTTL returns the schedule freshness window as a time.Duration
func (c *CacheConfig) GetScheduleTTL() time.Duration {
	return time.Duration(c.ScheduleTTLMins) * time.Minute
}

// GetPicksTTL returns the picks freshness window as a time.Duration
func (c *CacheConfig) GetPicksTTL() time.Duration {
	return time.Duration(c.PicksTTLMins) * time.Minute
}

// GetPlayersTTL returns the roster freshness window as a time.Duration
func (c *CacheConfig) GetPlayersTTL() time.Duration {
	return time.Duration(c.PlayersTTLMins) * time.Minute
}

// GetOffenseTTL returns the offense-profile freshness window as a time.Duration
func (c *CacheConfig) GetOffenseTTL() time.Duration {
	return time.Duration(c.OffenseTTLMins) * time.Minute
}

// RedisConfig points at the optional shared cache tier. Empty Addr
// means in-process caches only.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProvidersConfig tunes the guard on each upstream.
type ProvidersConfig struct {
	Seed          int64   `yaml:"fixture_seed"`
	RPS           float64 `yaml:"rps"`
	Burst         int     `yaml:"burst"`
	MaxFailures   uint32  `yaml:"max_failures"`
	OpenForSecs   int     `yaml:"open_for_secs"`
	CallTimeoutMS int     `yaml:"call_timeout_ms"`
}

// GetOpenFor returns the breaker open window as a time.Duration
func (p *ProvidersConfig) GetOpenFor() time.Duration {
	return time.Duration(p.OpenForSecs) * time.Second
}

// GetCallTimeout returns the per-call deadline as a time.Duration
func (p *ProvidersConfig) GetCallTimeout() time.Duration {
	return time.Duration(p.CallTimeoutMS) * time.Millisecond
}

// SelectorConfig tunes ranking diversity caps.
type SelectorConfig struct {
	TopN        int     `yaml:"top_n"`
	TeamCap     int     `yaml:"team_cap"`
	PositionCap int     `yaml:"position_cap"`
	FlexCap     int     `yaml:"flex_cap"`
	SlateBonus  float64 `yaml:"slate_bonus"`
}

// BankrollConfig tunes slip staking.
type BankrollConfig struct {
	Bankroll      float64 `yaml:"bankroll"`
	KellyFraction float64 `yaml:"kelly_fraction"`
	StakeCap      float64 `yaml:"stake_cap"`
}

// DefaultAppConfig returns a runnable offline configuration.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Season: time.Now().Year(),
		Week:   1,
		Cache: CacheConfig{
			OddsTTLMins:     15,
			ScheduleTTLMins: 60,
			PicksTTLMins:    60,
			PlayersTTLMins:  30,
			OffenseTTLMins:  360,
			Version:         "v1",
		},
		Providers: ProvidersConfig{
			Seed:          1,
			RPS:           5,
			Burst:         5,
			MaxFailures:   3,
			OpenForSecs:   30,
			CallTimeoutMS: 8000,
		},
		Selector: SelectorConfig{
			TopN:        8,
			TeamCap:     2,
			PositionCap: 2,
			FlexCap:     2,
			SlateBonus:  0.1,
		},
		Bankroll: BankrollConfig{
			Bankroll:      1000,
			KellyFraction: 0.25,
			StakeCap:      0.05,
		},
		LogLevel: "info",
	}
}

// LoadAppConfig reads a YAML file over the defaults. An empty path
// returns the defaults unchanged.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read app config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse app config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("app config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a sane run.
func (c AppConfig) Validate() error {
	if c.Week < 1 || c.Week > 22 {
		return fmt.Errorf("week %d outside [1, 22]", c.Week)
	}
	if c.Selector.TopN <= 0 {
		return fmt.Errorf("selector top_n must be positive, got %d", c.Selector.TopN)
	}
	if c.Selector.TeamCap <= 0 || c.Selector.PositionCap <= 0 {
		return fmt.Errorf("selector caps must be positive")
	}
	if c.Bankroll.KellyFraction < 0 || c.Bankroll.KellyFraction > 1 {
		return fmt.Errorf("kelly_fraction %.2f outside [0, 1]", c.Bankroll.KellyFraction)
	}
	if c.Bankroll.StakeCap < 0 || c.Bankroll.StakeCap > 0.5 {
		return fmt.Errorf("stake_cap %.2f outside [0, 0.5]", c.Bankroll.StakeCap)
	}
	for name, mins := range map[string]int{
		"odds_ttl_mins":     c.Cache.OddsTTLMins,
		"schedule_ttl_mins": c.Cache.ScheduleTTLMins,
		"picks_ttl_mins":    c.Cache.PicksTTLMins,
		"players_ttl_mins":  c.Cache.PlayersTTLMins,
		"offense_ttl_mins":  c.Cache.OffenseTTLMins,
	} {
		if mins <= 0 {
			return fmt.Errorf("cache %s must be positive", name)
		}
	}
	return nil
}
