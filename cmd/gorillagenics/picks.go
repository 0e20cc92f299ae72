package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gorillagenics/gorillagenics/internal/biometrics"
	"github.com/gorillagenics/gorillagenics/internal/cache"
	"github.com/gorillagenics/gorillagenics/internal/config"
	"github.com/gorillagenics/gorillagenics/internal/fusion"
	"github.com/gorillagenics/gorillagenics/internal/gematria"
	"github.com/gorillagenics/gorillagenics/internal/lines"
	"github.com/gorillagenics/gorillagenics/internal/pipeline"
	"github.com/gorillagenics/gorillagenics/internal/providers"
	"github.com/gorillagenics/gorillagenics/internal/rank"
)

func picksCmd(ctx context.Context, configPath *string) *cobra.Command {
	var (
		season      int
		week        int
		topN        int
		weightsPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "picks",
		Short: "Run a full scoring pass and print the ranked top N",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if season != 0 {
				cfg.Season = season
			}
			if week != 0 {
				cfg.Week = week
			}
			if topN != 0 {
				cfg.Selector.TopN = topN
			}

			p, err := buildPipeline(cfg, weightsPath)
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			res, err := p.Run(runCtx)
			if err != nil {
				return fmt.Errorf("scoring pass failed: %w", err)
			}

			if err := publishPicks(runCtx, cfg, res); err != nil {
				log.Warn().Err(err).Msg("failed to publish picks to redis")
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(res)
			}
			printPicks(res)
			return nil
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season year (0 uses config)")
	cmd.Flags().IntVar(&week, "week", 0, "Week number (0 uses config)")
	cmd.Flags().IntVar(&topN, "top-n", 0, "Number of picks to select (0 uses config)")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "Path to weights YAML (defaults apply when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full pass result as JSON")
	return cmd
}

// buildPipeline assembles engines, caches and guarded providers from
// config. The fixture provider is the data source until live feeds are
// configured.
func buildPipeline(cfg config.AppConfig, weightsPath string) (*pipeline.Pipeline, error) {
	wl := config.NewWeightsLoader()
	if weightsPath != "" {
		if err := wl.LoadFromFile(weightsPath); err != nil {
			return nil, err
		}
	} else if err := wl.LoadDefault(); err != nil {
		return nil, err
	}

	cw, err := wl.CompositeWeights()
	if err != nil {
		return nil, err
	}
	composite, err := biometrics.NewEngine(cw)
	if err != nil {
		return nil, err
	}
	gw, err := wl.GematriaWeights()
	if err != nil {
		return nil, err
	}
	gasEngine, err := gematria.NewEngine(nil, gw)
	if err != nil {
		return nil, err
	}
	fw, err := wl.FusionWeights()
	if err != nil {
		return nil, err
	}
	fuseEngine, err := fusion.NewEngine(fw)
	if err != nil {
		return nil, err
	}

	selector := rank.NewSelector()
	selector.TeamCap = cfg.Selector.TeamCap
	selector.PositionCap = cfg.Selector.PositionCap
	selector.FlexCap = cfg.Selector.FlexCap
	selector.SlateBonus = cfg.Selector.SlateBonus

	fixture := providers.NewFixture(cfg.Providers.Seed)
	guardCfg := providers.GuardConfig{
		RPS:         cfg.Providers.RPS,
		Burst:       cfg.Providers.Burst,
		MaxFailures: cfg.Providers.MaxFailures,
		OpenFor:     cfg.Providers.GetOpenFor(),
		CallTimeout: cfg.Providers.GetCallTimeout(),
	}
	newGuard := func(name string) *providers.Guard {
		g := guardCfg
		g.Name = name
		return providers.NewGuard(g, log.Logger)
	}

	return pipeline.New(pipeline.Deps{
		Schedule:  providers.NewGuardedSchedule(fixture, newGuard("schedule")),
		Odds:      providers.NewGuardedOdds(fixture, newGuard("odds")),
		Players:   providers.NewGuardedPlayers(fixture, newGuard("players")),
		Metrics:   pipeline.NewSyntheticMetrics(cfg.Providers.Seed),
		Caches:    newCaches(cfg.Cache),
		Tracker:   lines.NewTracker(lines.DefaultStaleAfter),
		Composite: composite,
		GAS:       gasEngine,
		Fusion:    fuseEngine,
		Selector:  selector,
		Log:       log.Logger,
	}, pipeline.Config{
		Season:       cfg.Season,
		Week:         cfg.Week,
		TopN:         cfg.Selector.TopN,
		CacheVersion: cfg.Cache.Version,
	})
}

func newCaches(c config.CacheConfig) *cache.Caches {
	return cache.NewCachesWith(cache.TTLs{
		Odds:     c.GetOddsTTL(),
		Schedule: c.GetScheduleTTL(),
		Picks:    c.GetPicksTTL(),
		Players:  c.GetPlayersTTL(),
		Offense:  c.GetOffenseTTL(),
	})
}

// publishPicks mirrors the pass result to the shared redis tier when
// one is configured.
func publishPicks(ctx context.Context, cfg config.AppConfig, res pipeline.PassResult) error {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	store := cache.NewRedisStore(client, "picks", cfg.Cache.GetPicksTTL())
	key := fmt.Sprintf("%d-W%02d", res.Season, res.Week)
	return store.Set(ctx, key, res, cache.Options{Version: cfg.Cache.Version})
}

func printPicks(res pipeline.PassResult) {
	fmt.Printf("%s week %d, %d scored, top %d:\n\n", appName, res.Week, res.PoolSize, len(res.Picks))
	for i, pk := range res.Picks {
		c := pk.Candidate
		fmt.Printf("%2d. %-18s %-3s %-2s %6.1f  %s\n", i+1, c.Name, c.Team, c.Position, c.Score, c.Matchup)
		fmt.Printf("    juice %d/100  gas %.2f  %s\n", pk.Composite.Score, pk.Gematria.GAS, c.Commentary)
	}
	if len(res.Degraded) > 0 {
		fmt.Printf("\ndegraded feeds: %v\n", res.Degraded)
	}
}
