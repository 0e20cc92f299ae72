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

	"github.com/gorillagenics/gorillagenics/internal/cache"
	"github.com/gorillagenics/gorillagenics/internal/config"
	"github.com/gorillagenics/gorillagenics/internal/pipeline"
)

func cacheCmd(ctx context.Context, configPath *string) *cobra.Command {
	var (
		season int
		week   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Dump stats for the configured cache stores",
		Long: `Builds the cache set from config and prints per-store stats. With a
redis tier configured, the published pass for the requested week is
pulled back into the picks store first, so the dump reflects shared
state and not just this process.`,
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

			caches := newCaches(cfg.Cache)

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer client.Close()

				runCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				if err := hydratePicks(runCtx, client, cfg, caches); err != nil {
					log.Warn().Err(err).Msg("failed to read picks from redis")
				}
			}

			stats := collectStats(caches)
			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(stats)
			}
			printStats(stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season year (0 uses config)")
	cmd.Flags().IntVar(&week, "week", 0, "Week number (0 uses config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit stats as JSON")
	return cmd
}

// hydratePicks pulls the published pass for the configured week out of
// the shared tier into the in-process picks store. A miss is not an
// error.
func hydratePicks(ctx context.Context, client *redis.Client, cfg config.AppConfig, caches *cache.Caches) error {
	store := cache.NewRedisStore(client, "picks", cfg.Cache.GetPicksTTL())
	key := fmt.Sprintf("%d-W%02d", cfg.Season, cfg.Week)
	opts := cache.Options{Version: cfg.Cache.Version}

	var res pipeline.PassResult
	found, err := store.Get(ctx, key, opts, &res)
	if err != nil {
		return err
	}
	if found {
		caches.Picks.Set(key, res, opts)
	}
	return nil
}

func collectStats(c *cache.Caches) []cache.Stats {
	return []cache.Stats{
		c.Odds.Stats(),
		c.Schedule.Stats(),
		c.Picks.Stats(),
		c.Players.Stats(),
		c.Offense.Stats(),
	}
}

func printStats(stats []cache.Stats) {
	for _, st := range stats {
		fmt.Printf("%-10s %3d entries  %7d bytes\n", st.Name, st.EntryCount, st.TotalBytes)
		for _, e := range st.Entries {
			fmt.Printf("    %-24s age %-12s v%s  %d bytes\n", e.Key, e.Age.Round(time.Second), e.Version, e.Bytes)
		}
	}
}
