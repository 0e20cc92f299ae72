package main

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorillagenics/gorillagenics/internal/cache"
	"github.com/gorillagenics/gorillagenics/internal/config"
	"github.com/gorillagenics/gorillagenics/internal/pipeline"
)

func TestCollectStatsCoversEveryStore(t *testing.T) {
	caches := cache.NewCaches()
	caches.Picks.Set("2026-W01", "board", cache.Options{Version: "v1"})
	caches.Offense.Set("BUF", []string{"qb1"}, cache.Options{Version: "v1"})

	stats := collectStats(caches)
	require.Len(t, stats, 5)

	byName := map[string]cache.Stats{}
	for _, st := range stats {
		byName[st.Name] = st
	}
	for _, name := range []string{"odds", "schedule", "picks", "players", "offense"} {
		require.Contains(t, byName, name)
	}
	assert.Equal(t, 1, byName["picks"].EntryCount)
	assert.Equal(t, 1, byName["offense"].EntryCount)
	assert.Equal(t, 0, byName["odds"].EntryCount)
}

func TestHydratePicksFromRedis(t *testing.T) {
	cfg := config.DefaultAppConfig()
	cfg.Season = 2026
	cfg.Week = 3

	res := pipeline.PassResult{Season: 2026, Week: 3, PoolSize: 42}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	env, err := json.Marshal(struct {
		Data      json.RawMessage `json:"data"`
		Version   string          `json:"version"`
		Timestamp time.Time       `json:"timestamp"`
	}{Data: data, Version: cfg.Cache.Version, Timestamp: time.Now()})
	require.NoError(t, err)

	db, mock := redismock.NewClientMock()
	mock.ExpectGet("gg:picks:2026-W03").SetVal(string(env))

	caches := cache.NewCaches()
	require.NoError(t, hydratePicks(context.Background(), db, cfg, caches))
	require.NoError(t, mock.ExpectationsWereMet())

	v, ok := caches.Picks.Get("2026-W03", cache.Options{Version: cfg.Cache.Version})
	require.True(t, ok)
	assert.Equal(t, 42, v.(pipeline.PassResult).PoolSize)
}

func TestHydratePicksMissLeavesCacheEmpty(t *testing.T) {
	cfg := config.DefaultAppConfig()
	key := fmt.Sprintf("%d-W%02d", cfg.Season, cfg.Week)

	db, mock := redismock.NewClientMock()
	mock.ExpectGet("gg:picks:" + key).RedisNil()

	caches := cache.NewCaches()
	require.NoError(t, hydratePicks(context.Background(), db, cfg, caches))
	assert.Equal(t, 0, caches.Picks.Stats().EntryCount)
}

func TestCacheCommandRunsOffline(t *testing.T) {
	path := ""
	cmd := cacheCmd(context.Background(), &path)
	cmd.SetArgs([]string{"--json"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
}
