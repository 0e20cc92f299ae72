package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorillagenics/gorillagenics/internal/cache"
	"github.com/gorillagenics/gorillagenics/internal/providers"
)

type countingSchedule struct {
	inner providers.ScheduleProvider
	calls int
}

func (c *countingSchedule) Schedule(ctx context.Context, season, week int) ([]providers.Game, error) {
	c.calls++
	return c.inner.Schedule(ctx, season, week)
}

type countingPlayers struct {
	inner providers.PlayersProvider
	calls int
}

func (c *countingPlayers) Players(ctx context.Context, teams []string) ([]providers.Player, error) {
	c.calls++
	return c.inner.Players(ctx, teams)
}

type failingOdds struct{}

func (failingOdds) Odds(ctx context.Context, gameIDs []string) ([]providers.GameOdds, error) {
	return nil, errors.New("odds upstream down")
}

type failingSchedule struct{}

func (failingSchedule) Schedule(ctx context.Context, season, week int) ([]providers.Game, error) {
	return nil, errors.New("schedule upstream down")
}

func fixtureDeps() Deps {
	f := providers.NewFixture(7)
	return Deps{
		Schedule: f,
		Odds:     f,
		Players:  f,
		Metrics:  NewSyntheticMetrics(7),
		Log:      zerolog.Nop(),
	}
}

func TestRunProducesRankedPicks(t *testing.T) {
	p, err := New(fixtureDeps(), Config{Season: 2026, Week: 2, TopN: 8})
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2026, res.Season)
	assert.Equal(t, 2, res.Week)
	assert.Greater(t, res.PoolSize, 0)
	require.NotEmpty(t, res.Picks)
	assert.LessOrEqual(t, len(res.Picks), 8)
	assert.Empty(t, res.Degraded)

	teamCount := map[string]int{}
	for i, pk := range res.Picks {
		c := pk.Candidate
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Commentary)
		assert.Contains(t, c.Matchup, " @ ")
		assert.NotEmpty(t, pk.Fusion.Tier)
		assert.Contains(t, []string{"QB", "RB", "WR", "TE"}, c.Position)
		teamCount[c.Team]++
		if i > 0 {
			prev := res.Picks[i-1].Candidate
			if prev.MainSlate == c.MainSlate {
				assert.GreaterOrEqual(t, prev.Score, c.Score)
			}
		}
	}
	for team, n := range teamCount {
		assert.LessOrEqual(t, n, 2, "team cap exceeded for %s", team)
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	mk := func() PassResult {
		p, err := New(fixtureDeps(), Config{Season: 2026, Week: 1, TopN: 5})
		require.NoError(t, err)
		res, err := p.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	a, b := mk(), mk()
	require.Equal(t, len(a.Picks), len(b.Picks))
	for i := range a.Picks {
		assert.Equal(t, a.Picks[i].Candidate.ID, b.Picks[i].Candidate.ID)
	}
}

func TestRunDegradesOnOddsFailure(t *testing.T) {
	deps := fixtureDeps()
	deps.Odds = failingOdds{}

	p, err := New(deps, Config{Season: 2026, Week: 1, TopN: 5})
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.Degraded, "odds")
	assert.NotEmpty(t, res.Picks, "biometric fallback should still rank players")
	for _, pk := range res.Picks {
		assert.Zero(t, pk.Odds.Total)
	}
}

func TestRunFailsWithoutSchedule(t *testing.T) {
	deps := fixtureDeps()
	deps.Schedule = failingSchedule{}

	p, err := New(deps, Config{Season: 2026, Week: 1})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule unavailable")
}

func TestRunReusesScheduleCache(t *testing.T) {
	deps := fixtureDeps()
	counting := &countingSchedule{inner: deps.Schedule}
	deps.Schedule = counting

	p, err := New(deps, Config{Season: 2026, Week: 1, TopN: 3})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
}

func TestOffenseCacheServesLaterWeeks(t *testing.T) {
	deps := fixtureDeps()
	counting := &countingPlayers{inner: deps.Players}
	deps.Players = counting
	deps.Caches = cache.NewCaches()

	p1, err := New(deps, Config{Season: 2026, Week: 1, TopN: 3})
	require.NoError(t, err)
	_, err = p1.Run(context.Background())
	require.NoError(t, err)

	// A new week misses the weekly players cache but the slate's teams
	// are already in the per-team offense cache.
	p2, err := New(deps, Config{Season: 2026, Week: 2, TopN: 3})
	require.NoError(t, err)
	res, err := p2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
	assert.Greater(t, res.PoolSize, 0)

	v, ok := deps.Caches.Offense.Get("BUF", cache.Options{Version: "v1"})
	require.True(t, ok)
	for _, pl := range v.([]providers.Player) {
		assert.Contains(t, []string{"QB", "RB", "WR", "TE"}, pl.Position)
	}
}

func TestSyntheticMetricsStable(t *testing.T) {
	src := NewSyntheticMetrics(3)
	a := src.PlayerMetrics("BUF-QB-0")
	b := src.PlayerMetrics("BUF-QB-0")
	assert.Equal(t, a, b)

	c := src.PlayerMetrics("MIA-QB-0")
	assert.NotEqual(t, a, c)
}
