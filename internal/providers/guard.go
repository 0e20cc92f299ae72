package providers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/gorillagenics/gorillagenics/internal/metrics"
)

// GuardConfig tunes the protective wrapper around a provider.
type GuardConfig struct {
	Name        string
	RPS         float64
	Burst       int
	MaxFailures uint32
	OpenFor     time.Duration
	CallTimeout time.Duration
}

// DefaultGuardConfig returns conservative limits for a free-tier API.
func DefaultGuardConfig(name string) GuardConfig {
	return GuardConfig{
		Name:        name,
		RPS:         5,
		Burst:       5,
		MaxFailures: 3,
		OpenFor:     30 * time.Second,
		CallTimeout: 8 * time.Second,
	}
}

// Guard serializes provider calls through a token bucket and a circuit
// breaker, with a hard per-call deadline.
type Guard struct {
	name    string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	log     zerolog.Logger
}

// NewGuard builds a guard from config.
func NewGuard(cfg GuardConfig, log zerolog.Logger) *Guard {
	st := gobreaker.Settings{Name: cfg.Name}
	st.Timeout = cfg.OpenFor
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= cfg.MaxFailures
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().
			Str("provider", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("provider breaker state change")
	}

	return &Guard{
		name:    cfg.Name,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker(st),
		timeout: cfg.CallTimeout,
		log:     log,
	}
}

// Do runs fn under the guard. The context passed to fn carries the
// per-call deadline; rate-limit waits respect the caller's context.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return fn(callCtx)
	})
	if err != nil {
		metrics.RecordProviderFailure(g.name)
		g.log.Error().Err(err).Str("provider", g.name).Msg("provider call failed")
	}
	return out, err
}

// GuardedSchedule wraps a ScheduleProvider with a Guard.
type GuardedSchedule struct {
	inner ScheduleProvider
	guard *Guard
}

func NewGuardedSchedule(inner ScheduleProvider, guard *Guard) *GuardedSchedule {
	return &GuardedSchedule{inner: inner, guard: guard}
}

func (g *GuardedSchedule) Schedule(ctx context.Context, season, week int) ([]Game, error) {
	out, err := g.guard.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return g.inner.Schedule(ctx, season, week)
	})
	if err != nil {
		return nil, err
	}
	return out.([]Game), nil
}

// GuardedOdds wraps an OddsProvider with a Guard.
type GuardedOdds struct {
	inner OddsProvider
	guard *Guard
}

func NewGuardedOdds(inner OddsProvider, guard *Guard) *GuardedOdds {
	return &GuardedOdds{inner: inner, guard: guard}
}

func (g *GuardedOdds) Odds(ctx context.Context, gameIDs []string) ([]GameOdds, error) {
	out, err := g.guard.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return g.inner.Odds(ctx, gameIDs)
	})
	if err != nil {
		return nil, err
	}
	return out.([]GameOdds), nil
}

// GuardedPlayers wraps a PlayersProvider with a Guard and applies the
// offense-only position filter to whatever comes back.
type GuardedPlayers struct {
	inner PlayersProvider
	guard *Guard
}

func NewGuardedPlayers(inner PlayersProvider, guard *Guard) *GuardedPlayers {
	return &GuardedPlayers{inner: inner, guard: guard}
}

func (g *GuardedPlayers) Players(ctx context.Context, teams []string) ([]Player, error) {
	out, err := g.guard.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return g.inner.Players(ctx, teams)
	})
	if err != nil {
		return nil, err
	}
	return FilterOffense(out.([]Player)), nil
}
