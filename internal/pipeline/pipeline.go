// Package pipeline runs a full scoring pass: fetch the slate through
// caches and guarded providers, score every offensive player through
// the biometric, gematria and fusion engines, then rank a diversity-
// capped top N.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gorillagenics/gorillagenics/internal/biometrics"
	"github.com/gorillagenics/gorillagenics/internal/cache"
	"github.com/gorillagenics/gorillagenics/internal/fusion"
	"github.com/gorillagenics/gorillagenics/internal/gematria"
	"github.com/gorillagenics/gorillagenics/internal/lines"
	"github.com/gorillagenics/gorillagenics/internal/metrics"
	"github.com/gorillagenics/gorillagenics/internal/providers"
	"github.com/gorillagenics/gorillagenics/internal/rank"
)

// Config carries the per-run knobs.
type Config struct {
	Season       int
	Week         int
	TopN         int
	CacheVersion string
}

// Deps are the collaborators a Pipeline needs. Engines left nil get
// defaults; providers and caches are required.
type Deps struct {
	Schedule  providers.ScheduleProvider
	Odds      providers.OddsProvider
	Players   providers.PlayersProvider
	Metrics   MetricsSource
	Caches    *cache.Caches
	Tracker   *lines.Tracker
	Composite *biometrics.Engine
	GAS       *gematria.Engine
	Fusion    *fusion.Engine
	Selector  *rank.Selector
	Table     *rank.ScoreTable
	Birthdays map[string]time.Time
	Log       zerolog.Logger
}

// Pipeline is safe for repeated Run calls; caches and the line tracker
// carry state across passes.
type Pipeline struct {
	schedule  providers.ScheduleProvider
	odds      providers.OddsProvider
	players   providers.PlayersProvider
	metricSrc MetricsSource
	caches    *cache.Caches
	tracker   *lines.Tracker
	composite *biometrics.Engine
	gas       *gematria.Engine
	fuse      *fusion.Engine
	selector  *rank.Selector
	table     rank.ScoreTable
	birthdays map[string]time.Time
	log       zerolog.Logger
	cfg       Config
}

// New wires a pipeline from deps and config.
func New(deps Deps, cfg Config) (*Pipeline, error) {
	if deps.Schedule == nil || deps.Odds == nil || deps.Players == nil {
		return nil, fmt.Errorf("pipeline requires schedule, odds and players providers")
	}
	if deps.Caches == nil {
		deps.Caches = cache.NewCaches()
	}
	if deps.Tracker == nil {
		deps.Tracker = lines.NewTracker(lines.DefaultStaleAfter)
	}
	if deps.Metrics == nil {
		deps.Metrics = NewSyntheticMetrics(1)
	}
	if deps.Composite == nil {
		eng, err := biometrics.NewEngine(nil)
		if err != nil {
			return nil, err
		}
		deps.Composite = eng
	}
	if deps.GAS == nil {
		eng, err := gematria.NewEngine(nil, gematria.Weights{})
		if err != nil {
			return nil, err
		}
		deps.GAS = eng
	}
	if deps.Fusion == nil {
		eng, err := fusion.NewEngine(fusion.Weights{})
		if err != nil {
			return nil, err
		}
		deps.Fusion = eng
	}
	if deps.Selector == nil {
		deps.Selector = rank.NewSelector()
	}
	table := rank.DefaultScoreTable()
	if deps.Table != nil {
		table = *deps.Table
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 8
	}
	if cfg.CacheVersion == "" {
		cfg.CacheVersion = "v1"
	}

	return &Pipeline{
		schedule:  deps.Schedule,
		odds:      deps.Odds,
		players:   deps.Players,
		metricSrc: deps.Metrics,
		caches:    deps.Caches,
		tracker:   deps.Tracker,
		composite: deps.Composite,
		gas:       deps.GAS,
		fuse:      deps.Fusion,
		selector:  deps.Selector,
		table:     table,
		birthdays: deps.Birthdays,
		log:       deps.Log,
		cfg:       cfg,
	}, nil
}

// Pick is one ranked selection with full scoring provenance.
type Pick struct {
	Candidate rank.Candidate     `json:"candidate"`
	Composite biometrics.Score   `json:"composite"`
	Gematria  gematria.Result    `json:"gematria"`
	Fusion    fusion.Result      `json:"fusion"`
	Game      providers.Game     `json:"game"`
	Odds      providers.GameOdds `json:"odds"`
	Movement  lines.Movement     `json:"movement"`
}

// PassResult is the output of one full run.
type PassResult struct {
	Season      int       `json:"season"`
	Week        int       `json:"week"`
	GeneratedAt time.Time `json:"generatedAt"`
	Picks       []Pick    `json:"picks"`
	PoolSize    int       `json:"poolSize"`
	Degraded    []string  `json:"degraded,omitempty"`
}

// Run executes one pass. A missing odds or roster feed degrades that
// slice of the output; only an empty slate is fatal.
func (p *Pipeline) Run(ctx context.Context) (PassResult, error) {
	start := time.Now()
	defer func() {
		metrics.ObservePassDuration(time.Since(start).Seconds())
	}()

	games, degraded, err := p.fetchSchedule(ctx)
	if err != nil {
		return PassResult{}, err
	}
	odds, players, moreDegraded := p.fetchSlate(ctx, games)
	degraded = append(degraded, moreDegraded...)

	oddsByGame := make(map[string]providers.GameOdds, len(odds))
	movements := make(map[string]lines.Movement, len(odds))
	for _, o := range odds {
		oddsByGame[o.GameID] = o
		movements[o.GameID] = p.tracker.Record(o.GameID, lines.Snapshot{
			Spread:    o.Spread,
			Total:     o.Total,
			Timestamp: o.LastUpdated,
		})
	}

	gameByTeam := make(map[string]providers.Game, len(games)*2)
	for _, g := range games {
		gameByTeam[g.HomeTeam] = g
		gameByTeam[g.AwayTeam] = g
	}

	players = providers.FilterOffense(players)
	roleSeen := make(map[string]int, len(players))

	pool := make([]rank.Candidate, 0, len(players))
	details := make(map[string]Pick, len(players))
	for _, pl := range players {
		game, ok := gameByTeam[pl.Team]
		if !ok {
			continue
		}
		o := oddsByGame[game.ID]

		comp := p.composite.Score(p.metricSrc.PlayerMetrics(pl.ID))
		var bday *time.Time
		if b, ok := p.birthdays[pl.ID]; ok {
			bday = &b
		}
		gas := p.gas.ComputeGAS(pl.Name, game.StartTime, bday)
		fused := p.fuse.FuseGAS(baseProbability(comp, o, pl.Team, game), gas)

		roleKey := pl.Team + "/" + pl.Position
		role := roleFor(roleSeen[roleKey])
		roleSeen[roleKey]++

		score := p.table.Score(rank.ScoreInput{
			Position:     pl.Position,
			Role:         role,
			GameTotal:    o.Total,
			InjuryStatus: string(pl.InjuryStatus),
		})
		score += float64(comp.Score) * 0.1
		score += fused.EdgeProbability * 50

		cand := rank.Candidate{
			ID:         pl.ID,
			Name:       pl.Name,
			Team:       pl.Team,
			Position:   pl.Position,
			Score:      score,
			MainSlate:  game.TimeSlot == providers.SlotEarly || game.TimeSlot == providers.SlotLate,
			Commentary: commentaryFor(fused, movements[game.ID]),
			Matchup:    game.AwayTeam + " @ " + game.HomeTeam,
		}
		pool = append(pool, cand)
		details[cand.ID] = Pick{
			Composite: comp,
			Gematria:  gas,
			Fusion:    fused,
			Game:      game,
			Odds:      o,
			Movement:  movements[game.ID],
		}
	}

	selected := p.selector.SelectTopN(pool, p.cfg.TopN)
	picks := make([]Pick, 0, len(selected))
	for _, c := range selected {
		d := details[c.ID]
		d.Candidate = c
		picks = append(picks, d)
	}

	result := PassResult{
		Season:      p.cfg.Season,
		Week:        p.cfg.Week,
		GeneratedAt: time.Now().UTC(),
		Picks:       picks,
		PoolSize:    len(pool),
		Degraded:    degraded,
	}
	p.caches.Picks.Set(p.weekKey(), result, cache.Options{Version: p.cfg.CacheVersion})
	metrics.RecordRankingPass()

	p.log.Info().
		Int("season", result.Season).
		Int("week", result.Week).
		Int("pool", result.PoolSize).
		Int("picks", len(result.Picks)).
		Strs("degraded", degraded).
		Dur("elapsed", time.Since(start)).
		Msg("ranking pass complete")
	return result, nil
}

func (p *Pipeline) weekKey() string {
	return fmt.Sprintf("%d-W%02d", p.cfg.Season, p.cfg.Week)
}

// fetchSchedule returns the slate, from cache when fresh. An empty
// slate is fatal: nothing downstream can run without games.
func (p *Pipeline) fetchSchedule(ctx context.Context) ([]providers.Game, []string, error) {
	opts := cache.Options{Version: p.cfg.CacheVersion}
	if v, ok := p.caches.Schedule.Get(p.weekKey(), opts); ok {
		return v.([]providers.Game), nil, nil
	}

	games, err := p.schedule.Schedule(ctx, p.cfg.Season, p.cfg.Week)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule unavailable for %s: %w", p.weekKey(), err)
	}
	if len(games) == 0 {
		return nil, nil, fmt.Errorf("empty slate for %s", p.weekKey())
	}
	p.caches.Schedule.Set(p.weekKey(), games, opts)
	return games, nil, nil
}

// fetchSlate fetches odds and rosters concurrently. Either feed failing
// degrades to an empty slice and is reported in the degraded list.
func (p *Pipeline) fetchSlate(ctx context.Context, games []providers.Game) ([]providers.GameOdds, []providers.Player, []string) {
	gameIDs := make([]string, len(games))
	teamSet := make(map[string]bool, len(games)*2)
	teams := make([]string, 0, len(games)*2)
	for i, g := range games {
		gameIDs[i] = g.ID
		for _, t := range []string{g.HomeTeam, g.AwayTeam} {
			if !teamSet[t] {
				teamSet[t] = true
				teams = append(teams, t)
			}
		}
	}

	opts := cache.Options{Version: p.cfg.CacheVersion}
	var (
		wg       sync.WaitGroup
		odds     []providers.GameOdds
		players  []providers.Player
		mu       sync.Mutex
		degraded []string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if v, ok := p.caches.Odds.Get(p.weekKey(), opts); ok {
			odds = v.([]providers.GameOdds)
			return
		}
		got, err := p.odds.Odds(ctx, gameIDs)
		if err != nil {
			p.log.Warn().Err(err).Msg("odds feed degraded to empty")
			mu.Lock()
			degraded = append(degraded, "odds")
			mu.Unlock()
			return
		}
		p.caches.Odds.Set(p.weekKey(), got, opts)
		odds = got
	}()
	go func() {
		defer wg.Done()
		if v, ok := p.caches.Players.Get(p.weekKey(), opts); ok {
			players = v.([]providers.Player)
			return
		}
		if cached, ok := p.offenseFor(teams, opts); ok {
			players = cached
			return
		}
		got, err := p.players.Players(ctx, teams)
		if err != nil {
			p.log.Warn().Err(err).Msg("players feed degraded to empty")
			mu.Lock()
			degraded = append(degraded, "players")
			mu.Unlock()
			return
		}
		got = providers.FilterOffense(got)
		p.caches.Players.Set(p.weekKey(), got, opts)
		byTeam := make(map[string][]providers.Player, len(teams))
		for _, pl := range got {
			byTeam[pl.Team] = append(byTeam[pl.Team], pl)
		}
		for _, team := range teams {
			p.caches.Offense.Set(team, byTeam[team], opts)
		}
		players = got
	}()
	wg.Wait()

	return odds, players, degraded
}

// offenseFor assembles the slate's rosters from the per-team offense
// cache. Every team must be present; one missing team falls the whole
// fetch through to the provider so a partial slate never masquerades as
// complete.
func (p *Pipeline) offenseFor(teams []string, opts cache.Options) ([]providers.Player, bool) {
	var out []providers.Player
	for _, team := range teams {
		v, ok := p.caches.Offense.Get(team, opts)
		if !ok {
			return nil, false
		}
		out = append(out, v.([]providers.Player)...)
	}
	return out, true
}

// baseProbability prefers the market's implied moneyline probability
// for the player's side; with no line it falls back to the biometric
// composite, squeezed to avoid degenerate logits.
func baseProbability(comp biometrics.Score, o providers.GameOdds, team string, game providers.Game) float64 {
	side := "away"
	if team == game.HomeTeam {
		side = "home"
	}
	if ml, ok := o.Moneylines[side]; ok && ml != 0 {
		return impliedProbability(ml)
	}
	p := float64(comp.Score) / 100
	if p < 0.05 {
		p = 0.05
	}
	if p > 0.95 {
		p = 0.95
	}
	return p
}

// impliedProbability converts American odds, vig included.
func impliedProbability(ml int) float64 {
	if ml < 0 {
		return float64(-ml) / float64(-ml+100)
	}
	return 100 / float64(ml+100)
}

func roleFor(seen int) string {
	switch seen {
	case 0:
		return "starter"
	case 1:
		return "featured"
	default:
		return "rotation"
	}
}

func commentaryFor(f fusion.Result, m lines.Movement) string {
	s := fmt.Sprintf("%s edge %+.1f%%", f.Tier, f.EdgeProbability*100)
	if m.Since != nil && (m.SpreadDelta != 0 || m.TotalDelta != 0) {
		s += fmt.Sprintf(", line moved %+.1f/%+.1f", m.SpreadDelta, m.TotalDelta)
	}
	return s
}
