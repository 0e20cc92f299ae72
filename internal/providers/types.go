// Package providers defines the upstream data sources the pipeline
// fetches from, plus a guard wrapper that adds rate limiting, circuit
// breaking and per-call timeouts around any implementation.
package providers

import (
	"context"
	"time"
)

// TimeSlot buckets a game's kickoff window.
type TimeSlot string

const (
	SlotThursday TimeSlot = "TNF"
	SlotEarly    TimeSlot = "SUN_EARLY"
	SlotLate     TimeSlot = "SUN_LATE"
	SlotSunday   TimeSlot = "SNF"
	SlotMonday   TimeSlot = "MNF"
)

// Game is one scheduled matchup.
type Game struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	StartTime time.Time `json:"startTime"`
	TimeSlot  TimeSlot  `json:"timeSlot"`
}

// GameOdds is the market snapshot for one game. Spread is quoted from
// the home side; Moneylines is keyed "home" and "away".
type GameOdds struct {
	GameID      string         `json:"gameId"`
	Spread      float64        `json:"spread"`
	Total       float64        `json:"total"`
	Moneylines  map[string]int `json:"moneylines"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// InjuryStatus is the report designation for a player.
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = ""
	InjuryQuestionable InjuryStatus = "Questionable"
	InjuryDoubtful     InjuryStatus = "Doubtful"
	InjuryOut          InjuryStatus = "Out"
)

// Player is one roster entry.
type Player struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Position     string       `json:"position"`
	Team         string       `json:"team"`
	InjuryStatus InjuryStatus `json:"injuryStatus"`
}

// ScheduleProvider returns the slate of games for a week.
type ScheduleProvider interface {
	Schedule(ctx context.Context, season, week int) ([]Game, error)
}

// OddsProvider returns current market lines for a slate.
type OddsProvider interface {
	Odds(ctx context.Context, gameIDs []string) ([]GameOdds, error)
}

// PlayersProvider returns rosters for the given teams.
type PlayersProvider interface {
	Players(ctx context.Context, teams []string) ([]Player, error)
}

// offensePositions are the only positions the pipeline scores.
var offensePositions = map[string]bool{
	"QB": true,
	"RB": true,
	"WR": true,
	"TE": true,
}

// FilterOffense drops every player whose position is not scoreable,
// regardless of what the upstream claims to have filtered.
func FilterOffense(players []Player) []Player {
	out := players[:0:0]
	for _, p := range players {
		if offensePositions[p.Position] {
			out = append(out, p)
		}
	}
	return out
}
