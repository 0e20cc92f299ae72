package providers

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Fixture is an offline provider generating a deterministic slate from
// a seed. It implements all three provider interfaces and is the
// default data source when no live API keys are configured.
type Fixture struct {
	seed int64
}

// NewFixture builds a fixture provider. The same seed always produces
// the same schedule, odds and rosters.
func NewFixture(seed int64) *Fixture {
	return &Fixture{seed: seed}
}

var fixtureTeams = []string{
	"BUF", "MIA", "KC", "LAC", "PHI", "DAL", "SF", "SEA",
	"BAL", "CIN", "DET", "GB", "NYJ", "NE", "MIN", "CHI",
}

var fixtureSlots = []TimeSlot{SlotThursday, SlotEarly, SlotEarly, SlotEarly, SlotLate, SlotLate, SlotSunday, SlotMonday}

var fixtureNames = []string{
	"Marcus Stone", "Devon Carter", "Tyrell Banks", "Jalen Cross",
	"Andre Wells", "Kyle Mercer", "Darius Holt", "Trent Odom",
	"Cam Rivers", "Eli Vance", "Rashad King", "Noah Tate",
}

var fixturePositions = []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE", "K", "P"}

func (f *Fixture) rng(salt int64) *rand.Rand {
	return rand.New(rand.NewSource(f.seed ^ salt))
}

// Schedule pairs teams into eight games anchored to the week's Sunday.
func (f *Fixture) Schedule(ctx context.Context, season, week int) ([]Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	anchor := time.Date(season, time.September, 4, 13, 0, 0, 0, time.UTC).
		AddDate(0, 0, (week-1)*7)
	games := make([]Game, 0, len(fixtureTeams)/2)
	for i := 0; i+1 < len(fixtureTeams); i += 2 {
		slot := fixtureSlots[(i/2)%len(fixtureSlots)]
		start := anchor
		switch slot {
		case SlotThursday:
			start = anchor.AddDate(0, 0, -3).Add(7 * time.Hour)
		case SlotLate:
			start = anchor.Add(3*time.Hour + 25*time.Minute)
		case SlotSunday:
			start = anchor.Add(7*time.Hour + 20*time.Minute)
		case SlotMonday:
			start = anchor.AddDate(0, 0, 1).Add(7*time.Hour + 15*time.Minute)
		}
		games = append(games, Game{
			ID:        fmt.Sprintf("%d-W%02d-%s-%s", season, week, fixtureTeams[i+1], fixtureTeams[i]),
			HomeTeam:  fixtureTeams[i],
			AwayTeam:  fixtureTeams[i+1],
			StartTime: start,
			TimeSlot:  slot,
		})
	}
	return games, nil
}

// Odds draws spreads and totals from the seeded generator, keyed so the
// same game ID always gets the same line.
func (f *Fixture) Odds(ctx context.Context, gameIDs []string) ([]GameOdds, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	odds := make([]GameOdds, 0, len(gameIDs))
	for _, id := range gameIDs {
		r := f.rng(hashString(id))
		spread := float64(r.Intn(21)-10) / 2.0
		total := 38.5 + float64(r.Intn(28))*0.5
		homeML := -110 - r.Intn(150)
		awayML := 100 + r.Intn(180)
		if spread > 0 {
			homeML, awayML = -awayML+10, -homeML-10
		}
		odds = append(odds, GameOdds{
			GameID:      id,
			Spread:      spread,
			Total:       total,
			Moneylines:  map[string]int{"home": homeML, "away": awayML},
			LastUpdated: time.Now().UTC(),
		})
	}
	return odds, nil
}

// Players generates a small roster per team. Kickers and punters are
// included on purpose so the offense filter has something to drop.
func (f *Fixture) Players(ctx context.Context, teams []string) ([]Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var players []Player
	for _, team := range teams {
		r := f.rng(hashString(team))
		for i, pos := range fixturePositions {
			name := fixtureNames[r.Intn(len(fixtureNames))]
			status := InjuryHealthy
			switch r.Intn(12) {
			case 0:
				status = InjuryQuestionable
			case 1:
				status = InjuryOut
			}
			players = append(players, Player{
				ID:           fmt.Sprintf("%s-%s-%d", team, pos, i),
				Name:         name,
				Position:     pos,
				Team:         team,
				InjuryStatus: status,
			})
		}
	}
	return players, nil
}

func hashString(s string) int64 {
	var h int64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= int64(s[i])
		h *= 1099511628211
	}
	return h
}
