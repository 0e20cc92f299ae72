package rank

import "fmt"

// ScoreInput is the raw material for one candidate's rank score.
type ScoreInput struct {
	Position     string
	Role         string
	GameTotal    float64
	InjuryStatus string
}

// ScoreTable is the table-driven rank scoring configuration: positional
// base value, role/usage bonus, game-environment bonus, and injury
// penalty. Nothing in here is keyed per player.
type ScoreTable struct {
	PositionBase   map[string]float64 `yaml:"position_base"`
	RoleBonus      map[string]float64 `yaml:"role_bonus"`
	HighTotalLine  float64            `yaml:"high_total_line"`
	HighTotalBonus float64            `yaml:"high_total_bonus"`
	InjuryPenalty  map[string]float64 `yaml:"injury_penalty"`
}

// DefaultScoreTable returns the shipped table.
func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		PositionBase: map[string]float64{
			"QB": 80, "RB": 75, "WR": 72, "TE": 65,
		},
		RoleBonus: map[string]float64{
			"starter":  10,
			"featured": 6,
			"rotation": 2,
		},
		HighTotalLine:  47.5,
		HighTotalBonus: 5,
		InjuryPenalty: map[string]float64{
			"Questionable": 8,
			"Doubtful":     20,
			"Out":          100,
		},
	}
}

// Validate rejects tables that cannot produce sane scores.
func (t ScoreTable) Validate() error {
	if len(t.PositionBase) == 0 {
		return fmt.Errorf("score table has no position base values")
	}
	for pos, v := range t.PositionBase {
		if v < 0 {
			return fmt.Errorf("negative base value for position %s: %f", pos, v)
		}
	}
	for status, v := range t.InjuryPenalty {
		if v < 0 {
			return fmt.Errorf("negative injury penalty for %s: %f", status, v)
		}
	}
	return nil
}

// Score computes base + role bonus + environment bonus - injury penalty.
// Unknown positions score zero base; unknown roles and statuses simply
// contribute nothing.
func (t ScoreTable) Score(in ScoreInput) float64 {
	score := t.PositionBase[in.Position]
	score += t.RoleBonus[in.Role]
	if t.HighTotalLine > 0 && in.GameTotal >= t.HighTotalLine {
		score += t.HighTotalBonus
	}
	score -= t.InjuryPenalty[in.InjuryStatus]
	return score
}
