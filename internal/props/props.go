// Package props evaluates player prop picks: a volatility (sigma) model
// per stat type, an over/under win probability under a normal outcome
// model, an EV percentage, and a role tag for slip construction.
package props

import "math"

// StatType identifies the prop market.
type StatType string

const (
	StatReceivingYards StatType = "receiving_yards"
	StatReceptions     StatType = "receptions"
	StatRushingYards   StatType = "rushing_yards"
	StatRushRecYards   StatType = "rush_rec_yards"
	StatPassingYards   StatType = "passing_yards"
	StatPassingTDs     StatType = "passing_tds"
	StatRushingTDs     StatType = "rushing_tds"
	StatFantasyPoints  StatType = "fantasy_points"
)

// Archetype is the player's role archetype, which scales volatility.
type Archetype string

const (
	ArchAlphaWR        Archetype = "alpha_wr"
	ArchSlotWR         Archetype = "slot_wr"
	ArchFieldStretcher Archetype = "field_stretcher"
	ArchRB1            Archetype = "rb1"
	ArchRB2            Archetype = "rb2"
	ArchPassRB         Archetype = "pass_rb"
	ArchTE1            Archetype = "te1"
	ArchTE2            Archetype = "te2"
	ArchQB             Archetype = "qb"
	ArchOther          Archetype = "other"
)

// SigmaRule models a stat's standard deviation as a percent of the line
// with an absolute floor.
type SigmaRule struct {
	PctOfLine float64 `yaml:"pct_of_line"`
	Floor     float64 `yaml:"floor"`
}

// Fallbacks for stat types and archetypes outside the tables.
var (
	defaultSigmaRule = SigmaRule{PctOfLine: 0.30, Floor: 10.0}
	defaultArchVol   = 1.1
)

// DefaultSigmaRules returns the shipped sigma table.
func DefaultSigmaRules() map[StatType]SigmaRule {
	return map[StatType]SigmaRule{
		StatReceivingYards: {PctOfLine: 0.28, Floor: 9.0},
		StatReceptions:     {PctOfLine: 0.38, Floor: 1.2},
		StatRushingYards:   {PctOfLine: 0.30, Floor: 10.0},
		StatRushRecYards:   {PctOfLine: 0.27, Floor: 12.0},
		StatPassingYards:   {PctOfLine: 0.22, Floor: 18.0},
		StatPassingTDs:     {PctOfLine: 0.55, Floor: 0.6},
		StatRushingTDs:     {PctOfLine: 0.70, Floor: 0.5},
		StatFantasyPoints:  {PctOfLine: 0.40, Floor: 4.0},
	}
}

// DefaultArchetypeVolatility returns the per-archetype sigma multiplier:
// high-usage roles run tighter, deep threats and backups run wider.
func DefaultArchetypeVolatility() map[Archetype]float64 {
	return map[Archetype]float64{
		ArchAlphaWR:        0.9,
		ArchSlotWR:         1.0,
		ArchFieldStretcher: 1.2,
		ArchRB1:            0.95,
		ArchRB2:            1.1,
		ArchPassRB:         1.05,
		ArchTE1:            1.05,
		ArchTE2:            1.25,
		ArchQB:             0.9,
		ArchOther:          1.1,
	}
}

// Direction is the recommended side of the line.
type Direction string

const (
	Over  Direction = "Over"
	Under Direction = "Under"
)

// Role tags a pick for slip construction.
type Role string

const (
	RoleAnchor      Role = "Anchor"
	RoleLowVariance Role = "Low-Variance"
	RoleCorrelation Role = "Correlation"
)

// Prop is one player prop to evaluate.
type Prop struct {
	ID         string    `json:"id"`
	Player     string    `json:"player"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	Stat       StatType  `json:"stat_type"`
	Line       float64   `json:"line"`
	Projection float64   `json:"projection"`
	Archetype  Archetype `json:"role_archetype"`
	ScriptHint string    `json:"script_hint"`
}

// Evaluation is a scored prop.
type Evaluation struct {
	Prop
	Sigma     float64   `json:"sigma"`
	Direction Direction `json:"rec"`
	WinProb   float64   `json:"win_prob"`
	EVPct     float64   `json:"ev_pct"`
	Role      Role      `json:"role"`
}

// Evaluator scores props against its sigma and volatility tables.
type Evaluator struct {
	sigmaRules map[StatType]SigmaRule
	archVol    map[Archetype]float64
}

// NewEvaluator builds an evaluator; nil tables use the defaults.
func NewEvaluator(rules map[StatType]SigmaRule, vol map[Archetype]float64) *Evaluator {
	if rules == nil {
		rules = DefaultSigmaRules()
	}
	if vol == nil {
		vol = DefaultArchetypeVolatility()
	}
	return &Evaluator{sigmaRules: rules, archVol: vol}
}

// Sigma estimates the outcome standard deviation for a stat line under a
// role archetype.
func (e *Evaluator) Sigma(stat StatType, line float64, arch Archetype) float64 {
	rule, ok := e.sigmaRules[stat]
	if !ok {
		rule = defaultSigmaRule
	}
	vol, ok := e.archVol[arch]
	if !ok {
		vol = defaultArchVol
	}
	return math.Max(line*rule.PctOfLine, rule.Floor) * vol
}

// WinProbability is P(X > line) for Over, P(X < line) for Under, with X
// distributed N(projection, sigma).
func WinProbability(line, projection, sigma float64, dir Direction) float64 {
	if sigma <= 0 {
		// Degenerate model: the projection decides outright.
		if (dir == Over) == (projection > line) {
			return 1
		}
		return 0
	}
	z := (line - projection) / sigma
	if dir == Over {
		return 1 - normalCDF(z)
	}
	return normalCDF(z)
}

// Evaluate scores one prop: recommends the side the projection sits on,
// computes win probability and EV%, and tags a role.
func (e *Evaluator) Evaluate(p Prop) Evaluation {
	sigma := e.Sigma(p.Stat, p.Line, p.Archetype)

	dir := Under
	if p.Projection >= p.Line {
		dir = Over
	}

	winProb := WinProbability(p.Line, p.Projection, sigma, dir)

	// EV% as the relative projection gap, capped for sanity.
	denom := math.Max(math.Abs(p.Line), 1e-6)
	evPct := (p.Projection - p.Line) / denom * 100
	evPct = math.Max(math.Min(evPct, 60), -60)

	return Evaluation{
		Prop:      p,
		Sigma:     sigma,
		Direction: dir,
		WinProb:   winProb,
		EVPct:     evPct,
		Role:      classifyRole(evPct, winProb, p.Stat, p.Archetype),
	}
}

// classifyRole: anchors need a strong edge and probability; the
// low-variance tag is reserved for steady volume stats in reliable
// roles; everything else rides as a correlation piece.
func classifyRole(evPct, winProb float64, stat StatType, arch Archetype) Role {
	if evPct >= 12.0 && winProb >= 0.62 {
		return RoleAnchor
	}
	steadyStat := stat == StatReceptions || stat == StatRushingYards || stat == StatReceivingYards
	steadyRole := arch == ArchTE1 || arch == ArchRB1 || arch == ArchSlotWR
	if steadyStat && steadyRole && winProb >= 0.58 {
		return RoleLowVariance
	}
	return RoleCorrelation
}

func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
