// Package slips grades 3-pick slips: role mix, pairwise correlation
// under a game-script prior, aggregate EV and win probability, and a
// letter grade, plus top-K slip suggestion over a pick pool.
package slips

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gorillagenics/gorillagenics/internal/props"
)

// SlipSize is the fixed number of picks per slip.
const SlipSize = 3

// Script names the game-script prior used for correlation lookups.
type Script string

const (
	ScriptShootout Script = "shootout"
	ScriptControl  Script = "control"
	ScriptNeutral  Script = "neutral"
)

// Grade is the qualitative slip rating.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

type pairKey struct {
	a, b   props.StatType
	script Script
}

// Priors maps stat-type pairs within a game script to a correlation
// prior. Positive values hit together; negative values oppose.
type Priors map[pairKey]float64

// DefaultPriors returns the shipped correlation table.
func DefaultPriors() Priors {
	return Priors{
		{props.StatPassingYards, props.StatReceivingYards, ScriptShootout}: 0.45,
		{props.StatPassingYards, props.StatReceptions, ScriptShootout}:     0.40,
		{props.StatPassingYards, props.StatReceivingYards, ScriptControl}:  0.30,
		{props.StatRushingYards, props.StatPassingYards, ScriptControl}:    -0.10,
		{props.StatRushingYards, props.StatReceptions, ScriptControl}:      0.05,
		{props.StatRushRecYards, props.StatPassingYards, ScriptShootout}:   0.25,
		{props.StatRushRecYards, props.StatReceivingYards, ScriptShootout}: 0.20,
		{props.StatReceptions, props.StatReceivingYards, ScriptNeutral}:    0.35,
		{props.StatRushingYards, props.StatRushRecYards, ScriptNeutral}:    0.30,
	}
}

// PairCorr looks up the prior for a stat pair, order-insensitive;
// unlisted pairs read as uncorrelated.
func (p Priors) PairCorr(a, b props.StatType, script Script) float64 {
	if v, ok := p[pairKey{a, b, script}]; ok {
		return v
	}
	return p[pairKey{b, a, script}]
}

// Quality summarizes one slip.
type Quality struct {
	Anchors     int     `json:"anchors"`
	LowVariance int     `json:"low_variance"`
	Correlation int     `json:"correlation_picks"`
	CorrSum     float64 `json:"corr_sum"`
	AvgEVPct    float64 `json:"avg_ev_pct"`
	AvgWinProb  float64 `json:"avg_win_prob"`
	Overall     float64 `json:"overall_score"`
	Grade       Grade   `json:"grade"`
}

// Builder grades slips and suggests the best combinations.
type Builder struct {
	priors Priors
}

// NewBuilder builds over a prior table; nil uses the defaults.
func NewBuilder(priors Priors) *Builder {
	if priors == nil {
		priors = DefaultPriors()
	}
	return &Builder{priors: priors}
}

// Evaluate grades a slip of evaluated picks under a game script.
func (b *Builder) Evaluate(picks []props.Evaluation, script Script) Quality {
	if len(picks) == 0 {
		return Quality{Grade: GradeC}
	}

	var q Quality
	for _, p := range picks {
		switch p.Role {
		case props.RoleAnchor:
			q.Anchors++
		case props.RoleLowVariance:
			q.LowVariance++
		default:
			q.Correlation++
		}
		q.AvgEVPct += p.EVPct
		q.AvgWinProb += p.WinProb
	}
	q.AvgEVPct /= float64(len(picks))
	q.AvgWinProb /= float64(len(picks))

	for i := 0; i < len(picks); i++ {
		for j := i + 1; j < len(picks); j++ {
			q.CorrSum += b.priors.PairCorr(picks[i].Stat, picks[j].Stat, script)
		}
	}

	q.Overall = 0.4*(q.AvgWinProb*100) + 0.3*(q.AvgEVPct+100) + 0.3*(q.CorrSum*100/3)
	q.Grade = gradeFor(q)
	return q
}

// gradeFor wants one of each role, real correlation, and a solid average
// probability for an A; B relaxes each a notch.
func gradeFor(q Quality) Grade {
	roleMix := 0
	if q.Anchors >= 1 {
		roleMix++
	}
	if q.LowVariance >= 1 {
		roleMix++
	}
	if q.Correlation >= 1 {
		roleMix++
	}

	switch {
	case roleMix == 3 && q.CorrSum >= 0.35 && q.AvgWinProb >= 0.63:
		return GradeA
	case roleMix >= 2 && q.CorrSum >= 0.20 && q.AvgWinProb >= 0.60:
		return GradeB
	default:
		return GradeC
	}
}

// Suggestion is one ranked slip candidate.
type Suggestion struct {
	ID      string             `json:"id"`
	Picks   []props.Evaluation `json:"picks"`
	Quality Quality            `json:"quality"`
}

// Suggest evaluates every 3-combination of the pool and returns the top
// K, ordered by grade then overall score, with the pick-ID string as a
// deterministic final tie-break.
func (b *Builder) Suggest(pool []props.Evaluation, topK int, script Script) []Suggestion {
	if len(pool) < SlipSize || topK <= 0 {
		return nil
	}

	var out []Suggestion
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			for k := j + 1; k < len(pool); k++ {
				picks := []props.Evaluation{pool[i], pool[j], pool[k]}
				out = append(out, Suggestion{
					ID:      uuid.NewString(),
					Picks:   picks,
					Quality: b.Evaluate(picks, script),
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		gi, gj := gradeRank(out[i].Quality.Grade), gradeRank(out[j].Quality.Grade)
		if gi != gj {
			return gi < gj
		}
		if out[i].Quality.Overall != out[j].Quality.Overall {
			return out[i].Quality.Overall > out[j].Quality.Overall
		}
		return pickIDs(out[i]) < pickIDs(out[j])
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

func gradeRank(g Grade) int {
	switch g {
	case GradeA:
		return 0
	case GradeB:
		return 1
	default:
		return 2
	}
}

func pickIDs(s Suggestion) string {
	ids := make([]string, len(s.Picks))
	for i, p := range s.Picks {
		ids[i] = p.ID
	}
	return strings.Join(ids, ",")
}
