package rank

import "sort"

// Default diversity caps and the slate tie-break bonus.
const (
	DefaultTeamCap      = 2
	DefaultPositionCap  = 2
	DefaultFlexPosition = "WR"
	DefaultSlateBonus   = 0.1
)

// Selector picks the top N candidates under per-team and per-position
// diversity caps. The flex-eligible position carries its own cap,
// tracked independently of the general position cap.
type Selector struct {
	TeamCap      int
	PositionCap  int
	FlexPosition string
	FlexCap      int

	// SlateBonus is added to the sort key of main-slate candidates so
	// slate preference breaks ties deterministically instead of needing a
	// second comparator pass.
	SlateBonus float64
}

// NewSelector returns a selector with the default caps.
func NewSelector() *Selector {
	return &Selector{
		TeamCap:      DefaultTeamCap,
		PositionCap:  DefaultPositionCap,
		FlexPosition: DefaultFlexPosition,
		FlexCap:      DefaultPositionCap,
		SlateBonus:   DefaultSlateBonus,
	}
}

// SelectTopN sorts the pool descending by score (with the slate bonus
// baked into the key and candidate ID as the final tie-break) and then
// greedily admits candidates that fit under every cap, stopping at n or
// pool exhaustion. The input slice is not modified.
func (s *Selector) SelectTopN(pool []Candidate, n int) []Candidate {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	sorted := make([]Candidate, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := s.sortKey(sorted[i]), s.sortKey(sorted[j])
		if a != b {
			return a > b
		}
		return sorted[i].ID < sorted[j].ID
	})

	selected := make([]Candidate, 0, n)
	teamCount := make(map[string]int)
	posCount := make(map[string]int)
	flexCount := 0

	for _, c := range sorted {
		if len(selected) == n {
			break
		}
		if teamCount[c.Team] >= s.TeamCap {
			continue
		}
		if c.Position == s.FlexPosition {
			if flexCount >= s.FlexCap {
				continue
			}
		} else if posCount[c.Position] >= s.PositionCap {
			continue
		}

		selected = append(selected, c)
		teamCount[c.Team]++
		if c.Position == s.FlexPosition {
			flexCount++
		} else {
			posCount[c.Position]++
		}
	}

	return selected
}

func (s *Selector) sortKey(c Candidate) float64 {
	key := c.Score
	if c.MainSlate {
		key += s.SlateBonus
	}
	return key
}
