// Package rank scores a candidate pool and selects a diversity-capped
// top N, so the output stays explainable instead of piling onto one team
// or position.
package rank

// Candidate is one player in a ranking pass. Constructed from adapter
// data, scored once, then selected or discarded; never mutated after
// scoring.
type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	Position   string  `json:"position"`
	Score      float64 `json:"score"`
	MainSlate  bool    `json:"main_slate"`
	Commentary string  `json:"commentary,omitempty"`
	Matchup    string  `json:"matchup,omitempty"`
}
