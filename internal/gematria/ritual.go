package gematria

// DefaultRitualCatalog is the fixed ascending catalog of numerologically
// significant integers used for proximity scoring.
func DefaultRitualCatalog() []int {
	return []int{
		7, 13, 23, 33, 40, 42, 66, 77, 88, 93,
		111, 119, 144, 156, 187, 201, 222, 322, 333, 444,
		555, 666, 777, 888, 911, 999,
	}
}

// AlignmentFeatures captures how close a name's ciphers land to the
// ritual catalog and the game date.
type AlignmentFeatures struct {
	ExactMatch      bool    `json:"exact_match"`
	RitualProximity int     `json:"ritual_proximity"`
	RitualHit       bool    `json:"ritual_hit"`
	RitualStrength  float64 `json:"ritual_strength"`
}

// ComputeAlignment scans all four cipher values against the catalog for
// the minimum absolute distance. A hit is distance zero; strength decays
// as 1/(1+distance). ExactMatch is set when any cipher value lands on the
// date's sum or its reduced form.
func ComputeAlignment(ciphers CipherSet, date DateNumerology, catalog []int) AlignmentFeatures {
	if len(catalog) == 0 {
		catalog = DefaultRitualCatalog()
	}

	minDist := -1
	exact := false
	for _, v := range ciphers.Values() {
		if v == date.Sum || v == date.Reduced {
			exact = true
		}
		if d := distanceToCatalog(v, catalog); minDist < 0 || d < minDist {
			minDist = d
		}
	}
	if minDist < 0 {
		minDist = 0
	}

	return AlignmentFeatures{
		ExactMatch:      exact,
		RitualProximity: minDist,
		RitualHit:       minDist == 0,
		RitualStrength:  1.0 / float64(1+minDist),
	}
}

// distanceToCatalog walks the ascending catalog for the closest entry.
func distanceToCatalog(value int, catalog []int) int {
	best := abs(value - catalog[0])
	for _, c := range catalog[1:] {
		d := abs(value - c)
		if d < best {
			best = d
		}
		// Catalog is ascending; once past the value, distance only grows.
		if c > value {
			break
		}
	}
	return best
}
