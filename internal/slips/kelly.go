package slips

// DefaultKellyFraction is the fraction of full Kelly staked.
const DefaultKellyFraction = 0.25

// DefaultBankrollCap caps any single stake at this share of bankroll.
const DefaultBankrollCap = 0.05

// Stake is a sizing recommendation for one slip.
type Stake struct {
	KellyPct float64 `json:"kelly_pct"`
	Fraction float64 `json:"fraction"`
	Amount   float64 `json:"amount"`
	Capped   bool    `json:"capped"`
}

// KellyStake sizes a bet with fractional Kelly under a bankroll cap.
// decimalOdds is the full payout multiple; winProb the estimated hit
// probability. A non-positive edge stakes zero.
func KellyStake(winProb, decimalOdds, bankroll float64) Stake {
	return FractionalKellyStake(winProb, decimalOdds, bankroll, DefaultKellyFraction, DefaultBankrollCap)
}

// FractionalKellyStake is KellyStake with explicit fraction and cap.
func FractionalKellyStake(winProb, decimalOdds, bankroll, fraction, cap float64) Stake {
	s := Stake{Fraction: fraction}
	b := decimalOdds - 1
	if b <= 0 || bankroll <= 0 || winProb <= 0 || winProb >= 1 {
		return s
	}

	kelly := (b*winProb - (1 - winProb)) / b
	if kelly <= 0 {
		return s
	}
	s.KellyPct = kelly

	share := kelly * fraction
	if share > cap {
		share = cap
		s.Capped = true
	}
	s.Amount = bankroll * share
	return s
}
