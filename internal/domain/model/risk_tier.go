package model

import "math"

// ---------------------------------------------------------------------------
// Risk tiers
// ---------------------------------------------------------------------------

// RiskTier is a risk classification bracket carrying differentiated
// interest and guarantee terms. Tiers are kept in configured order, best
// first; the slice index is the tier's rank and a larger rank is worse.
type RiskTier struct {
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	ScoreMin   float64 `json:"score_min"`
	ScoreMax   float64 `json:"score_max"`
	AnnualPct  float64 `json:"annual_pct"`
	MonthlyPct float64 `json:"monthly_pct"`
	AvalPct    float64 `json:"aval_pct"`
	Color      string  `json:"color"`
	Order      int     `json:"order"`
	Active     bool    `json:"active"`
}

// Contains reports whether a normalized score falls inside the tier band.
func (t RiskTier) Contains(score float64) bool {
	return t.ScoreMin <= score && score <= t.ScoreMax
}

// TierRank returns the rank (configured-order index) of the tier with the
// given code, or -1 when absent.
func TierRank(tiers []RiskTier, code string) int {
	for i, t := range tiers {
		if t.Code == code {
			return i
		}
	}
	return -1
}

// ValidateTiers checks that a product's tiers partition the 0-100 score
// range without gaps. Overlaps are tolerated because first-match ordering
// resolves them, but a band no tier reaches would force the degraded
// fallback for a whole score range, so gaps fail the configuration. Band
// edges are configured at one-decimal precision, so seams narrower than
// 0.1 are not treated as gaps.
func ValidateTiers(productID int64, tiers []RiskTier) error {
	if len(tiers) == 0 {
		return NewConfigurationError(productID, "no risk tiers configured")
	}

	// Probe band edges plus the next one-decimal step past each band.
	probes := []float64{0, 100}
	for _, t := range tiers {
		probes = append(probes, t.ScoreMin, t.ScoreMax)
		probes = append(probes, math.Round((t.ScoreMax+0.1)*10)/10)
	}
	for _, p := range probes {
		if p < 0 || p > 100 {
			continue
		}
		covered := false
		for _, t := range tiers {
			if t.Contains(p) {
				covered = true
				break
			}
		}
		if !covered {
			return NewConfigurationError(productID, "risk tiers leave score %.2f uncovered", p)
		}
	}
	return nil
}
