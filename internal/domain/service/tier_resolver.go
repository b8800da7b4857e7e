package service

import (
	"strings"

	"github.com/loansi/scoring-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// TierResolver – maps a normalized score to a risk tier
// ---------------------------------------------------------------------------

// TierResolution carries the selected tier plus downgrade audit fields.
type TierResolution struct {
	Tier                model.RiskTier
	Rank                int
	TierBeforeDowngrade string
	Degraded            bool
}

// TierResolver selects a risk tier for a normalized score. Tiers are matched
// in configured order, first containing range wins. An applicant whose only
// delinquencies are with telecom creditors is forced to the worst tier
// regardless of score, keeping the computed tier for audit.
type TierResolver struct{}

// NewTierResolver returns a new resolver instance.
func NewTierResolver() *TierResolver {
	return &TierResolver{}
}

// Resolve picks the tier for the score. tiers must be non-empty and ordered;
// gaps are guarded by snapshot validation upstream.
func (r *TierResolver) Resolve(
	tiers []model.RiskTier,
	score float64,
	values map[string]string,
) TierResolution {
	res := r.match(tiers, score)

	if sector, ok := values[model.FieldDelinquencySector]; ok &&
		strings.EqualFold(strings.TrimSpace(sector), model.DelinquencySectorTelecomOnly) {
		worst := len(tiers) - 1
		if res.Rank != worst {
			return TierResolution{
				Tier:                tiers[worst],
				Rank:                worst,
				TierBeforeDowngrade: res.Tier.Code,
			}
		}
	}

	return res
}

// match finds the first tier containing the score. When no range matches the
// first configured tier is used as a flagged fallback.
func (r *TierResolver) match(tiers []model.RiskTier, score float64) TierResolution {
	for i, tier := range tiers {
		if tier.Contains(score) {
			return TierResolution{Tier: tier, Rank: i}
		}
	}
	return TierResolution{Tier: tiers[0], Rank: 0, Degraded: true}
}
