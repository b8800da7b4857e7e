package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/service"
)

func defaultTiers() []model.RiskTier {
	return model.DefaultRiskTiers(24)
}

func TestTierResolveFirstMatch(t *testing.T) {
	r := service.NewTierResolver()
	tiers := defaultTiers()

	cases := []struct {
		score float64
		code  string
		rank  int
	}{
		{score: 92, code: "low_risk", rank: 0},
		{score: 70.1, code: "low_risk", rank: 0},
		{score: 70, code: "moderate", rank: 1},
		{score: 55.1, code: "moderate", rank: 1},
		{score: 55, code: "high_risk", rank: 2},
		{score: 0, code: "high_risk", rank: 2},
	}
	for _, tc := range cases {
		res := r.Resolve(tiers, tc.score, nil)
		assert.Equal(t, tc.code, res.Tier.Code, "score %.1f", tc.score)
		assert.Equal(t, tc.rank, res.Rank, "score %.1f", tc.score)
		assert.False(t, res.Degraded)
		assert.Empty(t, res.TierBeforeDowngrade)
	}
}

func TestTierResolveGapFallsBackFlagged(t *testing.T) {
	r := service.NewTierResolver()
	tiers := defaultTiers()

	// 70.05 lands in the configured gap between moderate and low_risk.
	res := r.Resolve(tiers, 70.05, nil)
	assert.Equal(t, "low_risk", res.Tier.Code)
	assert.True(t, res.Degraded)
}

func TestTierTelecomDowngrade(t *testing.T) {
	r := service.NewTierResolver()
	tiers := defaultTiers()

	res := r.Resolve(tiers, 92, map[string]string{
		"delinquency_sector": "telecom_only",
	})

	assert.Equal(t, "high_risk", res.Tier.Code)
	assert.Equal(t, 2, res.Rank)
	assert.Equal(t, "low_risk", res.TierBeforeDowngrade)
}

func TestTierTelecomDowngradeNormalizesSector(t *testing.T) {
	r := service.NewTierResolver()
	tiers := defaultTiers()

	res := r.Resolve(tiers, 92, map[string]string{
		"delinquency_sector": "  Telecom_Only ",
	})
	assert.Equal(t, "high_risk", res.Tier.Code)
}

func TestTierTelecomDowngradeNoopInWorstTier(t *testing.T) {
	r := service.NewTierResolver()
	tiers := defaultTiers()

	res := r.Resolve(tiers, 30, map[string]string{
		"delinquency_sector": "telecom_only",
	})
	assert.Equal(t, "high_risk", res.Tier.Code)
	assert.Empty(t, res.TierBeforeDowngrade)
}

func TestTierOtherSectorDoesNotDowngrade(t *testing.T) {
	r := service.NewTierResolver()
	tiers := defaultTiers()

	res := r.Resolve(tiers, 92, map[string]string{
		"delinquency_sector": "financial",
	})
	assert.Equal(t, "low_risk", res.Tier.Code)
}
