package model_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/internal/domain/model"
)

func validCatalog() model.Catalog {
	return model.Catalog{
		ProductID: 7,
		Criteria: []model.Criterion{
			{Code: "a", FieldType: model.FieldTypeNumeric, Weight: 60, Active: true,
				Buckets: []model.Bucket{{Min: 0, Max: 100, Points: 100}}},
			{Code: "b", FieldType: model.FieldTypeNumeric, Weight: 40, Active: true,
				Buckets: []model.Bucket{{Min: 0, Max: 100, Points: 80}}},
			{Code: "c", FieldType: model.FieldTypeNumeric, Weight: 99, Active: false},
		},
	}
}

func TestCatalogValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validCatalog().Validate())
	})

	t.Run("inactive weights ignored", func(t *testing.T) {
		// The inactive criterion carries weight 99 and must not break the sum.
		assert.NoError(t, validCatalog().Validate())
	})

	t.Run("weights must sum to 100", func(t *testing.T) {
		c := validCatalog()
		c.Criteria[0].Weight = 59
		var cfgErr *model.ConfigurationError
		require.ErrorAs(t, c.Validate(), &cfgErr)
		assert.Equal(t, int64(7), cfgErr.ProductID)
	})

	t.Run("tolerance absorbs rounding", func(t *testing.T) {
		c := validCatalog()
		c.Criteria[0].Weight = 60.005
		assert.NoError(t, c.Validate())
	})

	t.Run("no active criteria", func(t *testing.T) {
		c := model.Catalog{ProductID: 7}
		var cfgErr *model.ConfigurationError
		assert.ErrorAs(t, c.Validate(), &cfgErr)
	})

	t.Run("weight outside range", func(t *testing.T) {
		c := validCatalog()
		c.Criteria[0].Weight = -5
		var cfgErr *model.ConfigurationError
		assert.ErrorAs(t, c.Validate(), &cfgErr)
	})
}

func TestCatalogMaxAttainableScore(t *testing.T) {
	// 60% of 100 points plus 40% of 80 points.
	assert.InDelta(t, 92, validCatalog().MaxAttainableScore(), 1e-9)
}

func TestBucketMatching(t *testing.T) {
	b := model.Bucket{Min: 10, Max: 20, Points: 50}
	assert.True(t, b.Contains(10))
	assert.True(t, b.Contains(20))
	assert.False(t, b.Contains(20.01))

	s := model.Bucket{Value: "salaried"}
	assert.True(t, s.MatchesValue(" Salaried "))
	assert.False(t, s.MatchesValue("independent"))
}

func TestValidateTiers(t *testing.T) {
	t.Run("default tiers cover the scale", func(t *testing.T) {
		assert.NoError(t, model.ValidateTiers(1, model.DefaultRiskTiers(24)))
	})

	t.Run("gap detected", func(t *testing.T) {
		tiers := []model.RiskTier{
			{Code: "good", ScoreMin: 60, ScoreMax: 100, Active: true},
			{Code: "bad", ScoreMin: 0, ScoreMax: 50, Active: true},
		}
		var cfgErr *model.ConfigurationError
		assert.ErrorAs(t, model.ValidateTiers(1, tiers), &cfgErr)
	})

	t.Run("empty", func(t *testing.T) {
		var cfgErr *model.ConfigurationError
		assert.ErrorAs(t, model.ValidateTiers(1, nil), &cfgErr)
	})
}

func TestTierRank(t *testing.T) {
	tiers := model.DefaultRiskTiers(24)
	assert.Equal(t, 0, model.TierRank(tiers, "low_risk"))
	assert.Equal(t, 2, model.TierRank(tiers, "high_risk"))
	assert.Equal(t, -1, model.TierRank(tiers, "unknown"))
}

func TestBucketOpenEndedBounds(t *testing.T) {
	t.Run("missing max decodes to +Inf", func(t *testing.T) {
		var b model.Bucket
		require.NoError(t, json.Unmarshal([]byte(`{"min": 700, "points": 100}`), &b))

		assert.True(t, math.IsInf(b.Max, 1))
		assert.True(t, b.Contains(800), "800 falls in the open-ended [700, +inf) bucket")
		assert.False(t, b.Contains(699))
	})

	t.Run("missing min decodes to -Inf", func(t *testing.T) {
		var b model.Bucket
		require.NoError(t, json.Unmarshal([]byte(`{"max": 499, "points": 5}`), &b))

		assert.True(t, math.IsInf(b.Min, -1))
		assert.True(t, b.Contains(0))
		assert.True(t, b.Contains(-10))
		assert.False(t, b.Contains(500))
	})

	t.Run("explicit zero bound is kept", func(t *testing.T) {
		var b model.Bucket
		require.NoError(t, json.Unmarshal([]byte(`{"min": 0, "max": 499, "points": 5}`), &b))

		assert.Equal(t, 0.0, b.Min)
		assert.False(t, b.Contains(-1))
	})

	t.Run("infinite bounds survive a round trip", func(t *testing.T) {
		orig := model.Bucket{Min: 700, Max: math.Inf(1), Points: 100}

		data, err := json.Marshal(orig)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "max")

		var back model.Bucket
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, orig, back)
		assert.True(t, back.Contains(800))
	})

	t.Run("criterion round trip keeps open buckets usable", func(t *testing.T) {
		cr := model.Criterion{
			Code: "bureau_score", FieldType: model.FieldTypeNumeric, Weight: 100, Active: true,
			Buckets: []model.Bucket{
				{Min: 700, Max: math.Inf(1), Points: 25},
				{Min: math.Inf(-1), Max: 699, Points: 5},
			},
		}

		data, err := json.Marshal(cr)
		require.NoError(t, err)

		var back model.Criterion
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.Buckets[0].Contains(812))
		assert.True(t, back.Buckets[1].Contains(300))
	})
}
