package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/service"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

func boolPtr(b bool) *bool { return &b }

func testCatalog() model.Catalog {
	return model.Catalog{
		ProductID: 1,
		Criteria: []model.Criterion{
			{
				Code: "bureau_score", Name: "Bureau score",
				FieldType: model.FieldTypeNumeric, Weight: 40, Active: true, Order: 1,
				Buckets: []model.Bucket{
					{Min: 700, Max: math.Inf(1), Points: 100, Description: "excellent"},
					{Min: 500, Max: 699, Points: 60, Description: "fair"},
					{Min: math.Inf(-1), Max: 499, Points: 10, Description: "thin"},
				},
			},
			{
				Code: "dti", Name: "Debt to income",
				FieldType: model.FieldTypePercentage, Weight: 30, Active: true, Order: 2,
				Buckets: []model.Bucket{
					{Min: 0, Max: 20, Points: 100},
					{Min: 20.01, Max: 40, Points: 50},
					{Min: 40.01, Max: math.Inf(1), Points: 0},
				},
			},
			{
				Code: "employment_type", Name: "Employment type",
				FieldType: model.FieldTypeSelect, Weight: 20, Active: true, Order: 3,
				Buckets: []model.Bucket{
					{Value: "salaried", Points: 100},
					{Value: "independent", Points: 70},
				},
			},
			{
				Code: "has_references", Name: "Has references",
				FieldType: model.FieldTypeBoolean, Weight: 10, Active: true, Order: 4,
				Buckets: []model.Bucket{
					{BoolValue: boolPtr(true), Points: 100},
					{BoolValue: boolPtr(false), Points: 0},
				},
			},
			{
				Code: "disabled_one", Name: "Disabled",
				FieldType: model.FieldTypeNumeric, Weight: 55, Active: false,
			},
		},
	}
}

func TestScoreFullValues(t *testing.T) {
	n := service.NewScoreNormalizer(valueobject.ParseModeLenient)

	result, err := n.Score(testCatalog(), map[string]string{
		"bureau_score":    "720",
		"dti":             "35",
		"employment_type": "Salaried",
		"has_references":  "si",
	})
	require.NoError(t, err)

	// 40*1.00 + 30*0.50 + 20*1.00 + 10*1.00 = 85 of a max 100.
	assert.InDelta(t, 85, result.Raw, 1e-9)
	assert.InDelta(t, 100, result.MaxAttainable, 1e-9)
	assert.InDelta(t, 85, result.Normalized, 1e-9)
	assert.Len(t, result.Criteria, 4)
}

func TestScoreFirstMatchingBucketWins(t *testing.T) {
	n := service.NewScoreNormalizer(valueobject.ParseModeLenient)
	catalog := model.Catalog{
		ProductID: 1,
		Criteria: []model.Criterion{{
			Code: "overlap", FieldType: model.FieldTypeNumeric, Weight: 100, Active: true,
			Buckets: []model.Bucket{
				{Min: 0, Max: 50, Points: 80},
				{Min: 0, Max: 100, Points: 20},
			},
		}},
	}

	result, err := n.Score(catalog, map[string]string{"overlap": "30"})
	require.NoError(t, err)
	assert.InDelta(t, 80, result.Criteria[0].Points, 1e-9)
}

func TestScoreMissingValueLenient(t *testing.T) {
	n := service.NewScoreNormalizer(valueobject.ParseModeLenient)

	result, err := n.Score(testCatalog(), map[string]string{
		"bureau_score": "720",
	})
	require.NoError(t, err)
	assert.InDelta(t, 40, result.Raw, 1e-9)
}

func TestScoreMalformedValue(t *testing.T) {
	values := map[string]string{
		"bureau_score":    "not-a-number",
		"dti":             "10",
		"employment_type": "salaried",
		"has_references":  "true",
	}

	t.Run("lenient scores zero", func(t *testing.T) {
		n := service.NewScoreNormalizer(valueobject.ParseModeLenient)
		result, err := n.Score(testCatalog(), values)
		require.NoError(t, err)
		assert.InDelta(t, 60, result.Raw, 1e-9)
	})

	t.Run("strict fails the run", func(t *testing.T) {
		n := service.NewScoreNormalizer(valueobject.ParseModeStrict)
		_, err := n.Score(testCatalog(), values)
		var parseErr *valueobject.InputParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "bureau_score", parseErr.Criterion)
	})
}

func TestScoreWeightInvariantFailsClosed(t *testing.T) {
	n := service.NewScoreNormalizer(valueobject.ParseModeLenient)
	catalog := testCatalog()
	catalog.Criteria[0].Weight = 45 // sum now 105

	_, err := n.Score(catalog, map[string]string{"bureau_score": "720"})
	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

type goodPayerComposite struct{}

func (goodPayerComposite) Evaluate(values map[string]string) (float64, string, bool) {
	if values["internal_loans_paid"] == "2" && values["delinquency_days"] == "0" {
		return 100, "repaid internal loans, fully current", true
	}
	return 0, "", false
}

func TestScoreComposite(t *testing.T) {
	catalog := model.Catalog{
		ProductID: 1,
		Criteria: []model.Criterion{{
			Code: "internal_behavior", FieldType: model.FieldTypeComposite,
			Weight: 100, Active: true,
			Buckets: []model.Bucket{{Points: 100}},
		}},
	}

	t.Run("registered evaluator scores", func(t *testing.T) {
		n := service.NewScoreNormalizer(valueobject.ParseModeLenient)
		n.RegisterComposite("internal_behavior", goodPayerComposite{})

		result, err := n.Score(catalog, map[string]string{
			"internal_loans_paid": "2",
			"delinquency_days":    "0",
		})
		require.NoError(t, err)
		assert.InDelta(t, 100, result.Raw, 1e-9)
	})

	t.Run("unregistered composite scores zero", func(t *testing.T) {
		n := service.NewScoreNormalizer(valueobject.ParseModeLenient)

		result, err := n.Score(catalog, map[string]string{
			"internal_loans_paid": "2",
			"delinquency_days":    "0",
		})
		require.NoError(t, err)
		assert.Zero(t, result.Raw)
	})
}

func TestScoreNormalizedScalesToMaxAttainable(t *testing.T) {
	n := service.NewScoreNormalizer(valueobject.ParseModeLenient)
	catalog := model.Catalog{
		ProductID: 1,
		Criteria: []model.Criterion{{
			Code: "x", FieldType: model.FieldTypeNumeric, Weight: 100, Active: true,
			Buckets: []model.Bucket{
				{Min: 0, Max: 10, Points: 30},
				{Min: 10.01, Max: 100, Points: 120},
			},
		}},
	}

	result, err := n.Score(catalog, map[string]string{"x": "5"})
	require.NoError(t, err)
	// Raw 30 of a 120-point ceiling normalizes to 25, not 30.
	assert.InDelta(t, 120, result.MaxAttainable, 1e-9)
	assert.InDelta(t, 25, result.Normalized, 1e-9)
}
