package service

import (
	"math"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// ScoreNormalizer – domain service turning applicant values into a 0-100 score
// ---------------------------------------------------------------------------

// ScoreResult is the outcome of one scoring pass.
type ScoreResult struct {
	Raw           float64
	Normalized    float64
	MaxAttainable float64
	Criteria      []model.CriterionScore
}

// ScoreNormalizer evaluates a product's criteria catalog against raw
// applicant values. In lenient mode unparseable or missing values score zero
// points; in strict mode they fail the run with an InputParseError.
type ScoreNormalizer struct {
	mode       valueobject.ParseMode
	composites map[string]model.ConditionEvaluator
}

// NewScoreNormalizer returns a normalizer with the given parse mode.
func NewScoreNormalizer(mode valueobject.ParseMode) *ScoreNormalizer {
	return &ScoreNormalizer{
		mode:       mode,
		composites: make(map[string]model.ConditionEvaluator),
	}
}

// RegisterComposite installs the evaluator backing a composite criterion.
// Composite criteria with no registered evaluator score zero points.
func (n *ScoreNormalizer) RegisterComposite(code string, ev model.ConditionEvaluator) {
	n.composites[code] = ev
}

// Score runs the catalog against the applicant values. The catalog must
// already be validated; Score re-checks weights so a stale snapshot cannot
// slip through.
func (n *ScoreNormalizer) Score(catalog model.Catalog, values map[string]string) (ScoreResult, error) {
	if err := catalog.Validate(); err != nil {
		return ScoreResult{}, err
	}

	active := catalog.Active()
	result := ScoreResult{
		MaxAttainable: catalog.MaxAttainableScore(),
		Criteria:      make([]model.CriterionScore, 0, len(active)),
	}

	for _, criterion := range active {
		raw, present := values[criterion.Code]

		points, detail, err := n.evaluate(criterion, raw, present, values)
		if err != nil {
			return ScoreResult{}, err
		}

		weighted := points * (criterion.Weight / 100.0)
		result.Raw += weighted
		result.Criteria = append(result.Criteria, model.CriterionScore{
			Code:     criterion.Code,
			Name:     criterion.Name,
			RawValue: raw,
			Points:   points,
			Weight:   criterion.Weight,
			Weighted: weighted,
			Detail:   detail,
		})
	}

	if result.MaxAttainable > 0 {
		result.Normalized = result.Raw / result.MaxAttainable * 100
	}
	result.Normalized = math.Min(100, math.Max(0, result.Normalized))
	return result, nil
}

// evaluate resolves one criterion to bucket points. First matching bucket in
// catalog order wins.
func (n *ScoreNormalizer) evaluate(
	criterion model.Criterion,
	raw string,
	present bool,
	values map[string]string,
) (points float64, detail string, err error) {
	switch criterion.FieldType {
	case model.FieldTypeNumeric, model.FieldTypePercentage:
		if !present {
			return n.missing(criterion)
		}
		v, perr := valueobject.ParseNumeric(raw)
		if perr != nil {
			if n.mode.Strict() {
				return 0, "", &valueobject.InputParseError{Criterion: criterion.Code, Value: raw}
			}
			return 0, "", nil
		}
		for _, b := range criterion.Buckets {
			if b.Contains(v) {
				return b.Points, b.Description, nil
			}
		}
		return 0, "", nil

	case model.FieldTypeSelect:
		if !present {
			return n.missing(criterion)
		}
		for _, b := range criterion.Buckets {
			if b.MatchesValue(raw) {
				return b.Points, b.Description, nil
			}
		}
		return 0, "", nil

	case model.FieldTypeBoolean:
		if !present {
			return n.missing(criterion)
		}
		v, perr := valueobject.ParseBool(raw)
		if perr != nil {
			if n.mode.Strict() {
				return 0, "", &valueobject.InputParseError{Criterion: criterion.Code, Value: raw}
			}
			return 0, "", nil
		}
		for _, b := range criterion.Buckets {
			if b.BoolValue != nil && *b.BoolValue == v {
				return b.Points, b.Description, nil
			}
		}
		return 0, "", nil

	case model.FieldTypeComposite:
		ev, ok := n.composites[criterion.Code]
		if !ok {
			return 0, "", nil
		}
		p, d, matched := ev.Evaluate(values)
		if !matched {
			return 0, "", nil
		}
		return p, d, nil
	}

	return 0, "", nil
}

func (n *ScoreNormalizer) missing(criterion model.Criterion) (float64, string, error) {
	if n.mode.Strict() {
		return 0, "", &valueobject.InputParseError{Criterion: criterion.Code, Value: ""}
	}
	return 0, "", nil
}
