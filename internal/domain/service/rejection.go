package service

import (
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RejectionEvaluator – ordered hard-stop checks over applicant values
// ---------------------------------------------------------------------------

// RejectionEvaluator walks the product's rejection factors in configured
// order. The first factor whose condition holds rejects the application;
// factors whose value is missing or non-numeric are skipped.
type RejectionEvaluator struct{}

// NewRejectionEvaluator returns a new evaluator instance.
func NewRejectionEvaluator() *RejectionEvaluator {
	return &RejectionEvaluator{}
}

// Evaluate checks all active factors against the applicant values.
func (e *RejectionEvaluator) Evaluate(
	factors []model.RejectionFactor,
	values map[string]string,
) model.RejectionResult {
	for _, factor := range factors {
		if !factor.Active {
			continue
		}
		raw, ok := values[factor.CriterionCode]
		if !ok {
			continue
		}
		value, err := valueobject.ParseNumeric(raw)
		if err != nil {
			continue
		}
		if !factor.Operator.Compare(value, factor.Threshold) {
			continue
		}
		if e.suppressedByInternalBehavior(factor, value, values) {
			continue
		}
		return model.RejectionResult{
			Rejected:      true,
			Message:       factor.Message,
			CriterionCode: factor.CriterionCode,
			Value:         value,
			Threshold:     factor.Threshold,
		}
	}
	return model.RejectionResult{}
}

// suppressedByInternalBehavior implements the closed-credit exception: an
// applicant with no closed credits at the bureau is not rejected for that
// alone when their internal repayment history is strong. Checked only after
// the base factor has triggered.
func (e *RejectionEvaluator) suppressedByInternalBehavior(
	factor model.RejectionFactor,
	value float64,
	values map[string]string,
) bool {
	if factor.CriterionCode != model.FieldClosedCredits {
		return false
	}
	if factor.Operator != model.OpEqual || factor.Threshold != 0 || value != 0 {
		return false
	}

	loansPaid, err := numericField(values, model.FieldInternalLoansPaid)
	if err != nil || loansPaid < 1 {
		return false
	}
	maxDaysLate, err := numericField(values, model.FieldInternalMaxDaysLate)
	if err != nil || maxDaysLate > 5 {
		return false
	}
	delinquencyDays, err := numericField(values, model.FieldDelinquencyDays)
	if err != nil || delinquencyDays != 0 {
		return false
	}
	return true
}

func numericField(values map[string]string, code string) (float64, error) {
	raw, ok := values[code]
	if !ok {
		return 0, &valueobject.InputParseError{Criterion: code, Value: ""}
	}
	return valueobject.ParseNumeric(raw)
}
