package model

import "fmt"

// ---------------------------------------------------------------------------
// Automatic rejection factors
// ---------------------------------------------------------------------------

// Operator is a comparison operator used by rejection factors.
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpEqual        Operator = "=="
)

// Valid reports whether the operator is one of the supported comparisons.
func (o Operator) Valid() bool {
	switch o {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpEqual:
		return true
	}
	return false
}

// Compare applies the operator to value and threshold.
func (o Operator) Compare(value, threshold float64) bool {
	switch o {
	case OpLess:
		return value < threshold
	case OpLessEqual:
		return value <= threshold
	case OpGreater:
		return value > threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpEqual:
		return value == threshold
	}
	return false
}

// RejectionFactor is a hard-stop condition on one criterion. Factors are
// product-scoped and evaluated in configured order; the first true
// condition rejects the application.
type RejectionFactor struct {
	CriterionCode string   `json:"criterion_code"`
	CriterionName string   `json:"criterion_name"`
	Operator      Operator `json:"operator"`
	Threshold     float64  `json:"threshold"`
	Message       string   `json:"message"`
	Active        bool     `json:"active"`
	Order         int      `json:"order"`
}

// Validate checks the factor's structural fields.
func (f RejectionFactor) Validate() error {
	if f.CriterionCode == "" {
		return fmt.Errorf("rejection factor missing criterion code")
	}
	if !f.Operator.Valid() {
		return fmt.Errorf("rejection factor %q: invalid operator %q", f.CriterionCode, f.Operator)
	}
	return nil
}

// RejectionResult is the outcome of running the rejection factors.
type RejectionResult struct {
	Rejected      bool    `json:"rejected"`
	Message       string  `json:"message,omitempty"`
	CriterionCode string  `json:"criterion_code,omitempty"`
	Value         float64 `json:"value,omitempty"`
	Threshold     float64 `json:"threshold,omitempty"`
}
