package model

import "fmt"

// ---------------------------------------------------------------------------
// Domain error taxonomy
// ---------------------------------------------------------------------------

// ConfigurationError reports an invalid or incomplete scoring catalog, such
// as criterion weights not summing to 100 or tier ranges leaving gaps.
// Evaluations fail closed on it rather than approximating.
type ConfigurationError struct {
	ProductID int64
	Detail    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scoring configuration invalid for product %d: %s", e.ProductID, e.Detail)
}

// NewConfigurationError builds a ConfigurationError with a formatted detail.
func NewConfigurationError(productID int64, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{ProductID: productID, Detail: fmt.Sprintf(format, args...)}
}

// BusinessRuleViolation reports an attempted mutation that breaks a decision
// invariant, such as a committee approval exceeding the requested amount or
// upgrading the risk tier. The mutation is never applied.
type BusinessRuleViolation struct {
	Rule    string
	Message string
}

func (e *BusinessRuleViolation) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}
