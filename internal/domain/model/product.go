package model

import "fmt"

// ---------------------------------------------------------------------------
// Product (credit line) configuration
// ---------------------------------------------------------------------------

// TermUnit is the unit a product's term is denominated in.
type TermUnit string

const (
	TermMonths TermUnit = "months"
	TermWeeks  TermUnit = "weeks"
)

// DisbursementMode selects how associated costs affect the financed amount.
type DisbursementMode string

const (
	// DisbursementFull adds guarantee, insurance and platform costs on top
	// of the requested amount; the applicant receives the full principal.
	DisbursementFull DisbursementMode = "full"
	// DisbursementNet deducts the costs from the disbursed amount; the
	// financed total stays at the requested principal.
	DisbursementNet DisbursementMode = "net"
)

// AssociatedCosts are per-product percentage costs charged alongside the
// principal. Zero percentages disable the charge.
type AssociatedCosts struct {
	InsuranceMonthlyPct float64 `json:"insurance_monthly_pct"`
	PlatformPct         float64 `json:"platform_pct"`
}

// ApprovalPolicy carries the per-product decision thresholds.
type ApprovalPolicy struct {
	// MinApprovalScore and the committee band are expressed on the raw
	// weighted-points scale, not the normalized 0-100 score.
	MinApprovalScore    float64 `json:"min_approval_score"`
	ManualReviewScore   float64 `json:"manual_review_score"`
	TelecomDebtCeiling  int64   `json:"telecom_debt_ceiling"`
	AgeMin              int     `json:"age_min"`
	AgeMax              int     `json:"age_max"`
	MaxDTIPct           float64 `json:"max_dti_pct"`
	MinBureauScore      int     `json:"min_bureau_score"`
	MaxInquiries3Months int     `json:"max_inquiries_3_months"`
	ScaleMax            float64 `json:"scale_max"`
}

// Product is a credit line: amount/term bounds, base rates and costs.
// Currency amounts are integer units; the system never deals in fractional
// currency.
type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	AmountMin      int64           `json:"amount_min"`
	AmountMax      int64           `json:"amount_max"`
	TermMin        int             `json:"term_min"`
	TermMax        int             `json:"term_max"`
	TermUnit       TermUnit        `json:"term_unit"`
	BaseAnnualPct  float64         `json:"base_annual_pct"`
	BaseMonthlyPct float64         `json:"base_monthly_pct"`
	BaseAvalPct    float64         `json:"base_aval_pct"`
	Costs          AssociatedCosts `json:"costs"`
	Policy         ApprovalPolicy  `json:"policy"`
	Active         bool            `json:"active"`
}

// Validate checks the product's structural invariants.
func (p Product) Validate() error {
	if p.AmountMin >= p.AmountMax {
		return NewConfigurationError(p.ID, "amount range [%d,%d] is empty", p.AmountMin, p.AmountMax)
	}
	if p.TermMin >= p.TermMax {
		return NewConfigurationError(p.ID, "term range [%d,%d] is empty", p.TermMin, p.TermMax)
	}
	if p.TermUnit != TermMonths && p.TermUnit != TermWeeks {
		return NewConfigurationError(p.ID, "unknown term unit %q", p.TermUnit)
	}
	return nil
}

// CheckAmount validates a requested principal against the product bounds.
func (p Product) CheckAmount(amount int64) error {
	if amount < p.AmountMin || amount > p.AmountMax {
		return &BusinessRuleViolation{
			Rule:    "amount_range",
			Message: fmt.Sprintf("amount %d outside [%d, %d]", amount, p.AmountMin, p.AmountMax),
		}
	}
	return nil
}

// CheckTerm validates a requested term (in the product's own unit).
func (p Product) CheckTerm(term float64) error {
	if term < float64(p.TermMin) || term > float64(p.TermMax) {
		return &BusinessRuleViolation{
			Rule:    "term_range",
			Message: fmt.Sprintf("term %.0f outside [%d, %d] %s", term, p.TermMin, p.TermMax, p.TermUnit),
		}
	}
	return nil
}
