package dto

import (
	"time"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// EvaluateRequest carries one scoring run. Values are keyed by criterion
// code; currency values may include symbols and thousands separators.
type EvaluateRequest struct {
	ProductID         int64             `json:"product_id"`
	ApplicantName     string            `json:"applicant_name"`
	ApplicantDocument string            `json:"applicant_document"`
	RequestedAmount   int64             `json:"requested_amount"`
	TermUnits         float64           `json:"term_units"`
	Values            map[string]string `json:"values"`
}

// CommitteeDecisionRequest resolves a pending committee case.
type CommitteeDecisionRequest struct {
	EvaluationID     string `json:"evaluation_id"`
	Decision         string `json:"decision"` // "approve" | "reject"
	Reviewer         string `json:"reviewer"`
	ApprovedAmount   int64  `json:"approved_amount,omitempty"`
	AdjustedTierCode string `json:"adjusted_tier_code,omitempty"`
	Justification    string `json:"justification,omitempty"`
}

// QuoteRequest simulates loan economics without persisting anything.
type QuoteRequest struct {
	ProductID        int64   `json:"product_id"`
	Principal        int64   `json:"principal"`
	TermUnits        float64 `json:"term_units"`
	BirthDate        string  `json:"birth_date,omitempty"` // YYYY-MM-DD
	TierOverride     string  `json:"tier_override,omitempty"`
	DisbursementMode string  `json:"disbursement_mode,omitempty"` // "full" | "net"
	WithSchedule     bool    `json:"with_schedule,omitempty"`
}

// GetEvaluationRequest identifies an evaluation to retrieve.
type GetEvaluationRequest struct {
	EvaluationID string `json:"evaluation_id"`
}

// CommitteeQueueRequest lists a product's cases waiting for review.
type CommitteeQueueRequest struct {
	ProductID int64 `json:"product_id"`
}

// ApplicantHistoryRequest lists past evaluations of one applicant.
type ApplicantHistoryRequest struct {
	ApplicantDocument string `json:"applicant_document"`
}

// ListProductsRequest lists the configured credit lines.
type ListProductsRequest struct{}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CriterionScoreResponse is one criterion's contribution to the score.
type CriterionScoreResponse struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	RawValue string  `json:"raw_value"`
	Points   float64 `json:"points"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Detail   string  `json:"detail,omitempty"`
}

// CommitteeDecisionResponse mirrors the reviewer decision metadata.
type CommitteeDecisionResponse struct {
	Reviewer         string    `json:"reviewer"`
	DecidedAt        time.Time `json:"decided_at"`
	ApprovedAmount   int64     `json:"approved_amount,omitempty"`
	AdjustedTierCode string    `json:"adjusted_tier_code,omitempty"`
	Justification    string    `json:"justification,omitempty"`
}

// EconomicsResponse carries the computed loan costs, all in integer
// currency units.
type EconomicsResponse struct {
	Installment        int64 `json:"installment"`
	PaymentInstallment int64 `json:"payment_installment"`
	InsurancePremium   int64 `json:"insurance_premium"`
	GuaranteeFee       int64 `json:"guarantee_fee"`
	PlatformFee        int64 `json:"platform_fee"`
	TotalFinanced      int64 `json:"total_financed"`
	DisbursedAmount    int64 `json:"disbursed_amount"`
	TotalInterest      int64 `json:"total_interest"`
	TotalPayable       int64 `json:"total_payable"`
}

// EvaluationResponse is the external representation of an evaluation.
type EvaluationResponse struct {
	ID                  string                     `json:"id"`
	ProductID           int64                      `json:"product_id"`
	ApplicantName       string                     `json:"applicant_name"`
	ApplicantDocument   string                     `json:"applicant_document"`
	RequestedAmount     int64                      `json:"requested_amount"`
	TermUnits           float64                    `json:"term_units"`
	RawScore            float64                    `json:"raw_score"`
	NormalizedScore     float64                    `json:"normalized_score"`
	Criteria            []CriterionScoreResponse   `json:"criteria"`
	TierCode            string                     `json:"tier_code"`
	TierName            string                     `json:"tier_name"`
	TierBeforeDowngrade string                     `json:"tier_before_downgrade,omitempty"`
	TierDegraded        bool                       `json:"tier_degraded,omitempty"`
	Approved            bool                       `json:"approved"`
	Rejected            bool                       `json:"rejected"`
	RejectionReason     string                     `json:"rejection_reason,omitempty"`
	RejectionFactor     string                     `json:"rejection_factor,omitempty"`
	CommitteeState      string                     `json:"committee_state"`
	CommitteeReason     string                     `json:"committee_reason,omitempty"`
	Decision            *CommitteeDecisionResponse `json:"decision,omitempty"`
	Economics           EconomicsResponse          `json:"economics"`
	SnapshotVersion     int64                      `json:"snapshot_version"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// AmortizationEntryResponse represents a single schedule entry.
type AmortizationEntryResponse struct {
	Period           int       `json:"period"`
	DueDate          time.Time `json:"due_date"`
	Principal        int64     `json:"principal"`
	Interest         int64     `json:"interest"`
	Total            int64     `json:"total"`
	RemainingBalance int64     `json:"remaining_balance"`
}

// EvaluationListResponse wraps a set of evaluations.
type EvaluationListResponse struct {
	Evaluations []EvaluationResponse `json:"evaluations"`
}

// ProductResponse is the external representation of a credit line.
type ProductResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	AmountMin     int64   `json:"amount_min"`
	AmountMax     int64   `json:"amount_max"`
	TermMin       int     `json:"term_min"`
	TermMax       int     `json:"term_max"`
	TermUnit      string  `json:"term_unit"`
	BaseAnnualPct float64 `json:"base_annual_pct"`
	Active        bool    `json:"active"`
}

// ProductListResponse wraps the configured credit lines.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// QuoteResponse is the simulation result.
type QuoteResponse struct {
	ProductID        int64                       `json:"product_id"`
	Principal        int64                       `json:"principal"`
	TermUnits        float64                     `json:"term_units"`
	TermMonths       float64                     `json:"term_months"`
	TermUnit         string                      `json:"term_unit"`
	TierCode         string                      `json:"tier_code,omitempty"`
	AnnualPct        float64                     `json:"annual_pct"`
	MonthlyPct       float64                     `json:"monthly_pct"`
	DisbursementMode string                      `json:"disbursement_mode"`
	Economics        EconomicsResponse           `json:"economics"`
	Schedule         []AmortizationEntryResponse `json:"schedule,omitempty"`
}
