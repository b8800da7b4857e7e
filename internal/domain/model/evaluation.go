package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loansi/scoring-engine/internal/domain/event"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Evaluation aggregate root
// ---------------------------------------------------------------------------

// CommitteeDecision is the reviewer metadata attached when a pending case is
// resolved.
type CommitteeDecision struct {
	Reviewer         string    `json:"reviewer"`
	DecidedAt        time.Time `json:"decided_at"`
	ApprovedAmount   int64     `json:"approved_amount,omitempty"`
	AdjustedTierCode string    `json:"adjusted_tier_code,omitempty"`
	Justification    string    `json:"justification,omitempty"`
}

// LoanEconomics are the computed financial terms of an evaluation or quote.
// All currency fields are integer units.
type LoanEconomics struct {
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

// Evaluation is an immutable aggregate recording one scoring run. Every
// mutation returns a new copy. Evaluations are never deleted, only
// superseded; after creation only the committee decision fields change.
type Evaluation struct {
	id                  string
	productID           int64
	applicantName       string
	applicantDocument   string
	requestedAmount     int64
	termUnits           float64
	values              map[string]string
	criterionScores     []CriterionScore
	rawScore            float64
	normalizedScore     float64
	tierName            string
	tierCode            string
	tierRank            int
	tierBeforeDowngrade string
	tierDegraded        bool
	approved            bool
	autoRejected        bool
	rejectionReason     string
	rejectionFactor     string
	committeeState      valueobject.CommitteeState
	committeeReason     string
	decision            *CommitteeDecision
	economics           LoanEconomics
	snapshotVersion     int64
	version             int
	createdAt           time.Time
	updatedAt           time.Time
	domainEvents        []event.DomainEvent
}

// NewEvaluationParams carries the orchestrator's computed decision into the
// aggregate constructor.
type NewEvaluationParams struct {
	ProductID           int64
	ApplicantName       string
	ApplicantDocument   string
	RequestedAmount     int64
	TermUnits           float64
	Values              map[string]string
	CriterionScores     []CriterionScore
	RawScore            float64
	NormalizedScore     float64
	TierName            string
	TierCode            string
	TierRank            int
	TierBeforeDowngrade string
	TierDegraded        bool
	Approved            bool
	AutoRejected        bool
	RejectionReason     string
	RejectionFactor     string
	CommitteePending    bool
	CommitteeReason     string
	Economics           LoanEconomics
	SnapshotVersion     int64
	Now                 time.Time
}

// NewEvaluation creates and records a fresh evaluation. When the case is
// routed to committee it starts in PENDING with approval held true for
// audit, pending a reviewer decision.
func NewEvaluation(p NewEvaluationParams) Evaluation {
	state := valueobject.CommitteeStateNone
	if p.CommitteePending {
		state = valueobject.CommitteeStatePending
	}

	e := Evaluation{
		id:                  uuid.New().String(),
		productID:           p.ProductID,
		applicantName:       p.ApplicantName,
		applicantDocument:   p.ApplicantDocument,
		requestedAmount:     p.RequestedAmount,
		termUnits:           p.TermUnits,
		values:              copyValues(p.Values),
		criterionScores:     append([]CriterionScore(nil), p.CriterionScores...),
		rawScore:            p.RawScore,
		normalizedScore:     p.NormalizedScore,
		tierName:            p.TierName,
		tierCode:            p.TierCode,
		tierRank:            p.TierRank,
		tierBeforeDowngrade: p.TierBeforeDowngrade,
		tierDegraded:        p.TierDegraded,
		approved:            p.Approved,
		autoRejected:        p.AutoRejected,
		rejectionReason:     p.RejectionReason,
		rejectionFactor:     p.RejectionFactor,
		committeeState:      state,
		committeeReason:     p.CommitteeReason,
		economics:           p.Economics,
		snapshotVersion:     p.SnapshotVersion,
		version:             1,
		createdAt:           p.Now,
		updatedAt:           p.Now,
	}

	e.domainEvents = append(e.domainEvents, event.NewEvaluationRecorded(
		e.id, e.productID, e.applicantDocument, e.normalizedScore, e.tierCode, e.approved,
	))
	if p.CommitteePending {
		e.domainEvents = append(e.domainEvents, event.NewCommitteeCaseOpened(
			e.id, e.productID, e.applicantDocument, p.CommitteeReason, e.rawScore,
		))
	}
	return e
}

// ReconstructEvaluationParams rebuilds an aggregate from persistence.
type ReconstructEvaluationParams struct {
	ID                  string
	ProductID           int64
	ApplicantName       string
	ApplicantDocument   string
	RequestedAmount     int64
	TermUnits           float64
	Values              map[string]string
	CriterionScores     []CriterionScore
	RawScore            float64
	NormalizedScore     float64
	TierName            string
	TierCode            string
	TierRank            int
	TierBeforeDowngrade string
	TierDegraded        bool
	Approved            bool
	AutoRejected        bool
	RejectionReason     string
	RejectionFactor     string
	CommitteeState      valueobject.CommitteeState
	CommitteeReason     string
	Decision            *CommitteeDecision
	Economics           LoanEconomics
	SnapshotVersion     int64
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructEvaluation rebuilds an aggregate without side-effects.
func ReconstructEvaluation(p ReconstructEvaluationParams) Evaluation {
	return Evaluation{
		id:                  p.ID,
		productID:           p.ProductID,
		applicantName:       p.ApplicantName,
		applicantDocument:   p.ApplicantDocument,
		requestedAmount:     p.RequestedAmount,
		termUnits:           p.TermUnits,
		values:              copyValues(p.Values),
		criterionScores:     append([]CriterionScore(nil), p.CriterionScores...),
		rawScore:            p.RawScore,
		normalizedScore:     p.NormalizedScore,
		tierName:            p.TierName,
		tierCode:            p.TierCode,
		tierRank:            p.TierRank,
		tierBeforeDowngrade: p.TierBeforeDowngrade,
		tierDegraded:        p.TierDegraded,
		approved:            p.Approved,
		autoRejected:        p.AutoRejected,
		rejectionReason:     p.RejectionReason,
		rejectionFactor:     p.RejectionFactor,
		committeeState:      p.CommitteeState,
		committeeReason:     p.CommitteeReason,
		decision:            p.Decision,
		economics:           p.Economics,
		snapshotVersion:     p.SnapshotVersion,
		version:             p.Version,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Committee state transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// ApproveByCommittee transitions PENDING -> APPROVED. The approved amount
// may not exceed the requested amount, and the risk tier may only be
// downgraded: adjustedRank must not be better (smaller) than the current
// tier rank.
func (e Evaluation) ApproveByCommittee(
	reviewer string,
	approvedAmount int64,
	adjustedTierCode string,
	adjustedTierName string,
	adjustedRank int,
	comment string,
	now time.Time,
) (Evaluation, error) {
	if !e.committeeState.Equal(valueobject.CommitteeStatePending) {
		return e, valueobject.ErrInvalidCommitteeTransition
	}
	if approvedAmount == 0 {
		approvedAmount = e.requestedAmount
	}
	if approvedAmount < 0 || approvedAmount > e.requestedAmount {
		return e, &BusinessRuleViolation{
			Rule:    "committee_amount",
			Message: "approved amount exceeds requested amount",
		}
	}
	if adjustedTierCode != "" && adjustedTierCode != e.tierCode {
		if adjustedRank < 0 {
			return e, &BusinessRuleViolation{
				Rule:    "committee_tier",
				Message: "adjusted tier not found in product configuration",
			}
		}
		if adjustedRank < e.tierRank {
			return e, &BusinessRuleViolation{
				Rule:    "committee_tier",
				Message: "committee review may only downgrade the risk tier",
			}
		}
	}

	next := e
	next.committeeState = valueobject.CommitteeStateApproved
	next.approved = true
	next.decision = &CommitteeDecision{
		Reviewer:         reviewer,
		DecidedAt:        now,
		ApprovedAmount:   approvedAmount,
		AdjustedTierCode: adjustedTierCode,
		Justification:    comment,
	}
	if adjustedTierCode != "" && adjustedTierCode != e.tierCode {
		next.tierBeforeDowngrade = e.tierCode
		next.tierCode = adjustedTierCode
		next.tierName = adjustedTierName
		next.tierRank = adjustedRank
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(e.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewCommitteeCaseApproved(
		e.id, e.productID, e.applicantDocument, reviewer, approvedAmount, adjustedTierCode,
	))
	return next, nil
}

// RejectByCommittee transitions PENDING -> REJECTED. A non-empty
// justification is required.
func (e Evaluation) RejectByCommittee(reviewer, justification string, now time.Time) (Evaluation, error) {
	if !e.committeeState.Equal(valueobject.CommitteeStatePending) {
		return e, valueobject.ErrInvalidCommitteeTransition
	}
	if strings.TrimSpace(justification) == "" {
		return e, &BusinessRuleViolation{
			Rule:    "committee_justification",
			Message: "rejection requires a justification",
		}
	}

	next := e
	next.committeeState = valueobject.CommitteeStateRejected
	next.approved = false
	next.decision = &CommitteeDecision{
		Reviewer:      reviewer,
		DecidedAt:     now,
		Justification: justification,
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(e.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewCommitteeCaseRejected(
		e.id, e.productID, e.applicantDocument, reviewer, justification,
	))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (e Evaluation) ID() string                            { return e.id }
func (e Evaluation) ProductID() int64                      { return e.productID }
func (e Evaluation) ApplicantName() string                 { return e.applicantName }
func (e Evaluation) ApplicantDocument() string             { return e.applicantDocument }
func (e Evaluation) RequestedAmount() int64                { return e.requestedAmount }
func (e Evaluation) TermUnits() float64                    { return e.termUnits }
func (e Evaluation) Values() map[string]string             { return copyValues(e.values) }
func (e Evaluation) CriterionScores() []CriterionScore     { return append([]CriterionScore(nil), e.criterionScores...) }
func (e Evaluation) RawScore() float64                     { return e.rawScore }
func (e Evaluation) NormalizedScore() float64              { return e.normalizedScore }
func (e Evaluation) TierName() string                      { return e.tierName }
func (e Evaluation) TierCode() string                      { return e.tierCode }
func (e Evaluation) TierRank() int                         { return e.tierRank }
func (e Evaluation) TierBeforeDowngrade() string           { return e.tierBeforeDowngrade }
func (e Evaluation) TierDegraded() bool                    { return e.tierDegraded }
func (e Evaluation) Approved() bool                        { return e.approved }
func (e Evaluation) AutoRejected() bool                    { return e.autoRejected }
func (e Evaluation) RejectionReason() string               { return e.rejectionReason }
func (e Evaluation) RejectionFactor() string               { return e.rejectionFactor }
func (e Evaluation) CommitteeState() valueobject.CommitteeState { return e.committeeState }
func (e Evaluation) CommitteeReason() string               { return e.committeeReason }
func (e Evaluation) Decision() *CommitteeDecision          { return e.decision }
func (e Evaluation) Economics() LoanEconomics              { return e.economics }
func (e Evaluation) SnapshotVersion() int64                { return e.snapshotVersion }
func (e Evaluation) Version() int                          { return e.version }
func (e Evaluation) CreatedAt() time.Time                  { return e.createdAt }
func (e Evaluation) UpdatedAt() time.Time                  { return e.updatedAt }
func (e Evaluation) DomainEvents() []event.DomainEvent     { return e.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (e Evaluation) ClearEvents() Evaluation {
	next := e
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyValues(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
