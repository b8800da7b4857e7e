package event

import (
	"strconv"

	"github.com/loansi/scoring-engine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Evaluation Events
// ---------------------------------------------------------------------------

// EvaluationRecorded is raised when a scoring run is persisted.
type EvaluationRecorded struct {
	events.BaseEvent
	ProductID         int64   `json:"product_id"`
	ApplicantDocument string  `json:"applicant_document"`
	NormalizedScore   float64 `json:"normalized_score"`
	TierCode          string  `json:"tier_code"`
	Approved          bool    `json:"approved"`
}

func NewEvaluationRecorded(
	evaluationID string, productID int64, applicantDocument string,
	normalizedScore float64, tierCode string, approved bool,
) EvaluationRecorded {
	return EvaluationRecorded{
		BaseEvent:         events.NewBaseEvent("scoring.evaluation.recorded", evaluationID, "Evaluation"),
		ProductID:         productID,
		ApplicantDocument: applicantDocument,
		NormalizedScore:   normalizedScore,
		TierCode:          tierCode,
		Approved:          approved,
	}
}

// ---------------------------------------------------------------------------
// Committee Events
// ---------------------------------------------------------------------------

// CommitteeCaseOpened is raised when an evaluation is routed to manual review.
type CommitteeCaseOpened struct {
	events.BaseEvent
	ProductID         int64   `json:"product_id"`
	ApplicantDocument string  `json:"applicant_document"`
	Reason            string  `json:"reason"`
	RawScore          float64 `json:"raw_score"`
}

func NewCommitteeCaseOpened(
	evaluationID string, productID int64, applicantDocument, reason string, rawScore float64,
) CommitteeCaseOpened {
	return CommitteeCaseOpened{
		BaseEvent:         events.NewBaseEvent("scoring.committee.case_opened", evaluationID, "Evaluation"),
		ProductID:         productID,
		ApplicantDocument: applicantDocument,
		Reason:            reason,
		RawScore:          rawScore,
	}
}

// CommitteeCaseApproved is raised when a reviewer approves a pending case.
type CommitteeCaseApproved struct {
	events.BaseEvent
	ProductID         int64  `json:"product_id"`
	ApplicantDocument string `json:"applicant_document"`
	Reviewer          string `json:"reviewer"`
	ApprovedAmount    int64  `json:"approved_amount"`
	AdjustedTierCode  string `json:"adjusted_tier_code,omitempty"`
}

func NewCommitteeCaseApproved(
	evaluationID string, productID int64, applicantDocument, reviewer string,
	approvedAmount int64, adjustedTierCode string,
) CommitteeCaseApproved {
	return CommitteeCaseApproved{
		BaseEvent:         events.NewBaseEvent("scoring.committee.case_approved", evaluationID, "Evaluation"),
		ProductID:         productID,
		ApplicantDocument: applicantDocument,
		Reviewer:          reviewer,
		ApprovedAmount:    approvedAmount,
		AdjustedTierCode:  adjustedTierCode,
	}
}

// CommitteeCaseRejected is raised when a reviewer rejects a pending case.
type CommitteeCaseRejected struct {
	events.BaseEvent
	ProductID         int64  `json:"product_id"`
	ApplicantDocument string `json:"applicant_document"`
	Reviewer          string `json:"reviewer"`
	Justification     string `json:"justification"`
}

func NewCommitteeCaseRejected(
	evaluationID string, productID int64, applicantDocument, reviewer, justification string,
) CommitteeCaseRejected {
	return CommitteeCaseRejected{
		BaseEvent:         events.NewBaseEvent("scoring.committee.case_rejected", evaluationID, "Evaluation"),
		ProductID:         productID,
		ApplicantDocument: applicantDocument,
		Reviewer:          reviewer,
		Justification:     justification,
	}
}

// ---------------------------------------------------------------------------
// Configuration Events
// ---------------------------------------------------------------------------

// ConfigurationChanged is raised when a product's scoring configuration is
// updated, so caches can be invalidated across instances.
type ConfigurationChanged struct {
	events.BaseEvent
	ProductID int64  `json:"product_id"`
	Section   string `json:"section"`
	Version   int64  `json:"version"`
}

func NewConfigurationChanged(productID int64, section string, version int64) ConfigurationChanged {
	return ConfigurationChanged{
		BaseEvent: events.NewBaseEvent("scoring.configuration.changed", strconv.FormatInt(productID, 10), "ProductConfiguration"),
		ProductID: productID,
		Section:   section,
		Version:   version,
	}
}
