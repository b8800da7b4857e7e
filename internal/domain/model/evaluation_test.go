package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

func newPendingEvaluation(t *testing.T) model.Evaluation {
	t.Helper()
	return model.NewEvaluation(model.NewEvaluationParams{
		ProductID:         1,
		ApplicantName:     "Maria Lopez",
		ApplicantDocument: "10203040",
		RequestedAmount:   2_000_000,
		TermUnits:         12,
		RawScore:          14.5,
		NormalizedScore:   62.3,
		TierName:          "Moderate",
		TierCode:          "moderate",
		TierRank:          1,
		Approved:          true,
		CommitteePending:  true,
		CommitteeReason:   "score 14.50 within manual review band [10, 17)",
		SnapshotVersion:   3,
		Now:               time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
}

func TestNewEvaluationEmitsEvents(t *testing.T) {
	eval := newPendingEvaluation(t)

	require.Len(t, eval.DomainEvents(), 2)
	assert.Equal(t, "scoring.evaluation.recorded", eval.DomainEvents()[0].EventType())
	assert.Equal(t, "scoring.committee.case_opened", eval.DomainEvents()[1].EventType())
	assert.Equal(t, eval.ID(), eval.DomainEvents()[0].AggregateID())

	assert.Equal(t, valueobject.CommitteeStatePending, eval.CommitteeState())
	assert.True(t, eval.Approved(), "approval is held while the case is pending")
	assert.Equal(t, 1, eval.Version())
}

func TestNewEvaluationAutomaticDecisionSkipsCommittee(t *testing.T) {
	eval := model.NewEvaluation(model.NewEvaluationParams{
		ProductID:       1,
		RequestedAmount: 1_000_000,
		RawScore:        22,
		Approved:        true,
		Now:             time.Now().UTC(),
	})

	assert.Equal(t, valueobject.CommitteeStateNone, eval.CommitteeState())
	require.Len(t, eval.DomainEvents(), 1)
	assert.Equal(t, "scoring.evaluation.recorded", eval.DomainEvents()[0].EventType())
}

func TestApproveByCommittee(t *testing.T) {
	eval := newPendingEvaluation(t)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	approved, err := eval.ApproveByCommittee("ana.reviewer", 1_500_000, "", "", -1, "income verified", now)
	require.NoError(t, err)

	assert.Equal(t, valueobject.CommitteeStateApproved, approved.CommitteeState())
	assert.True(t, approved.Approved())
	require.NotNil(t, approved.Decision())
	assert.Equal(t, "ana.reviewer", approved.Decision().Reviewer)
	assert.Equal(t, int64(1_500_000), approved.Decision().ApprovedAmount)

	// The original copy is untouched.
	assert.Equal(t, valueobject.CommitteeStatePending, eval.CommitteeState())

	last := approved.DomainEvents()[len(approved.DomainEvents())-1]
	assert.Equal(t, "scoring.committee.case_approved", last.EventType())
}

func TestApproveByCommitteeDefaultsToRequestedAmount(t *testing.T) {
	eval := newPendingEvaluation(t)

	approved, err := eval.ApproveByCommittee("ana", 0, "", "", -1, "", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, eval.RequestedAmount(), approved.Decision().ApprovedAmount)
}

func TestApproveByCommitteeRejectsAmountAboveRequested(t *testing.T) {
	eval := newPendingEvaluation(t)

	_, err := eval.ApproveByCommittee("ana", 3_000_000, "", "", -1, "", time.Now().UTC())
	var ruleErr *model.BusinessRuleViolation
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "committee_amount", ruleErr.Rule)
}

func TestApproveByCommitteeTierAdjustment(t *testing.T) {
	eval := newPendingEvaluation(t) // current tier moderate, rank 1
	now := time.Now().UTC()

	t.Run("downgrade allowed", func(t *testing.T) {
		approved, err := eval.ApproveByCommittee("ana", 0, "high_risk", "High Risk", 2, "", now)
		require.NoError(t, err)
		assert.Equal(t, "high_risk", approved.TierCode())
		assert.Equal(t, "High Risk", approved.TierName(), "persisted name follows the adjusted tier")
		assert.Equal(t, 2, approved.TierRank())
		assert.Equal(t, "moderate", approved.TierBeforeDowngrade())
	})

	t.Run("upgrade refused", func(t *testing.T) {
		_, err := eval.ApproveByCommittee("ana", 0, "low_risk", "Low Risk", 0, "", now)
		var ruleErr *model.BusinessRuleViolation
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, "committee_tier", ruleErr.Rule)
	})

	t.Run("unknown tier refused", func(t *testing.T) {
		_, err := eval.ApproveByCommittee("ana", 0, "nonexistent", "", -1, "", now)
		var ruleErr *model.BusinessRuleViolation
		require.ErrorAs(t, err, &ruleErr)
	})
}

func TestRejectByCommittee(t *testing.T) {
	eval := newPendingEvaluation(t)
	now := time.Now().UTC()

	rejected, err := eval.RejectByCommittee("ana", "income not verifiable", now)
	require.NoError(t, err)

	assert.Equal(t, valueobject.CommitteeStateRejected, rejected.CommitteeState())
	assert.False(t, rejected.Approved())
	assert.Equal(t, "income not verifiable", rejected.Decision().Justification)
}

func TestRejectByCommitteeRequiresJustification(t *testing.T) {
	eval := newPendingEvaluation(t)

	_, err := eval.RejectByCommittee("ana", "   ", time.Now().UTC())
	var ruleErr *model.BusinessRuleViolation
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "committee_justification", ruleErr.Rule)
}

func TestCommitteeTransitionsAreTerminal(t *testing.T) {
	eval := newPendingEvaluation(t)
	now := time.Now().UTC()

	approved, err := eval.ApproveByCommittee("ana", 0, "", "", -1, "", now)
	require.NoError(t, err)

	_, err = approved.ApproveByCommittee("ana", 0, "", "", -1, "", now)
	assert.ErrorIs(t, err, valueobject.ErrInvalidCommitteeTransition)

	_, err = approved.RejectByCommittee("ana", "changed my mind", now)
	assert.ErrorIs(t, err, valueobject.ErrInvalidCommitteeTransition)
}

func TestCommitteeTransitionRequiresPendingState(t *testing.T) {
	eval := model.NewEvaluation(model.NewEvaluationParams{
		ProductID: 1,
		Approved:  true,
		Now:       time.Now().UTC(),
	})

	_, err := eval.ApproveByCommittee("ana", 0, "", "", -1, "", time.Now().UTC())
	assert.ErrorIs(t, err, valueobject.ErrInvalidCommitteeTransition)
}

func TestEvaluationValueIsolation(t *testing.T) {
	values := map[string]string{"age": "40"}
	eval := model.NewEvaluation(model.NewEvaluationParams{
		ProductID: 1,
		Values:    values,
		Now:       time.Now().UTC(),
	})

	values["age"] = "99"
	assert.Equal(t, "40", eval.Values()["age"])

	got := eval.Values()
	got["age"] = "12"
	assert.Equal(t, "40", eval.Values()["age"])
}

func TestClearEvents(t *testing.T) {
	eval := newPendingEvaluation(t)
	cleared := eval.ClearEvents()

	assert.Empty(t, cleared.DomainEvents())
	assert.Len(t, eval.DomainEvents(), 2)
}

func TestReconstructEvaluationEmitsNoEvents(t *testing.T) {
	eval := model.ReconstructEvaluation(model.ReconstructEvaluationParams{
		ID:             "eval-1",
		ProductID:      1,
		CommitteeState: valueobject.CommitteeStatePending,
		Version:        4,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	})

	assert.Empty(t, eval.DomainEvents())
	assert.Equal(t, 4, eval.Version())
}
