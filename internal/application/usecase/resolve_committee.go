package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// ResolveCommitteeUseCase applies a reviewer decision to a pending case.
type ResolveCommitteeUseCase struct {
	evalRepo  port.EvaluationRepository
	snapshots port.SnapshotProvider
}

// NewResolveCommitteeUseCase wires dependencies.
func NewResolveCommitteeUseCase(
	evalRepo port.EvaluationRepository,
	snapshots port.SnapshotProvider,
) *ResolveCommitteeUseCase {
	return &ResolveCommitteeUseCase{evalRepo: evalRepo, snapshots: snapshots}
}

// Execute loads the evaluation and applies the approve or reject transition.
func (uc *ResolveCommitteeUseCase) Execute(
	ctx context.Context,
	req dto.CommitteeDecisionRequest,
) (dto.EvaluationResponse, error) {
	now := time.Now().UTC()

	eval, err := uc.evalRepo.FindByID(ctx, req.EvaluationID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("find evaluation: %w", err)
	}

	switch req.Decision {
	case "approve":
		adjustedRank := -1
		adjustedTierName := ""
		if req.AdjustedTierCode != "" {
			snap, err := uc.snapshots.Snapshot(ctx, eval.ProductID())
			if err != nil {
				return dto.EvaluationResponse{}, fmt.Errorf("load configuration snapshot: %w", err)
			}
			adjustedRank = model.TierRank(snap.ActiveTiers(), req.AdjustedTierCode)
			if adjustedRank >= 0 {
				adjustedTierName = snap.ActiveTiers()[adjustedRank].Name
			}
		}
		eval, err = eval.ApproveByCommittee(
			req.Reviewer, req.ApprovedAmount, req.AdjustedTierCode, adjustedTierName,
			adjustedRank, req.Justification, now,
		)
	case "reject":
		eval, err = eval.RejectByCommittee(req.Reviewer, req.Justification, now)
	default:
		return dto.EvaluationResponse{}, &model.BusinessRuleViolation{
			Rule:    "committee_decision",
			Message: fmt.Sprintf("unknown decision %q, want approve or reject", req.Decision),
		}
	}
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	if err := uc.evalRepo.Save(ctx, eval); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("save evaluation: %w", err)
	}

	return ToEvaluationResponse(eval), nil
}
