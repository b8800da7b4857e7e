package usecase

import (
	"context"
	"fmt"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// ListCommitteeQueueUseCase lists a product's evaluations waiting for a
// reviewer, oldest first.
type ListCommitteeQueueUseCase struct {
	evalRepo port.EvaluationRepository
}

// NewListCommitteeQueueUseCase wires dependencies.
func NewListCommitteeQueueUseCase(evalRepo port.EvaluationRepository) *ListCommitteeQueueUseCase {
	return &ListCommitteeQueueUseCase{evalRepo: evalRepo}
}

// Execute fetches the pending committee cases.
func (uc *ListCommitteeQueueUseCase) Execute(
	ctx context.Context,
	req dto.CommitteeQueueRequest,
) (dto.EvaluationListResponse, error) {
	evals, err := uc.evalRepo.FindPendingCommittee(ctx, req.ProductID)
	if err != nil {
		return dto.EvaluationListResponse{}, fmt.Errorf("list committee queue: %w", err)
	}

	resp := dto.EvaluationListResponse{
		Evaluations: make([]dto.EvaluationResponse, 0, len(evals)),
	}
	for _, eval := range evals {
		resp.Evaluations = append(resp.Evaluations, ToEvaluationResponse(eval))
	}
	return resp, nil
}

// GetApplicantHistoryUseCase lists an applicant's past evaluations, newest
// first.
type GetApplicantHistoryUseCase struct {
	evalRepo port.EvaluationRepository
}

// NewGetApplicantHistoryUseCase wires dependencies.
func NewGetApplicantHistoryUseCase(evalRepo port.EvaluationRepository) *GetApplicantHistoryUseCase {
	return &GetApplicantHistoryUseCase{evalRepo: evalRepo}
}

// Execute fetches the applicant's evaluation history.
func (uc *GetApplicantHistoryUseCase) Execute(
	ctx context.Context,
	req dto.ApplicantHistoryRequest,
) (dto.EvaluationListResponse, error) {
	evals, err := uc.evalRepo.FindByApplicantDocument(ctx, req.ApplicantDocument)
	if err != nil {
		return dto.EvaluationListResponse{}, fmt.Errorf("list applicant history: %w", err)
	}

	resp := dto.EvaluationListResponse{
		Evaluations: make([]dto.EvaluationResponse, 0, len(evals)),
	}
	for _, eval := range evals {
		resp.Evaluations = append(resp.Evaluations, ToEvaluationResponse(eval))
	}
	return resp, nil
}
