package usecase

import (
	"context"
	"fmt"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// GetEvaluationUseCase retrieves a stored evaluation by ID.
type GetEvaluationUseCase struct {
	evalRepo port.EvaluationRepository
}

// NewGetEvaluationUseCase wires dependencies.
func NewGetEvaluationUseCase(evalRepo port.EvaluationRepository) *GetEvaluationUseCase {
	return &GetEvaluationUseCase{evalRepo: evalRepo}
}

// Execute fetches one evaluation.
func (uc *GetEvaluationUseCase) Execute(
	ctx context.Context,
	req dto.GetEvaluationRequest,
) (dto.EvaluationResponse, error) {
	eval, err := uc.evalRepo.FindByID(ctx, req.EvaluationID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("find evaluation: %w", err)
	}
	return ToEvaluationResponse(eval), nil
}
