package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/loansi/scoring-engine/internal/application/usecase"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// ScoringHandler exposes scoring operations over gRPC.
// ---------------------------------------------------------------------------

// ScoringHandler is the gRPC handler for scoring operations.
type ScoringHandler struct {
	UnimplementedScoringServiceServer

	evaluate  *usecase.EvaluateApplicationUseCase
	quote     *usecase.QuoteLoanUseCase
	committee *usecase.ResolveCommitteeUseCase
	getEval   *usecase.GetEvaluationUseCase
	queue     *usecase.ListCommitteeQueueUseCase
	history   *usecase.GetApplicantHistoryUseCase
	products  *usecase.ListProductsUseCase
}

// NewScoringHandler creates a new handler with all use-case dependencies.
func NewScoringHandler(
	evaluate *usecase.EvaluateApplicationUseCase,
	quote *usecase.QuoteLoanUseCase,
	committee *usecase.ResolveCommitteeUseCase,
	getEval *usecase.GetEvaluationUseCase,
	queue *usecase.ListCommitteeQueueUseCase,
	history *usecase.GetApplicantHistoryUseCase,
	products *usecase.ListProductsUseCase,
) *ScoringHandler {
	return &ScoringHandler{
		evaluate:  evaluate,
		quote:     quote,
		committee: committee,
		getEval:   getEval,
		queue:     queue,
		history:   history,
		products:  products,
	}
}

// Evaluate scores a loan application and persists the resulting decision.
func (h *ScoringHandler) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	resp, err := h.evaluate.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// QuoteLoan computes loan economics without recording an evaluation.
func (h *ScoringHandler) QuoteLoan(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	resp, err := h.quote.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// ResolveCommitteeDecision applies a manual committee decision to a pending evaluation.
func (h *ScoringHandler) ResolveCommitteeDecision(ctx context.Context, req *CommitteeDecisionRequest) (*EvaluateResponse, error) {
	resp, err := h.committee.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// GetEvaluation retrieves a stored evaluation by ID.
func (h *ScoringHandler) GetEvaluation(ctx context.Context, req *GetEvaluationRequest) (*EvaluateResponse, error) {
	resp, err := h.getEval.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// ListCommitteeQueue lists a product's evaluations waiting for review.
func (h *ScoringHandler) ListCommitteeQueue(ctx context.Context, req *CommitteeQueueRequest) (*EvaluationListResponse, error) {
	resp, err := h.queue.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// GetApplicantHistory lists an applicant's past evaluations.
func (h *ScoringHandler) GetApplicantHistory(ctx context.Context, req *ApplicantHistoryRequest) (*EvaluationListResponse, error) {
	resp, err := h.history.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// ListProducts lists the configured credit lines.
func (h *ScoringHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ProductListResponse, error) {
	resp, err := h.products.Execute(ctx, *req)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resp, nil
}

// toStatusError maps domain errors to gRPC status codes. Unclassified errors
// surface as Internal so storage details never leak to callers.
func toStatusError(err error) error {
	var cfgErr *model.ConfigurationError
	var ruleErr *model.BusinessRuleViolation
	var parseErr *valueobject.InputParseError

	switch {
	case errors.Is(err, port.ErrEvaluationNotFound), errors.Is(err, port.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, port.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, valueobject.ErrInvalidCommitteeTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &cfgErr):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &ruleErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &parseErr):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
