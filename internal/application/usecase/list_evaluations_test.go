package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/application/usecase"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

func TestListCommitteeQueue(t *testing.T) {
	first := pendingEvaluation(t)
	second := pendingEvaluation(t)
	repo := &mockEvaluationRepository{}
	repo.findPendingFunc = func(_ context.Context, productID int64) ([]model.Evaluation, error) {
		assert.Equal(t, int64(42), productID)
		return []model.Evaluation{first, second}, nil
	}
	uc := usecase.NewListCommitteeQueueUseCase(repo)

	resp, err := uc.Execute(context.Background(), dto.CommitteeQueueRequest{ProductID: 42})
	require.NoError(t, err)

	require.Len(t, resp.Evaluations, 2)
	assert.Equal(t, first.ID(), resp.Evaluations[0].ID)
	assert.Equal(t, valueobject.CommitteeStatePending.String(), resp.Evaluations[0].CommitteeState)
}

func TestListCommitteeQueueEmpty(t *testing.T) {
	uc := usecase.NewListCommitteeQueueUseCase(&mockEvaluationRepository{})

	resp, err := uc.Execute(context.Background(), dto.CommitteeQueueRequest{ProductID: 42})
	require.NoError(t, err)
	assert.Empty(t, resp.Evaluations)
}

func TestGetApplicantHistory(t *testing.T) {
	stored := pendingEvaluation(t)
	repo := &mockEvaluationRepository{}
	repo.findByDocumentFunc = func(_ context.Context, document string) ([]model.Evaluation, error) {
		assert.Equal(t, "900123456", document)
		return []model.Evaluation{stored}, nil
	}
	uc := usecase.NewGetApplicantHistoryUseCase(repo)

	resp, err := uc.Execute(context.Background(), dto.ApplicantHistoryRequest{ApplicantDocument: "900123456"})
	require.NoError(t, err)

	require.Len(t, resp.Evaluations, 1)
	assert.Equal(t, "Maria Lopez", resp.Evaluations[0].ApplicantName)
}

func TestGetApplicantHistoryRepoFailure(t *testing.T) {
	repo := &mockEvaluationRepository{}
	repo.findByDocumentFunc = func(_ context.Context, _ string) ([]model.Evaluation, error) {
		return nil, fmt.Errorf("connection reset")
	}
	uc := usecase.NewGetApplicantHistoryUseCase(repo)

	_, err := uc.Execute(context.Background(), dto.ApplicantHistoryRequest{ApplicantDocument: "900123456"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list applicant history")
}

func TestListProducts(t *testing.T) {
	repo := &mockCatalogRepository{
		listProductsFunc: func(_ context.Context) ([]model.Product, error) {
			return []model.Product{testSnapshot().Product}, nil
		},
	}
	uc := usecase.NewListProductsUseCase(repo)

	resp, err := uc.Execute(context.Background(), dto.ListProductsRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Working Capital", resp.Products[0].Name)
	assert.Equal(t, "months", resp.Products[0].TermUnit)
	assert.Equal(t, int64(5_000_000), resp.Products[0].AmountMax)
}
