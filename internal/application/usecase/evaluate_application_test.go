package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/application/usecase"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
	"github.com/loansi/scoring-engine/internal/domain/service"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockSnapshotProvider struct {
	snapshotFunc func(ctx context.Context, productID int64) (model.Snapshot, error)
	invalidated  []int64
}

func (m *mockSnapshotProvider) Snapshot(ctx context.Context, productID int64) (model.Snapshot, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx, productID)
	}
	return model.Snapshot{}, fmt.Errorf("no snapshot configured")
}

func (m *mockSnapshotProvider) Invalidate(_ context.Context, productID int64) error {
	m.invalidated = append(m.invalidated, productID)
	return nil
}

type mockEvaluationRepository struct {
	saveFunc           func(ctx context.Context, eval model.Evaluation) error
	findByIDFunc       func(ctx context.Context, id string) (model.Evaluation, error)
	findByDocumentFunc func(ctx context.Context, document string) ([]model.Evaluation, error)
	findPendingFunc    func(ctx context.Context, productID int64) ([]model.Evaluation, error)
	savedEvals         []model.Evaluation
}

func (m *mockEvaluationRepository) Save(ctx context.Context, eval model.Evaluation) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, eval)
	}
	m.savedEvals = append(m.savedEvals, eval)
	return nil
}

func (m *mockEvaluationRepository) FindByID(ctx context.Context, id string) (model.Evaluation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Evaluation{}, fmt.Errorf("evaluation not found")
}

func (m *mockEvaluationRepository) FindByApplicantDocument(ctx context.Context, document string) ([]model.Evaluation, error) {
	if m.findByDocumentFunc != nil {
		return m.findByDocumentFunc(ctx, document)
	}
	return nil, nil
}

func (m *mockEvaluationRepository) FindPendingCommittee(ctx context.Context, productID int64) ([]model.Evaluation, error) {
	if m.findPendingFunc != nil {
		return m.findPendingFunc(ctx, productID)
	}
	return nil, nil
}

type mockCreditBureauClient struct {
	fetchFunc func(ctx context.Context, document string) (map[string]string, error)
}

func (m *mockCreditBureauClient) FetchBureauData(ctx context.Context, document string) (map[string]string, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, document)
	}
	return nil, fmt.Errorf("bureau unavailable")
}

// --- Fixtures ---

// testSnapshot builds a product snapshot whose single bureau-score criterion
// yields raw 25 for prime applicants, 14 inside the manual review band and
// 5 for the rest.
func testSnapshot() model.Snapshot {
	policy := model.DefaultApprovalPolicy()
	product := model.Product{
		ID:            42,
		Name:          "Working Capital",
		AmountMin:     100_000,
		AmountMax:     5_000_000,
		TermMin:       6,
		TermMax:       36,
		TermUnit:      model.TermMonths,
		BaseAnnualPct: 24,
		Policy:        policy,
		Active:        true,
	}
	catalog := model.Catalog{
		ProductID: product.ID,
		Criteria: []model.Criterion{
			{
				Code: model.FieldBureauScore, Name: "Bureau score",
				FieldType: model.FieldTypeNumeric, Weight: 100, Active: true,
				Buckets: []model.Bucket{
					{Min: 700, Max: 1000, Points: 25},
					{Min: 500, Max: 699, Points: 14},
					{Min: 0, Max: 499, Points: 5},
				},
			},
		},
	}
	return model.Snapshot{
		Version:          3,
		Product:          product,
		Catalog:          catalog,
		Tiers:            model.DefaultRiskTiers(product.BaseAnnualPct),
		RejectionFactors: model.DefaultRejectionFactors(product.Name, policy),
		Committee: model.CommitteeThresholds{
			ScoreBandMin:       policy.ManualReviewScore,
			ScoreBandMax:       policy.MinApprovalScore,
			BureauScoreCeiling: policy.MinBureauScore,
			Behavior: model.BehaviorRules{
				MinExposure:                500_000,
				MaxDaysLate:                5,
				MaxDelinquencyDays:         0,
				MinActiveLoansGoodStanding: 1,
			},
		},
	}
}

func newEvaluateUC(
	snapshots *mockSnapshotProvider,
	repo *mockEvaluationRepository,
	bureau port.CreditBureauClient,
) *usecase.EvaluateApplicationUseCase {
	return usecase.NewEvaluateApplicationUseCase(
		snapshots,
		repo,
		bureau,
		service.NewScoreNormalizer(valueobject.ParseModeLenient),
		service.NewRejectionEvaluator(),
		service.NewCommitteeRouter(),
		service.NewTierResolver(),
		service.NewFinanceCalculator(),
		service.NewInsuranceCalculator(),
	)
}

func fixedSnapshot(snap model.Snapshot) *mockSnapshotProvider {
	return &mockSnapshotProvider{
		snapshotFunc: func(_ context.Context, _ int64) (model.Snapshot, error) {
			return snap, nil
		},
	}
}

func cleanValues(bureauScore string) map[string]string {
	return map[string]string{
		model.FieldBureauScore:              bureauScore,
		model.FieldAge:                      "35",
		model.FieldDTI:                      "20",
		model.FieldInquiries3Months:         "1",
		model.FieldFinancialDelinquencyDays: "0",
		model.FieldTelecomDebt:              "0",
		model.FieldTelecomDelinquencyDays:   "0",
	}
}

func baseRequest(values map[string]string) dto.EvaluateRequest {
	return dto.EvaluateRequest{
		ProductID:         42,
		ApplicantName:     "Maria Lopez",
		ApplicantDocument: "900123456",
		RequestedAmount:   2_000_000,
		TermUnits:         12,
		Values:            values,
	}
}

// --- Tests ---

func TestEvaluateAutoApproval(t *testing.T) {
	repo := &mockEvaluationRepository{}
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), repo, nil)

	resp, err := uc.Execute(context.Background(), baseRequest(cleanValues("750")))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.Approved)
	assert.False(t, resp.Rejected)
	assert.Equal(t, 25.0, resp.RawScore)
	assert.Equal(t, 100.0, resp.NormalizedScore)
	assert.Equal(t, "low_risk", resp.TierCode)
	assert.Equal(t, valueobject.CommitteeStateNone.String(), resp.CommitteeState)
	assert.Equal(t, int64(3), resp.SnapshotVersion)
	assert.Positive(t, resp.Economics.Installment)
	assert.Equal(t, int64(2_000_000), resp.Economics.DisbursedAmount)

	require.Len(t, repo.savedEvals, 1)
	assert.Equal(t, resp.ID, repo.savedEvals[0].ID())
}

func TestEvaluateHardStopRejection(t *testing.T) {
	repo := &mockEvaluationRepository{}
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), repo, nil)

	resp, err := uc.Execute(context.Background(), baseRequest(cleanValues("350")))
	require.NoError(t, err)

	assert.False(t, resp.Approved)
	assert.True(t, resp.Rejected)
	assert.Equal(t, model.FieldBureauScore, resp.RejectionFactor)
	assert.Contains(t, resp.RejectionReason, "credit bureau score below")
	assert.Equal(t, "high_risk", resp.TierCode)
	require.Len(t, repo.savedEvals, 1)
}

func TestEvaluateScoreBelowMinimumWithoutFactor(t *testing.T) {
	// A weak score with no matching hard stop declines without recording a
	// rejection factor.
	snap := testSnapshot()
	snap.Committee.ScoreBandMin = 20 // move the band out of the way
	snap.Committee.ScoreBandMax = 21
	uc := newEvaluateUC(fixedSnapshot(snap), &mockEvaluationRepository{}, nil)

	values := cleanValues("550")
	resp, err := uc.Execute(context.Background(), baseRequest(values))
	require.NoError(t, err)

	assert.False(t, resp.Approved)
	assert.False(t, resp.Rejected)
	assert.Empty(t, resp.RejectionFactor)
	assert.Equal(t, 14.0, resp.RawScore)
}

func TestEvaluateCommitteeRoutingSuppressesRejection(t *testing.T) {
	repo := &mockEvaluationRepository{}
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), repo, nil)

	// Raw 14 lands in the manual review band while the DTI hard stop would
	// otherwise fire. Routing wins and the case waits for a reviewer.
	values := cleanValues("550")
	values[model.FieldDTI] = "80"

	resp, err := uc.Execute(context.Background(), baseRequest(values))
	require.NoError(t, err)

	assert.True(t, resp.Approved)
	assert.False(t, resp.Rejected)
	assert.Empty(t, resp.RejectionFactor)
	assert.Equal(t, valueobject.CommitteeStatePending.String(), resp.CommitteeState)
	assert.Contains(t, resp.CommitteeReason, "manual review band")
}

func TestEvaluateBureauOverrideRouting(t *testing.T) {
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), &mockEvaluationRepository{}, nil)

	// Bureau score below the ceiling but strong internal behavior routes to
	// the committee instead of auto-rejecting.
	values := cleanValues("350")
	values[model.FieldInternalExposure] = "800000"
	values[model.FieldInternalMaxDaysLate] = "2"
	values[model.FieldDelinquencyDays] = "0"
	values[model.FieldActiveLoansGoodStanding] = "1"

	resp, err := uc.Execute(context.Background(), baseRequest(values))
	require.NoError(t, err)

	assert.True(t, resp.Approved)
	assert.False(t, resp.Rejected)
	assert.Equal(t, valueobject.CommitteeStatePending.String(), resp.CommitteeState)
	assert.Equal(t, "low bureau score with strong internal behavior", resp.CommitteeReason)
}

func TestEvaluateAmountAndTermRange(t *testing.T) {
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), &mockEvaluationRepository{}, nil)

	req := baseRequest(cleanValues("750"))
	req.RequestedAmount = 50_000
	var ruleErr *model.BusinessRuleViolation
	_, err := uc.Execute(context.Background(), req)
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "amount_range", ruleErr.Rule)

	req = baseRequest(cleanValues("750"))
	req.TermUnits = 48
	_, err = uc.Execute(context.Background(), req)
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "term_range", ruleErr.Rule)
}

func TestEvaluateInvalidConfigurationFailsClosed(t *testing.T) {
	snap := testSnapshot()
	snap.Catalog.Criteria[0].Weight = 90

	repo := &mockEvaluationRepository{}
	uc := newEvaluateUC(fixedSnapshot(snap), repo, nil)

	var cfgErr *model.ConfigurationError
	_, err := uc.Execute(context.Background(), baseRequest(cleanValues("750")))
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, repo.savedEvals)
}

func TestEvaluateSnapshotLoadFailure(t *testing.T) {
	snapshots := &mockSnapshotProvider{
		snapshotFunc: func(_ context.Context, _ int64) (model.Snapshot, error) {
			return model.Snapshot{}, fmt.Errorf("catalog store down")
		},
	}
	uc := newEvaluateUC(snapshots, &mockEvaluationRepository{}, nil)

	_, err := uc.Execute(context.Background(), baseRequest(cleanValues("750")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load configuration snapshot")
}

func TestEvaluateBureauEnrichment(t *testing.T) {
	t.Run("fills missing fields", func(t *testing.T) {
		bureau := &mockCreditBureauClient{
			fetchFunc: func(_ context.Context, document string) (map[string]string, error) {
				assert.Equal(t, "900123456", document)
				return map[string]string{model.FieldBureauScore: "750"}, nil
			},
		}
		uc := newEvaluateUC(fixedSnapshot(testSnapshot()), &mockEvaluationRepository{}, bureau)

		values := cleanValues("750")
		delete(values, model.FieldBureauScore)

		resp, err := uc.Execute(context.Background(), baseRequest(values))
		require.NoError(t, err)
		assert.True(t, resp.Approved)
		assert.Equal(t, 25.0, resp.RawScore)
	})

	t.Run("provided values win", func(t *testing.T) {
		bureau := &mockCreditBureauClient{
			fetchFunc: func(_ context.Context, _ string) (map[string]string, error) {
				return map[string]string{model.FieldBureauScore: "350"}, nil
			},
		}
		uc := newEvaluateUC(fixedSnapshot(testSnapshot()), &mockEvaluationRepository{}, bureau)

		resp, err := uc.Execute(context.Background(), baseRequest(cleanValues("750")))
		require.NoError(t, err)
		assert.Equal(t, 25.0, resp.RawScore)
	})

	t.Run("bureau outage does not block", func(t *testing.T) {
		uc := newEvaluateUC(fixedSnapshot(testSnapshot()), &mockEvaluationRepository{}, &mockCreditBureauClient{})

		resp, err := uc.Execute(context.Background(), baseRequest(cleanValues("750")))
		require.NoError(t, err)
		assert.True(t, resp.Approved)
	})
}

func TestEvaluateAgeDerivedFromBirthDate(t *testing.T) {
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), &mockEvaluationRepository{}, nil)

	values := cleanValues("750")
	delete(values, model.FieldAge)
	values[model.FieldBirthDate] = time.Now().UTC().AddDate(-17, 0, 0).Format("2006-01-02")

	resp, err := uc.Execute(context.Background(), baseRequest(values))
	require.NoError(t, err)
	assert.True(t, resp.Rejected)
	assert.Contains(t, resp.RejectionReason, "minimum age")
}

func TestEvaluateSaveFailure(t *testing.T) {
	repo := &mockEvaluationRepository{
		saveFunc: func(_ context.Context, _ model.Evaluation) error {
			return fmt.Errorf("connection reset")
		},
	}
	uc := newEvaluateUC(fixedSnapshot(testSnapshot()), repo, nil)

	_, err := uc.Execute(context.Background(), baseRequest(cleanValues("750")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save evaluation")
}
