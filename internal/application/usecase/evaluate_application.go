package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
	"github.com/loansi/scoring-engine/internal/domain/service"
)

// EvaluateApplicationUseCase orchestrates one scoring run: configuration
// snapshot, bureau enrichment, scoring, hard-stop checks, committee routing,
// tier resolution and loan economics, persisted as a single evaluation.
type EvaluateApplicationUseCase struct {
	snapshots  port.SnapshotProvider
	evalRepo   port.EvaluationRepository
	bureau     port.CreditBureauClient
	normalizer *service.ScoreNormalizer
	rejector   *service.RejectionEvaluator
	router     *service.CommitteeRouter
	tiers      *service.TierResolver
	finance    *service.FinanceCalculator
	insurance  *service.InsuranceCalculator
}

// NewEvaluateApplicationUseCase wires dependencies.
func NewEvaluateApplicationUseCase(
	snapshots port.SnapshotProvider,
	evalRepo port.EvaluationRepository,
	bureau port.CreditBureauClient,
	normalizer *service.ScoreNormalizer,
	rejector *service.RejectionEvaluator,
	router *service.CommitteeRouter,
	tiers *service.TierResolver,
	finance *service.FinanceCalculator,
	insurance *service.InsuranceCalculator,
) *EvaluateApplicationUseCase {
	return &EvaluateApplicationUseCase{
		snapshots:  snapshots,
		evalRepo:   evalRepo,
		bureau:     bureau,
		normalizer: normalizer,
		rejector:   rejector,
		router:     router,
		tiers:      tiers,
		finance:    finance,
		insurance:  insurance,
	}
}

// Execute runs the full decision pipeline and persists the evaluation.
func (uc *EvaluateApplicationUseCase) Execute(
	ctx context.Context,
	req dto.EvaluateRequest,
) (dto.EvaluationResponse, error) {
	now := time.Now().UTC()

	// 1. Read one consistent configuration snapshot for the whole run.
	snap, err := uc.snapshots.Snapshot(ctx, req.ProductID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("load configuration snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return dto.EvaluationResponse{}, err
	}

	// 2. Range checks against the product.
	if err := snap.Product.CheckAmount(req.RequestedAmount); err != nil {
		return dto.EvaluationResponse{}, err
	}
	if err := snap.Product.CheckTerm(req.TermUnits); err != nil {
		return dto.EvaluationResponse{}, err
	}

	// 3. Enrich applicant values with bureau data. The bureau is best
	// effort: provided values win and an outage does not block a run that
	// already carries the fields.
	values := uc.enrich(ctx, req.ApplicantDocument, req.Values, now)

	// 4. Score against the criteria catalog.
	score, err := uc.normalizer.Score(snap.Catalog, values)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("score applicant: %w", err)
	}

	// 5. Hard-stop factors and committee routing both see the raw values;
	// routing uses the raw score scale.
	rejection := uc.rejector.Evaluate(snap.ActiveRejectionFactors(), values)
	routing := uc.router.ShouldRoute(snap.Committee, score.Raw, values)

	// 6. Resolve the risk tier on the normalized score.
	tierRes := uc.tiers.Resolve(snap.ActiveTiers(), score.Normalized, values)

	// 7. Decide. Committee routing suppresses automatic rejection and holds
	// approval true for audit until a reviewer rules.
	approved := score.Raw >= float64(snap.Product.Policy.MinApprovalScore)
	rejected := false
	rejectionReason, rejectionFactor := "", ""
	switch {
	case routing.Route:
		approved = true
	case rejection.Rejected:
		approved = false
		rejected = true
		rejectionReason = rejection.Message
		rejectionFactor = rejection.CriterionCode
	}

	// 8. Loan economics for the resolved tier.
	economics := uc.economics(snap, tierRes.Tier, req.RequestedAmount, req.TermUnits, values, now)

	eval := model.NewEvaluation(model.NewEvaluationParams{
		ProductID:           req.ProductID,
		ApplicantName:       req.ApplicantName,
		ApplicantDocument:   req.ApplicantDocument,
		RequestedAmount:     req.RequestedAmount,
		TermUnits:           req.TermUnits,
		Values:              values,
		CriterionScores:     score.Criteria,
		RawScore:            score.Raw,
		NormalizedScore:     score.Normalized,
		TierName:            tierRes.Tier.Name,
		TierCode:            tierRes.Tier.Code,
		TierRank:            tierRes.Rank,
		TierBeforeDowngrade: tierRes.TierBeforeDowngrade,
		TierDegraded:        tierRes.Degraded,
		Approved:            approved,
		AutoRejected:        rejected,
		RejectionReason:     rejectionReason,
		RejectionFactor:     rejectionFactor,
		CommitteePending:    routing.Route,
		CommitteeReason:     routing.Reason,
		Economics:           economics,
		SnapshotVersion:     snap.Version,
		Now:                 now,
	})

	if err := uc.evalRepo.Save(ctx, eval); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("save evaluation: %w", err)
	}

	return ToEvaluationResponse(eval), nil
}

// enrich merges bureau data under the applicant values and derives the age
// field from the birth date when absent.
func (uc *EvaluateApplicationUseCase) enrich(
	ctx context.Context,
	document string,
	provided map[string]string,
	now time.Time,
) map[string]string {
	values := make(map[string]string, len(provided)+4)

	if uc.bureau != nil {
		if fetched, err := uc.bureau.FetchBureauData(ctx, document); err == nil {
			for k, v := range fetched {
				values[k] = v
			}
		}
	}
	for k, v := range provided {
		values[k] = v
	}

	if _, ok := values[model.FieldAge]; !ok {
		if raw, ok := values[model.FieldBirthDate]; ok {
			if birth, err := time.Parse("2006-01-02", raw); err == nil {
				values[model.FieldAge] = strconv.Itoa(service.AgeAt(birth, now))
			}
		}
	}
	return values
}

// economics computes installment, costs and totals for the resolved tier.
func (uc *EvaluateApplicationUseCase) economics(
	snap model.Snapshot,
	tier model.RiskTier,
	principal int64,
	termUnits float64,
	values map[string]string,
	now time.Time,
) model.LoanEconomics {
	termMonths := service.MonthsFromTerm(termUnits, snap.Product.TermUnit)
	wholeMonths := int(termMonths)
	monthlyRate := tier.MonthlyPct / 100

	guarantee := uc.finance.GuaranteeFee(principal, tier.AvalPct)
	platform := uc.finance.PlatformFee(principal, snap.Product.Costs.PlatformPct)

	var premium int64
	if raw, ok := values[model.FieldBirthDate]; ok {
		if birth, err := time.Parse("2006-01-02", raw); err == nil {
			premium = uc.insurance.ProratedPremium(snap.Insurance, birth, principal, termMonths, now)
		}
	}
	if premium == 0 && snap.Product.Costs.InsuranceMonthlyPct > 0 {
		premium = uc.finance.InsuranceFlat(principal, snap.Product.Costs.InsuranceMonthlyPct/100, wholeMonths)
	}

	totalFinanced := principal + guarantee + premium + platform
	installment := uc.finance.Installment(totalFinanced, monthlyRate, wholeMonths)

	payment := installment
	if snap.Product.TermUnit == model.TermWeeks {
		payment = uc.finance.WeeklyInstallment(installment)
	}

	totalPayable := int64(math.Round(float64(installment) * termMonths))

	return model.LoanEconomics{
		Installment:        installment,
		PaymentInstallment: payment,
		InsurancePremium:   premium,
		GuaranteeFee:       guarantee,
		PlatformFee:        platform,
		TotalFinanced:      totalFinanced,
		DisbursedAmount:    principal,
		TotalInterest:      totalPayable - totalFinanced,
		TotalPayable:       totalPayable,
	}
}

// ToEvaluationResponse maps the aggregate to its external representation.
func ToEvaluationResponse(eval model.Evaluation) dto.EvaluationResponse {
	criteria := make([]dto.CriterionScoreResponse, 0, len(eval.CriterionScores()))
	for _, cs := range eval.CriterionScores() {
		criteria = append(criteria, dto.CriterionScoreResponse{
			Code:     cs.Code,
			Name:     cs.Name,
			RawValue: cs.RawValue,
			Points:   cs.Points,
			Weight:   cs.Weight,
			Weighted: cs.Weighted,
			Detail:   cs.Detail,
		})
	}

	var decision *dto.CommitteeDecisionResponse
	if d := eval.Decision(); d != nil {
		decision = &dto.CommitteeDecisionResponse{
			Reviewer:         d.Reviewer,
			DecidedAt:        d.DecidedAt,
			ApprovedAmount:   d.ApprovedAmount,
			AdjustedTierCode: d.AdjustedTierCode,
			Justification:    d.Justification,
		}
	}

	econ := eval.Economics()
	return dto.EvaluationResponse{
		ID:                  eval.ID(),
		ProductID:           eval.ProductID(),
		ApplicantName:       eval.ApplicantName(),
		ApplicantDocument:   eval.ApplicantDocument(),
		RequestedAmount:     eval.RequestedAmount(),
		TermUnits:           eval.TermUnits(),
		RawScore:            eval.RawScore(),
		NormalizedScore:     eval.NormalizedScore(),
		Criteria:            criteria,
		TierCode:            eval.TierCode(),
		TierName:            eval.TierName(),
		TierBeforeDowngrade: eval.TierBeforeDowngrade(),
		TierDegraded:        eval.TierDegraded(),
		Approved:            eval.Approved(),
		Rejected:            eval.AutoRejected(),
		RejectionReason:     eval.RejectionReason(),
		RejectionFactor:     eval.RejectionFactor(),
		CommitteeState:      eval.CommitteeState().String(),
		CommitteeReason:     eval.CommitteeReason(),
		Decision:            decision,
		Economics: dto.EconomicsResponse{
			Installment:        econ.Installment,
			PaymentInstallment: econ.PaymentInstallment,
			InsurancePremium:   econ.InsurancePremium,
			GuaranteeFee:       econ.GuaranteeFee,
			PlatformFee:        econ.PlatformFee,
			TotalFinanced:      econ.TotalFinanced,
			DisbursedAmount:    econ.DisbursedAmount,
			TotalInterest:      econ.TotalInterest,
			TotalPayable:       econ.TotalPayable,
		},
		SnapshotVersion: eval.SnapshotVersion(),
		CreatedAt:       eval.CreatedAt(),
		UpdatedAt:       eval.UpdatedAt(),
	}
}
