package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
	"github.com/loansi/scoring-engine/internal/domain/service"
)

// QuoteLoanUseCase simulates loan economics without scoring an applicant or
// persisting anything.
type QuoteLoanUseCase struct {
	snapshots port.SnapshotProvider
	finance   *service.FinanceCalculator
	insurance *service.InsuranceCalculator
}

// NewQuoteLoanUseCase wires dependencies.
func NewQuoteLoanUseCase(
	snapshots port.SnapshotProvider,
	finance *service.FinanceCalculator,
	insurance *service.InsuranceCalculator,
) *QuoteLoanUseCase {
	return &QuoteLoanUseCase{snapshots: snapshots, finance: finance, insurance: insurance}
}

// Execute computes installment, costs and optionally the full schedule.
func (uc *QuoteLoanUseCase) Execute(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error) {
	now := time.Now().UTC()

	snap, err := uc.snapshots.Snapshot(ctx, req.ProductID)
	if err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("load configuration snapshot: %w", err)
	}
	product := snap.Product

	if err := product.CheckAmount(req.Principal); err != nil {
		return dto.QuoteResponse{}, err
	}
	if err := product.CheckTerm(req.TermUnits); err != nil {
		return dto.QuoteResponse{}, err
	}

	// Rates come from the product base line unless a tier override selects
	// tier-specific pricing.
	annualPct := product.BaseAnnualPct
	monthlyPct := product.BaseMonthlyPct
	avalPct := product.BaseAvalPct
	tierCode := ""
	if req.TierOverride != "" {
		rank := model.TierRank(snap.ActiveTiers(), req.TierOverride)
		if rank < 0 {
			return dto.QuoteResponse{}, &model.BusinessRuleViolation{
				Rule:    "quote_tier",
				Message: fmt.Sprintf("unknown risk tier %q", req.TierOverride),
			}
		}
		tier := snap.ActiveTiers()[rank]
		annualPct = tier.AnnualPct
		monthlyPct = tier.MonthlyPct
		avalPct = tier.AvalPct
		tierCode = tier.Code
	}
	if monthlyPct == 0 && annualPct > 0 {
		monthlyPct = uc.finance.AnnualToMonthlyPct(annualPct)
	}

	termMonths := service.MonthsFromTerm(req.TermUnits, product.TermUnit)
	wholeMonths := int(termMonths)
	monthlyRate := monthlyPct / 100

	guarantee := uc.finance.GuaranteeFee(req.Principal, avalPct)
	platform := uc.finance.PlatformFee(req.Principal, product.Costs.PlatformPct)

	var premium int64
	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return dto.QuoteResponse{}, &model.BusinessRuleViolation{
				Rule:    "quote_birth_date",
				Message: fmt.Sprintf("invalid birth date %q, want YYYY-MM-DD", req.BirthDate),
			}
		}
		// Quotes take the conservative fast-path premium; the prorated
		// variant is reserved for contract issuance during evaluation.
		premium = uc.insurance.SimplePremium(snap.Insurance, birth, req.Principal, termMonths, now)
	} else if product.Costs.InsuranceMonthlyPct > 0 {
		premium = uc.finance.InsuranceFlat(req.Principal, product.Costs.InsuranceMonthlyPct/100, wholeMonths)
	}

	// Net disbursement deducts costs from the payout; full disbursement
	// finances them on top of the principal.
	mode := model.DisbursementMode(req.DisbursementMode)
	if mode == "" {
		mode = model.DisbursementFull
	}
	var totalFinanced, disbursed int64
	switch mode {
	case model.DisbursementNet:
		totalFinanced = req.Principal
		disbursed = req.Principal - guarantee - premium - platform
	case model.DisbursementFull:
		totalFinanced = req.Principal + guarantee + premium + platform
		disbursed = req.Principal
	default:
		return dto.QuoteResponse{}, &model.BusinessRuleViolation{
			Rule:    "quote_disbursement",
			Message: fmt.Sprintf("unknown disbursement mode %q, want full or net", req.DisbursementMode),
		}
	}

	installment := uc.finance.Installment(totalFinanced, monthlyRate, wholeMonths)
	payment := installment
	if product.TermUnit == model.TermWeeks {
		payment = uc.finance.WeeklyInstallment(installment)
	}
	totalPayable := int64(math.Round(float64(installment) * termMonths))

	resp := dto.QuoteResponse{
		ProductID:        req.ProductID,
		Principal:        req.Principal,
		TermUnits:        req.TermUnits,
		TermMonths:       math.Round(termMonths*100) / 100,
		TermUnit:         string(product.TermUnit),
		TierCode:         tierCode,
		AnnualPct:        annualPct,
		MonthlyPct:       monthlyPct,
		DisbursementMode: string(mode),
		Economics: dto.EconomicsResponse{
			Installment:        installment,
			PaymentInstallment: payment,
			InsurancePremium:   premium,
			GuaranteeFee:       guarantee,
			PlatformFee:        platform,
			TotalFinanced:      totalFinanced,
			DisbursedAmount:    disbursed,
			TotalInterest:      totalPayable - totalFinanced,
			TotalPayable:       totalPayable,
		},
	}

	if req.WithSchedule {
		for _, entry := range model.GenerateAmortizationSchedule(totalFinanced, monthlyRate, wholeMonths, now) {
			resp.Schedule = append(resp.Schedule, dto.AmortizationEntryResponse{
				Period:           entry.Period,
				DueDate:          entry.DueDate,
				Principal:        entry.Principal,
				Interest:         entry.Interest,
				Total:            entry.Total,
				RemainingBalance: entry.RemainingBalance,
			})
		}
	}

	return resp, nil
}
