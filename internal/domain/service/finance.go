package service

import (
	"math"

	"github.com/loansi/scoring-engine/internal/domain/model"
)

// WeeksPerMonth is the exact conversion constant between week and month
// denominated terms. Never approximate with 4.
const WeeksPerMonth = 52.0 / 12.0

// ---------------------------------------------------------------------------
// FinanceCalculator – installments, rate conversions and associated costs
// ---------------------------------------------------------------------------

// FinanceCalculator groups the deterministic financial math. All currency
// outputs are integer units; rates are decimal fractions unless noted.
type FinanceCalculator struct{}

// NewFinanceCalculator returns a new calculator instance.
func NewFinanceCalculator() *FinanceCalculator {
	return &FinanceCalculator{}
}

// Installment computes the fixed monthly payment for a principal at a
// monthly rate over an integer number of months, using the standard annuity
// formula P*i/(1-(1+i)^-n), rounded to the nearest currency unit. A zero
// rate degenerates to an even split.
func (f *FinanceCalculator) Installment(principal int64, monthlyRate float64, termMonths int) int64 {
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if monthlyRate <= 0 {
		return int64(math.Round(float64(principal) / float64(termMonths)))
	}
	p := float64(principal)
	cuota := p * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(termMonths)))
	return int64(math.Round(cuota))
}

// WeeklyInstallment converts a monthly installment to its weekly equivalent.
func (f *FinanceCalculator) WeeklyInstallment(monthlyInstallment int64) int64 {
	return int64(math.Round(float64(monthlyInstallment) / WeeksPerMonth))
}

// MonthlyToAnnualPct converts a monthly percentage rate to its effective
// annual equivalent: ((1+i_m)^12 - 1) * 100, rounded to 2 digits.
func (f *FinanceCalculator) MonthlyToAnnualPct(monthlyPct float64) float64 {
	annual := (math.Pow(1+monthlyPct/100, 12) - 1) * 100
	return math.Round(annual*100) / 100
}

// AnnualToMonthlyPct converts an effective annual percentage rate to its
// monthly equivalent: ((1+i_a)^(1/12) - 1) * 100, rounded to 4 digits.
func (f *FinanceCalculator) AnnualToMonthlyPct(annualPct float64) float64 {
	monthly := (math.Pow(1+annualPct/100, 1.0/12.0) - 1) * 100
	return math.Round(monthly*10_000) / 10_000
}

// GuaranteeFee computes the aval as a flat percentage of the principal.
func (f *FinanceCalculator) GuaranteeFee(principal int64, avalPct float64) int64 {
	return int64(math.Round(float64(principal) * avalPct))
}

// InsuranceFlat is the flat monthly insurance cost over the term, used when
// no age-bracket table applies: principal * monthlyRate * months.
func (f *FinanceCalculator) InsuranceFlat(principal int64, monthlyRate float64, termMonths int) int64 {
	return int64(math.Round(float64(principal) * monthlyRate * float64(termMonths)))
}

// PlatformFee computes the flat platform cost over the principal.
func (f *FinanceCalculator) PlatformFee(principal int64, platformPct float64) int64 {
	return int64(math.Round(float64(principal) * platformPct))
}

// MonthsFromTerm converts a term expressed in the product's unit to months.
// Week terms divide by the exact 52/12 constant.
func MonthsFromTerm(termUnits float64, unit model.TermUnit) float64 {
	if unit == model.TermWeeks {
		return termUnits / WeeksPerMonth
	}
	return termUnits
}
