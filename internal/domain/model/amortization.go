package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationEntry is an immutable value object representing one period in an
// amortization schedule. Monetary amounts are integer currency units.
type AmortizationEntry struct {
	DueDate          time.Time `json:"due_date"`
	Period           int       `json:"period"`
	Principal        int64     `json:"principal"`
	Interest         int64     `json:"interest"`
	Total            int64     `json:"total"`
	RemainingBalance int64     `json:"remaining_balance"`
}

// GenerateAmortizationSchedule computes a fixed-payment amortization schedule
// for an integer installment.
//
// Parameters:
//   - principal:   the financed amount in integer currency units
//   - monthlyRate: periodic effective rate as a fraction (e.g. 0.018204)
//   - termMonths:  number of monthly periods
//   - startDate:   the date from which the first payment is due (one month later)
//
// The installment uses the standard annuity formula rounded to a whole unit.
// Interest per period is rounded to a whole unit and the final period absorbs
// the accumulated rounding so the balance reaches exactly zero.
func GenerateAmortizationSchedule(
	principal int64,
	monthlyRate float64,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || principal <= 0 {
		return nil
	}

	var installment int64
	if monthlyRate == 0 {
		installment = int64(math.Round(float64(principal) / float64(termMonths)))
	} else {
		factor := math.Pow(1+monthlyRate, float64(termMonths))
		installment = int64(math.Round(float64(principal) * monthlyRate * factor / (factor - 1)))
	}

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := decimal.NewFromInt(principal)
	rate := decimal.NewFromFloat(monthlyRate)
	payment := decimal.NewFromInt(installment)

	for period := 1; period <= termMonths; period++ {
		dueDate := startDate.AddDate(0, period, 0)

		interest := remaining.Mul(rate).Round(0)
		principalPart := payment.Sub(interest)

		// Last period: pay off the remaining balance exactly.
		if period == termMonths {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          dueDate,
			Principal:        principalPart.IntPart(),
			Interest:         interest.IntPart(),
			Total:            principalPart.Add(interest).IntPart(),
			RemainingBalance: remaining.IntPart(),
		})
	}

	return schedule
}
