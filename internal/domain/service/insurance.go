package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loansi/scoring-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// InsuranceCalculator – life insurance premiums prorated by age bracket
// ---------------------------------------------------------------------------

// InsuranceCalculator computes life insurance premiums from an age-bracket
// rate table. Rates are monthly per million of principal.
type InsuranceCalculator struct{}

// NewInsuranceCalculator returns a new calculator instance.
func NewInsuranceCalculator() *InsuranceCalculator {
	return &InsuranceCalculator{}
}

// ProratedPremium computes the contract-issuance premium. The term is split
// at every birthday that falls strictly between the start and end dates, so
// each sub-period has a constant age and a constant bracket rate. Fractional
// terms convert the remainder to days on a 30-day month convention. Each
// sub-period contributes (principal/1e6) * rate(age) * months, where months
// is the sub-period's day share of the full term. Rounding happens once, on
// the total.
func (c *InsuranceCalculator) ProratedPremium(
	table model.InsuranceTable,
	birthDate time.Time,
	principal int64,
	termMonths float64,
	start time.Time,
) int64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	end := termEnd(start, termMonths)
	totalDays := end.Sub(start).Hours() / 24
	if totalDays <= 0 {
		return 0
	}

	perMillion := decimal.NewFromInt(principal).Div(decimal.NewFromInt(1_000_000))
	total := decimal.Zero

	cursor := start
	age := AgeAt(birthDate, start)
	for cursor.Before(end) {
		next := nextBirthday(birthDate, cursor)
		if !next.After(cursor) || !next.Before(end) {
			next = end
		}

		days := next.Sub(cursor).Hours() / 24
		months := termMonths * days / totalDays
		rate := table.RateForAge(age)

		total = total.Add(perMillion.
			Mul(decimal.NewFromFloat(rate)).
			Mul(decimal.NewFromFloat(months)))

		cursor = next
		age++
	}

	return total.Round(0).IntPart()
}

// SimplePremium is the fast-path variant: a single conservative rate, the
// maximum of the start-age and end-age bracket rates, applied to the whole
// term. Diverges from ProratedPremium when a birthday crosses a bracket
// boundary mid-term; that divergence is intentional.
func (c *InsuranceCalculator) SimplePremium(
	table model.InsuranceTable,
	birthDate time.Time,
	principal int64,
	termMonths float64,
	start time.Time,
) int64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	end := termEnd(start, termMonths)
	startRate := table.RateForAge(AgeAt(birthDate, start))
	endRate := table.RateForAge(AgeAt(birthDate, end))
	rate := math.Max(startRate, endRate)

	premium := float64(principal) / 1_000_000 * rate * termMonths
	return int64(math.Round(premium))
}

// termEnd adds a possibly fractional month count to a date. The whole part
// advances calendar months; the remainder converts to days at 30 per month.
func termEnd(start time.Time, termMonths float64) time.Time {
	whole := int(termMonths)
	frac := termMonths - float64(whole)
	end := start.AddDate(0, whole, 0)
	if frac > 0 {
		end = end.AddDate(0, 0, int(math.Round(frac*30)))
	}
	return end
}

// AgeAt computes completed years between birth date and a reference date.
func AgeAt(birthDate, at time.Time) int {
	age := at.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(age, 0, 0)
	if anniversary.After(at) {
		age--
	}
	return age
}

// nextBirthday returns the first birthday strictly after the cursor date.
func nextBirthday(birthDate, after time.Time) time.Time {
	years := after.Year() - birthDate.Year()
	b := birthDate.AddDate(years, 0, 0)
	for !b.After(after) {
		b = birthDate.AddDate(years+1, 0, 0)
		years++
	}
	return b
}
