package model

import (
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------------
// Life insurance brackets
// ---------------------------------------------------------------------------

// Permitted age range for life-insurance coverage.
const (
	InsuranceAgeMin = 18
	InsuranceAgeMax = 84
)

// InsuranceBracket maps an age interval to a monthly rate per million of
// principal.
type InsuranceBracket struct {
	AgeMin                int     `json:"age_min"`
	AgeMax                int     `json:"age_max"`
	MonthlyRatePerMillion float64 `json:"monthly_rate_per_million"`
}

// Contains reports whether the age falls inside the bracket.
func (b InsuranceBracket) Contains(age int) bool {
	return b.AgeMin <= age && age <= b.AgeMax
}

// InsuranceTable is the ordered bracket list plus a default rate used when
// no bracket contains an age. A zero default falls back to the nearest
// bracket so proration never silently produces a gap.
type InsuranceTable struct {
	Brackets              []InsuranceBracket `json:"brackets"`
	DefaultRatePerMillion float64            `json:"default_rate_per_million"`
}

// RateForAge returns the monthly rate per million applicable to an age.
func (t InsuranceTable) RateForAge(age int) float64 {
	for _, b := range t.Brackets {
		if b.Contains(age) {
			return b.MonthlyRatePerMillion
		}
	}
	if t.DefaultRatePerMillion > 0 {
		return t.DefaultRatePerMillion
	}
	return t.nearestRate(age)
}

// nearestRate picks the bracket closest to the age by boundary distance.
func (t InsuranceTable) nearestRate(age int) float64 {
	if len(t.Brackets) == 0 {
		return 0
	}
	best := t.Brackets[0]
	bestDist := boundaryDistance(best, age)
	for _, b := range t.Brackets[1:] {
		if d := boundaryDistance(b, age); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best.MonthlyRatePerMillion
}

func boundaryDistance(b InsuranceBracket, age int) int {
	switch {
	case age < b.AgeMin:
		return b.AgeMin - age
	case age > b.AgeMax:
		return age - b.AgeMax
	}
	return 0
}

// Validate checks bracket ordering over the permitted age range. Overlaps
// and gaps are reported as warnings rather than hard failures: the
// configuration screens surface them, while proration covers holes through
// the default-rate fallback.
func (t InsuranceTable) Validate() []string {
	var warnings []string
	if len(t.Brackets) == 0 {
		return []string{"no insurance brackets configured"}
	}

	ordered := make([]InsuranceBracket, len(t.Brackets))
	copy(ordered, t.Brackets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].AgeMin < ordered[j].AgeMin })

	if ordered[0].AgeMin > InsuranceAgeMin {
		warnings = append(warnings, fmt.Sprintf("ages %d-%d uncovered", InsuranceAgeMin, ordered[0].AgeMin-1))
	}
	for i := 0; i < len(ordered)-1; i++ {
		cur, next := ordered[i], ordered[i+1]
		if cur.AgeMax >= next.AgeMin {
			warnings = append(warnings, fmt.Sprintf("brackets %d-%d and %d-%d overlap", cur.AgeMin, cur.AgeMax, next.AgeMin, next.AgeMax))
		}
		if cur.AgeMax+1 < next.AgeMin {
			warnings = append(warnings, fmt.Sprintf("gap between ages %d and %d", cur.AgeMax+1, next.AgeMin-1))
		}
	}
	if last := ordered[len(ordered)-1]; last.AgeMax < InsuranceAgeMax {
		warnings = append(warnings, fmt.Sprintf("ages %d-%d uncovered", last.AgeMax+1, InsuranceAgeMax))
	}
	return warnings
}
