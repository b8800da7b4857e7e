package model

import (
	"fmt"
	"math"
)

// Defaults applied when a product is created without an explicit scoring
// configuration. Rates derive from the product's base annual rate so a new
// product is usable immediately and can be tuned afterwards.

// DefaultApprovalPolicy returns the baseline approval thresholds.
func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		MinApprovalScore:    17,
		ManualReviewScore:   10,
		TelecomDebtCeiling:  200_000,
		AgeMin:              18,
		AgeMax:              84,
		MaxDTIPct:           50,
		MinBureauScore:      400,
		MaxInquiries3Months: 8,
		ScaleMax:            100,
	}
}

// DefaultRiskTiers builds the three standard tiers from a base effective
// annual rate. The monthly rate is the EA equivalent rounded to 4 digits.
func DefaultRiskTiers(baseAnnualPct float64) []RiskTier {
	tiers := []RiskTier{
		{
			Name:      "Low Risk",
			Code:      "low_risk",
			ScoreMin:  70.1,
			ScoreMax:  100.0,
			AnnualPct: baseAnnualPct,
			AvalPct:   0.065,
			Color:     "#28a745",
			Order:     1,
			Active:    true,
		},
		{
			Name:      "Moderate",
			Code:      "moderate",
			ScoreMin:  55.1,
			ScoreMax:  70.0,
			AnnualPct: baseAnnualPct + 3,
			AvalPct:   0.10,
			Color:     "#ffc107",
			Order:     2,
			Active:    true,
		},
		{
			Name:      "High Risk",
			Code:      "high_risk",
			ScoreMin:  0.0,
			ScoreMax:  55.0,
			AnnualPct: baseAnnualPct + 8,
			AvalPct:   0.15,
			Color:     "#dc3545",
			Order:     3,
			Active:    true,
		},
	}
	for i := range tiers {
		tiers[i].MonthlyPct = annualToMonthlyPct(tiers[i].AnnualPct)
	}
	return tiers
}

// annualToMonthlyPct converts an effective annual percentage to its monthly
// equivalent, rounded to 4 digits: ((1 + ea/100)^(1/12) - 1) * 100.
func annualToMonthlyPct(annualPct float64) float64 {
	monthly := (math.Pow(1+annualPct/100, 1.0/12.0) - 1) * 100
	return math.Round(monthly*10_000) / 10_000
}

// DefaultRejectionFactors builds the standard hard-stop list from a policy.
// Order matters: factors are evaluated first to last and the first match
// wins.
func DefaultRejectionFactors(productName string, policy ApprovalPolicy) []RejectionFactor {
	factors := []RejectionFactor{
		{
			CriterionCode: FieldBureauScore,
			CriterionName: "Credit bureau score",
			Operator:      OpLess,
			Threshold:     float64(policy.MinBureauScore),
			Message:       "credit bureau score below the required minimum",
		},
		{
			CriterionCode: FieldFinancialDelinquencyDays,
			CriterionName: "Active financial sector delinquency",
			Operator:      OpGreater,
			Threshold:     30,
			Message:       "active delinquency in the financial sector",
		},
		{
			CriterionCode: FieldTelecomDebt,
			CriterionName: "Telecom delinquent debt",
			Operator:      OpGreater,
			Threshold:     float64(policy.TelecomDebtCeiling),
			Message:       "telecom delinquent debt above the allowed ceiling",
		},
		{
			CriterionCode: FieldTelecomDelinquencyDays,
			CriterionName: "Telecom delinquency (days)",
			Operator:      OpGreater,
			Threshold:     90,
			Message:       "telecom delinquency older than 90 days",
		},
		{
			CriterionCode: FieldDTI,
			CriterionName: "Debt-to-income ratio",
			Operator:      OpGreater,
			Threshold:     float64(policy.MaxDTIPct),
			Message:       fmt.Sprintf("debt-to-income ratio above %.0f%%", policy.MaxDTIPct),
		},
		{
			CriterionCode: FieldInquiries3Months,
			CriterionName: "Bureau inquiries, last 3 months",
			Operator:      OpGreater,
			Threshold:     float64(policy.MaxInquiries3Months),
			Message:       "too many recent credit bureau inquiries",
		},
		{
			CriterionCode: FieldAge,
			CriterionName: "Applicant age",
			Operator:      OpLess,
			Threshold:     float64(policy.AgeMin),
			Message:       fmt.Sprintf("minimum age is %d for %s", policy.AgeMin, productName),
		},
		{
			CriterionCode: FieldAge,
			CriterionName: "Applicant age",
			Operator:      OpGreater,
			Threshold:     float64(policy.AgeMax),
			Message:       fmt.Sprintf("maximum age is %d for %s", policy.AgeMax, productName),
		},
	}
	for i := range factors {
		factors[i].Active = true
		factors[i].Order = i + 1
	}
	return factors
}
