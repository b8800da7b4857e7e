package model

// Well-known applicant value codes. Criteria and rejection factors may use
// any code, but the committee routing rules, the closed-credit exception and
// the telecom downgrade read these specific fields.
const (
	FieldAge                      = "age"
	FieldBureauScore              = "bureau_score"
	FieldDTI                      = "dti"
	FieldInquiries3Months         = "inquiries_3_months"
	FieldFinancialDelinquencyDays = "financial_delinquency_days"
	FieldTelecomDebt              = "telecom_debt"
	FieldTelecomDelinquencyDays   = "telecom_delinquency_days"
	FieldDelinquencySector        = "delinquency_sector"
	FieldClosedCredits            = "closed_credits"
	FieldInternalLoansPaid        = "internal_loans_paid"
	FieldInternalMaxDaysLate      = "internal_max_days_late"
	FieldDelinquencyDays          = "delinquency_days"
	FieldInternalExposure         = "internal_exposure"
	FieldActiveLoansGoodStanding  = "active_loans_good_standing"
	FieldBirthDate                = "birth_date"
)

// DelinquencySectorTelecomOnly forces the worst risk tier when present in
// the delinquency_sector field.
const DelinquencySectorTelecomOnly = "telecom_only"
