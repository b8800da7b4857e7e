package model

// ---------------------------------------------------------------------------
// Versioned configuration snapshot
// ---------------------------------------------------------------------------

// BehaviorRules are the sub-conditions of the "good internal behavior"
// committee check. All four must hold.
type BehaviorRules struct {
	// MinExposure is the least current internal exposure (currency units)
	// that counts as an established relationship.
	MinExposure int64 `json:"min_exposure"`
	// MaxDaysLate bounds the worst historical payment delay.
	MaxDaysLate int `json:"max_days_late"`
	// MaxDelinquencyDays bounds current delinquency; 0 requires the
	// applicant to be fully current.
	MaxDelinquencyDays int `json:"max_delinquency_days"`
	// MinActiveLoansGoodStanding is the least number of active internal
	// loans in good standing.
	MinActiveLoansGoodStanding int `json:"min_active_loans_good_standing"`
}

// CommitteeThresholds configures when a case routs to human review instead
// of an automatic decision.
type CommitteeThresholds struct {
	// ScoreBandMin/Max bound the borderline band on the raw
	// pre-normalization score scale (the same scale as the product's
	// approval minimum).
	ScoreBandMin float64 `json:"score_band_min"`
	ScoreBandMax float64 `json:"score_band_max"`
	// BureauScoreCeiling: below it, the behavior rules decide routing.
	BureauScoreCeiling int           `json:"bureau_score_ceiling"`
	Behavior           BehaviorRules `json:"behavior"`
}

// Snapshot is one versioned, atomic read of a product's full scoring
// configuration. Evaluations receive a snapshot and never touch live
// configuration, so concurrent configuration edits cannot skew a running
// evaluation.
type Snapshot struct {
	Version          int64               `json:"version"`
	Product          Product             `json:"product"`
	Catalog          Catalog             `json:"catalog"`
	Tiers            []RiskTier          `json:"tiers"`
	RejectionFactors []RejectionFactor   `json:"rejection_factors"`
	Insurance        InsuranceTable      `json:"insurance"`
	Committee        CommitteeThresholds `json:"committee"`
}

// Validate runs the fail-closed configuration checks an evaluation depends
// on. Insurance bracket warnings are not included here; they are advisory
// and surfaced separately.
func (s Snapshot) Validate() error {
	if err := s.Product.Validate(); err != nil {
		return err
	}
	if err := s.Catalog.Validate(); err != nil {
		return err
	}
	if err := ValidateTiers(s.Product.ID, s.activeTiers()); err != nil {
		return err
	}
	for _, f := range s.RejectionFactors {
		if !f.Active {
			continue
		}
		if err := f.Validate(); err != nil {
			return NewConfigurationError(s.Product.ID, "%v", err)
		}
	}
	return nil
}

// ActiveTiers returns the active tiers in configured order, best first.
func (s Snapshot) ActiveTiers() []RiskTier { return s.activeTiers() }

func (s Snapshot) activeTiers() []RiskTier {
	out := make([]RiskTier, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

// ActiveRejectionFactors returns the active factors in configured order.
func (s Snapshot) ActiveRejectionFactors() []RejectionFactor {
	out := make([]RejectionFactor, 0, len(s.RejectionFactors))
	for _, f := range s.RejectionFactors {
		if f.Active {
			out = append(out, f)
		}
	}
	return out
}
