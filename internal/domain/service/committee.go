package service

import (
	"fmt"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// CommitteeRouter – decides which evaluations need a human reviewer
// ---------------------------------------------------------------------------

// RoutingDecision is the outcome of the pre-decision committee check.
type RoutingDecision struct {
	Route  bool
	Reason string
}

// CommitteeRouter routes borderline cases to manual review. Two independent
// conditions route a case:
//
//  1. the raw weighted score lands in the configured review band
//     [ScoreBandMin, ScoreBandMax), below the approval minimum but above
//     the outright-rejection floor;
//  2. the bureau score is below the configured ceiling while every internal
//     behavior rule holds, so strong house history can override a thin
//     bureau file.
//
// Both checks use the raw score scale, not the normalized 0-100 scale.
type CommitteeRouter struct{}

// NewCommitteeRouter returns a new router instance.
func NewCommitteeRouter() *CommitteeRouter {
	return &CommitteeRouter{}
}

// ShouldRoute decides whether the evaluation goes to committee.
func (c *CommitteeRouter) ShouldRoute(
	thresholds model.CommitteeThresholds,
	rawScore float64,
	values map[string]string,
) RoutingDecision {
	if rawScore >= thresholds.ScoreBandMin && rawScore < thresholds.ScoreBandMax {
		return RoutingDecision{
			Route: true,
			Reason: fmt.Sprintf("score %.2f within manual review band [%.0f, %.0f)",
				rawScore, thresholds.ScoreBandMin, thresholds.ScoreBandMax),
		}
	}

	if c.bureauOverride(thresholds, values) {
		return RoutingDecision{
			Route:  true,
			Reason: "low bureau score with strong internal behavior",
		}
	}

	return RoutingDecision{}
}

// bureauOverride holds when the bureau score is thin but all internal
// behavior rules pass. Missing or unparseable fields fail the rule.
func (c *CommitteeRouter) bureauOverride(thresholds model.CommitteeThresholds, values map[string]string) bool {
	bureau, err := committeeField(values, model.FieldBureauScore)
	if err != nil || bureau >= float64(thresholds.BureauScoreCeiling) {
		return false
	}

	rules := thresholds.Behavior

	exposure, err := committeeField(values, model.FieldInternalExposure)
	if err != nil || exposure < float64(rules.MinExposure) {
		return false
	}
	daysLate, err := committeeField(values, model.FieldInternalMaxDaysLate)
	if err != nil || daysLate > float64(rules.MaxDaysLate) {
		return false
	}
	delinquency, err := committeeField(values, model.FieldDelinquencyDays)
	if err != nil || delinquency > float64(rules.MaxDelinquencyDays) {
		return false
	}
	goodStanding, err := committeeField(values, model.FieldActiveLoansGoodStanding)
	if err != nil || goodStanding < float64(rules.MinActiveLoansGoodStanding) {
		return false
	}
	return true
}

func committeeField(values map[string]string, code string) (float64, error) {
	raw, ok := values[code]
	if !ok {
		return 0, &valueobject.InputParseError{Criterion: code, Value: ""}
	}
	return valueobject.ParseNumeric(raw)
}
