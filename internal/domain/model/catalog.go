package model

import (
	"encoding/json"
	"math"
	"strings"
)

// ---------------------------------------------------------------------------
// Criteria catalog – per-product weighted scoring criteria
// ---------------------------------------------------------------------------

// FieldType identifies how an applicant value is parsed and matched against
// a criterion's buckets.
type FieldType string

const (
	FieldTypeNumeric    FieldType = "numeric"
	FieldTypePercentage FieldType = "percentage"
	FieldTypeSelect     FieldType = "select"
	FieldTypeBoolean    FieldType = "boolean"
	FieldTypeComposite  FieldType = "composite"
)

// WeightTolerance is the permitted deviation when checking that active
// criterion weights sum to 100.
const WeightTolerance = 0.01

// Bucket maps a value interval (or discrete option) of a criterion to
// points. Buckets are kept in catalog order and the first containing match
// wins; that ordering is load-bearing, which is why buckets live in a slice
// and never a map.
type Bucket struct {
	// Min and Max bound numeric/percentage containment. Open ends are
	// represented with -Inf / +Inf; the JSON codec below resolves an absent
	// bound to the matching infinity on decode and omits it again on encode,
	// since encoding/json refuses IEEE infinities.
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// Value matches select criteria, case-insensitively.
	Value string `json:"value,omitempty"`

	// BoolValue matches boolean criteria when non-nil.
	BoolValue *bool `json:"bool_value,omitempty"`

	Points      float64 `json:"points"`
	Description string  `json:"description,omitempty"`
}

// bucketJSON mirrors Bucket with pointer bounds so decoding can tell an
// absent bound apart from an explicit zero.
type bucketJSON struct {
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Value       string   `json:"value,omitempty"`
	BoolValue   *bool    `json:"bool_value,omitempty"`
	Points      float64  `json:"points"`
	Description string   `json:"description,omitempty"`
}

// UnmarshalJSON resolves open-ended buckets: a missing min means -Inf and a
// missing max means +Inf, so `{"min": 700, "points": 100}` covers every
// value from 700 upward.
func (b *Bucket) UnmarshalJSON(data []byte) error {
	var raw bucketJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Min = math.Inf(-1)
	b.Max = math.Inf(1)
	if raw.Min != nil {
		b.Min = *raw.Min
	}
	if raw.Max != nil {
		b.Max = *raw.Max
	}
	b.Value = raw.Value
	b.BoolValue = raw.BoolValue
	b.Points = raw.Points
	b.Description = raw.Description
	return nil
}

// MarshalJSON drops infinite bounds so open-ended buckets survive the JSONB
// and snapshot-cache round trips.
func (b Bucket) MarshalJSON() ([]byte, error) {
	raw := bucketJSON{
		Value:       b.Value,
		BoolValue:   b.BoolValue,
		Points:      b.Points,
		Description: b.Description,
	}
	if !math.IsInf(b.Min, -1) {
		raw.Min = &b.Min
	}
	if !math.IsInf(b.Max, 1) {
		raw.Max = &b.Max
	}
	return json.Marshal(raw)
}

// Contains reports whether a numeric value falls inside the bucket.
func (b Bucket) Contains(v float64) bool {
	return b.Min <= v && v <= b.Max
}

// MatchesValue reports whether a select value matches the bucket option.
func (b Bucket) MatchesValue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), b.Value)
}

// Criterion is one weighted scoring criterion of a product's catalog.
// Read-only to the decision core; configuration management owns its
// lifecycle.
type Criterion struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FieldType   FieldType `json:"field_type"`
	Weight      float64   `json:"weight"`
	Active      bool      `json:"active"`
	Order       int       `json:"order"`
	Buckets     []Bucket  `json:"buckets"`
}

// MaxPoints returns the highest bucket points of the criterion.
func (c Criterion) MaxPoints() float64 {
	maxPts := 0.0
	for _, b := range c.Buckets {
		if b.Points > maxPts {
			maxPts = b.Points
		}
	}
	return maxPts
}

// ConditionEvaluator scores a composite criterion from the full applicant
// value map. Composite criteria match on cross-field conditions rather than
// a single value's range, so they carry their own evaluator instead of
// being special-cased inside the range lookup.
type ConditionEvaluator interface {
	Evaluate(values map[string]string) (points float64, description string, matched bool)
}

// Catalog is a product's ordered criteria list.
type Catalog struct {
	ProductID int64       `json:"product_id"`
	Criteria  []Criterion `json:"criteria"`
}

// Active returns the active criteria in catalog order.
func (c Catalog) Active() []Criterion {
	out := make([]Criterion, 0, len(c.Criteria))
	for _, cr := range c.Criteria {
		if cr.Active {
			out = append(out, cr)
		}
	}
	return out
}

// Validate checks the weight invariant: active criterion weights must sum
// to 100 within WeightTolerance before any evaluation runs.
func (c Catalog) Validate() error {
	active := c.Active()
	if len(active) == 0 {
		return NewConfigurationError(c.ProductID, "no active criteria configured")
	}

	sum := 0.0
	for _, cr := range active {
		if cr.Weight < 0 || cr.Weight > 100 {
			return NewConfigurationError(c.ProductID, "criterion %q weight %.2f outside [0,100]", cr.Code, cr.Weight)
		}
		sum += cr.Weight
	}
	if math.Abs(sum-100) > WeightTolerance {
		return NewConfigurationError(c.ProductID, "active criterion weights sum to %.2f, expected 100", sum)
	}
	return nil
}

// MaxAttainableScore is the weighted maximum the catalog can award:
// the sum over active criteria of (weight/100) * max bucket points.
func (c Catalog) MaxAttainableScore() float64 {
	total := 0.0
	for _, cr := range c.Active() {
		total += cr.Weight / 100.0 * cr.MaxPoints()
	}
	return total
}

// CriterionScore is the per-criterion audit record of one evaluation.
type CriterionScore struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	RawValue string  `json:"raw_value"`
	Points   float64 `json:"points"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Detail   string  `json:"detail,omitempty"`
}
