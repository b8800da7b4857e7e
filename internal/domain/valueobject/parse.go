package valueobject

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// ParseMode and applicant value parsing
// ---------------------------------------------------------------------------

// ParseMode controls how malformed applicant values are handled during
// scoring. Lenient degrades a bad value to a zero-point contribution, which
// matches the legacy behaviour; Strict surfaces it as an error so bad data
// cannot masquerade as a legitimate low score.
type ParseMode struct {
	value string
}

var (
	ParseModeLenient = ParseMode{value: "LENIENT"}
	ParseModeStrict  = ParseMode{value: "STRICT"}
)

// NewParseMode creates a ParseMode from a raw string.
func NewParseMode(s string) (ParseMode, error) {
	switch strings.ToUpper(s) {
	case "LENIENT", "":
		return ParseModeLenient, nil
	case "STRICT":
		return ParseModeStrict, nil
	}
	return ParseMode{}, fmt.Errorf("invalid parse mode: %q", s)
}

// String returns the string representation of the mode.
func (m ParseMode) String() string { return m.value }

// Strict reports whether malformed input should fail the evaluation.
func (m ParseMode) Strict() bool { return m.value == "STRICT" }

// InputParseError reports a malformed applicant value. It is only surfaced
// under ParseModeStrict; Lenient mode converts it to a zero contribution.
type InputParseError struct {
	Criterion string
	Value     string
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("unparseable value %q for criterion %q", e.Value, e.Criterion)
}

// ParseNumeric parses an applicant-supplied numeric value. Currency symbols,
// spaces and thousands separators are stripped; a decimal comma is accepted.
// Negative inputs clamp to zero since no scored attribute is meaningfully
// negative.
func ParseNumeric(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")

	// "1.500.000" and "1,500,000" are thousands-grouped integers;
	// "15,5" is a decimal comma. Decide by whether both separators appear.
	switch {
	case strings.Contains(s, ".") && strings.Contains(s, ","):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.500.000,75 — dots group thousands, comma is decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,500,000.75
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") == 1:
		// A lone dot followed by exactly three digits is grouping in the
		// legacy forms, so "1.500" reads as 1500 while "15.5" keeps its
		// decimal point.
		if i := strings.IndexByte(s, '.'); len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric %q: %w", raw, err)
	}
	if v < 0 {
		v = 0
	}
	return v, nil
}

// ParseBool parses an applicant-supplied boolean value. Spanish and English
// affirmatives are accepted because legacy forms submitted both.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "si", "sí", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("parse bool %q", raw)
}
