package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// CommitteeState – immutable value object
// ---------------------------------------------------------------------------

// ErrInvalidCommitteeTransition is returned when a committee state change is
// not allowed from the current state.
var ErrInvalidCommitteeTransition = errors.New("invalid committee state transition")

// CommitteeState represents the lifecycle stage of a committee review case.
// NONE means the evaluation was decided automatically and never entered
// committee review.
type CommitteeState struct {
	value string
}

const (
	committeeStateNone     = "NONE"
	committeeStatePending  = "PENDING"
	committeeStateApproved = "APPROVED"
	committeeStateRejected = "REJECTED"
)

var (
	CommitteeStateNone     = CommitteeState{value: committeeStateNone}
	CommitteeStatePending  = CommitteeState{value: committeeStatePending}
	CommitteeStateApproved = CommitteeState{value: committeeStateApproved}
	CommitteeStateRejected = CommitteeState{value: committeeStateRejected}
)

var validCommitteeStates = map[string]CommitteeState{
	committeeStateNone:     CommitteeStateNone,
	committeeStatePending:  CommitteeStatePending,
	committeeStateApproved: CommitteeStateApproved,
	committeeStateRejected: CommitteeStateRejected,
}

// NewCommitteeState creates a CommitteeState from a raw string.
func NewCommitteeState(s string) (CommitteeState, error) {
	v, ok := validCommitteeStates[s]
	if !ok {
		return CommitteeState{}, fmt.Errorf("invalid committee state: %q", s)
	}
	return v, nil
}

// String returns the string representation of the state.
func (s CommitteeState) String() string { return s.value }

// IsZero returns true if the state has not been initialised.
func (s CommitteeState) IsZero() bool { return s.value == "" }

// Equal returns true when both states carry the same value.
func (s CommitteeState) Equal(other CommitteeState) bool { return s.value == other.value }

// IsTerminal reports whether the state admits no further transitions.
func (s CommitteeState) IsTerminal() bool {
	return s.value == committeeStateApproved || s.value == committeeStateRejected
}

// MarshalText implements encoding.TextMarshaler for JSON serialisation.
func (s CommitteeState) MarshalText() ([]byte, error) { return []byte(s.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CommitteeState) UnmarshalText(b []byte) error {
	v, err := NewCommitteeState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
