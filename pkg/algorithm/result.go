package algorithm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Outcome classifies a finished run for coverage accounting
type Outcome int

const (
	// Aborted means the search exhausted its strategy without resolving the fault
	Aborted Outcome = iota
	// Detected means a test vector was found
	Detected
	// Untestable means the fault is confirmed undetectable
	Untestable
)

func (o Outcome) String() string {
	switch o {
	case Detected:
		return "detected"
	case Untestable:
		return "untestable"
	default:
		return "aborted"
	}
}

// Reason records how far an unsuccessful search got. Larger values are
// further along the state machine.
type Reason int

const (
	ReasonNone Reason = iota
	NoSensitizablePath
	ActivationFailed
	PropagationFailed
)

func (r Reason) String() string {
	switch r {
	case NoSensitizablePath:
		return "no sensitizable path"
	case ActivationFailed:
		return "activation failed"
	case PropagationFailed:
		return "propagation failed"
	default:
		return "none"
	}
}

// Proof records how untestability was confirmed
type Proof int

const (
	ProofNone       Proof = iota
	ProofStructural       // No X-path from the unassigned circuit
	ProofSAT              // Good/faulty miter is unsatisfiable
)

// Sentinels for callers that prefer error semantics, see Result.Err
var (
	ErrNoSensitizablePath = errors.New("no sensitizable path")
	ErrActivationFailed   = errors.New("activation failed")
	ErrPropagationFailed  = errors.New("propagation failed")
)

// ErrInvalidFault is returned for a fault that cannot be a stuck-at fault
var ErrInvalidFault = errors.New("invalid fault")

// SearchError describes an unsuccessful run
type SearchError struct {
	Fault   Fault
	Outcome Outcome
	Reason  Reason
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("fault %s %s: %s", e.Fault, e.Outcome, e.Reason)
}

// Unwrap maps the reason onto its sentinel
func (e *SearchError) Unwrap() error {
	switch e.Reason {
	case NoSensitizablePath:
		return ErrNoSensitizablePath
	case ActivationFailed:
		return ErrActivationFailed
	case PropagationFailed:
		return ErrPropagationFailed
	}
	return nil
}

// Result is the outcome of one fault run
type Result struct {
	Fault   Fault
	Outcome Outcome
	Reason  Reason
	Proof   Proof

	Site    string                        // Wire the fault was activated on
	Vector  map[string]circuit.LogicValue // Primary inputs, X is don't-care
	Outputs map[string]circuit.LogicValue // Primary outputs under the fault
	Stats   Stats
}

// Err returns nil for a detected fault and a *SearchError otherwise
func (r *Result) Err() error {
	if r.Outcome == Detected {
		return nil
	}
	return &SearchError{Fault: r.Fault, Outcome: r.Outcome, Reason: r.Reason}
}

// FormatVector renders a vector as "a=1 b=X ..." in name order
func FormatVector(v map[string]circuit.LogicValue) string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + v[name].String()
	}
	return strings.Join(parts, " ")
}
