package circuit

import (
	"strings"

	"github.com/pkg/errors"
)

// LogicValue represents the possible values for a signal wire in the
// five-valued D-calculus
type LogicValue uint8

const (
	X    LogicValue = iota // Unknown/unassigned
	Zero                   // Logic 0
	One                    // Logic 1
	D                      // Good circuit: 1, Faulty circuit: 0
	Dnot                   // Good circuit: 0, Faulty circuit: 1
)

// String returns a string representation of the logic value
func (v LogicValue) String() string {
	switch v {
	case X:
		return "X"
	case Zero:
		return "0"
	case One:
		return "1"
	case D:
		return "D"
	case Dnot:
		return "~D"
	default:
		return "?"
	}
}

// ParseLogicValue converts textual input ("0", "1", "X", "D", "~D") into a
// LogicValue. "D'" and "!D" are accepted as spellings of ~D.
func ParseLogicValue(s string) (LogicValue, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "0":
		return Zero, nil
	case "1":
		return One, nil
	case "X", "U":
		return X, nil
	case "D":
		return D, nil
	case "~D", "D'", "!D", "DNOT":
		return Dnot, nil
	}
	return X, errors.Errorf("invalid logic value %q", s)
}

// IsAssigned returns true if the value is not X
func (v LogicValue) IsAssigned() bool {
	return v != X
}

// IsFaulty returns true if the value carries a fault effect (D or ~D)
func (v LogicValue) IsFaulty() bool {
	return v == D || v == Dnot
}

// IsBinary returns true for the defining values 0 and 1
func (v LogicValue) IsBinary() bool {
	return v == Zero || v == One
}

// Not returns the complement: 0<->1, D<->~D, X stays X
func (v LogicValue) Not() LogicValue {
	switch v {
	case Zero:
		return One
	case One:
		return Zero
	case D:
		return Dnot
	case Dnot:
		return D
	default:
		return X
	}
}

// Good returns the good circuit value (1 for D, 0 for ~D)
func (v LogicValue) Good() LogicValue {
	switch v {
	case D:
		return One
	case Dnot:
		return Zero
	default:
		return v
	}
}

// Faulty returns the faulty circuit value (0 for D, 1 for ~D)
func (v LogicValue) Faulty() LogicValue {
	switch v {
	case D:
		return Zero
	case Dnot:
		return One
	default:
		return v
	}
}

// compose rebuilds a five-valued signal from its good and faulty halves.
// Either half being X yields X.
func compose(good, faulty LogicValue) LogicValue {
	switch {
	case good == X || faulty == X:
		return X
	case good == faulty:
		return good
	case good == One:
		return D
	default:
		return Dnot
	}
}
