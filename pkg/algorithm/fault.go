package algorithm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Fault is a single stuck-at fault in D-calculus form. Polarity D is
// stuck-at-0 (good 1, faulty 0); ~D is stuck-at-1.
type Fault struct {
	Location string
	Polarity circuit.LogicValue
}

// StuckAt builds the fault for a wire stuck at 0 or 1
func StuckAt(location string, value int) Fault {
	if value == 0 {
		return Fault{Location: location, Polarity: circuit.D}
	}
	return Fault{Location: location, Polarity: circuit.Dnot}
}

// StuckValue is the value the faulty circuit sees at the location
func (f Fault) StuckValue() circuit.LogicValue {
	return f.Polarity.Faulty()
}

// Target is the good value that activates the fault
func (f Fault) Target() circuit.LogicValue {
	return f.Polarity.Good()
}

// String formats the fault as "net/0" or "net/1"
func (f Fault) String() string {
	return fmt.Sprintf("%s/%s", f.Location, f.StuckValue())
}

// ParseFault parses a fault string like "a/0" or "net34/1"
func ParseFault(s string) (Fault, error) {
	i := strings.LastIndex(s, "/")
	if i <= 0 || i == len(s)-1 {
		return Fault{}, errors.Wrapf(ErrInvalidFault, "%q (expected net/0 or net/1)", s)
	}
	switch s[i+1:] {
	case "0":
		return StuckAt(s[:i], 0), nil
	case "1":
		return StuckAt(s[:i], 1), nil
	}
	return Fault{}, errors.Wrapf(ErrInvalidFault, "stuck value in %q", s)
}

// EnumerateFaults lists stuck-at-0 and stuck-at-1 for every wire of c in
// wire order. The dummy sink is skipped.
func EnumerateFaults(c *circuit.Circuit) []Fault {
	faults := make([]Fault, 0, 2*len(c.Wires))
	for _, w := range c.Wires {
		if w.Name == circuit.SinkWire {
			continue
		}
		faults = append(faults, StuckAt(w.Name, 0), StuckAt(w.Name, 1))
	}
	return faults
}
