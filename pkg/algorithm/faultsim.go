package algorithm

import (
	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// FaultSimulate applies one vector to the searched circuit and returns the
// faults it detects. Each fault is injected on every frame copy of its
// location, with the good half still driven by the circuit.
func FaultSimulate(c *circuit.Circuit, vector map[string]circuit.LogicValue, faults []Fault) ([]Fault, error) {
	base := circuit.NewState(c)
	if err := base.Assign(c, vector); err != nil {
		return nil, err
	}

	s := circuit.NewState(c)
	var detected []Fault
	for _, f := range faults {
		sites := c.FrameCopies(f.Location)
		if len(sites) == 0 {
			return nil, errors.Wrapf(circuit.ErrUnknownWire, "fault location %q", f.Location)
		}

		s.CopyFrom(base)
		for _, w := range sites {
			s.Inject(w, f.StuckValue())
		}
		if err := c.Simulate(s); err != nil {
			return nil, err
		}
		if Observed(c, s) {
			detected = append(detected, f)
		}
	}
	return detected, nil
}
