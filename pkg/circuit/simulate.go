package circuit

import (
	"github.com/pkg/errors"
)

// State holds everything a simulation mutates: one value per wire, the
// pinned (pre-seeded) wires, injected stuck-at faults and the latches of the
// state elements. A Circuit is shared; a State is a per-attempt scratch copy.
type State struct {
	Values  []LogicValue
	Latches []Latch

	pinned []bool
	stuck  []LogicValue // X when no fault is injected on the wire
}

// NewState returns an all-X state with power-up latches
func NewState(c *Circuit) *State {
	s := &State{
		Values:  make([]LogicValue, len(c.Wires)),
		Latches: make([]Latch, len(c.State)),
		pinned:  make([]bool, len(c.Wires)),
		stuck:   make([]LogicValue, len(c.Wires)),
	}
	for i := range s.Latches {
		s.Latches[i] = NewLatch()
	}
	return s
}

// CopyFrom overwrites s with src without allocating
func (s *State) CopyFrom(src *State) {
	copy(s.Values, src.Values)
	copy(s.Latches, src.Latches)
	copy(s.pinned, src.pinned)
	copy(s.stuck, src.stuck)
}

// Value returns the current value of a wire
func (s *State) Value(w WireID) LogicValue {
	return s.Values[w]
}

// Set assigns a wire value that simulation may overwrite
func (s *State) Set(w WireID, v LogicValue) {
	s.Values[w] = v
}

// Pin pre-seeds a wire; simulation never overwrites a pinned wire
func (s *State) Pin(w WireID, v LogicValue) {
	s.Values[w] = v
	s.pinned[w] = true
}

// IsPinned reports whether the wire is pre-seeded
func (s *State) IsPinned(w WireID) bool {
	return s.pinned[w]
}

// Inject places a stuck-at fault on a wire: during simulation its faulty half
// is forced to stuck while the good half keeps following the driving logic.
func (s *State) Inject(w WireID, stuck LogicValue) {
	s.stuck[w] = stuck
}

// Assign sets primary input values by name
func (s *State) Assign(c *Circuit, inputs map[string]LogicValue) error {
	for name, v := range inputs {
		w, ok := c.Wire(name)
		if !ok {
			return errors.Wrapf(ErrUnknownWire, "input %q", name)
		}
		if !w.IsInput() {
			return errors.Wrapf(ErrUnknownWire, "%q is not a primary input", name)
		}
		s.Values[w.ID] = v
	}
	return nil
}

// Snapshot returns the wire-name -> value mapping
func (s *State) Snapshot(c *Circuit) map[string]LogicValue {
	m := make(map[string]LogicValue, len(c.Wires))
	for _, w := range c.Wires {
		m[w.Name] = s.Values[w.ID]
	}
	return m
}

// Simulate evaluates every gate in level order and writes its output wire,
// skipping pinned wires. State elements output their latched value from the
// start of the pass and advance their latches when their level is reached.
func (c *Circuit) Simulate(s *State) error {
	if !c.IsLevelized() {
		return ErrNotLevelized
	}
	if len(s.Values) != len(c.Wires) || len(s.Latches) != len(c.State) {
		return errors.Wrap(ErrMalformedCircuit, "state does not belong to this circuit")
	}

	// Undriven wires only see the injected fault
	for _, w := range c.Wires {
		if w.Producer == NoGate && s.stuck[w.ID] != X && !s.pinned[w.ID] {
			s.Values[w.ID] = compose(s.Values[w.ID].Good(), s.stuck[w.ID])
		}
	}
	for slot, idx := range c.State {
		s.write(c.Gates[idx].Output, s.Latches[slot].Data)
	}

	inputs := make([]LogicValue, 0, 4)
	for _, level := range c.Levels {
		for _, idx := range level {
			g := c.Gates[idx]
			inputs = inputs[:0]
			for _, in := range g.Inputs {
				inputs = append(inputs, s.Values[in])
			}

			var out LogicValue
			var err error
			if g.IsStateElement() {
				out, err = s.Latches[g.stateSlot].Step(g.Type, inputs)
			} else {
				out, err = Evaluate(g.Type, inputs)
			}
			if err != nil {
				return errors.Wrapf(err, "evaluating %s", g)
			}
			s.write(g.Output, out)
		}
	}
	return nil
}

func (s *State) write(w WireID, v LogicValue) {
	if s.pinned[w] {
		return
	}
	if f := s.stuck[w]; f != X {
		v = compose(v.Good(), f)
	}
	s.Values[w] = v
}

// SimulateGraph assigns the named primary inputs, simulates, and returns the
// full wire-value mapping.
func (c *Circuit) SimulateGraph(s *State, inputs map[string]LogicValue) (map[string]LogicValue, error) {
	if err := s.Assign(c, inputs); err != nil {
		return nil, err
	}
	if err := c.Simulate(s); err != nil {
		return nil, err
	}
	return s.Snapshot(c), nil
}
