package circuit

import (
	"fmt"

	"github.com/pkg/errors"
)

// SinkWire names the output of the dummy gate closing an unrolled circuit
const SinkWire = "__sink"

// FrameName is the name of a wire's copy in time frame k. Frame 0 keeps the
// original name.
func FrameName(name string, k int) string {
	if k == 0 {
		return name
	}
	return fmt.Sprintf("%s@%d", name, k)
}

// Unroll expands a sequential circuit into sequential-depth replicas of its
// combinational logic plus the original frame. Frame k gate copies get id
// ID + base*k where base is MaxGateID()+1.
//
// The state element of frame k (k >= 1) becomes a transparent copy whose
// data pin reads the frame k-1 data wire, so state moves forward one frame
// per clock. Frame 0 state outputs are initial-state inputs. The data wires
// of the last frame feed a single dummy sink gate.
//
// The result is levelized and has no state elements. A combinational
// circuit is returned unchanged.
func (c *Circuit) Unroll() (*Circuit, error) {
	if !c.IsLevelized() {
		if err := c.Levelize(); err != nil {
			return nil, err
		}
	}
	depth, err := c.SequentialDepth()
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		return c, nil
	}

	base := c.MaxGateID() + 1
	u := NewCircuit(c.Name + "_unrolled")

	for k := 0; k <= depth; k++ {
		for _, in := range c.Inputs {
			if _, err := u.AddInput(FrameName(c.WireName(in), k)); err != nil {
				return nil, errors.Wrapf(ErrUnrollConsistency, "frame %d: %v", k, err)
			}
		}
	}

	for k := 0; k <= depth; k++ {
		for _, g := range c.Gates {
			if g.IsStateElement() && k == 0 {
				if _, err := u.MarkStateInput(c.WireName(g.Output)); err != nil {
					return nil, errors.Wrapf(ErrUnrollConsistency, "frame 0: %v", err)
				}
				continue
			}
			inputs := make([]string, len(g.Inputs))
			for i, in := range g.Inputs {
				inputs[i] = FrameName(c.WireName(in), k)
			}
			if _, err := u.AddTransparentGate(g.ID+base*k, g.Type, inputs, FrameName(c.WireName(g.Output), k)); err != nil {
				return nil, errors.Wrapf(ErrUnrollConsistency, "frame %d: %v", k, err)
			}
		}
	}

	// Carry state across frames
	sinkInputs := make([]string, 0, len(c.State))
	for _, idx := range c.State {
		g := c.Gates[idx]
		data := c.WireName(g.Inputs[PinData])
		for k := 1; k <= depth; k++ {
			if err := u.rewire(g.ID+base*k, PinData, FrameName(data, k-1)); err != nil {
				return nil, err
			}
		}
		sinkInputs = append(sinkInputs, FrameName(data, depth))
	}
	if _, err := u.AddTransparentGate(base*(depth+1), Dummy, sinkInputs, SinkWire); err != nil {
		return nil, errors.Wrapf(ErrUnrollConsistency, "sink: %v", err)
	}

	for k := 0; k <= depth; k++ {
		for _, out := range c.Outputs {
			u.AddOutput(FrameName(c.WireName(out), k))
		}
	}

	if err := u.Levelize(); err != nil {
		return nil, errors.Wrapf(ErrUnrollConsistency, "levelizing unrolled circuit: %v", err)
	}
	return u, nil
}

// rewire moves one input pin of a replicated gate to another existing wire
func (c *Circuit) rewire(gateID, pin int, wire string) error {
	g, ok := c.Gate(gateID)
	if !ok {
		return errors.Wrapf(ErrUnrollConsistency, "replicated state element %d not found", gateID)
	}
	to, ok := c.WireID(wire)
	if !ok {
		return errors.Wrapf(ErrUnrollConsistency, "wire %s for state element %d not found", wire, gateID)
	}
	if pin >= len(g.Inputs) {
		return errors.Wrapf(ErrUnrollConsistency, "state element %d has no pin %d", gateID, pin)
	}

	from := c.Wires[g.Inputs[pin]]
	for i, idx := range from.Consumers {
		if idx == g.Index {
			from.Consumers = append(from.Consumers[:i], from.Consumers[i+1:]...)
			break
		}
	}
	g.Inputs[pin] = to
	c.Wires[to].Consumers = append(c.Wires[to].Consumers, g.Index)
	c.Levels = nil
	return nil
}

// FrameCopies returns the ids of every frame copy of an original wire name
// present in c, frame 0 first.
func (c *Circuit) FrameCopies(name string) []WireID {
	var ids []WireID
	for k := 0; ; k++ {
		id, ok := c.WireID(FrameName(name, k))
		if !ok {
			return ids
		}
		ids = append(ids, id)
	}
}

// AddTransparentGate adds a gate that is never simulated with latched state,
// the form state elements take inside unrolled frames.
func (c *Circuit) AddTransparentGate(id int, t GateType, inputs []string, output string) (*Gate, error) {
	return c.addGate(id, t, inputs, output, false)
}

// MarkStateInput declares an undriven wire as initial state
func (c *Circuit) MarkStateInput(name string) (WireID, error) {
	id := c.AddWire(name)
	w := c.Wires[id]
	if w.Producer != NoGate || w.IsInput() {
		return id, errors.Wrapf(ErrMultipleDrivers, "state input %s is already driven", name)
	}
	if w.Type != StateInput {
		w.Type = StateInput
		c.StateInputs = append(c.StateInputs, id)
	}
	return id, nil
}
