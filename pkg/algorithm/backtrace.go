package algorithm

import (
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Backtrace walks the fanin cone of a location and returns the primary
// inputs that are still X, in depth-first order following gate input order.
// Only these inputs can influence the location. The clock pin of a
// transparent DFF or DFFSR copy is not followed since its value is ignored.
func Backtrace(c *circuit.Circuit, s *circuit.State, from circuit.WireID) []circuit.WireID {
	var inputs []circuit.WireID
	visited := make(map[circuit.WireID]bool)
	stack := []circuit.WireID{from}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		w := c.Wires[current]
		if w.IsInput() {
			if s.Value(current) == circuit.X {
				inputs = append(inputs, current)
			}
			continue
		}
		if w.Producer == circuit.NoGate {
			continue // state input or floating wire, not controllable
		}

		// Push in reverse so the first input is expanded first
		g := c.Gates[w.Producer]
		for i := len(g.Inputs) - 1; i >= 0; i-- {
			if i == circuit.PinClock && g.Type.IsSequential() && !g.IsStateElement() {
				continue
			}
			if !visited[g.Inputs[i]] {
				stack = append(stack, g.Inputs[i])
			}
		}
	}
	return inputs
}
