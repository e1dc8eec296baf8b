package algorithm

import (
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// CheckXPath reports whether some primary output can be reached from wire
// from through gates whose output is still X.
func CheckXPath(c *circuit.Circuit, s *circuit.State, from circuit.WireID) bool {
	if c.Wires[from].IsOutput() {
		return true
	}

	visited := make(map[circuit.WireID]bool)
	queue := []circuit.WireID{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, idx := range c.Wires[current].Consumers {
			out := c.Gates[idx].Output
			if visited[out] || s.Value(out) != circuit.X {
				continue
			}
			if c.Wires[out].IsOutput() {
				return true
			}
			visited[out] = true
			queue = append(queue, out)
		}
	}
	return false
}

// DFrontier returns the gates with a D or ~D input and an X output
func DFrontier(c *circuit.Circuit, s *circuit.State) []int {
	var frontier []int
	for _, g := range c.Gates {
		if s.Value(g.Output) != circuit.X {
			continue
		}
		for _, in := range g.Inputs {
			if s.Value(in).IsFaulty() {
				frontier = append(frontier, g.Index)
				break
			}
		}
	}
	return frontier
}

// Observed reports whether a fault effect has reached a primary output
func Observed(c *circuit.Circuit, s *circuit.State) bool {
	for _, o := range c.Outputs {
		if s.Value(o).IsFaulty() {
			return true
		}
	}
	return false
}

// faultEffectAlive reports whether a fault effect is observed or can still
// travel to an output along an X-path from some D-frontier gate.
func faultEffectAlive(c *circuit.Circuit, s *circuit.State) bool {
	if Observed(c, s) {
		return true
	}
	for _, idx := range DFrontier(c, s) {
		if CheckXPath(c, s, c.Gates[idx].Output) {
			return true
		}
	}
	return false
}
