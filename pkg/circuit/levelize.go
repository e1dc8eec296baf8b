package circuit

import (
	"sort"

	"github.com/pkg/errors"
)

// Levelize assigns every gate the earliest level at which all of its inputs
// are available. Primary inputs, state inputs and undriven wires are
// available before level 0. The outputs of state elements are seeded as
// pseudo-primary inputs, so feedback through a DFF never blocks placement,
// while the DFF itself is still placed after its data cone.
//
// A level that admits no gate while gates remain unplaced means a
// combinational cycle and yields ErrMalformedCircuit.
func (c *Circuit) Levelize() error {
	available := make([]bool, len(c.Wires))
	for _, w := range c.Wires {
		if w.Producer == NoGate {
			available[w.ID] = true
		}
	}
	for _, idx := range c.State {
		available[c.Gates[idx].Output] = true
	}

	// Outputs still waiting for a producer to be placed
	pending := make(map[WireID]bool)
	for _, o := range c.Outputs {
		if !available[o] {
			pending[o] = true
		}
	}

	remaining := make([]int, 0, len(c.Gates))
	for _, g := range c.Gates {
		g.Level = -1
		remaining = append(remaining, g.Index)
	}

	levels := make([][]int, 0)
	for len(remaining) > 0 || len(pending) > 0 {
		var admitted, blocked []int
		for _, idx := range remaining {
			if c.inputsAvailable(c.Gates[idx], available) {
				admitted = append(admitted, idx)
			} else {
				blocked = append(blocked, idx)
			}
		}
		if len(admitted) == 0 {
			c.Levels = nil
			return errors.Wrapf(ErrMalformedCircuit, "combinational cycle through gates %v", c.gateIDs(blocked))
		}

		// Outputs become available for the next level only
		level := len(levels)
		for _, idx := range admitted {
			g := c.Gates[idx]
			g.Level = level
			available[g.Output] = true
			delete(pending, g.Output)
		}
		levels = append(levels, admitted)
		remaining = blocked
	}

	c.Levels = levels
	return nil
}

func (c *Circuit) inputsAvailable(g *Gate, available []bool) bool {
	for _, in := range g.Inputs {
		if !available[in] {
			return false
		}
	}
	return true
}

func (c *Circuit) gateIDs(indexes []int) []int {
	ids := make([]int, len(indexes))
	for i, idx := range indexes {
		ids[i] = c.Gates[idx].ID
	}
	sort.Ints(ids)
	return ids
}
