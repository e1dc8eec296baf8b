package circuit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Circuit is the gate/wire arena. Gates and wires are dense slices indexed by
// Gate.Index and WireID; netlist gate ids and wire names are looked up
// through interned tables. After Levelize the structure is read-only and can
// be shared by concurrent searches, each working on its own State.
type Circuit struct {
	Name        string
	Gates       []*Gate
	Wires       []*Wire
	Inputs      []WireID // Primary inputs, declaration order
	Outputs     []WireID // Primary outputs, declaration order
	StateInputs []WireID // Initial-state wires of an unrolled circuit
	State       []int    // Gate indexes of state elements
	Levels      [][]int  // Level -> gate indexes

	gateIndex map[int]int
	wireIndex map[string]WireID
}

// NewCircuit creates a new circuit with the given name
func NewCircuit(name string) *Circuit {
	return &Circuit{
		Name:      name,
		gateIndex: make(map[int]int),
		wireIndex: make(map[string]WireID),
	}
}

// AddWire interns a wire name and returns its id
func (c *Circuit) AddWire(name string) WireID {
	if id, ok := c.wireIndex[name]; ok {
		return id
	}
	id := WireID(len(c.Wires))
	c.Wires = append(c.Wires, &Wire{ID: id, Name: name, Type: Normal, Producer: NoGate})
	c.wireIndex[name] = id
	return id
}

// AddInput declares a primary input
func (c *Circuit) AddInput(name string) (WireID, error) {
	id := c.AddWire(name)
	w := c.Wires[id]
	if w.Producer != NoGate {
		return id, errors.Wrapf(ErrMultipleDrivers, "input %s is driven by gate %d", name, c.Gates[w.Producer].ID)
	}
	if w.Type != PrimaryInput {
		w.Type = PrimaryInput
		c.Inputs = append(c.Inputs, id)
	}
	return id, nil
}

// AddOutput declares a primary output
func (c *Circuit) AddOutput(name string) WireID {
	id := c.AddWire(name)
	w := c.Wires[id]
	if !w.Output {
		w.Output = true
		c.Outputs = append(c.Outputs, id)
	}
	return id
}

// AddGate connects a new gate to named wires, creating wires as needed.
// Sequential types become state elements.
func (c *Circuit) AddGate(id int, t GateType, inputs []string, output string) (*Gate, error) {
	return c.addGate(id, t, inputs, output, t.IsSequential())
}

func (c *Circuit) addGate(id int, t GateType, inputs []string, output string, stateful bool) (*Gate, error) {
	if _, ok := c.gateIndex[id]; ok {
		return nil, errors.Wrapf(ErrDuplicateGate, "gate %d", id)
	}
	out := c.AddWire(output)
	ow := c.Wires[out]
	if ow.Producer != NoGate {
		return nil, errors.Wrapf(ErrMultipleDrivers, "wire %s driven by gates %d and %d", output, c.Gates[ow.Producer].ID, id)
	}
	if ow.IsInput() {
		return nil, errors.Wrapf(ErrMultipleDrivers, "gate %d drives primary input %s", id, output)
	}

	g := &Gate{
		ID:        id,
		Index:     len(c.Gates),
		Type:      t,
		Inputs:    make([]WireID, 0, len(inputs)),
		Output:    out,
		Level:     -1,
		stateSlot: -1,
	}
	for _, name := range inputs {
		in := c.AddWire(name)
		g.Inputs = append(g.Inputs, in)
		c.Wires[in].Consumers = append(c.Wires[in].Consumers, g.Index)
	}
	ow.Producer = g.Index
	if stateful {
		g.stateSlot = len(c.State)
		c.State = append(c.State, g.Index)
	}

	c.Gates = append(c.Gates, g)
	c.gateIndex[id] = g.Index
	c.Levels = nil
	return g, nil
}

// Gate returns a gate by its netlist id
func (c *Circuit) Gate(id int) (*Gate, bool) {
	idx, ok := c.gateIndex[id]
	if !ok {
		return nil, false
	}
	return c.Gates[idx], true
}

// WireID returns the id of a named wire
func (c *Circuit) WireID(name string) (WireID, bool) {
	id, ok := c.wireIndex[name]
	return id, ok
}

// Wire returns a wire by name
func (c *Circuit) Wire(name string) (*Wire, bool) {
	id, ok := c.wireIndex[name]
	if !ok {
		return nil, false
	}
	return c.Wires[id], true
}

// WireName returns the name of a wire id
func (c *Circuit) WireName(id WireID) string {
	return c.Wires[id].Name
}

// Names maps wire ids to their names
func (c *Circuit) Names(ids []WireID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = c.Wires[id].Name
	}
	return names
}

// IsSequential reports whether the circuit has state elements
func (c *Circuit) IsSequential() bool {
	return len(c.State) > 0
}

// IsLevelized reports whether Levels is current
func (c *Circuit) IsLevelized() bool {
	return c.Levels != nil || len(c.Gates) == 0
}

// MaxGateID returns the largest netlist gate id, or -1 for an empty circuit
func (c *Circuit) MaxGateID() int {
	maxID := -1
	for _, g := range c.Gates {
		if g.ID > maxID {
			maxID = g.ID
		}
	}
	return maxID
}

// MaxLevel returns the deepest level, or -1 for an empty circuit
func (c *Circuit) MaxLevel() int {
	return len(c.Levels) - 1
}

// LevelMap returns level -> sorted gate ids
func (c *Circuit) LevelMap() map[int][]int {
	m := make(map[int][]int, len(c.Levels))
	for level, gates := range c.Levels {
		ids := make([]int, len(gates))
		for i, idx := range gates {
			ids[i] = c.Gates[idx].ID
		}
		sort.Ints(ids)
		m[level] = ids
	}
	return m
}

// SequentialDepth is one more than the deepest level holding a state
// element: the number of combinational stages between clock edges.
// It is 0 for combinational circuits.
func (c *Circuit) SequentialDepth() (int, error) {
	if !c.IsLevelized() {
		return 0, ErrNotLevelized
	}
	depth := 0
	for _, idx := range c.State {
		if l := c.Gates[idx].Level; l+1 > depth {
			depth = l + 1
		}
	}
	return depth, nil
}

// String returns a summary of the circuit
func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Circuit: %s\n", c.Name)
	fmt.Fprintf(&sb, "Inputs: %s\n", strings.Join(c.Names(c.Inputs), ", "))
	fmt.Fprintf(&sb, "Outputs: %s\n", strings.Join(c.Names(c.Outputs), ", "))
	fmt.Fprintf(&sb, "Gates: %d, Wires: %d, State elements: %d\n", len(c.Gates), len(c.Wires), len(c.State))
	for level, gates := range c.Levels {
		fmt.Fprintf(&sb, "Level %d:", level)
		for _, idx := range gates {
			fmt.Fprintf(&sb, " %s", c.Gates[idx])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
