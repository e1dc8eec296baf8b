package circuit

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// GateType represents the type of logic gate
type GateType int

const (
	BUF GateType = iota // Buffer gate
	NOT
	AND
	NAND
	OR
	NOR
	XOR
	XNOR
	DFF   // D flip-flop, pins (C, D)
	DFFSR // D flip-flop with set/reset, pins (C, D, S, R)
	Dummy // Synthetic sink, never observable
)

// String returns a string representation of the gate type
func (gt GateType) String() string {
	switch gt {
	case BUF:
		return "BUF"
	case NOT:
		return "NOT"
	case AND:
		return "AND"
	case NAND:
		return "NAND"
	case OR:
		return "OR"
	case NOR:
		return "NOR"
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	case DFF:
		return "DFF"
	case DFFSR:
		return "DFFSR"
	case Dummy:
		return "dummy"
	default:
		return fmt.Sprintf("GateType(%d)", int(gt))
	}
}

// ParseGateType converts a netlist gate keyword into a GateType. The dummy
// sink is internal and cannot be named in a netlist.
func ParseGateType(name string) (GateType, error) {
	switch strings.ToUpper(name) {
	case "BUF", "BUFF":
		return BUF, nil
	case "NOT", "INV":
		return NOT, nil
	case "AND":
		return AND, nil
	case "NAND":
		return NAND, nil
	case "OR":
		return OR, nil
	case "NOR":
		return NOR, nil
	case "XOR":
		return XOR, nil
	case "XNOR":
		return XNOR, nil
	case "DFF":
		return DFF, nil
	case "DFFSR":
		return DFFSR, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedGateType, "gate type %q", name)
}

// IsSequential reports whether the type owns latched state
func (gt GateType) IsSequential() bool {
	return gt == DFF || gt == DFFSR
}

// Pin indexes of the sequential gates
const (
	PinClock = 0
	PinData  = 1
	PinSet   = 2
	PinReset = 3
)

// arity returns the minimum and maximum number of inputs (max < 0 means unbounded)
func (gt GateType) arity() (int, int) {
	switch gt {
	case BUF, NOT:
		return 1, 1
	case DFF:
		return 2, 2
	case DFFSR:
		return 4, 4
	case Dummy:
		return 0, -1
	default:
		return 1, -1
	}
}

// Gate represents a logic gate in the circuit
type Gate struct {
	ID     int      // Netlist identifier
	Index  int      // Position in Circuit.Gates
	Type   GateType // Type of the gate
	Inputs []WireID // Ordered input wires
	Output WireID   // Output wire
	Level  int      // Topological level, -1 until levelized

	stateSlot int // Index into State.Latches, -1 for combinational gates
}

// IsStateElement reports whether the gate is simulated with latched state
func (g *Gate) IsStateElement() bool {
	return g.stateSlot >= 0
}

// String returns a string representation of the gate
func (g *Gate) String() string {
	return fmt.Sprintf("g%d(%s)", g.ID, g.Type)
}
