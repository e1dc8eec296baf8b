// Package circuittest builds small reference circuits for tests.
package circuittest

import (
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// GateSpec is one gate of a fixture netlist
type GateSpec struct {
	ID     int
	Type   circuit.GateType
	Inputs []string
	Output string
}

// Build creates and levelizes a circuit, panicking on structural errors so
// fixtures stay one-liners in tests.
func Build(name string, inputs, outputs []string, gates []GateSpec) *circuit.Circuit {
	c, err := TryBuild(name, inputs, outputs, gates)
	if err != nil {
		panic(err)
	}
	if err := c.Levelize(); err != nil {
		panic(err)
	}
	return c
}

// TryBuild creates a circuit without levelizing it
func TryBuild(name string, inputs, outputs []string, gates []GateSpec) (*circuit.Circuit, error) {
	c := circuit.NewCircuit(name)
	for _, in := range inputs {
		if _, err := c.AddInput(in); err != nil {
			return nil, err
		}
	}
	for _, out := range outputs {
		c.AddOutput(out)
	}
	for _, g := range gates {
		if _, err := c.AddGate(g.ID, g.Type, g.Inputs, g.Output); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FullAdder is the 8-gate full adder: y = a^b^carryin, carryout = majority.
//
//	level 0: 1 OR(b,carryin)->_02_   21 NAND(b,carryin)->_03_
//	level 1: 26 NAND(_02_,_03_)->_04_ 46 NAND(a,_02_)->_01_
//	level 2: 31 NAND(a,_04_)->_05_   36 OR(a,_04_)->_00_   51 NAND(_03_,_01_)->carryout
//	level 3: 41 NAND(_05_,_00_)->y
func FullAdder() *circuit.Circuit {
	return Build("full_adder",
		[]string{"a", "b", "carryin"},
		[]string{"y", "carryout"},
		[]GateSpec{
			{1, circuit.OR, []string{"b", "carryin"}, "_02_"},
			{21, circuit.NAND, []string{"b", "carryin"}, "_03_"},
			{26, circuit.NAND, []string{"_02_", "_03_"}, "_04_"},
			{31, circuit.NAND, []string{"a", "_04_"}, "_05_"},
			{36, circuit.OR, []string{"a", "_04_"}, "_00_"},
			{41, circuit.NAND, []string{"_05_", "_00_"}, "y"},
			{46, circuit.NAND, []string{"a", "_02_"}, "_01_"},
			{51, circuit.NAND, []string{"_03_", "_01_"}, "carryout"},
		})
}

// Accumulator has one DFF fed by combinational logic that reads its output:
//
//	1 AND(a,q)->n1  (level 0)
//	3 NOT(q)->y     (level 0)
//	2 DFF(clk,n1)->q (level 1)
//
// Its sequential depth is 2.
func Accumulator() *circuit.Circuit {
	return Build("accumulator",
		[]string{"clk", "a"},
		[]string{"y"},
		[]GateSpec{
			{1, circuit.AND, []string{"a", "q"}, "n1"},
			{2, circuit.DFF, []string{"clk", "n1"}, "q"},
			{3, circuit.NOT, []string{"q"}, "y"},
		})
}

// Redundant has a stuck-at-0 on n1 that no input can observe:
// y = OR(a, AND(a, b)) reduces to a.
func Redundant() *circuit.Circuit {
	return Build("redundant",
		[]string{"a", "b"},
		[]string{"y"},
		[]GateSpec{
			{1, circuit.AND, []string{"a", "b"}, "n1"},
			{2, circuit.OR, []string{"a", "n1"}, "y"},
		})
}

// Unobservable has a wire, n2, with no path to any primary output.
func Unobservable() *circuit.Circuit {
	return Build("unobservable",
		[]string{"a", "b"},
		[]string{"y"},
		[]GateSpec{
			{1, circuit.AND, []string{"a", "b"}, "y"},
			{2, circuit.OR, []string{"a", "b"}, "n2"},
		})
}
