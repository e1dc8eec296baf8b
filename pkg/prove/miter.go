// Package prove decides stuck-at testability exactly with a SAT solver.
//
// The good and the faulty copy of a levelized combinational circuit share
// their primary and state inputs; the faulty copy has the fault location
// tied to the stuck value. The miter is the OR over all primary outputs of
// good XOR faulty. An unsatisfiable miter proves the fault untestable.
package prove

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// ErrUnknown is returned when the solver stops without an answer
var ErrUnknown = errors.New("solver returned no answer")

// Prover builds and solves fault miters
type Prover struct {
	Logger *utils.Logger
}

// New creates a Prover
func New(logger *utils.Logger) *Prover {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	return &Prover{Logger: logger}
}

// ProveUntestable reports whether no input assignment distinguishes the
// good circuit from the one with every site stuck at stuck.
func (p *Prover) ProveUntestable(c *circuit.Circuit, sites []circuit.WireID, stuck circuit.LogicValue) (bool, error) {
	vector, testable, err := p.Witness(c, sites, stuck)
	if err != nil {
		return false, err
	}
	if testable {
		p.Logger.Debug("miter is satisfiable by %v", vector)
	}
	return !testable, nil
}

// Witness solves the miter and, when it is satisfiable, returns a binary
// primary input assignment that detects the fault.
func (p *Prover) Witness(c *circuit.Circuit, sites []circuit.WireID, stuck circuit.LogicValue) (map[string]circuit.LogicValue, bool, error) {
	m, err := build(c, sites, stuck)
	if err != nil {
		return nil, false, err
	}

	g := gini.New()
	m.lc.ToCnf(g)
	g.Assume(m.out)

	switch g.Solve() {
	case unsatisfiable:
		p.Logger.Debug("miter over %d site(s) is unsatisfiable", len(sites))
		return nil, false, nil
	case satisfiable:
		vector := make(map[string]circuit.LogicValue, len(c.Inputs))
		for _, in := range c.Inputs {
			v := circuit.Zero
			if g.Value(m.good[in]) {
				v = circuit.One
			}
			vector[c.WireName(in)] = v
		}
		return vector, true, nil
	}
	return nil, false, ErrUnknown
}

type miter struct {
	lc    *logic.C
	good  []z.Lit
	bad   []z.Lit
	out   z.Lit
	sites map[circuit.WireID]bool
}

func build(c *circuit.Circuit, sites []circuit.WireID, stuck circuit.LogicValue) (*miter, error) {
	if !c.IsLevelized() {
		return nil, circuit.ErrNotLevelized
	}
	if !stuck.IsBinary() {
		return nil, errors.Errorf("stuck value must be 0 or 1, got %s", stuck)
	}

	m := &miter{
		lc:    logic.NewCCap(4 * len(c.Gates)),
		good:  make([]z.Lit, len(c.Wires)),
		bad:   make([]z.Lit, len(c.Wires)),
		sites: make(map[circuit.WireID]bool, len(sites)),
	}
	for _, s := range sites {
		m.sites[s] = true
	}
	tied := m.lc.F
	if stuck == circuit.One {
		tied = m.lc.T
	}

	// Undriven wires and latched outputs are free, shared by both copies
	for _, w := range c.Wires {
		if w.Producer == circuit.NoGate {
			m.free(w.ID, tied)
		}
	}
	for _, idx := range c.State {
		m.free(c.Gates[idx].Output, tied)
	}

	for _, level := range c.Levels {
		for _, idx := range level {
			g := c.Gates[idx]
			if g.IsStateElement() {
				continue
			}
			gl, err := m.gate(g, m.good)
			if err != nil {
				return nil, err
			}
			m.good[g.Output] = gl
			if m.sites[g.Output] {
				m.bad[g.Output] = tied
				continue
			}
			bl, err := m.gate(g, m.bad)
			if err != nil {
				return nil, err
			}
			m.bad[g.Output] = bl
		}
	}

	diffs := make([]z.Lit, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		diffs = append(diffs, m.lc.Xor(m.good[o], m.bad[o]))
	}
	m.out = m.lc.Ors(diffs...)
	return m, nil
}

func (m *miter) free(w circuit.WireID, tied z.Lit) {
	in := m.lc.Lit()
	m.good[w] = in
	m.bad[w] = in
	if m.sites[w] {
		m.bad[w] = tied
	}
}

// gate encodes one gate over the literals of one copy
func (m *miter) gate(g *circuit.Gate, lits []z.Lit) (z.Lit, error) {
	ins := make([]z.Lit, len(g.Inputs))
	for i, in := range g.Inputs {
		ins[i] = lits[in]
	}

	switch g.Type {
	case circuit.BUF:
		return ins[0], nil
	case circuit.NOT:
		return ins[0].Not(), nil
	case circuit.AND:
		return m.lc.Ands(ins...), nil
	case circuit.NAND:
		return m.lc.Ands(ins...).Not(), nil
	case circuit.OR:
		return m.lc.Ors(ins...), nil
	case circuit.NOR:
		return m.lc.Ors(ins...).Not(), nil
	case circuit.XOR, circuit.XNOR:
		acc := m.lc.F
		for _, in := range ins {
			acc = m.lc.Xor(acc, in)
		}
		if g.Type == circuit.XNOR {
			acc = acc.Not()
		}
		return acc, nil
	case circuit.DFF:
		return ins[circuit.PinData], nil
	case circuit.DFFSR:
		return m.lc.Choice(ins[circuit.PinSet], m.lc.T,
			m.lc.Choice(ins[circuit.PinReset], m.lc.F, ins[circuit.PinData])), nil
	case circuit.Dummy:
		return m.lc.Lit(), nil
	}
	return z.LitNull, errors.Wrapf(circuit.ErrUnsupportedGateType, "%s", g)
}
