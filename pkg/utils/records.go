package utils

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// GateRecord is the exchanged form of a gate
type GateRecord struct {
	ID     int      `yaml:"id"`
	Type   string   `yaml:"type"`
	Inputs []string `yaml:"inputs,flow"`
	Output string   `yaml:"output"`
	State  bool     `yaml:"state,omitempty"` // Simulated with latched state
}

// WireRecord is the exchanged form of a wire: connected gate id -> role
type WireRecord struct {
	Name        string               `yaml:"name"`
	Connections map[int]circuit.Role `yaml:"connections,omitempty"`
}

// GraphRecords is the exchanged form of a whole circuit graph
type GraphRecords struct {
	Name        string        `yaml:"name"`
	Inputs      []string      `yaml:"inputs,flow"`
	Outputs     []string      `yaml:"outputs,flow"`
	StateInputs []string      `yaml:"state_inputs,flow,omitempty"`
	Gates       []GateRecord  `yaml:"gates"`
	Wires       []WireRecord  `yaml:"wires"`
	Levels      map[int][]int `yaml:"levels,omitempty"`
}

// ToRecords converts a circuit into its exchanged form
func ToRecords(c *circuit.Circuit) GraphRecords {
	rec := GraphRecords{
		Name:        c.Name,
		Inputs:      c.Names(c.Inputs),
		Outputs:     c.Names(c.Outputs),
		StateInputs: c.Names(c.StateInputs),
		Gates:       make([]GateRecord, 0, len(c.Gates)),
		Wires:       make([]WireRecord, 0, len(c.Wires)),
	}
	for _, g := range c.Gates {
		rec.Gates = append(rec.Gates, GateRecord{
			ID:     g.ID,
			Type:   g.Type.String(),
			Inputs: c.Names(g.Inputs),
			Output: c.WireName(g.Output),
			State:  g.IsStateElement(),
		})
	}
	for _, w := range c.Wires {
		wr := WireRecord{Name: w.Name, Connections: make(map[int]circuit.Role)}
		if w.Producer != circuit.NoGate {
			wr.Connections[c.Gates[w.Producer].ID] = circuit.Producer
		}
		for _, idx := range w.Consumers {
			wr.Connections[c.Gates[idx].ID] = circuit.Consumer
		}
		rec.Wires = append(rec.Wires, wr)
	}
	if c.IsLevelized() && len(c.Gates) > 0 {
		rec.Levels = c.LevelMap()
	}
	return rec
}

// FromRecords rebuilds and levelizes a circuit. Wire records are only
// cross-checked against the gates.
func FromRecords(rec GraphRecords) (*circuit.Circuit, error) {
	c := circuit.NewCircuit(rec.Name)
	for _, in := range rec.Inputs {
		if _, err := c.AddInput(in); err != nil {
			return nil, err
		}
	}
	for _, out := range rec.Outputs {
		c.AddOutput(out)
	}

	for _, g := range rec.Gates {
		gt, err := parseRecordType(g.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "gate %d", g.ID)
		}
		if g.State || !gt.IsSequential() {
			_, err = c.AddGate(g.ID, gt, g.Inputs, g.Output)
		} else {
			_, err = c.AddTransparentGate(g.ID, gt, g.Inputs, g.Output)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, s := range rec.StateInputs {
		if _, err := c.MarkStateInput(s); err != nil {
			return nil, err
		}
	}

	for _, wr := range rec.Wires {
		w, ok := c.Wire(wr.Name)
		if !ok {
			return nil, errors.Wrapf(circuit.ErrUnknownWire, "wire record %q", wr.Name)
		}
		for id, role := range wr.Connections {
			if role == circuit.Producer && (w.Producer == circuit.NoGate || c.Gates[w.Producer].ID != id) {
				return nil, errors.Wrapf(circuit.ErrMalformedCircuit, "wire %s: gate %d is not its producer", wr.Name, id)
			}
		}
	}

	if err := c.Levelize(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseRecordType(name string) (circuit.GateType, error) {
	if strings.EqualFold(name, circuit.Dummy.String()) {
		return circuit.Dummy, nil
	}
	return circuit.ParseGateType(name)
}

// WriteRecords encodes a circuit as YAML
func WriteRecords(w io.Writer, c *circuit.Circuit) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToRecords(c)); err != nil {
		return errors.Wrap(err, "encoding graph records")
	}
	return enc.Close()
}

// ReadRecords decodes a YAML graph and rebuilds the circuit
func ReadRecords(r io.Reader) (*circuit.Circuit, error) {
	var rec GraphRecords
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "decoding graph records")
	}
	return FromRecords(rec)
}
