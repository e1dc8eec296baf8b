package utils_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/circuit/circuittest"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

func TestToRecords(t *testing.T) {
	c := circuittest.Accumulator()
	rec := utils.ToRecords(c)

	assert.Equal(t, "accumulator", rec.Name)
	assert.Equal(t, []string{"clk", "a"}, rec.Inputs)
	assert.Equal(t, []string{"y"}, rec.Outputs)
	require.Len(t, rec.Gates, 3)
	assert.Equal(t, utils.GateRecord{ID: 2, Type: "DFF", Inputs: []string{"clk", "n1"}, Output: "q", State: true}, rec.Gates[1])

	var q utils.WireRecord
	for _, w := range rec.Wires {
		if w.Name == "q" {
			q = w
		}
	}
	assert.Equal(t, map[int]circuit.Role{2: circuit.Producer, 1: circuit.Consumer, 3: circuit.Consumer}, q.Connections)
	assert.Equal(t, map[int][]int{0: {1, 3}, 1: {2}}, rec.Levels)
}

// TestRecordsRoundTripUnrolled reimports an unrolled circuit: the sink, the
// transparent frame copies and the initial-state inputs must survive.
func TestRecordsRoundTripUnrolled(t *testing.T) {
	u, err := circuittest.Accumulator().Unroll()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, utils.WriteRecords(&buf, u))
	assert.Contains(t, buf.String(), "type: dummy")

	got, err := utils.ReadRecords(&buf)
	require.NoError(t, err)

	assert.Equal(t, u.Names(u.Inputs), got.Names(got.Inputs))
	assert.Equal(t, u.Names(u.Outputs), got.Names(got.Outputs))
	assert.Equal(t, []string{"q"}, got.Names(got.StateInputs))
	assert.False(t, got.IsSequential(), "frame copies stay transparent")
	if diff := cmp.Diff(u.LevelMap(), got.LevelMap()); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}

	inputs := map[string]circuit.LogicValue{"a": circuit.One, "a@1": circuit.One, "clk@1": circuit.One}
	want, err := u.SimulateGraph(circuit.NewState(u), inputs)
	require.NoError(t, err)
	have, err := got.SimulateGraph(circuit.NewState(got), inputs)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}

func TestReadRecordsErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name: "unknown type",
			doc: `name: bad
inputs: [a]
outputs: [y]
gates:
  - {id: 1, type: MUX, inputs: [a], output: y}
`,
			wantErr: circuit.ErrUnsupportedGateType,
		},
		{
			name: "wrong producer",
			doc: `name: bad
inputs: [a]
outputs: [y]
gates:
  - {id: 1, type: NOT, inputs: [a], output: y}
wires:
  - name: y
    connections: {7: producer}
`,
			wantErr: circuit.ErrMalformedCircuit,
		},
		{
			name: "unknown wire",
			doc: `name: bad
inputs: [a]
outputs: [y]
gates:
  - {id: 1, type: NOT, inputs: [a], output: y}
wires:
  - name: nowhere
`,
			wantErr: circuit.ErrUnknownWire,
		},
		{
			name: "cycle",
			doc: `name: bad
inputs: [a]
outputs: [y]
gates:
  - {id: 1, type: AND, inputs: [a, n2], output: n1}
  - {id: 2, type: NOT, inputs: [n1], output: n2}
  - {id: 3, type: BUF, inputs: [n2], output: y}
`,
			wantErr: circuit.ErrMalformedCircuit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := utils.ReadRecords(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
