package utils_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

func TestParseBenchFile(t *testing.T) {
	c, err := utils.ParseBenchFile("testdata/full_adder.bench")
	require.NoError(t, err)

	assert.Equal(t, "full_adder", c.Name)
	assert.Len(t, c.Gates, 8)
	assert.Len(t, c.Wires, 11)
	assert.Equal(t, []string{"a", "b", "carryin"}, c.Names(c.Inputs))
	assert.Equal(t, []string{"y", "carryout"}, c.Names(c.Outputs))
	assert.False(t, c.IsLevelized(), "parser must not levelize")

	// Gates are numbered in statement order
	g, ok := c.Gate(3)
	require.True(t, ok)
	assert.Equal(t, circuit.NAND, g.Type)
	assert.Equal(t, []string{"_02_", "_03_"}, c.Names(g.Inputs))
	assert.Equal(t, "_04_", c.WireName(g.Output))

	require.NoError(t, c.Levelize())
	s := circuit.NewState(c)
	values, err := c.SimulateGraph(s, map[string]circuit.LogicValue{
		"a": circuit.One, "b": circuit.One, "carryin": circuit.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, circuit.Zero, values["y"])
	assert.Equal(t, circuit.One, values["carryout"])
}

func TestParseBenchSequential(t *testing.T) {
	c, err := utils.ParseBenchFile("testdata/accumulator.bench")
	require.NoError(t, err)
	require.NoError(t, c.Levelize())

	assert.True(t, c.IsSequential())
	depth, err := c.SequentialDepth()
	require.NoError(t, err)
	assert.Equal(t, 2, depth)

	g, ok := c.Gate(2)
	require.True(t, ok)
	assert.Equal(t, circuit.DFF, g.Type)
	assert.Equal(t, []string{"clk", "n1"}, c.Names(g.Inputs))
}

func TestParseBenchDFFSR(t *testing.T) {
	src := `INPUT(clk)
INPUT(d)
INPUT(s)
INPUT(r)
OUTPUT(q)
q = DFFSR(clk, d, s, r)
`
	c, err := utils.ParseBench(strings.NewReader(src), "dffsr")
	require.NoError(t, err)
	require.NoError(t, c.Levelize())

	if diff := cmp.Diff(map[int][]int{0: {1}}, c.LevelMap()); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	g, _ := c.Gate(1)
	assert.True(t, g.IsStateElement())
}

func TestParseBenchComments(t *testing.T) {
	src := `
# header comment
INPUT(a)   # trailing comment
OUTPUT(y)
y = BUFF(a)
`
	c, err := utils.ParseBench(strings.NewReader(src), "buf")
	require.NoError(t, err)
	require.Len(t, c.Gates, 1)
	assert.Equal(t, circuit.BUF, c.Gates[0].Type)
}

func TestParseBenchErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "garbage",
			src:     "INPUT(a)\nthis is not bench\n",
			wantErr: circuit.ErrMalformedCircuit,
			wantMsg: "line 2",
		},
		{
			name:    "unknown gate type",
			src:     "INPUT(a)\nOUTPUT(y)\ny = MUX(a, a)\n",
			wantErr: circuit.ErrUnsupportedGateType,
			wantMsg: "line 3",
		},
		{
			name:    "multiple drivers",
			src:     "INPUT(a)\ny = NOT(a)\ny = BUF(a)\n",
			wantErr: circuit.ErrMultipleDrivers,
			wantMsg: "line 3",
		},
		{
			name:    "driven input",
			src:     "INPUT(a)\nINPUT(b)\na = NOT(b)\n",
			wantErr: circuit.ErrMultipleDrivers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := utils.ParseBench(strings.NewReader(tt.src), tt.name)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseBenchFileMissing(t *testing.T) {
	_, err := utils.ParseBenchFile("testdata/does_not_exist.bench")
	assert.Error(t, err)
}
