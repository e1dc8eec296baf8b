package circuit_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/circuit/circuittest"
)

func TestUnrollReplicas(t *testing.T) {
	c := circuittest.Accumulator()
	u, err := c.Unroll()
	require.NoError(t, err)

	// base is MaxGateID()+1 = 4; frames 0..2
	for _, id := range []int{1, 3} {
		for k := 0; k <= 2; k++ {
			g, ok := u.Gate(id + 4*k)
			require.True(t, ok, "copy of gate %d in frame %d", id, k)
			orig, _ := c.Gate(id)
			assert.Equal(t, orig.Type, g.Type)
		}
	}
	for _, id := range []int{2, 2 + 4*3} {
		_, ok := u.Gate(id)
		assert.False(t, ok, "gate %d", id)
	}

	combinational := 0
	for _, g := range u.Gates {
		if g.Type == circuit.AND || g.Type == circuit.NOT {
			combinational++
		}
	}
	assert.Equal(t, 6, combinational, "two replicas plus the original of each non-state gate")

	sink, ok := u.Gate(4 * 3)
	require.True(t, ok)
	assert.Equal(t, circuit.Dummy, sink.Type)
	assert.Equal(t, []string{"n1@2"}, u.Names(sink.Inputs))

	assert.False(t, u.IsSequential())
	assert.True(t, u.IsLevelized())
	assert.Equal(t, []string{"clk", "a", "clk@1", "a@1", "clk@2", "a@2"}, u.Names(u.Inputs))
	assert.Equal(t, []string{"y", "y@1", "y@2"}, u.Names(u.Outputs))
	assert.Equal(t, []string{"q"}, u.Names(u.StateInputs))
}

// TestUnrollSingleProducer checks no wire is driven twice and consumer lists agree with gates
func TestUnrollSingleProducer(t *testing.T) {
	u, err := circuittest.Accumulator().Unroll()
	require.NoError(t, err)

	producers := make(map[circuit.WireID]int)
	for _, g := range u.Gates {
		producers[g.Output]++
		for _, in := range g.Inputs {
			assert.Contains(t, u.Wires[in].Consumers, g.Index)
		}
	}
	for w, n := range producers {
		assert.Equal(t, 1, n, "wire %s", u.WireName(w))
	}
	for _, w := range u.Wires {
		if w.Producer == circuit.NoGate {
			assert.True(t, w.IsInput() || w.Type == circuit.StateInput, "undriven wire %s", w.Name)
		}
	}
}

// TestUnrollStateFlow checks frame k+1 state equals frame k data
func TestUnrollStateFlow(t *testing.T) {
	u, err := circuittest.Accumulator().Unroll()
	require.NoError(t, err)

	q1, _ := u.Gate(2 + 4)
	assert.Equal(t, []string{"clk@1", "n1"}, u.Names(q1.Inputs))
	q2, _ := u.Gate(2 + 8)
	assert.Equal(t, []string{"clk@2", "n1@1"}, u.Names(q2.Inputs))

	s := circuit.NewState(u)
	values, err := u.SimulateGraph(s, map[string]circuit.LogicValue{"a": circuit.Zero, "a@1": circuit.One})
	require.NoError(t, err)
	assert.Equal(t, circuit.X, values["y"], "initial state is unknown")
	assert.Equal(t, circuit.Zero, values["q@1"])
	assert.Equal(t, circuit.One, values["y@1"])
	assert.Equal(t, circuit.Zero, values["n1@1"])
	assert.Equal(t, circuit.One, values["y@2"])
}

func TestUnrollCombinational(t *testing.T) {
	c := circuittest.FullAdder()
	u, err := c.Unroll()
	require.NoError(t, err)
	assert.Same(t, c, u)
}

func TestFrameCopies(t *testing.T) {
	u, err := circuittest.Accumulator().Unroll()
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "q@1", "q@2"}, u.Names(u.FrameCopies("q")))
	assert.Empty(t, u.FrameCopies("missing"))
}

func TestUnrollMalformed(t *testing.T) {
	c, err := circuittest.TryBuild("loop",
		[]string{"a"},
		[]string{"y"},
		[]circuittest.GateSpec{
			{ID: 1, Type: circuit.AND, Inputs: []string{"a", "y"}, Output: "n1"},
			{ID: 2, Type: circuit.BUF, Inputs: []string{"n1"}, Output: "y"},
			{ID: 3, Type: circuit.DFF, Inputs: []string{"a", "n1"}, Output: "q"},
		})
	require.NoError(t, err)
	_, err = c.Unroll()
	assert.True(t, errors.Is(err, circuit.ErrMalformedCircuit))
}
