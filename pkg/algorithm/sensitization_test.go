package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/circuit/circuittest"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

func newTestRun(t *testing.T, c *circuit.Circuit, opts Options) *run {
	t.Helper()
	e, err := NewEngine(c, utils.NewNopLogger(), opts)
	require.NoError(t, err)
	return &run{
		e:       e,
		c:       e.Search,
		scratch: circuit.NewState(e.Search),
		stats:   &Stats{},
		log:     e.Logger,
	}
}

func formatAll(c *circuit.Circuit, as []Assignment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Format(c)
	}
	return out
}

func TestSensitizeCandidates(t *testing.T) {
	tests := []struct {
		name  string
		fault Fault
		opts  Options
		want  []string
	}{
		{
			name:  "stuck-at-0 tries 1 first",
			fault: StuckAt("_02_", 0),
			want:  []string{"{b=1}", "{b=0 carryin=1}"},
		},
		{
			name:  "stuck-at-1",
			fault: StuckAt("_02_", 1),
			want:  []string{"{b=0 carryin=0}"},
		},
		{
			name:  "candidate limit",
			fault: StuckAt("_02_", 0),
			opts:  Options{MaxCandidates: 1},
			want:  []string{"{b=1}"},
		},
		{
			name:  "primary input",
			fault: StuckAt("a", 1),
			want:  []string{"{a=0}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRun(t, circuittest.FullAdder(), tt.opts)
			site, ok := r.c.WireID(tt.fault.Location)
			require.True(t, ok)

			order := Backtrace(r.c, r.e.baseline, site)
			got, err := r.sensitize(NewObjective(site, tt.fault), order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatAll(r.c, got))
		})
	}
}

func TestSensitizeStats(t *testing.T) {
	r := newTestRun(t, circuittest.FullAdder(), Options{})
	site, _ := r.c.WireID("_02_")

	_, err := r.sensitize(NewObjective(site, StuckAt("_02_", 0)), Backtrace(r.c, r.e.baseline, site))
	require.NoError(t, err)

	// b=1, b=0, b=0 carryin=1, b=0 carryin=0
	assert.Equal(t, 4, r.stats.Decisions)
	assert.Equal(t, 1, r.stats.Backtracks)
	assert.Equal(t, 5, r.stats.Simulations)
}

func TestSensitizeObjectiveMetByBaseline(t *testing.T) {
	r := newTestRun(t, circuittest.FullAdder(), Options{})
	require.NoError(t, r.e.SetBaseline(map[string]circuit.LogicValue{"b": circuit.One}))
	site, _ := r.c.WireID("_02_")

	got, err := r.sensitize(NewObjective(site, StuckAt("_02_", 0)), nil)
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{}}, got)

	got, err = r.sensitize(NewObjective(site, StuckAt("_02_", 1)), nil)
	require.NoError(t, err)
	assert.Empty(t, got, "baseline contradicts the objective")
}

func TestSensitizeUncontrollable(t *testing.T) {
	r := newTestRun(t, circuittest.Accumulator(), Options{})
	site, ok := r.c.WireID("q")
	require.True(t, ok)

	got, err := r.sensitize(NewObjective(site, StuckAt("q", 0)), Backtrace(r.c, r.e.baseline, site))
	require.NoError(t, err)
	assert.Empty(t, got, "initial state is not a primary input")
}

func TestDecisionOrder(t *testing.T) {
	d := &Decision{}
	d.PushAlternatives(Assignment{}, 0, circuit.One)
	require.Equal(t, 2, d.Depth())

	first, ok := d.Pop()
	require.True(t, ok)
	assert.Equal(t, circuit.One, first.Value)
	second, _ := d.Pop()
	assert.Equal(t, circuit.Zero, second.Value)

	_, ok = d.Pop()
	assert.False(t, ok)
}

func TestObjectiveCheck(t *testing.T) {
	obj := NewObjective(0, StuckAt("a", 0))
	assert.Equal(t, circuit.One, obj.Target)
	assert.Equal(t, accept, obj.Check(circuit.One))
	assert.Equal(t, extend, obj.Check(circuit.X))
	assert.Equal(t, reject, obj.Check(circuit.Zero))
}

func TestAssignmentWith(t *testing.T) {
	a := Assignment{0: circuit.One}
	b := a.With(1, circuit.Zero)
	assert.Len(t, a, 1, "With must not modify the receiver")
	assert.Equal(t, Assignment{0: circuit.One, 1: circuit.Zero}, b)
}

func TestVerify(t *testing.T) {
	e, err := NewEngine(circuittest.FullAdder(), utils.NewNopLogger(), Options{})
	require.NoError(t, err)

	r, err := e.Run(StuckAt("a", 0))
	require.NoError(t, err)
	require.Equal(t, Detected, r.Outcome)
	assert.Zero(t, r.Stats.Unverified)

	ok, err := e.verify(r)
	require.NoError(t, err)
	assert.True(t, ok)

	// The all-X vector detects nothing
	r.Vector = map[string]circuit.LogicValue{}
	ok, err = e.verify(r)
	require.NoError(t, err)
	assert.False(t, ok)

	r.Fault = StuckAt("nope", 0)
	_, err = e.verify(r)
	assert.ErrorIs(t, err, circuit.ErrUnknownWire)
}
