package algorithm_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/podem-atpg/pkg/algorithm"
	"github.com/fyerfyer/podem-atpg/pkg/circuit/circuittest"
)

type recorder struct {
	mu     sync.Mutex
	faults map[algorithm.Fault]algorithm.Outcome
}

func (r *recorder) ObserveResult(res *algorithm.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.faults == nil {
		r.faults = make(map[algorithm.Fault]algorithm.Outcome)
	}
	r.faults[res.Fault] = res.Outcome
}

func TestCampaignFullAdder(t *testing.T) {
	e := newEngine(t, circuittest.FullAdder(), algorithm.Options{})
	faults := algorithm.EnumerateFaults(e.Search)
	rec := &recorder{}

	report, err := algorithm.NewCampaign(e, 4, rec).Run(context.Background(), faults)
	require.NoError(t, err)

	assert.Equal(t, len(faults), report.Total())
	assert.Equal(t, len(faults), report.Detected)
	assert.InDelta(t, 1.0, report.Coverage(), 1e-9)
	assert.InDelta(t, 1.0, report.Efficiency(), 1e-9)
	assert.Len(t, rec.faults, len(faults))
	assert.Equal(t, len(faults), report.Stats.Attempts)
	assert.Zero(t, report.Stats.Unverified)

	// Results keep fault order regardless of scheduling
	for i, r := range report.Results {
		assert.Equal(t, faults[i], r.Fault)
	}
}

func TestCampaignRedundant(t *testing.T) {
	tests := []struct {
		name       string
		prove      bool
		untestable int
		aborted    int
	}{
		{name: "search only", aborted: 3},
		{name: "proved", prove: true, untestable: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, circuittest.Redundant(), algorithm.Options{Prove: tt.prove})
			report, err := algorithm.NewCampaign(e, 2).Run(context.Background(), algorithm.EnumerateFaults(e.Search))
			require.NoError(t, err)

			assert.Equal(t, 5, report.Detected)
			assert.Equal(t, tt.untestable, report.Untestable)
			assert.Equal(t, tt.aborted, report.Aborted)
			assert.InDelta(t, 5.0/8.0, report.Coverage(), 1e-9)
			assert.InDelta(t, float64(5+tt.untestable)/8.0, report.Efficiency(), 1e-9)
		})
	}
}

func TestCampaignCanceled(t *testing.T) {
	e := newEngine(t, circuittest.FullAdder(), algorithm.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := algorithm.NewCampaign(e, 1).Run(ctx, algorithm.EnumerateFaults(e.Search))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCampaignStructuralError(t *testing.T) {
	e := newEngine(t, circuittest.FullAdder(), algorithm.Options{})
	_, err := algorithm.NewCampaign(e, 2).Run(context.Background(), []algorithm.Fault{
		algorithm.StuckAt("a", 0),
		algorithm.StuckAt("nowhere", 1),
	})
	assert.Error(t, err)
}

func TestReportEmpty(t *testing.T) {
	r := &algorithm.Report{}
	assert.Zero(t, r.Coverage())
	assert.Zero(t, r.Efficiency())
}

func TestCompact(t *testing.T) {
	e := newEngine(t, circuittest.FullAdder(), algorithm.Options{})
	faults := algorithm.EnumerateFaults(e.Search)
	report, err := algorithm.NewCampaign(e, 0).Run(context.Background(), faults)
	require.NoError(t, err)

	vectors, err := algorithm.Compact(e.Search, report.Results)
	require.NoError(t, err)
	require.NotEmpty(t, vectors)
	assert.Less(t, len(vectors), report.Detected)

	covered := make(map[algorithm.Fault]bool)
	for _, v := range vectors {
		detected, err := algorithm.FaultSimulate(e.Search, v, faults)
		require.NoError(t, err)
		for _, f := range detected {
			covered[f] = true
		}
	}
	assert.Len(t, covered, len(faults), "compacted set keeps full coverage")
}

func TestCompactSkipsUndetected(t *testing.T) {
	e := newEngine(t, circuittest.Unobservable(), algorithm.Options{})
	r, err := e.Run(algorithm.StuckAt("n2", 0))
	require.NoError(t, err)

	vectors, err := algorithm.Compact(e.Search, []*algorithm.Result{r, nil})
	require.NoError(t, err)
	assert.Empty(t, vectors)
}
