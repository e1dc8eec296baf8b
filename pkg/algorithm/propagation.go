package algorithm

import (
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// propagate completes each candidate assignment, in order, until a fault
// effect reaches a primary output. Every primary input still X is tried with
// 0 then 1; the first value that detects the fault ends the search and the
// first that keeps a fault effect alive on an X-path is kept. A candidate is
// abandoned when neither value keeps the effect alive.
//
// The returned state holds the detecting simulation, or nil.
func (r *run) propagate(candidates []Assignment, inject func(*circuit.State)) (*circuit.State, error) {
	trial := circuit.NewState(r.c)

	for i, a := range candidates {
		s, err := r.simulate(a, inject)
		if err != nil {
			return nil, err
		}
		if Observed(r.c, s) {
			return s, nil
		}
		if !faultEffectAlive(r.c, s) {
			r.stats.Backtracks++
			r.log.Backtrack("candidate %d %s blocks the fault effect", i, a.Format(r.c))
			continue
		}

		for _, pi := range r.c.Inputs {
			if s.Value(pi) != circuit.X || s.IsPinned(pi) {
				continue
			}

			kept := false
			for _, v := range []circuit.LogicValue{circuit.Zero, circuit.One} {
				trial.CopyFrom(s)
				trial.Set(pi, v)
				if err := r.c.Simulate(trial); err != nil {
					return nil, err
				}
				r.stats.Simulations++
				r.stats.PropagationTrials++
				r.log.Trace("candidate %d: trial %s=%s", i, r.c.WireName(pi), v)

				if Observed(r.c, trial) {
					r.log.Decision("%s=%s propagates the fault", r.c.WireName(pi), v)
					return trial, nil
				}
				if faultEffectAlive(r.c, trial) {
					s.CopyFrom(trial)
					kept = true
					break
				}
			}
			if !kept {
				r.stats.Backtracks++
				r.log.Backtrack("candidate %d: no value of %s keeps the fault effect alive", i, r.c.WireName(pi))
				break
			}
		}
	}
	return nil, nil
}
