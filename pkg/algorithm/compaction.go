package algorithm

import (
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Compact selects a small set of vectors covering every detected fault.
// Each vector is fault-simulated against all detected faults, then vectors
// are picked greedily by the number of still-uncovered faults they detect;
// ties go to the earlier result.
func Compact(c *circuit.Circuit, results []*Result) ([]map[string]circuit.LogicValue, error) {
	var vectors []map[string]circuit.LogicValue
	var targets []Fault
	for _, r := range results {
		if r != nil && r.Outcome == Detected {
			vectors = append(vectors, r.Vector)
			targets = append(targets, r.Fault)
		}
	}

	covers := make([]map[Fault]bool, len(vectors))
	for i, v := range vectors {
		detected, err := FaultSimulate(c, v, targets)
		if err != nil {
			return nil, err
		}
		covers[i] = make(map[Fault]bool, len(detected))
		for _, f := range detected {
			covers[i][f] = true
		}
	}

	covered := make(map[Fault]bool, len(targets))
	used := make([]bool, len(vectors))
	var compacted []map[string]circuit.LogicValue
	for len(covered) < len(targets) {
		best, bestGain := -1, 0
		for i := range vectors {
			if used[i] {
				continue
			}
			gain := 0
			for f := range covers[i] {
				if !covered[f] {
					gain++
				}
			}
			if gain > bestGain {
				best, bestGain = i, gain
			}
		}
		if best < 0 {
			// Only vectors counted in Stats.Unverified can leave faults here
			break
		}

		used[best] = true
		compacted = append(compacted, vectors[best])
		for f := range covers[best] {
			covered[f] = true
		}
	}
	return compacted, nil
}
