package algorithm

import (
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// sensitize searches assignments of the backtraced inputs that drive the
// objective location to its target value in the fault-free circuit. Inputs
// are decided in order, 1 before 0. A branch that reaches the target is
// recorded, a branch that leaves the location at X decides the next input,
// and a branch producing the opposite value is dropped. Every successful
// assignment is returned, in depth-first order.
func (r *run) sensitize(obj Objective, order []circuit.WireID) ([]Assignment, error) {
	s, err := r.simulate(nil, nil)
	if err != nil {
		return nil, err
	}
	switch obj.Check(s.Value(obj.Location)) {
	case accept:
		r.log.Decision("objective %s already met", obj)
		return []Assignment{{}}, nil
	case reject:
		r.log.Backtrack("objective %s contradicted by the baseline", obj)
		return nil, nil
	}
	if len(order) == 0 {
		return nil, nil
	}

	var found []Assignment
	d := &Decision{}
	d.PushAlternatives(Assignment{}, 0, circuit.One)
	for {
		node, ok := d.Pop()
		if !ok {
			break
		}
		a := node.Assignment.With(order[node.Next], node.Value)
		r.stats.Decisions++

		s, err := r.simulate(a, nil)
		if err != nil {
			return nil, err
		}
		switch obj.Check(s.Value(obj.Location)) {
		case accept:
			r.log.Decision("sensitized with %s", a.Format(r.c))
			found = append(found, a)
			if limit := r.e.Options.MaxCandidates; limit > 0 && len(found) >= limit {
				return found, nil
			}
		case extend:
			if node.Next+1 < len(order) {
				d.PushAlternatives(a, node.Next+1, circuit.One)
				r.log.Decision("%s leaves the location at X, %d pending", a.Format(r.c), d.Depth())
			} else {
				r.stats.Backtracks++
			}
		case reject:
			r.stats.Backtracks++
			r.log.Backtrack("%s drives the location to %s", a.Format(r.c), obj.Target.Not())
		}
	}
	return found, nil
}
