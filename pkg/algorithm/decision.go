package algorithm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Assignment maps primary inputs to the values chosen for them
type Assignment map[circuit.WireID]circuit.LogicValue

// With returns a copy extended by one decision
func (a Assignment) With(w circuit.WireID, v circuit.LogicValue) Assignment {
	next := make(Assignment, len(a)+1)
	for k, val := range a {
		next[k] = val
	}
	next[w] = v
	return next
}

// Apply writes the assignment into a state
func (a Assignment) Apply(s *circuit.State) {
	for w, v := range a {
		s.Set(w, v)
	}
}

// Format renders the assignment with wire names, sorted
func (a Assignment) Format(c *circuit.Circuit) string {
	parts := make([]string, 0, len(a))
	for w, v := range a {
		parts = append(parts, fmt.Sprintf("%s=%s", c.WireName(w), v))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, " ") + "}"
}

// verdict is the outcome of one tentative decision
type verdict int

const (
	accept verdict = iota // Objective met, record the assignment
	extend                // Still X, decide the next input
	reject                // Opposite value, drop the branch
)

// DecisionNode is one pending decision: assign Value to the input at
// position Next of the decision order, on top of Assignment.
type DecisionNode struct {
	Assignment Assignment
	Next       int
	Value      circuit.LogicValue
}

// Decision is an explicit LIFO worklist of pending decisions. Pushing the
// alternatives of an input in reverse preference order makes it pop them
// in the same order a depth-first recursion would visit them.
type Decision struct {
	Stack []DecisionNode
}

// PushAlternatives queues both values for input position next, preferred first
func (d *Decision) PushAlternatives(a Assignment, next int, preferred circuit.LogicValue) {
	d.Stack = append(d.Stack,
		DecisionNode{Assignment: a, Next: next, Value: preferred.Not()},
		DecisionNode{Assignment: a, Next: next, Value: preferred},
	)
}

// Pop removes the next decision to try
func (d *Decision) Pop() (DecisionNode, bool) {
	if len(d.Stack) == 0 {
		return DecisionNode{}, false
	}
	n := d.Stack[len(d.Stack)-1]
	d.Stack = d.Stack[:len(d.Stack)-1]
	return n, true
}

// Depth returns the number of pending decisions
func (d *Decision) Depth() int {
	return len(d.Stack)
}
