package algorithm

import (
	"fmt"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Objective is what an activation attempt must achieve: drive Location to
// Target in the good circuit so that Polarity appears there under the fault.
type Objective struct {
	Location circuit.WireID
	Target   circuit.LogicValue
	Polarity circuit.LogicValue
}

// NewObjective derives the activation objective of a fault at a site
func NewObjective(site circuit.WireID, f Fault) Objective {
	return Objective{Location: site, Target: f.Target(), Polarity: f.Polarity}
}

// Check classifies the value currently at the location
func (o Objective) Check(v circuit.LogicValue) verdict {
	switch {
	case v == o.Target:
		return accept
	case v == circuit.X:
		return extend
	default:
		return reject
	}
}

func (o Objective) String() string {
	return fmt.Sprintf("wire#%d=%s (%s)", o.Location, o.Target, o.Polarity)
}
