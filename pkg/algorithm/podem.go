package algorithm

import (
	"time"

	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

// Options tunes the search
type Options struct {
	// Prove asks the Prover to classify faults the search could not detect
	Prove bool
	// MaxCandidates bounds the sensitizing assignments collected per
	// attempt; 0 collects all of them
	MaxCandidates int
}

// Prover decides whether a stuck-at fault is untestable
type Prover interface {
	ProveUntestable(c *circuit.Circuit, sites []circuit.WireID, stuck circuit.LogicValue) (bool, error)
}

// Stats contains statistics about one or more search runs
type Stats struct {
	Attempts          int           // Activation sites tried
	Simulations       int           // Full-graph simulations
	Decisions         int           // Tentative input assignments during sensitization
	Backtracks        int           // Rejected branches and abandoned candidates
	Candidates        int           // Sensitizing assignments found
	PropagationTrials int           // Single-input trials during propagation
	Unverified        int           // Detected vectors fault simulation did not reproduce
	Elapsed           time.Duration // Total execution time
}

// Add accumulates o into s
func (s *Stats) Add(o Stats) {
	s.Attempts += o.Attempts
	s.Simulations += o.Simulations
	s.Decisions += o.Decisions
	s.Backtracks += o.Backtracks
	s.Candidates += o.Candidates
	s.PropagationTrials += o.PropagationTrials
	s.Unverified += o.Unverified
	s.Elapsed += o.Elapsed
}

// Engine runs the path-oriented search for single stuck-at faults. A
// sequential circuit is unrolled once at construction; every run then works
// on the combinational equivalent with its own scratch states, so Run is
// safe for concurrent use.
type Engine struct {
	Circuit *circuit.Circuit // Circuit as given
	Search  *circuit.Circuit // Combinational circuit searched
	Logger  *utils.Logger
	Options Options
	Prover  Prover

	baseline     *circuit.State
	baselineFree bool // No input assigned in the baseline
}

// NewEngine levelizes (and unrolls) c and simulates the all-X baseline
func NewEngine(c *circuit.Circuit, logger *utils.Logger, opts Options) (*Engine, error) {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	if !c.IsLevelized() {
		if err := c.Levelize(); err != nil {
			return nil, err
		}
	}

	search := c
	if c.IsSequential() {
		u, err := c.Unroll()
		if err != nil {
			return nil, err
		}
		depth, _ := c.SequentialDepth()
		logger.Circuit("unrolled %s into %d frames: %d gates, %d inputs", c.Name, depth+1, len(u.Gates), len(u.Inputs))
		search = u
	}

	e := &Engine{
		Circuit: c,
		Search:  search,
		Logger:  logger,
		Options: opts,
	}
	if err := e.SetBaseline(nil); err != nil {
		return nil, err
	}
	return e, nil
}

// SetBaseline fixes primary input values every run starts from. Names refer
// to the searched circuit, so frame copies of an unrolled circuit use the
// "name@k" form.
func (e *Engine) SetBaseline(inputs map[string]circuit.LogicValue) error {
	s := circuit.NewState(e.Search)
	if err := s.Assign(e.Search, inputs); err != nil {
		return err
	}
	if err := e.Search.Simulate(s); err != nil {
		return err
	}

	e.baseline = s
	e.baselineFree = true
	for _, in := range e.Search.Inputs {
		if s.Value(in) != circuit.X {
			e.baselineFree = false
		}
	}
	return nil
}

// Run searches a test vector for one fault. The returned error is reserved
// for structural problems; search failures are reported in the Result.
func (e *Engine) Run(f Fault) (*Result, error) {
	start := time.Now()
	if !f.Polarity.IsFaulty() {
		return nil, errors.Wrapf(ErrInvalidFault, "fault %s: polarity must be D or ~D, got %s", f.Location, f.Polarity)
	}
	sites := e.Search.FrameCopies(f.Location)
	if len(sites) == 0 {
		return nil, errors.Wrapf(circuit.ErrUnknownWire, "fault location %q", f.Location)
	}

	r := &run{
		e:       e,
		c:       e.Search,
		scratch: circuit.NewState(e.Search),
		stats:   &Stats{},
		log:     e.Logger.WithField("fault", f.String()),
	}
	r.log.Info("Starting test generation for %s", f)

	result := &Result{Fault: f, Outcome: Aborted}
	for _, site := range sites {
		s, reason, err := r.attempt(f, sites, site)
		if err != nil {
			return nil, errors.Wrapf(err, "fault %s", f)
		}
		if s != nil {
			result.Outcome = Detected
			result.Reason = ReasonNone
			result.Site = e.Search.WireName(site)
			result.Vector = e.vector(s)
			result.Outputs = e.outputs(s)
			break
		}
		if reason > result.Reason {
			result.Reason = reason
		}
	}

	if result.Outcome == Detected {
		ok, err := e.verify(result)
		if err != nil {
			return nil, errors.Wrapf(err, "fault %s", f)
		}
		if !ok {
			r.stats.Unverified++
			r.log.Warning("vector %s does not reproduce %s under fault simulation", FormatVector(result.Vector), f)
		}
	} else if err := e.classify(result, sites); err != nil {
		return nil, errors.Wrapf(err, "fault %s", f)
	}

	r.stats.Elapsed = time.Since(start)
	result.Stats = *r.stats
	r.log.WithFields(map[string]interface{}{
		"outcome":     result.Outcome.String(),
		"reason":      result.Reason.String(),
		"simulations": result.Stats.Simulations,
		"decisions":   result.Stats.Decisions,
		"backtracks":  result.Stats.Backtracks,
	}).Info("Finished test generation in %v", result.Stats.Elapsed)
	return result, nil
}

// verify fault-simulates a detected vector with the fault injected on every
// frame copy of its location
func (e *Engine) verify(result *Result) (bool, error) {
	detected, err := FaultSimulate(e.Search, result.Vector, []Fault{result.Fault})
	if err != nil {
		return false, err
	}
	return len(detected) == 1, nil
}

// classify decides between a confirmed untestable fault and an exhausted
// search. No X-path from the all-X baseline means no structural path to any
// output at all; otherwise only a proof settles it.
func (e *Engine) classify(result *Result, sites []circuit.WireID) error {
	if result.Reason == NoSensitizablePath && e.baselineFree {
		result.Outcome = Untestable
		result.Proof = ProofStructural
		return nil
	}
	if !e.Options.Prove || e.Prover == nil {
		return nil
	}

	untestable, err := e.Prover.ProveUntestable(e.Search, sites, result.Fault.StuckValue())
	if err != nil {
		return err
	}
	if untestable {
		result.Outcome = Untestable
		result.Proof = ProofSAT
	}
	return nil
}

// run is the per-fault scratch area
type run struct {
	e       *Engine
	c       *circuit.Circuit
	scratch *circuit.State
	stats   *Stats
	log     *utils.Logger
}

// attempt runs CHECK_XPATH, BACKTRACE, SENSITIZE and PROPAGATE with the
// fault activated at one site. Other frame copies of the location carry the
// same stuck value throughout propagation.
func (r *run) attempt(f Fault, sites []circuit.WireID, site circuit.WireID) (*circuit.State, Reason, error) {
	r.stats.Attempts++
	obj := NewObjective(site, f)
	base := r.e.baseline

	r.log.Algorithm("CHECK_XPATH from %s", r.c.WireName(site))
	if !CheckXPath(r.c, base, site) {
		r.log.Algorithm("no X-path from %s to any primary output", r.c.WireName(site))
		return nil, NoSensitizablePath, nil
	}

	order := Backtrace(r.c, base, site)
	r.log.Algorithm("BACKTRACE %s -> %v", r.c.WireName(site), r.c.Names(order))

	r.log.Algorithm("SENSITIZE %s", obj)
	candidates, err := r.sensitize(obj, order)
	if err != nil {
		return nil, ReasonNone, err
	}
	r.stats.Candidates += len(candidates)
	if len(candidates) == 0 {
		return nil, ActivationFailed, nil
	}

	r.log.Algorithm("PROPAGATE %d candidate(s)", len(candidates))
	inject := func(s *circuit.State) {
		for _, w := range sites {
			if w == site {
				s.Pin(w, f.Polarity)
			} else {
				s.Inject(w, f.StuckValue())
			}
		}
	}
	s, err := r.propagate(candidates, inject)
	if err != nil {
		return nil, ReasonNone, err
	}
	if s == nil {
		return nil, PropagationFailed, nil
	}
	return s, ReasonNone, nil
}

// simulate re-simulates the whole graph from the baseline plus an assignment
func (r *run) simulate(a Assignment, inject func(*circuit.State)) (*circuit.State, error) {
	s := r.scratch
	s.CopyFrom(r.e.baseline)
	a.Apply(s)
	if inject != nil {
		inject(s)
	}
	if err := r.c.Simulate(s); err != nil {
		return nil, err
	}
	r.stats.Simulations++
	r.log.Simulation("simulated %s", a.Format(r.c))
	return s, nil
}

// vector reads the applied primary input values; X entries are don't-cares
func (e *Engine) vector(s *circuit.State) map[string]circuit.LogicValue {
	v := make(map[string]circuit.LogicValue, len(e.Search.Inputs))
	for _, in := range e.Search.Inputs {
		v[e.Search.WireName(in)] = s.Value(in).Good()
	}
	return v
}

func (e *Engine) outputs(s *circuit.State) map[string]circuit.LogicValue {
	v := make(map[string]circuit.LogicValue, len(e.Search.Outputs))
	for _, out := range e.Search.Outputs {
		v[e.Search.WireName(out)] = s.Value(out)
	}
	return v
}
