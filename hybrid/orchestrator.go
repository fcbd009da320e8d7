// Package hybrid combines the symbolic reachability engine with the
// pseudo-Boolean candidate search into a counterexample-guided
// refinement loop.
//
// The search model only knows the structural constraints of the net, so
// it can propose markings that are structurally valid but unreachable.
// The loop asks the search model for its best candidate, checks it
// against the exact symbolic reachable set, and either accepts it or
// excludes it with a no-good cut and retries. Each cut removes exactly
// one assignment, so the loop terminates after at most 2^|places|
// solver calls.
package hybrid

import (
	"math/big"

	"github.com/petrikit/go-petrikit/petri"
	"github.com/petrikit/go-petrikit/search"
	"github.com/petrikit/go-petrikit/symbolic"
)

// Event describes one refinement iteration, for progress reporting.
type Event struct {
	Attempt   int
	Candidate petri.Marking
	Objective int
	Reachable bool
}

// Stats summarizes one orchestrator run.
type Stats struct {
	// ReachableStates is the exact size of the reachable set.
	ReachableStates *big.Int
	// FixpointIterations is the number of symbolic image steps.
	FixpointIterations int
	// Attempts counts solver invocations; Cuts counts rejected
	// candidates (Attempts == Cuts when no answer exists, Cuts+1
	// otherwise).
	Attempts int
	Cuts     int
}

// DeadlockResult is the outcome of FindDeadlock. Marking is nil when no
// reachable dead marking exists.
type DeadlockResult struct {
	Marking petri.Marking
	Stats   Stats
}

// OptimizeResult is the outcome of Optimize. Marking is nil when no
// reachable marking satisfies the model (which cannot happen on a
// validated net, since the initial marking is always reachable).
type OptimizeResult struct {
	Marking   petri.Marking
	Objective int
	Stats     Stats
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress installs a callback invoked after every refinement
// iteration. The orchestrator itself never prints.
func WithProgress(fn func(Event)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithSymbolicConfig overrides the BDD sizing used for the reachability
// engine.
func WithSymbolicConfig(cfg symbolic.Config) Option {
	return func(o *Orchestrator) { o.symCfg = cfg }
}

// Orchestrator drives deadlock and optimization searches over one net.
// The symbolic reachable set is computed lazily on the first call to
// either operation and reused by all later calls.
type Orchestrator struct {
	net      *petri.Net
	symCfg   symbolic.Config
	progress func(Event)

	engine *symbolic.Engine // nil until Ready
}

// New creates an orchestrator for a validated net.
func New(net *petri.Net, opts ...Option) *Orchestrator {
	o := &Orchestrator{net: net}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ready computes the reachable set once, moving the orchestrator from
// Uninitialized to Ready. The transition is one-way.
func (o *Orchestrator) ready() (*symbolic.Engine, error) {
	if o.engine != nil {
		return o.engine, nil
	}
	engine, err := symbolic.NewEngine(o.net, o.symCfg)
	if err != nil {
		return nil, err
	}
	if _, err := engine.Reachable(); err != nil {
		return nil, err
	}
	o.engine = engine
	return engine, nil
}

// baseStats fills the reachability half of Stats.
func (o *Orchestrator) baseStats(engine *symbolic.Engine) (Stats, error) {
	count, err := engine.CountReachable()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		ReachableStates:    count,
		FixpointIterations: engine.Iterations(),
	}, nil
}

// FindDeadlock searches for a reachable marking in which no transition
// is enabled. It returns a result with a nil Marking when none exists;
// infeasibility is an answer, not an error.
//
// Nets with an always-enabled transition (empty preset) short-circuit:
// no assignment can disable such a transition, so the structural
// constraint system is unsatisfiable by construction and the solver is
// never invoked.
func (o *Orchestrator) FindDeadlock() (*DeadlockResult, error) {
	engine, err := o.ready()
	if err != nil {
		return nil, err
	}
	stats, err := o.baseStats(engine)
	if err != nil {
		return nil, err
	}

	if o.net.HasAlwaysEnabledTransition() {
		return &DeadlockResult{Stats: stats}, nil
	}

	model := search.NewModel(o.net)
	model.AddDeadlockConstraints()
	// Dense candidates tend to surface genuine dead markings earlier;
	// the objective does not affect correctness.
	model.MaximizeTokens()

	marking, err := o.refine(engine, model, &stats)
	if err != nil {
		return nil, err
	}
	return &DeadlockResult{Marking: marking, Stats: stats}, nil
}

// Optimize searches for the reachable marking maximizing the weighted
// sum of marked places. Weights for unknown places are ignored; a
// weight map with no effective weight left (nil, empty, or naming only
// unknown places) falls back to the unweighted maximize-sum objective. The result is optimal among reachable markings because
// candidates are explored in non-increasing objective order and each
// cut removes only the current structural optimum.
func (o *Orchestrator) Optimize(weights map[string]int) (*OptimizeResult, error) {
	engine, err := o.ready()
	if err != nil {
		return nil, err
	}
	stats, err := o.baseStats(engine)
	if err != nil {
		return nil, err
	}

	model := search.NewModel(o.net)
	model.SetObjective(weights)
	if !model.HasObjective() {
		// Empty map, or weights naming only unknown places: fall back
		// to maximize-sum rather than degrading to pure feasibility.
		model.MaximizeTokens()
	}

	marking, err := o.refine(engine, model, &stats)
	if err != nil {
		return nil, err
	}
	if marking == nil {
		return &OptimizeResult{Stats: stats}, nil
	}
	return &OptimizeResult{
		Marking:   marking,
		Objective: model.ObjectiveValue(marking),
		Stats:     stats,
	}, nil
}

// refine runs the solve/check/exclude loop until a reachable candidate
// is found or the model becomes infeasible.
func (o *Orchestrator) refine(engine *symbolic.Engine, model *search.Model, stats *Stats) (petri.Marking, error) {
	for {
		candidate, objective, ok := model.Solve()
		if !ok {
			return nil, nil
		}
		stats.Attempts++

		reachable, err := engine.Holds(candidate)
		if err != nil {
			return nil, err
		}
		if o.progress != nil {
			o.progress(Event{
				Attempt:   stats.Attempts,
				Candidate: candidate,
				Objective: objective,
				Reachable: reachable,
			})
		}
		if reachable {
			return candidate, nil
		}
		model.Exclude(candidate)
		stats.Cuts++
	}
}
