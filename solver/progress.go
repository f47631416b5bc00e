package solver

import "sync/atomic"

// progress holds counters the host can read while Solve runs on another
// goroutine. They are advisory.
type progress struct {
	middleStates atomic.Int64
	visited      atomic.Int64
	solutions    atomic.Int64
	nodes        atomic.Uint64
}

// Progress is a snapshot of a running search.
type Progress struct {
	// MiddleStates is the size of the middle-state set.
	MiddleStates int64 `yaml:"middle_states"`
	// Visited is the size of the visited set of the current phase. It is
	// reset when the search switches from the forward to the backward half.
	Visited int64 `yaml:"visited"`
	// Solutions is how many solutions have been recorded so far.
	Solutions int64 `yaml:"solutions"`
	// Nodes is the number of positions expanded by this solver, not counting
	// nested solvers.
	Nodes uint64 `yaml:"nodes"`
}

// Progress may be called from any goroutine at any time.
func (s *Solver) Progress() Progress {
	return Progress{
		MiddleStates: s.progress.middleStates.Load(),
		Visited:      s.progress.visited.Load(),
		Solutions:    s.progress.solutions.Load(),
		Nodes:        s.progress.nodes.Load(),
	}
}
