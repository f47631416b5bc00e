package shell

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/onlyoneleft/cache"
	"github.com/domino14/onlyoneleft/config"
	"github.com/domino14/onlyoneleft/solver"
)

// searchState tracks one running search and the goroutine that reports on
// it.
type searchState struct {
	s        *solver.Solver
	key      cache.Key
	max      int
	started  time.Time
	logFile  *os.File
	done     chan struct{}
	stopOnce sync.Once
	reporter errgroup.Group
}

func (ss *searchState) stopReporting() {
	ss.stopOnce.Do(func() { close(ss.done) })
}

// report logs progress every interval until the search finishes or
// reporting is stopped.
func (ss *searchState) report(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ss.reporter.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ss.done:
				return nil
			case <-ticker.C:
				if ss.s.IsFinished() {
					log.Info().Msg("search-finished")
					return nil
				}
				p := ss.s.Progress()
				log.Info().
					Int64("middle-states", p.MiddleStates).
					Int64("visited", p.Visited).
					Int64("solutions", p.Solutions).
					Uint64("nodes", p.Nodes).
					Float64("elapsed-sec", time.Since(ss.started).Seconds()).
					Msg("search-progress")
			}
		}
	})
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	key := cache.Key{Initial: sc.initial, Final: sc.target}
	if paths, ok := cache.Lookup(key, sc.maxSolutions); ok {
		sc.solver = nil
		sc.fromCache = true
		sc.enterResults(paths)
		return msg(sc.printer.Sprintf("Found %d solutions (cached).", len(paths))), nil
	}

	s, err := solver.NewSolver(sc.initial, sc.target, sc.maxSolutions)
	if err != nil {
		return nil, err
	}
	s.SetThreads(sc.threads)
	s.SetMemoryFraction(sc.config.GetFloat64(config.ConfigMemoryFraction))

	ss := &searchState{
		s:       s,
		key:     key,
		max:     sc.maxSolutions,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	if path := sc.config.GetString(config.ConfigSearchLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		s.SetLogStream(f)
		ss.logFile = f
	}
	if sc.search != nil {
		sc.search.stopReporting()
	}
	sc.solver = s
	sc.search = ss
	sc.fromCache = false
	sc.setMode(SearchingMode)

	s.Start()
	ss.report(sc.config.GetDuration(config.ConfigPollInterval))
	return msg("Search started. Use `status` to check on it."), nil
}

func (sc *ShellController) status(cmd *shellcmd) (*Response, error) {
	if sc.solver == nil {
		if sc.fromCache {
			return msg(sc.printer.Sprintf("Results came from the cache: %d solutions.", len(sc.solutions))), nil
		}
		return msg("No search has been run."), nil
	}
	state := "running"
	if sc.solver.IsFinished() {
		state = "finished"
	}
	p := sc.solver.Progress()
	return msg(sc.printer.Sprintf(
		"Search %s after %v. Middle states: %dK  Visited: %dK  Solutions: %d  Nodes: %d",
		state, time.Since(sc.search.started).Round(time.Millisecond),
		p.MiddleStates/1000, p.Visited/1000, p.Solutions, p.Nodes)), nil
}

// collectIfFinished moves to results mode if the running search is done,
// and returns a note for the user; otherwise it returns "".
func (sc *ShellController) collectIfFinished() string {
	if sc.mode != SearchingMode || !sc.solver.IsFinished() {
		return ""
	}
	ss := sc.search
	ss.stopReporting()
	if ss.logFile != nil {
		if err := ss.logFile.Close(); err != nil {
			log.Err(err).Msg("error-closing-search-log")
		}
	}
	paths := sc.solver.Solutions()
	cache.Store(ss.key, ss.max, paths)
	sc.enterResults(paths)
	return sc.printer.Sprintf("Search finished in %v: %d solutions.",
		time.Since(ss.started).Round(time.Millisecond), len(paths))
}

// waitForSearch blocks until the reporter has seen the search finish.
func (sc *ShellController) waitForSearch() {
	if sc.search == nil {
		return
	}
	sc.search.reporter.Wait()
}

func (sc *ShellController) enterResults(paths []solver.Path) {
	sc.solutions = paths
	sc.curSol = 0
	sc.curStep = 0
	sc.setMode(ResultsMode)
}
