// Package solver finds sequences of jumps that turn one peg solitaire
// position into another, using a bidirectional meet-in-the-middle search.
//
// The forward half explores every position reachable from the initial board
// up to half of the required path length and remembers the positions it
// ends on (the middle states). The backward half walks hypothesized
// predecessors back from the final board; whenever it lands on a middle
// state, a nested solver enumerates the forward paths to that state and each
// one is stitched to the backward path.
//
// Both halves use a first-discovery visited set: a position is only expanded
// the first time it is seen. This keeps the search tractable but means not
// every solution is found.
package solver

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/stats"
)

var (
	ErrMorePegsInFinal = errors.New("final board has more pegs than the initial board")
	ErrInvalidCap      = errors.New("max solutions must be at least 1")
)

// Path is a sequence of boards, each one legal forward move after the
// previous one.
type Path []board.Board

type boardSet map[board.Board]struct{}

func (bs boardSet) has(b board.Board) bool {
	_, ok := bs[b]
	return ok
}

type Solver struct {
	initial      board.Board
	final        board.Board
	pathCnt      int
	maxSolutions int

	// Owned by the goroutine running Solve.
	middleStates boardSet
	visited      boardSet
	solutions    []Path

	// nestLevel is 0 for the solver the host created, and one more for
	// every nested solver below it.
	nestLevel      int
	threads        int
	memoryFraction float64
	logStream      io.Writer
	meetings       int

	fwdProfile *stats.DepthProfile
	bwdProfile *stats.DepthProfile

	progress progress
	started  atomic.Bool
	finished atomic.Bool
}

// NewSolver creates a solver for the given boards. The number of states in a
// connecting path is 1 + pegs(initial) - pegs(final); a final board with
// more pegs than the initial board can never be reached and is rejected
// here. If either board is board.Invalid the solver is valid but will
// return no solutions.
func NewSolver(initial, final board.Board, maxSolutions int) (*Solver, error) {
	if maxSolutions < 1 {
		return nil, ErrInvalidCap
	}
	pathCnt := 1 + initial.Diff(final)
	if initial != board.Invalid && final != board.Invalid && pathCnt < 1 {
		return nil, fmt.Errorf("%w: initial has %d, final has %d",
			ErrMorePegsInFinal, initial.Pegs(), final.Pegs())
	}
	return &Solver{
		initial:      initial,
		final:        final,
		pathCnt:      pathCnt,
		maxSolutions: maxSolutions,
		threads:      1,
		fwdProfile:   stats.NewDepthProfile(),
		bwdProfile:   stats.NewDepthProfile(),
	}, nil
}

// newNested creates the child solver used to enumerate forward paths from
// the initial board to a meeting point. It shares nothing with its parent.
func (s *Solver) newNested(meeting board.Board, maxSolutions int) *Solver {
	n, err := NewSolver(s.initial, meeting, maxSolutions)
	if err != nil {
		// meeting was reached by forward moves from initial, so this can't
		// happen.
		panic(err)
	}
	n.nestLevel = s.nestLevel + 1
	return n
}

// SetThreads sets the number of workers. With fewer than 2 the search runs
// entirely on the calling goroutine. Nested solvers are always single
// threaded. The result is the same either way.
func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

// SetMemoryFraction presizes the visited sets using the given fraction of
// total system memory. 0 turns presizing off.
func (s *Solver) SetMemoryFraction(f float64) {
	s.memoryFraction = f
}

// SetLogStream makes the solver write a YAML document for every meeting
// point it stitches, and a summary at the end.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// PathCount is the number of boards in every solution.
func (s *Solver) PathCount() int {
	return s.pathCnt
}

func (s *Solver) MaxSolutions() int {
	return s.maxSolutions
}

func (s *Solver) halfFwd() int {
	return 1 + s.pathCnt/2
}

func (s *Solver) halfBwd() int {
	return (s.pathCnt + 1) / 2
}

func (s *Solver) logger() *zerolog.Event {
	if s.nestLevel > 0 {
		return log.Trace()
	}
	return log.Debug()
}

// Start runs Solve on its own goroutine and returns immediately. There is
// no way to cancel it; a caller that loses interest simply stops polling
// and the goroutine runs until the search is over.
func (s *Solver) Start() {
	go s.Solve()
}

// Solve runs the search to completion. It may only be called once; later
// calls return immediately.
func (s *Solver) Solve() {
	if !s.started.CompareAndSwap(false, true) {
		log.Warn().Msg("solver-already-started")
		return
	}
	tstart := time.Now()
	s.logger().
		Str("initial", s.initial.Notation()).
		Str("final", s.final.Notation()).
		Int("path-cnt", s.pathCnt).
		Int("max-solutions", s.maxSolutions).
		Int("threads", s.threads).
		Int("nest-level", s.nestLevel).
		Msg("solver-config")

	s.solve()

	if len(s.solutions) > s.maxSolutions {
		s.solutions = s.solutions[:s.maxSolutions]
	}
	s.progress.solutions.Store(int64(len(s.solutions)))

	if s.nestLevel == 0 {
		log.Info().
			Int("solutions", len(s.solutions)).
			Int("middle-states", len(s.middleStates)).
			Int("meetings", s.meetings).
			Int("forward-nodes", s.fwdProfile.Total()).
			Int("backward-nodes", s.bwdProfile.Total()).
			Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
			Msg("solve-returning")
		s.writeSummary(time.Since(tstart))
	}
	s.finished.Store(true)
}

func (s *Solver) solve() {
	if s.initial == board.Invalid || s.final == board.Invalid {
		return
	}
	switch s.pathCnt {
	case 1:
		if s.initial == s.final {
			s.addSolution(Path{s.initial})
		}
		return
	case 2:
		s.solveOneMove()
		return
	}

	s.middleStates = boardSet{s.initial: {}}
	s.progress.middleStates.Store(1)
	if s.threads > 1 && s.nestLevel == 0 {
		s.forwardParallel()
		s.backwardParallel()
		return
	}

	s.resetVisited()
	path := make([]board.Board, 0, s.pathCnt+1)
	fwd := &forwardSearch{
		half:     s.halfFwd(),
		visited:  s.visited,
		middle:   s.middleStates,
		profile:  s.fwdProfile,
		progress: &s.progress,
	}
	fwd.run(s.initial, path)

	s.resetVisited()
	bwd := &backwardSearch{
		half:     s.halfBwd(),
		visited:  s.visited,
		middle:   s.middleStates,
		profile:  s.bwdProfile,
		progress: &s.progress,
		stop:     func() bool { return len(s.solutions) >= s.maxSolutions },
		meet:     s.meet,
	}
	bwd.run(s.final, path[:0])
}

// solveOneMove checks whether a single forward move connects the boards.
func (s *Solver) solveOneMove() {
	for x := 0; x < board.BoardSize; x++ {
		for y := 0; y < board.BoardSize; y++ {
			for _, dir := range board.Directions {
				if s.initial.Move(x, y, dir) == s.final {
					s.addSolution(Path{s.initial, s.final})
					return
				}
			}
		}
	}
}

func (s *Solver) resetVisited() {
	s.visited = make(boardSet, s.presizeHint())
	s.progress.visited.Store(0)
}

func (s *Solver) addSolution(p Path) {
	s.solutions = append(s.solutions, p)
	s.progress.solutions.Store(int64(len(s.solutions)))
}

// remainingCapacity is how many more solutions the top-level set can take.
// It is never negative.
func (s *Solver) remainingCapacity() int {
	return max(0, s.maxSolutions-len(s.solutions))
}

// meet solves initial -> meeting and stitches every forward path to the
// backward path that reached the meeting point.
func (s *Solver) meet(meeting board.Board, back []board.Board) {
	budget := s.remainingCapacity()
	if budget == 0 {
		return
	}
	nested := s.newNested(meeting, budget)
	nested.Solve()
	s.meetings++
	paths := stitchAll(nested.solutions, back)
	for _, p := range paths {
		s.addSolution(p)
	}
	s.logMeeting(s.meetings, meeting, back, len(nested.solutions), len(paths))
}

// stitchAll joins each forward path (which ends on the meeting point) with
// the backward path (which starts at the final board and also ends on the
// meeting point).
func stitchAll(forward []Path, back []board.Board) []Path {
	tail := lo.Reverse(append([]board.Board(nil), back...))
	return lo.Map(forward, func(fwd Path, _ int) Path {
		p := make(Path, 0, len(fwd)-1+len(tail))
		p = append(p, fwd[:len(fwd)-1]...)
		return append(p, tail...)
	})
}

// Solutions returns the solution set. Only call it after IsFinished returns
// true.
func (s *Solver) Solutions() []Path {
	return s.solutions
}

// IsFinished reports whether Solve is done and Solutions is final. It is
// safe to call from any goroutine.
func (s *Solver) IsFinished() bool {
	return s.finished.Load()
}

// Stats returns the forward and backward depth profiles. Like Solutions,
// only read them after the solver has finished.
func (s *Solver) Stats() (fwd, bwd *stats.DepthProfile) {
	return s.fwdProfile, s.bwdProfile
}
