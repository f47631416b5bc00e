package solver

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/stats"
)

// forwardParallel splits the forward half by the first move. Every worker
// keeps its own visited and middle sets, and the middle sets are merged at
// the end. A board's depth is fixed by its peg count, so the merged set is
// exactly the one a single walk would build.
func (s *Solver) forwardParallel() {
	tstart := time.Now()
	roots := s.initial.Successors()
	s.progress.nodes.Add(1)
	s.fwdProfile.Record(0, len(roots))
	s.progress.visited.Store(1)

	deques := distribute(len(roots), s.threads)
	searches := make([]*forwardSearch, s.threads)
	g := errgroup.Group{}
	for t := range searches {
		searches[t] = &forwardSearch{
			half:     s.halfFwd(),
			visited:  boardSet{},
			middle:   boardSet{},
			profile:  stats.NewDepthProfile(),
			progress: &s.progress,
		}
		g.Go(func() error {
			path := make([]board.Board, 1, s.pathCnt+1)
			path[0] = s.initial
			explored := 0
			for {
				idx, ok := next(deques, t)
				if !ok {
					break
				}
				searches[t].run(roots[idx], path)
				explored++
			}
			log.Debug().Int("thread", t).Int("roots", explored).
				Int("visited", len(searches[t].visited)).Msg("forward-worker-done")
			return nil
		})
	}
	g.Wait()

	for _, f := range searches {
		for b := range f.middle {
			s.middleStates[b] = struct{}{}
		}
		s.fwdProfile.Merge(f.profile)
	}
	s.progress.middleStates.Store(int64(len(s.middleStates)))
	log.Debug().Int("middle-states", len(s.middleStates)).
		Int("roots", len(roots)).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("forward-half-done")
}

type meetingJob struct {
	seq     int
	meeting board.Board
	back    []board.Board
}

type meetingResult struct {
	job     meetingJob
	forward int
	paths   []Path
}

// backwardParallel keeps the backward walk on the calling goroutine, so
// meeting points are found in the same order as in a single-threaded run.
// The nested solves for those meeting points run on a pool of workers, and
// their stitched paths are appended strictly in meeting order. Each nested
// solve is given the full cap; once the set is full, later results are
// dropped and the walk stops.
func (s *Solver) backwardParallel() {
	s.resetVisited()
	var full atomic.Bool
	jobs := make(chan meetingJob, s.threads)
	results := make(chan meetingResult, s.threads)

	workers := errgroup.Group{}
	for t := 0; t < s.threads; t++ {
		workers.Go(func() error {
			for j := range jobs {
				if full.Load() {
					results <- meetingResult{job: j}
					continue
				}
				nested := s.newNested(j.meeting, s.maxSolutions)
				nested.Solve()
				results <- meetingResult{
					job:     j,
					forward: len(nested.solutions),
					paths:   stitchAll(nested.solutions, j.back),
				}
			}
			return nil
		})
	}

	collector := errgroup.Group{}
	collector.Go(func() error {
		pending := map[int]meetingResult{}
		nextSeq := 1
		for r := range results {
			pending[r.job.seq] = r
			for {
				r, ok := pending[nextSeq]
				if !ok {
					break
				}
				delete(pending, nextSeq)
				nextSeq++
				if full.Load() {
					continue
				}
				s.meetings++
				n := min(len(r.paths), s.remainingCapacity())
				for _, p := range r.paths[:n] {
					s.addSolution(p)
				}
				s.logMeeting(r.job.seq, r.job.meeting, r.job.back, r.forward, n)
				if len(s.solutions) >= s.maxSolutions {
					full.Store(true)
				}
			}
		}
		return nil
	})

	seq := 0
	bwd := &backwardSearch{
		half:     s.halfBwd(),
		visited:  s.visited,
		middle:   s.middleStates,
		profile:  s.bwdProfile,
		progress: &s.progress,
		stop:     full.Load,
		meet: func(meeting board.Board, path []board.Board) {
			seq++
			jobs <- meetingJob{
				seq:     seq,
				meeting: meeting,
				back:    append([]board.Board(nil), path...),
			}
		},
	}
	bwd.run(s.final, make([]board.Board, 0, s.pathCnt+1))
	close(jobs)
	workers.Wait()
	close(results)
	collector.Wait()
	log.Debug().Int("meetings-found", seq).Int("meetings-used", s.meetings).
		Msg("backward-half-done")
}
