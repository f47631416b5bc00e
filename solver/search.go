package solver

import (
	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/stats"
)

// forwardSearch is a depth-first walk over forward moves that records every
// position it reaches at path length half. A position is expanded only the
// first time it is seen.
type forwardSearch struct {
	half     int
	visited  boardSet
	middle   boardSet
	profile  *stats.DepthProfile
	progress *progress
}

// run explores forward from b. path holds the boards leading to b.
func (f *forwardSearch) run(b board.Board, path []board.Board) {
	if b == board.Invalid || f.visited.has(b) {
		return
	}
	f.visited[b] = struct{}{}
	f.progress.visited.Add(1)
	f.progress.nodes.Add(1)
	path = append(path, b)

	if len(path) == f.half {
		if !f.middle.has(b) {
			f.middle[b] = struct{}{}
			f.progress.middleStates.Add(1)
		}
		return
	}

	children := 0
	for x := 0; x < board.BoardSize; x++ {
		for y := 0; y < board.BoardSize; y++ {
			if b.Get(x, y) != 1 {
				continue
			}
			for _, dir := range board.Directions {
				nb := b.Move(x, y, dir)
				if nb == board.Invalid {
					continue
				}
				children++
				f.run(nb, path)
			}
		}
	}
	f.profile.Record(len(path)-1, children)
}

// backwardSearch walks hypothesized predecessors back from the final board.
// Whenever a path of length half ends on a middle state, meet is called
// with the meeting point and the path that reached it (final board first).
// The walk checks stop before expanding every position and gives up once
// it returns true.
type backwardSearch struct {
	half     int
	visited  boardSet
	middle   boardSet
	profile  *stats.DepthProfile
	progress *progress
	stop     func() bool
	meet     func(meeting board.Board, path []board.Board)
}

func (w *backwardSearch) run(b board.Board, path []board.Board) {
	if b == board.Invalid || w.visited.has(b) {
		return
	}
	if w.stop() {
		return
	}
	w.visited[b] = struct{}{}
	w.progress.visited.Add(1)
	w.progress.nodes.Add(1)
	path = append(path, b)

	if len(path) == w.half {
		if w.middle.has(b) {
			w.meet(b, path)
		}
		return
	}

	children := 0
	for x := 0; x < board.BoardSize; x++ {
		for y := 0; y < board.BoardSize; y++ {
			if b.Get(x, y) != 1 {
				continue
			}
			for _, dir := range board.Directions {
				nb := b.MoveRev(x, y, dir)
				if nb == board.Invalid {
					continue
				}
				children++
				w.run(nb, path)
			}
		}
	}
	w.profile.Record(len(path)-1, children)
}
