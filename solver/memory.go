package solver

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// visitedEntrySize is a rough estimate of the bytes a Go map spends on one
// board key with an empty value, including bucket overhead.
const visitedEntrySize = 24

// maxPresize caps the initial capacity of the visited set. Beyond this the
// map grows on its own.
const maxPresize = 1 << 26

// presizeHint returns the initial capacity for a visited set. Nested
// solvers never presize; their sets are small.
func (s *Solver) presizeHint() int {
	if s.memoryFraction <= 0 || s.nestLevel > 0 {
		return 0
	}
	totalMem := memory.TotalMemory()
	desired := s.memoryFraction * float64(totalMem) / float64(visitedEntrySize)
	n := min(int(desired), maxPresize)
	log.Debug().
		Int("num-elems", n).
		Float64("desired-num-elems", desired).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("visited-set-size")
	return n
}
