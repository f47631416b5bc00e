package board

import "lukechampine.com/frand"

// Scramble plays up to n random legal forward moves starting from b and
// returns the resulting position. It stops early if no move is available.
// The result is always reachable from b, which makes it a handy target for
// a search.
func Scramble(b Board, n int) Board {
	for i := 0; i < n; i++ {
		succ := b.Successors()
		if len(succ) == 0 {
			break
		}
		b = succ[frand.Intn(len(succ))]
	}
	return b
}
