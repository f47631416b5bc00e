package board

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func allHoles() [][2]int {
	var holes [][2]int
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if CellIndex(x, y) != 0 {
				holes = append(holes, [2]int{x, y})
			}
		}
	}
	return holes
}

func TestPositionTable(t *testing.T) {
	is := is.New(t)
	is.Equal(len(allHoles()), NumCells)
	is.Equal(CellIndex(2, 0), uint8(1))
	is.Equal(CellIndex(3, 3), uint8(17))
	is.Equal(CellIndex(4, 6), uint8(33))
	is.Equal(CellIndex(0, 0), uint8(0))
	// the padded border and beyond are all off-board.
	is.Equal(CellIndex(-2, -2), uint8(0))
	is.Equal(CellIndex(8, 8), uint8(0))
	is.Equal(CellIndex(-50, 3), uint8(0))
	is.Equal(CellIndex(3, 100), uint8(0))
}

func TestGet(t *testing.T) {
	is := is.New(t)
	b := Initial()
	is.Equal(b.Get(3, 3), uint8(0))
	is.Equal(b.Get(3, 2), uint8(1))
	is.Equal(b.Get(0, 0), InvalidCell)
	is.Equal(b.Get(-2, 8), InvalidCell)
	for x := -padding; x < BoardSize+padding; x++ {
		for y := -padding; y < BoardSize+padding; y++ {
			v := b.Get(x, y)
			is.True(v == 0 || v == 1 || v == InvalidCell)
		}
	}
}

func TestInitialAndSolved(t *testing.T) {
	is := is.New(t)
	is.Equal(Initial().Pegs(), 32)
	is.Equal(Solved().Pegs(), 1)
	is.True(Solved().IsSolved())
	is.True(!Initial().IsSolved())
	is.Equal(Initial().Diff(Solved()), 31)
	is.Equal(Solved().Diff(Initial()), -31)
	is.Equal(SolvedAt(0, 0), Invalid)
	is.Equal(Initial().Notation(), "ooo/ooo/ooooooo/ooo.ooo/ooooooo/ooo/ooo")
}

func TestFlipTwiceRestores(t *testing.T) {
	is := is.New(t)
	for _, start := range []Board{Initial(), Solved(), Scramble(Initial(), 7)} {
		for _, h := range allHoles() {
			b := start
			b.Flip(h[0], h[1])
			is.True(b != start)
			b.Flip(h[0], h[1])
			is.Equal(b, start)
		}
	}
}

func TestMutateInvalidCellIsNoop(t *testing.T) {
	is := is.New(t)
	b := Initial()
	b.Set(0, 0)
	b.Clear(6, 6)
	b.Flip(-1, 4)
	is.Equal(b, Initial())
}

func TestSetClear(t *testing.T) {
	is := is.New(t)
	b := Invalid
	b.Set(3, 3)
	is.Equal(b, Solved())
	b.Set(3, 3)
	is.Equal(b, Solved())
	b.Clear(3, 3)
	is.Equal(b, Invalid)
}

// naiveMove re-derives the move rule from Get, for comparison.
func naiveMove(b Board, x, y int, dir Direction) Board {
	dx, dy := dir.delta()
	g0, g1, g2 := b.Get(x, y), b.Get(x+dx, y+dy), b.Get(x+2*dx, y+2*dy)
	if g0 != 1 || g1 != 1 || g2 != 0 {
		return Invalid
	}
	b.Clear(x, y)
	b.Clear(x+dx, y+dy)
	b.Set(x+2*dx, y+2*dy)
	return b
}

func TestMoveOnlySucceedsWhenLegal(t *testing.T) {
	is := is.New(t)
	boards := []Board{Initial(), Solved(), Scramble(Initial(), 5), Scramble(Initial(), 12)}
	for _, b := range boards {
		for x := -padding; x < BoardSize+padding; x++ {
			for y := -padding; y < BoardSize+padding; y++ {
				for _, dir := range Directions {
					got := b.Move(x, y, dir)
					is.Equal(got, naiveMove(b, x, y, dir))
					if got != Invalid {
						is.Equal(b.Diff(got), 1)
					}
				}
			}
		}
	}
}

func TestInitialMoves(t *testing.T) {
	is := is.New(t)
	b := Initial()
	// only four jumps into the centre are possible.
	is.Equal(len(b.Successors()), 4)
	nb := b.Move(3, 1, Down)
	is.True(nb != Invalid)
	is.Equal(nb.Get(3, 1), uint8(0))
	is.Equal(nb.Get(3, 2), uint8(0))
	is.Equal(nb.Get(3, 3), uint8(1))
	is.Equal(b.Move(3, 1, Up), Invalid)
	is.Equal(b.Move(3, 0, Down), Invalid) // landing hole occupied
	is.Equal(b.Move(0, 0, Right), Invalid)
}

func TestMoveRev(t *testing.T) {
	is := is.New(t)
	b := Solved()
	// a single centre peg could have come from any of four directions.
	preds := b.Predecessors()
	is.Equal(len(preds), 4)
	for _, p := range preds {
		is.Equal(p.Pegs(), 2)
		is.True(IsLegalStep(p, b))
	}
	// MoveRev from the centre going up fills the two holes above it.
	p := b.MoveRev(3, 3, Up)
	is.Equal(p.Get(3, 3), uint8(0))
	is.Equal(p.Get(3, 2), uint8(1))
	is.Equal(p.Get(3, 1), uint8(1))
	is.Equal(p.Move(3, 1, Down), b)
	// needs both holes empty.
	is.Equal(Initial().MoveRev(3, 1, Down), Invalid)
	is.Equal(b.MoveRev(2, 2, Up), Invalid)
}

func TestSuccessorsAgreeWithPredecessors(t *testing.T) {
	is := is.New(t)
	b := Scramble(Initial(), 6)
	for _, s := range b.Successors() {
		found := false
		for _, p := range s.Predecessors() {
			if p == b {
				found = true
			}
		}
		is.True(found)
	}
}

func TestIsLegalStep(t *testing.T) {
	is := is.New(t)
	b := Initial()
	nb := b.Move(5, 3, Left)
	is.True(IsLegalStep(b, nb))
	is.True(!IsLegalStep(nb, b))
	is.True(!IsLegalStep(b, b))
	is.True(!IsLegalStep(b, Invalid))
	is.True(!IsLegalStep(Initial(), Solved()))

	x, y, dir, ok := FindMove(b, nb)
	is.True(ok)
	is.Equal([]any{x, y, dir}, []any{5, 3, Left})
	_, _, _, ok = FindMove(b, Solved())
	is.True(!ok)
}

func TestNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 20; i++ {
		b := Scramble(Initial(), i)
		got, err := ParseNotation(b.Notation())
		is.NoErr(err)
		is.Equal(got, b)
	}
	b, err := ParseNotation("...//.......//.......//...")
	is.True(err != nil)
	is.Equal(b, Invalid)
	_, err = ParseNotation("ooo/ooo/ooooooo/ooo.ooo/ooooooo/ooo/oo")
	is.True(err != nil)
	_, err = ParseNotation("ooo/ooo/ooooooo/ooo?ooo/ooooooo/ooo/ooo")
	is.True(err != nil)
	b, err = ParseNotation(".../.../......./...o.../......./.../...")
	is.NoErr(err)
	is.Equal(b, Solved())
}

func TestDisplayText(t *testing.T) {
	is := is.New(t)
	expected := `
   A B C D E F G
   --------------
 1|    o o o     |
 2|    o o o     |
 3|o o o o o o o |
 4|o o o . o o o |
 5|o o o o o o o |
 6|    o o o     |
 7|    o o o     |
   --------------
`
	is.Equal(Initial().ToDisplayText(), expected)
}

func TestDisplayTextRoundTrip(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 20; i++ {
		b := Scramble(Initial(), i)
		got, err := FromDisplayText(b.ToDisplayText())
		is.NoErr(err)
		is.Equal(got, b)
		got, err = ParseBoard(b.ToDisplayText())
		is.NoErr(err)
		is.Equal(got, b)
		got, err = ParseBoard(b.Notation())
		is.NoErr(err)
		is.Equal(got, b)
	}
	_, err := FromDisplayText(" 1|    o o o     |\n")
	is.True(err != nil)
	_, err = FromDisplayText(strings.Replace(Initial().ToDisplayText(), " 1|    o", " 1|o   o", 1))
	is.True(err != nil)
}

func TestCoords(t *testing.T) {
	is := is.New(t)
	x, y, err := ParseCoord("d4")
	is.NoErr(err)
	is.Equal([]int{x, y}, []int{3, 3})
	is.Equal(CoordString(x, y), "D4")
	_, _, err = ParseCoord("A1")
	is.True(err != nil)
	_, _, err = ParseCoord("D44")
	is.True(err != nil)
}

func TestDirections(t *testing.T) {
	is := is.New(t)
	for _, d := range Directions {
		got, err := DirectionFromString(d.String())
		is.NoErr(err)
		is.Equal(got, d)
	}
	_, err := DirectionFromString("sideways")
	is.True(err != nil)
}

func TestScrambleIsReachable(t *testing.T) {
	is := is.New(t)
	b := Scramble(Initial(), 6)
	is.Equal(Initial().Diff(b), 6)
	// a single peg can't move.
	is.Equal(Scramble(Solved(), 3), Solved())
}

func BenchmarkSuccessors(b *testing.B) {
	bd := Scramble(Initial(), 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd.Successors()
	}
}
