package board

import (
	"fmt"
	"math/bits"
)

// BoardSize is the width and height of the cross-shaped playing area.
const BoardSize = 7

// padding is the number of off-board rows/columns on each side of the grid.
// It lets a two-step jump look up its landing cell without bounds checks.
const padding = 2

// InvalidCell is what Get returns for a coordinate that is not a hole.
const InvalidCell uint8 = 9

// NumCells is the number of holes on the board.
const NumCells = 33

// Board is a snapshot of the pegs on the board. Bit i (1 <= i <= 33) is set
// if the hole with cell index i holds a peg. Bit 0 and bits above 33 are
// unused.
type Board uint64

// Invalid is returned by Move and MoveRev when the move is not possible.
// No reachable position is ever all-empty, so it never collides with a
// real board.
const Invalid Board = 0

type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions in the order the solver tries them.
var Directions = [4]Direction{Up, Right, Down, Left}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "none"
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		dy = -1
	case Right:
		dx = 1
	case Down:
		dy = 1
	case Left:
		dx = -1
	}
	return
}

// DirectionFromString parses one of up/right/down/left (or u/r/d/l).
func DirectionFromString(s string) (Direction, error) {
	switch s {
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	}
	return 0, fmt.Errorf("%q is not a direction", s)
}

const gridSize = BoardSize + 2*padding

// posTable maps padded (y, x) grid coordinates to a cell index.
var posTable = [gridSize][gridSize]uint8{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 2, 3, 0, 0, 0, 0},
	{0, 0, 0, 0, 4, 5, 6, 0, 0, 0, 0},
	{0, 0, 7, 8, 9, 10, 11, 12, 13, 0, 0},
	{0, 0, 14, 15, 16, 17, 18, 19, 20, 0, 0},
	{0, 0, 21, 22, 23, 24, 25, 26, 27, 0, 0},
	{0, 0, 0, 0, 28, 29, 30, 0, 0, 0, 0},
	{0, 0, 0, 0, 31, 32, 33, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// CellIndex returns the cell index at (x, y), or 0 if it is off the board.
// Coordinates outside the padded grid are also off the board.
func CellIndex(x, y int) uint8 {
	px, py := x+padding, y+padding
	if px < 0 || py < 0 || px >= gridSize || py >= gridSize {
		return 0
	}
	return posTable[py][px]
}

// Get returns 1 if there is a peg at (x, y), 0 if the hole is empty, and
// InvalidCell if (x, y) is not a hole.
func (b Board) Get(x, y int) uint8 {
	i := CellIndex(x, y)
	if i == 0 {
		return InvalidCell
	}
	return uint8((b >> i) & 1)
}

func (b *Board) Set(x, y int) {
	i := CellIndex(x, y)
	if i == 0 {
		return
	}
	*b |= 1 << i
}

func (b *Board) Clear(x, y int) {
	i := CellIndex(x, y)
	if i == 0 {
		return
	}
	*b &^= 1 << i
}

func (b *Board) Flip(x, y int) {
	i := CellIndex(x, y)
	if i == 0 {
		return
	}
	*b ^= 1 << i
}

func (b Board) has(i uint8) bool {
	return (b>>i)&1 == 1
}

// jumpCells returns the cell indices of the origin, the jumped-over hole and
// the landing hole for a jump from (x, y) in direction dir. ok is false if
// any of them is off the board.
func jumpCells(x, y int, dir Direction) (i0, i1, i2 uint8, ok bool) {
	dx, dy := dir.delta()
	i0 = CellIndex(x, y)
	i1 = CellIndex(x+dx, y+dy)
	i2 = CellIndex(x+2*dx, y+2*dy)
	ok = i0 != 0 && i1 != 0 && i2 != 0
	return
}

// Move jumps the peg at (x, y) over its neighbour in direction dir into the
// empty hole behind it. Following the puzzle's bookkeeping, the origin and
// the jumped peg are removed and a peg is placed in the landing hole.
// Returns Invalid if the jump is not legal.
func (b Board) Move(x, y int, dir Direction) Board {
	i0, i1, i2, ok := jumpCells(x, y, dir)
	if !ok {
		return Invalid
	}
	if !b.has(i0) || !b.has(i1) || b.has(i2) {
		return Invalid
	}
	return b&^(1<<i0)&^(1<<i1) | 1<<i2
}

// MoveRev hypothesizes a predecessor: it requires a peg at (x, y) and two
// empty holes beyond it in direction dir, and returns the board with the
// origin cleared and both of those holes filled. It is not an undo of a
// specific Move call; it is used to walk backwards from a goal position.
// Returns Invalid if the geometry does not allow it.
func (b Board) MoveRev(x, y int, dir Direction) Board {
	i0, i1, i2, ok := jumpCells(x, y, dir)
	if !ok {
		return Invalid
	}
	if !b.has(i0) || b.has(i1) || b.has(i2) {
		return Invalid
	}
	return b&^(1<<i0) | 1<<i1 | 1<<i2
}

// Pegs returns the number of pegs on the board.
func (b Board) Pegs() int {
	return bits.OnesCount64(uint64(b))
}

// Diff returns the difference in peg counts between b and other. Every legal
// move removes exactly one peg, so this is the number of moves between the
// two positions.
func (b Board) Diff(other Board) int {
	return b.Pegs() - other.Pegs()
}

// IsSolved returns true if exactly one peg is left.
func (b Board) IsSolved() bool {
	return b.Pegs() == 1
}

// Initial returns the standard starting position: every hole filled except
// the centre.
func Initial() Board {
	full := Board(1<<(NumCells+1) - 2)
	return full &^ (1 << CellIndex(3, 3))
}

// Solved returns the standard goal position: a single peg in the centre.
func Solved() Board {
	return SolvedAt(3, 3)
}

// SolvedAt returns a board with a single peg at (x, y), or Invalid if
// (x, y) is not a hole.
func SolvedAt(x, y int) Board {
	b := Invalid
	b.Set(x, y)
	return b
}

func (b Board) String() string {
	return fmt.Sprintf("%#010x", uint64(b))
}
