package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	PegMarker  = 'o'
	HoleMarker = '.'
)

var errBadNotation = errors.New("notation must have 7 rows separated by /")

// Successors returns every board reachable from b with one forward move.
// The order is deterministic: x outermost, then y, then Up, Right, Down,
// Left. The search relies on this order being stable.
func (b Board) Successors() []Board {
	var out []Board
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if b.Get(x, y) != 1 {
				continue
			}
			for _, dir := range Directions {
				if nb := b.Move(x, y, dir); nb != Invalid {
					out = append(out, nb)
				}
			}
		}
	}
	return out
}

// Predecessors returns every hypothesized predecessor of b (see MoveRev),
// in the same order as Successors.
func (b Board) Predecessors() []Board {
	var out []Board
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if b.Get(x, y) != 1 {
				continue
			}
			for _, dir := range Directions {
				if nb := b.MoveRev(x, y, dir); nb != Invalid {
					out = append(out, nb)
				}
			}
		}
	}
	return out
}

// IsLegalStep returns true if exactly one forward move turns from into to.
func IsLegalStep(from, to Board) bool {
	if from == Invalid || to == Invalid || from.Diff(to) != 1 {
		return false
	}
	n := 0
	for _, s := range from.Successors() {
		if s == to {
			n++
		}
	}
	return n == 1
}

// FindMove returns the coordinates and direction of the forward move that
// turns from into to. ok is false if there is none.
func FindMove(from, to Board) (x, y int, dir Direction, ok bool) {
	for x = 0; x < BoardSize; x++ {
		for y = 0; y < BoardSize; y++ {
			for _, dir = range Directions {
				if nb := from.Move(x, y, dir); nb != Invalid && nb == to {
					return x, y, dir, true
				}
			}
		}
	}
	return 0, 0, Up, false
}

// ToDisplayText renders the board with column letters and row numbers.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < BoardSize; x++ {
		if x > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteRune(rune('A' + x))
	}
	sb.WriteString("\n   " + strings.Repeat("-", BoardSize*2) + "\n")
	for y := 0; y < BoardSize; y++ {
		sb.WriteString(fmt.Sprintf("%2d|", y+1))
		for x := 0; x < BoardSize; x++ {
			switch b.Get(x, y) {
			case 1:
				sb.WriteRune(PegMarker)
			case 0:
				sb.WriteRune(HoleMarker)
			default:
				sb.WriteRune(' ')
			}
			sb.WriteRune(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", BoardSize*2) + "\n")
	return "\n" + sb.String()
}

// FromDisplayText parses the output of ToDisplayText. Lines that are not
// board rows are ignored.
func FromDisplayText(s string) (Board, error) {
	b := Invalid
	seen := make(map[int]bool)
	for _, line := range strings.Split(s, "\n") {
		bar := strings.IndexByte(line, '|')
		if bar < 0 {
			continue
		}
		row, err := strconv.Atoi(strings.TrimSpace(line[:bar]))
		if err != nil {
			continue
		}
		if row < 1 || row > BoardSize || seen[row] {
			return Invalid, fmt.Errorf("unexpected row %d", row)
		}
		seen[row] = true
		y := row - 1
		cells := line[bar+1:]
		for x := 0; x < BoardSize && 2*x < len(cells); x++ {
			switch cells[2*x] {
			case PegMarker:
				if CellIndex(x, y) == 0 {
					return Invalid, fmt.Errorf("peg at %v is off the board", CoordString(x, y))
				}
				b.Set(x, y)
			case HoleMarker, ' ', '|':
			default:
				return Invalid, fmt.Errorf("row %d: unexpected character %q", row, cells[2*x])
			}
		}
	}
	if len(seen) != BoardSize {
		return Invalid, fmt.Errorf("expected %d rows, got %d", BoardSize, len(seen))
	}
	return b, nil
}

// ParseBoard accepts either the one-line notation or the multi-line display
// text.
func ParseBoard(s string) (Board, error) {
	if strings.Contains(strings.TrimSpace(s), "\n") {
		return FromDisplayText(s)
	}
	return ParseNotation(s)
}

// Notation returns a compact one-line form of the board, with a row per
// grid line and only the holes of that row, e.g. the starting position is
// "ooo/ooo/ooooooo/ooo.ooo/ooooooo/ooo/ooo".
func (b Board) Notation() string {
	rows := make([]string, 0, BoardSize)
	for y := 0; y < BoardSize; y++ {
		var sb strings.Builder
		for x := 0; x < BoardSize; x++ {
			switch b.Get(x, y) {
			case 1:
				sb.WriteRune(PegMarker)
			case 0:
				sb.WriteRune(HoleMarker)
			}
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "/")
}

// ParseNotation is the inverse of Notation. Pegs may be written as o, O, x
// or 1; holes as ., _ or 0.
func ParseNotation(s string) (Board, error) {
	rows := strings.Split(strings.TrimSpace(s), "/")
	if len(rows) != BoardSize {
		return Invalid, errBadNotation
	}
	b := Invalid
	for y, row := range rows {
		cols := make([]int, 0, BoardSize)
		for x := 0; x < BoardSize; x++ {
			if CellIndex(x, y) != 0 {
				cols = append(cols, x)
			}
		}
		if len(row) != len(cols) {
			return Invalid, fmt.Errorf("row %d: expected %d holes, got %d", y+1, len(cols), len(row))
		}
		for i, ch := range row {
			switch ch {
			case 'o', 'O', 'x', '1':
				b.Set(cols[i], y)
			case '.', '_', '0':
			default:
				return Invalid, fmt.Errorf("row %d: unexpected character %q", y+1, ch)
			}
		}
	}
	return b, nil
}

// ParseCoord turns a coordinate like "D4" (column letter, 1-based row) into
// grid coordinates.
func ParseCoord(s string) (x, y int, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return 0, 0, fmt.Errorf("bad coordinate %q", s)
	}
	x = int(s[0] - 'A')
	y = int(s[1] - '1')
	if CellIndex(x, y) == 0 {
		return 0, 0, fmt.Errorf("%v is not a hole on the board", s)
	}
	return x, y, nil
}

// CoordString is the inverse of ParseCoord.
func CoordString(x, y int) string {
	return fmt.Sprintf("%c%d", 'A'+x, y+1)
}
