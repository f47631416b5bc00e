package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/onlyoneleft/board"
)

// parseCell accepts either a coordinate like D4 or two 0-based numbers.
func parseCell(args []string) (x, y int, err error) {
	switch len(args) {
	case 1:
		return board.ParseCoord(args[0])
	case 2:
		x, err = strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, err
		}
		y, err = strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, err
		}
		if board.CellIndex(x, y) == 0 {
			return 0, 0, fmt.Errorf("(%d, %d) is not a hole on the board", x, y)
		}
		return x, y, nil
	}
	return 0, 0, errors.New("need a coordinate like D4, or x y")
}

func (sc *ShellController) setupText() string {
	var sb strings.Builder
	sb.WriteString("Start:")
	sb.WriteString(sc.initial.ToDisplayText())
	sb.WriteString("Target:")
	sb.WriteString(sc.target.ToDisplayText())
	sb.WriteString(sc.printer.Sprintf("Pegs: %d -> %d, moves: %d, max solutions: %d, threads: %d",
		sc.initial.Pegs(), sc.target.Pegs(), sc.initial.Diff(sc.target),
		sc.maxSolutions, sc.threads))
	return sb.String()
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	switch sc.mode {
	case ResultsMode:
		if len(sc.solutions) == 0 {
			return msg("No solutions found." + sc.target.ToDisplayText()), nil
		}
		return msg(sc.stepText()), nil
	case SearchingMode:
		return msg("Searching for:\n" + sc.setupText()), nil
	}
	return msg(sc.setupText()), nil
}

// editCell edits the target board; the search always starts from the start
// board.
func (sc *ShellController) editCell(cmd *shellcmd, edit func(*board.Board, int, int)) (*Response, error) {
	x, y, err := parseCell(cmd.args)
	if err != nil {
		return nil, err
	}
	edit(&sc.target, x, y)
	return msg(sc.target.ToDisplayText()), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	sc.target = board.Initial()
	return msg(sc.target.ToDisplayText()), nil
}

func (sc *ShellController) solved(cmd *shellcmd) (*Response, error) {
	sc.target = board.Solved()
	return msg(sc.target.ToDisplayText()), nil
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	n, err := cmd.intArg(0, "number of moves")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.New("number of moves can't be negative")
	}
	sc.target = board.Scramble(sc.initial, n)
	played := sc.initial.Diff(sc.target)
	if played < n {
		sc.showMessage(fmt.Sprintf("Got stuck after %d moves.", played))
	}
	return msg(sc.target.ToDisplayText()), nil
}

func (sc *ShellController) parseBoardArgs(cmd *shellcmd) (board.Board, error) {
	if len(cmd.args) != 1 {
		return board.Invalid, fmt.Errorf("%v needs one board, e.g. %v", cmd.cmd, board.Initial().Notation())
	}
	return board.ParseBoard(cmd.args[0])
}

func (sc *ShellController) setTarget(cmd *shellcmd) (*Response, error) {
	b, err := sc.parseBoardArgs(cmd)
	if err != nil {
		return nil, err
	}
	sc.target = b
	return msg(sc.target.ToDisplayText()), nil
}

func (sc *ShellController) setStart(cmd *shellcmd) (*Response, error) {
	b, err := sc.parseBoardArgs(cmd)
	if err != nil {
		return nil, err
	}
	sc.initial = b
	return msg(sc.setupText()), nil
}

// load reads a target board from a file, in either notation.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("load needs a file name")
	}
	dat, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	b, err := board.ParseBoard(string(dat))
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", cmd.args[0]).Str("board", b.Notation()).Msg("loaded-target")
	sc.target = b
	return msg(sc.target.ToDisplayText()), nil
}

func (sc *ShellController) setMax(cmd *shellcmd) (*Response, error) {
	n, err := cmd.intArg(0, "number")
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.New("max must be at least 1")
	}
	sc.maxSolutions = n
	return msg(fmt.Sprintf("set max solutions to %d", n)), nil
}

func (sc *ShellController) setThreads(cmd *shellcmd) (*Response, error) {
	n, err := cmd.intArg(0, "number")
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.New("threads must be at least 1")
	}
	sc.threads = n
	return msg(fmt.Sprintf("set threads to %d", n)), nil
}
