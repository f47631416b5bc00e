package shell

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/solver"
)

const defaultListSize = 20

// moveDescriptions names the jumps along a path, e.g. "D2 down".
func moveDescriptions(p solver.Path) []string {
	if len(p) < 2 {
		return nil
	}
	return lo.Map(p[1:], func(b board.Board, i int) string {
		x, y, dir, ok := board.FindMove(p[i], b)
		if !ok {
			return "?"
		}
		return board.CoordString(x, y) + " " + dir.String()
	})
}

func (sc *ShellController) stepText() string {
	p := sc.solutions[sc.curSol]
	header := fmt.Sprintf("Solution %d of %d, step %d of %d",
		sc.curSol+1, len(sc.solutions), sc.curStep, len(p)-1)
	if sc.curStep > 0 {
		header += " (" + moveDescriptions(p)[sc.curStep-1] + ")"
	}
	return header + p[sc.curStep].ToDisplayText()
}

func (sc *ShellController) list(cmd *shellcmd) (*Response, error) {
	if len(sc.solutions) == 0 {
		return msg("No solutions found."), nil
	}
	n := defaultListSize
	if len(cmd.args) > 0 {
		var err error
		if n, err = cmd.intArg(0, "count"); err != nil {
			return nil, err
		}
	}
	var sb strings.Builder
	for i, p := range sc.solutions[:min(n, len(sc.solutions))] {
		moves := moveDescriptions(p)
		shown := strings.Join(moves[:min(5, len(moves))], ", ")
		if len(moves) > 5 {
			shown += ", ..."
		}
		marker := " "
		if i == sc.curSol {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s%4d: %s\n", marker, i+1, shown))
	}
	if n < len(sc.solutions) {
		sb.WriteString(sc.printer.Sprintf("(%d more)\n", len(sc.solutions)-n))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) sel(cmd *shellcmd) (*Response, error) {
	n, err := cmd.intArg(0, "solution number")
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(sc.solutions) {
		return nil, fmt.Errorf("pick a solution between 1 and %d", len(sc.solutions))
	}
	sc.curSol = n - 1
	sc.curStep = 0
	return msg(sc.stepText()), nil
}

func (sc *ShellController) gotoStep(step int) (*Response, error) {
	if len(sc.solutions) == 0 {
		return nil, errors.New("there are no solutions to step through")
	}
	last := len(sc.solutions[sc.curSol]) - 1
	if step < 0 || step > last {
		return nil, fmt.Errorf("pick a step between 0 and %d", last)
	}
	sc.curStep = step
	return msg(sc.stepText()), nil
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	n, err := cmd.intArg(0, "step number")
	if err != nil {
		return nil, err
	}
	return sc.gotoStep(n)
}

func (sc *ShellController) next(cmd *shellcmd) (*Response, error) {
	return sc.gotoStep(sc.curStep + 1)
}

func (sc *ShellController) prev(cmd *shellcmd) (*Response, error) {
	return sc.gotoStep(sc.curStep - 1)
}

// verify replays every solution and checks each step is a legal jump.
func (sc *ShellController) verify(cmd *shellcmd) (*Response, error) {
	wantLen := 1 + sc.initial.Diff(sc.target)
	var problems []string
	for i, p := range sc.solutions {
		switch {
		case len(p) != wantLen:
			problems = append(problems, fmt.Sprintf("solution %d has %d boards, expected %d", i+1, len(p), wantLen))
			continue
		case p[0] != sc.initial:
			problems = append(problems, fmt.Sprintf("solution %d does not begin at the start board", i+1))
		case p[len(p)-1] != sc.target:
			problems = append(problems, fmt.Sprintf("solution %d does not end at the target board", i+1))
		}
		for j := 1; j < len(p); j++ {
			if !board.IsLegalStep(p[j-1], p[j]) {
				problems = append(problems, fmt.Sprintf("solution %d: step %d is not a legal jump", i+1, j))
				break
			}
		}
	}
	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "\n"))
	}
	return msg(sc.printer.Sprintf("All %d solutions check out.", len(sc.solutions))), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	if sc.solver == nil {
		return nil, errors.New("no search statistics for cached results")
	}
	fwd, bwd := sc.solver.Stats()
	var sb strings.Builder
	sb.WriteString(sc.printer.Sprintf("Solutions: %d, fingerprint %016x\n",
		len(sc.solutions), solver.Fingerprint(sc.solutions)))
	sb.WriteString("\nForward half, nodes by depth:\n")
	sb.WriteString(fwd.String())
	sb.WriteString("Branching factor:\n")
	if err := fwd.Sample().FprintHistogram(&sb, 10, 40); err != nil {
		return nil, err
	}
	sb.WriteString("\nBackward half, nodes by depth:\n")
	sb.WriteString(bwd.String())
	sb.WriteString("Branching factor:\n")
	if err := bwd.Sample().FprintHistogram(&sb, 10, 40); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

type exportedSolutions struct {
	Initial      string     `yaml:"initial"`
	Final        string     `yaml:"final"`
	MaxSolutions int        `yaml:"max_solutions"`
	Fingerprint  string     `yaml:"fingerprint"`
	Solutions    [][]string `yaml:"solutions"`
	Moves        [][]string `yaml:"moves"`
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("export needs a file name")
	}
	out := exportedSolutions{
		Initial:      sc.initial.Notation(),
		Final:        sc.target.Notation(),
		MaxSolutions: sc.maxSolutions,
		Fingerprint:  fmt.Sprintf("%016x", solver.Fingerprint(sc.solutions)),
		Solutions: lo.Map(sc.solutions, func(p solver.Path, _ int) []string {
			return lo.Map(p, func(b board.Board, _ int) string { return b.Notation() })
		}),
		Moves: lo.Map(sc.solutions, func(p solver.Path, _ int) []string {
			return moveDescriptions(p)
		}),
	}
	dat, err := yaml.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cmd.args[0], dat, 0644); err != nil {
		return nil, err
	}
	return msg(sc.printer.Sprintf("Wrote %d solutions to %v", len(sc.solutions), cmd.args[0])), nil
}

// back returns to setup. The target becomes the last board of the first
// solution, or the full starting position if there were no solutions.
func (sc *ShellController) back(cmd *shellcmd) (*Response, error) {
	if len(sc.solutions) > 0 {
		first := sc.solutions[0]
		sc.target = first[len(first)-1]
	} else {
		sc.target = board.Initial()
	}
	sc.solutions = nil
	sc.setMode(SetupMode)
	return msg(sc.setupText()), nil
}
