package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/config"
	"github.com/domino14/onlyoneleft/solver"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNotInSetup        = errors.New("only available while setting up; use `back` first")
	errNoResults         = errors.New("no results yet; use `solve` first")
	errSearching         = errors.New("a search is running; use `status` to check on it")
)

type Mode int

const (
	SetupMode Mode = iota
	SearchingMode
	ResultsMode
)

func (m Mode) String() string {
	switch m {
	case SetupMode:
		return "setup"
	case SearchingMode:
		return "searching"
	case ResultsMode:
		return "results"
	}
	return "unknown"
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	// Options are of the form -key value
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (c *shellcmd) intArg(idx int, name string) (int, error) {
	if len(c.args) <= idx {
		return 0, fmt.Errorf("%v needs a %v", c.cmd, name)
	}
	n, err := strconv.Atoi(c.args[idx])
	if err != nil {
		return 0, fmt.Errorf("%v: %v is not a number", c.cmd, strconv.Quote(c.args[idx]))
	}
	return n, nil
}

type ShellController struct {
	l       *readline.Instance
	out     io.Writer
	config  *config.Config
	printer *message.Printer

	mode         Mode
	initial      board.Board
	target       board.Board
	maxSolutions int
	threads      int

	solver     *solver.Solver
	search     *searchState
	fromCache  bool
	solutions  []solver.Path
	curSol     int
	curStep    int
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// newController builds a controller that writes to w and has no terminal
// attached.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	return &ShellController{
		out:          w,
		config:       cfg,
		printer:      message.NewPrinter(language.English),
		mode:         SetupMode,
		initial:      board.Initial(),
		target:       board.Solved(),
		maxSolutions: cfg.GetInt(config.ConfigMaxSolutions),
		threads:      cfg.GetInt(config.ConfigThreads),
	}
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          sc.prompt(),
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func (sc *ShellController) prompt() string {
	return "\033[31monlyoneleft:" + sc.mode.String() + ">\033[0m "
}

func (sc *ShellController) setMode(m Mode) {
	if m != sc.mode {
		log.Debug().Str("from", sc.mode.String()).Str("to", m.String()).Msg("mode-change")
	}
	sc.mode = m
	if sc.l != nil {
		sc.l.SetPrompt(sc.prompt())
	}
}

func (sc *ShellController) Mode() Mode {
	return sc.mode
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	// Pick up a search that finished since the last command.
	if note := sc.collectIfFinished(); note != "" {
		sc.showMessage(note)
	}

	switch cmd.cmd {
	case "help", "h", "?":
		return sc.help(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "status", "st":
		return sc.status(cmd)
	case "script":
		return sc.script(cmd)
	}

	switch sc.mode {
	case SetupMode:
		return sc.setupCommand(cmd)
	case SearchingMode:
		return nil, errSearching
	case ResultsMode:
		return sc.resultsCommand(cmd)
	}
	return nil, errors.New("bad mode")
}

func (sc *ShellController) setupCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "flip", "f":
		return sc.editCell(cmd, (*board.Board).Flip)
	case "set":
		return sc.editCell(cmd, (*board.Board).Set)
	case "clear", "c":
		return sc.editCell(cmd, (*board.Board).Clear)
	case "reset":
		return sc.reset(cmd)
	case "solved":
		return sc.solved(cmd)
	case "random", "r":
		return sc.random(cmd)
	case "target", "t":
		return sc.setTarget(cmd)
	case "start":
		return sc.setStart(cmd)
	case "load":
		return sc.load(cmd)
	case "max":
		return sc.setMax(cmd)
	case "threads":
		return sc.setThreads(cmd)
	case "solve", "go":
		return sc.solve(cmd)
	case "list", "sel", "step", "next", "n", "prev", "p", "verify", "stats", "export", "back":
		return nil, errNoResults
	}
	return nil, unknownCommand(cmd.cmd)
}

func (sc *ShellController) resultsCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "list", "l":
		return sc.list(cmd)
	case "sel":
		return sc.sel(cmd)
	case "step":
		return sc.step(cmd)
	case "next", "n":
		return sc.next(cmd)
	case "prev", "p":
		return sc.prev(cmd)
	case "verify":
		return sc.verify(cmd)
	case "stats":
		return sc.stats(cmd)
	case "export":
		return sc.export(cmd)
	case "back", "b":
		return sc.back(cmd)
	case "flip", "f", "set", "clear", "c", "reset", "solved", "random", "r",
		"target", "t", "start", "load", "max", "threads", "solve", "go":
		return nil, errNotInSetup
	}
	return nil, unknownCommand(cmd.cmd)
}

func unknownCommand(cmd string) error {
	msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
	log.Info().Msg(msg)
	return errors.New(msg)
}

// Execute runs a single line non-interactively.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	if sc.mode == SearchingMode {
		// A one-off solve waits for its result.
		sc.waitForSearch()
		sc.showMessage(sc.collectIfFinished())
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops the progress reporter. A search that is still running is
// left alone; the process exits without waiting for it.
func (sc *ShellController) Cleanup() {
	if sc.search != nil {
		sc.search.stopReporting()
	}
}
