package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/onlyoneleft/board"
)

// ShellCompleter provides mode-aware autocomplete for shell commands.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commonCommands = []string{"help", "show", "status", "exit"}

var commandNames = map[Mode][]string{
	SetupMode: {
		"flip", "set", "clear", "reset", "solved", "random", "target",
		"start", "load", "max", "threads", "solve", "script",
	},
	SearchingMode: {},
	ResultsMode: {
		"list", "sel", "step", "next", "prev", "verify", "stats", "export",
		"back", "script",
	},
}

var helpTopics = []string{"solve", "export", "script"}

// commands whose argument is a hole on the board
var cellCommands = map[string]bool{"flip": true, "set": true, "clear": true}

// commands whose argument is a file
var fileCommands = map[string]bool{"load": true, "export": true, "script": true}

func allCoords() []string {
	var out []string
	for y := 0; y < board.BoardSize; y++ {
		for x := 0; x < board.BoardSize; x++ {
			if board.CellIndex(x, y) != 0 {
				out = append(out, board.CoordString(x, y))
			}
		}
	}
	return out
}

func fileCompletions(prefix string) []string {
	dir, base := filepath.Split(prefix)
	lookIn := dir
	if lookIn == "" {
		lookIn = "."
	}
	entries, err := os.ReadDir(lookIn)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), base) {
			continue
		}
		name := dir + e.Name()
		if e.IsDir() {
			name += "/"
		}
		out = append(out, name)
	}
	return out
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = append(append([]string{}, commandNames[c.sc.mode]...), commonCommands...)
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		switch {
		case cmdName == "help":
			completions = helpTopics
		case cellCommands[cmdName]:
			completions = allCoords()
			prefix = strings.ToUpper(prefix)
		case fileCommands[cmdName]:
			completions = fileCompletions(prefix)
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
