package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/cache"
	"github.com/domino14/onlyoneleft/config"
	"github.com/domino14/onlyoneleft/solver"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func newTestController() (*ShellController, *bytes.Buffer) {
	cache.CreateGlobalSolutionCache()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigPollInterval, 10*time.Millisecond)
	var buf bytes.Buffer
	return newController(cfg, &buf), &buf
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"flip D4",
			&shellcmd{"flip", []string{"D4"}, map[string]string{}},
			nil},
		{"solve",
			&shellcmd{"solve", nil, map[string]string{}},
			nil},
		{"target 'ooo/ooo/ooooooo/ooo.ooo/ooooooo/ooo/ooo' ",
			&shellcmd{"target",
				[]string{"ooo/ooo/ooooooo/ooo.ooo/ooooooo/ooo/ooo"},
				map[string]string{}},
			nil,
		},
		{"export -file out.yaml",
			&shellcmd{"export", nil, map[string]string{"file": "out.yaml"}},
			nil},
		{"list -n",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestEditTarget(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	_, err := sc.handle("solved")
	is.NoErr(err)
	is.Equal(sc.target, board.Solved())
	_, err = sc.handle("flip D4")
	is.NoErr(err)
	is.Equal(sc.target, board.Invalid)
	_, err = sc.handle("set 3 3")
	is.NoErr(err)
	is.Equal(sc.target, board.Solved())
	_, err = sc.handle("clear d4")
	is.NoErr(err)
	is.Equal(sc.target, board.Invalid)
	_, err = sc.handle("reset")
	is.NoErr(err)
	is.Equal(sc.target, board.Initial())

	_, err = sc.handle("flip A1")
	is.True(err != nil)
	_, err = sc.handle("set 0 0")
	is.True(err != nil)
	_, err = sc.handle("flip")
	is.True(err != nil)
	_, err = sc.handle("target ooo/ooo")
	is.True(err != nil)
	is.Equal(sc.target, board.Initial())

	_, err = sc.handle("target .../.../......./...o.../......./.../...")
	is.NoErr(err)
	is.Equal(sc.target, board.Solved())

	_, err = sc.handle("random 4")
	is.NoErr(err)
	is.Equal(sc.initial.Diff(sc.target), 4)
}

func TestSettings(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	_, err := sc.handle("max 7")
	is.NoErr(err)
	is.Equal(sc.maxSolutions, 7)
	_, err = sc.handle("max 0")
	is.True(err != nil)
	_, err = sc.handle("threads 3")
	is.NoErr(err)
	is.Equal(sc.threads, 3)
	_, err = sc.handle("threads many")
	is.True(err != nil)
	is.Equal(sc.threads, 3)
}

func TestModeGating(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	_, err := sc.handle("list")
	is.Equal(err, errNoResults)
	_, err = sc.handle("frobnicate")
	is.True(err != nil)
	is.Equal(sc.Mode(), SetupMode)
}

func TestLoadTarget(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	path := filepath.Join(t.TempDir(), "target.txt")
	want := board.Scramble(board.Initial(), 5)
	is.NoErr(os.WriteFile(path, []byte(want.ToDisplayText()), 0644))
	_, err := sc.handle("load " + path)
	is.NoErr(err)
	is.Equal(sc.target, want)
}

// finishSearch waits for the running search and lets the controller pick
// up its results.
func finishSearch(is *is.I, sc *ShellController) {
	sc.waitForSearch()
	_, err := sc.handle("status")
	is.NoErr(err)
	is.Equal(sc.Mode(), ResultsMode)
}

func TestSolveAndBrowse(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	_, err := sc.handle("random 3")
	is.NoErr(err)
	target := sc.target

	resp, err := sc.handle("solve")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Search started"))
	_, err = sc.handle("flip D4")
	is.True(err != nil)
	finishSearch(is, sc)
	is.True(len(sc.solutions) >= 1)

	resp, err = sc.handle("verify")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "check out"))

	resp, err = sc.handle("list")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "   1: "))

	_, err = sc.handle("sel 1")
	is.NoErr(err)
	resp, err = sc.handle("next")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "step 1 of 3"))
	_, err = sc.handle("step 3")
	is.NoErr(err)
	is.Equal(sc.solutions[0][sc.curStep], target)
	_, err = sc.handle("next")
	is.True(err != nil)
	_, err = sc.handle("step 0")
	is.NoErr(err)
	_, err = sc.handle("prev")
	is.True(err != nil)
	_, err = sc.handle("sel 0")
	is.True(err != nil)

	resp, err = sc.handle("stats")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Forward half"))

	path := filepath.Join(t.TempDir(), "out.yaml")
	_, err = sc.handle("export " + path)
	is.NoErr(err)
	dat, err := os.ReadFile(path)
	is.NoErr(err)
	var exported exportedSolutions
	is.NoErr(yaml.Unmarshal(dat, &exported))
	is.Equal(len(exported.Solutions), len(sc.solutions))
	is.Equal(len(exported.Moves[0]), 3)
	is.Equal(exported.Final, target.Notation())

	n := len(sc.solutions)
	_, err = sc.handle("back")
	is.NoErr(err)
	is.Equal(sc.Mode(), SetupMode)
	is.Equal(sc.target, target)

	// the same search again comes from the cache.
	resp, err = sc.handle("solve")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "cached"))
	is.Equal(sc.Mode(), ResultsMode)
	is.Equal(len(sc.solutions), n)
	_, err = sc.handle("stats")
	is.True(err != nil)
}

func TestNoSolutions(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	// one peg fewer than the start, but not one jump away.
	sc.target = board.Initial()
	sc.target.Flip(0, 2)
	_, err := sc.handle("solve")
	is.NoErr(err)
	finishSearch(is, sc)
	is.Equal(len(sc.solutions), 0)
	resp, err := sc.handle("list")
	is.NoErr(err)
	is.Equal(resp.message, "No solutions found.")
	_, err = sc.handle("back")
	is.NoErr(err)
	is.Equal(sc.target, board.Initial())
}

func TestSolveRejectsImpossibleTarget(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	_, err := sc.handle("start .../.../......./...o.../......./.../...")
	is.NoErr(err)
	_, err = sc.handle("reset")
	is.NoErr(err)
	_, err = sc.handle("solve")
	is.True(errors.Is(err, solver.ErrMorePegsInFinal))
	is.Equal(sc.Mode(), SetupMode)
}

func TestSearchLogConfig(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	path := filepath.Join(t.TempDir(), "search.yaml")
	sc.config.Set(config.ConfigSearchLog, path)
	_, err := sc.handle("random 4")
	is.NoErr(err)
	_, err = sc.handle("solve")
	is.NoErr(err)
	finishSearch(is, sc)
	f, err := os.Open(path)
	is.NoErr(err)
	defer f.Close()
	entries, err := solver.ReadLog(f)
	is.NoErr(err)
	is.Equal(entries[len(entries)-1].Kind, solver.LogKindSummary)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	resp, err := sc.handle("help")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "solve"))
	resp, err = sc.handle("help export")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "YAML"))
	resp, err = sc.handle("help nosuchthing")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "There is no help text"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	c := NewShellCompleter(sc)
	matches, n := c.Do([]rune("sol"), 3)
	is.Equal(n, 3)
	got := map[string]bool{}
	for _, m := range matches {
		got[string(m)] = true
	}
	is.True(got["ve"])
	is.True(got["ved"])

	matches, n = c.Do([]rune("flip d"), 6)
	is.Equal(n, 1)
	is.Equal(len(matches), 7)

	sc.setMode(ResultsMode)
	matches, _ = c.Do([]rune("ver"), 3)
	is.Equal(len(matches), 1)
	is.Equal(string(matches[0]), "ify")
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	path := filepath.Join(t.TempDir(), "test.lua")
	script := `
ool_run("solved")
local sols = ool_solve("ooo/ooo/ooooooo/ooo.ooo/ooooooo/ooo/ooo",
	"ooo/ooo/ooooooo/ooooooo/ooo.ooo/o.o/ooo", 10)
assert(#sols == 1)
assert(#sols[1] == 2)
local json = require("json")
assert(json.encode(sols[1]) ~= "")
local out = ool_run("max 0")
assert(string.sub(out, 1, 6) == "ERROR:")
ool_run("max 7")
`
	is.NoErr(os.WriteFile(path, []byte(script), 0644))
	_, err := sc.handle("script " + path)
	is.NoErr(err)
	is.Equal(sc.target, board.Solved())
	is.Equal(sc.maxSolutions, 7)
}
