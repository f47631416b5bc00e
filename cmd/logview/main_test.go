package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/solver"
)

func TestRender(t *testing.T) {
	is := is.New(t)
	initial := board.Scramble(board.Initial(), 10)
	final := board.Scramble(initial, 6)

	var logbuf bytes.Buffer
	s, err := solver.NewSolver(initial, final, 20)
	is.NoErr(err)
	s.SetLogStream(&logbuf)
	s.Solve()

	entries, err := solver.ReadLog(&logbuf)
	is.NoErr(err)

	var out bytes.Buffer
	is.NoErr(render(&out, entries, ""))
	is.True(strings.Contains(out.String(), "Meeting 1: "))
	is.True(strings.Contains(out.String(), "forward nodes by depth"))

	out.Reset()
	is.NoErr(render(&out, entries, "no board looks like this"))
	is.True(!strings.Contains(out.String(), "Meeting 1: "))
	is.True(strings.Contains(out.String(), "Search "+initial.Notation()))
}
