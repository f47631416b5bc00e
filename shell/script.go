package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/cache"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("ool_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// Run executes one shell command and returns its output, or an
// "ERROR: ..." string.
func Run(L *lua.LState) int {
	line := L.CheckString(1)
	sc := getShell(L)
	r, err := sc.handle(line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

// Solve runs a search to completion on the calling goroutine and returns
// the solutions as a table of tables of board notations.
func Solve(L *lua.LState) int {
	initial, err := board.ParseBoard(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	final, err := board.ParseBoard(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	sc := getShell(L)
	max := L.OptInt(3, sc.maxSolutions)
	paths, err := cache.Load(sc.config, cache.Key{Initial: initial, Final: final}, max, cache.Solve)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	tbl := L.NewTable()
	for _, p := range paths {
		row := L.NewTable()
		for _, b := range p {
			row.Append(lua.LString(b.Notation()))
		}
		tbl.Append(row)
	}
	L.Push(tbl)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	if sc.mode == SearchingMode {
		return nil, errSearching
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("ool_shell", lsc)
	L.SetGlobal("ool_run", L.NewFunction(Run))
	L.SetGlobal("ool_solve", L.NewFunction(Solve))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
