package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals load code from disk or from strings, bypassing the
// sandbox.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// installSandbox removes the base functions that can load code.
func installSandbox(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}
