// Package lua lets Lua scripts define key bindings and handlers.
//
// An Engine exposes a global "keys" table to its scripts:
//
//	keys.bind("archive", {"E", "CTRL+E"}, "Archive the selected mail")
//	keys.on("archive", function(ev) archived = archived + 1 end)
//	keys.on("send", send, {event = "keyup", global = true})
//	keys.toggle("star", star, unstar)
//	keys.disable("archive")
//
// Handlers receive an event table with the fields type, code, key,
// combo, ctrl, alt, shift, meta and target.
//
// Scripts run in a sandbox without the io, os, debug and package
// libraries, and every call into Lua is bounded by a timeout.
package lua
