// Package script runs sandboxed Lua edit scripts against an engine.Session.
//
// Scripts see a global editor table. Offsets are zero-based byte offsets
// and lines are zero-based, as in the engine:
//
//	editor.select_all()
//	editor.insert("hello\n")
//	editor.move("doc_start")
//	for _, s in ipairs(editor.selections()) do
//	    print(s.anchor, s.cursor)
//	end
//	local id = editor.snapshot("before")
//	editor.insert("x")
//	editor.restore(id)
//
// Only the base, table, string and math libraries are available. io, os,
// debug and package are never opened, and dofile, loadfile, load,
// loadstring and require are removed. print writes to the Runner's output.
//
// Each run is bounded by a timeout through the Lua state's context and
// by a maximum call depth. Failures come back as *ScriptError; an engine
// error raised by an editor call stays reachable with errors.Is.
package script
