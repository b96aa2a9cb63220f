package script

import (
	"errors"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/engine"
)

// editorModule builds the global "editor" table.
func (r *Runner) editorModule() *lua.LTable {
	return r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		// edits
		"insert":    r.luaInsert,
		"backspace": r.luaBackspace,
		"delete":    r.luaDelete,
		"replace":   r.luaReplace,
		"undo":      r.luaUndo,
		"redo":      r.luaRedo,

		"begin_group": r.luaBeginGroup,
		"end_group":   r.luaEndGroup,

		// selections
		"move":       r.luaMove,
		"select_all": r.luaSelectAll,
		"set_cursor": r.luaSetCursor,
		"select":     r.luaSelect,
		"add_cursor": r.luaAddCursor,
		"collapse":   r.luaCollapse,
		"selections": r.luaSelections,

		// reads
		"text":       r.luaText,
		"len":        r.luaLen,
		"line_count": r.luaLineCount,
		"line":       r.luaLine,

		// snapshots
		"snapshot": r.luaSnapshot,
		"restore":  r.luaRestore,
	})
}

// raise reports err to Lua and remembers it so the caller can unwrap it.
func (r *Runner) raise(L *lua.LState, err error) int {
	r.lastErr = err
	L.RaiseError("%s", err.Error())
	return 0
}

func (r *Runner) luaInsert(L *lua.LState) int {
	if err := r.session.Insert(L.CheckString(1)); err != nil {
		return r.raise(L, err)
	}
	return 0
}

func (r *Runner) luaBackspace(L *lua.LState) int {
	if err := r.session.Backspace(); err != nil {
		return r.raise(L, err)
	}
	return 0
}

func (r *Runner) luaDelete(L *lua.LState) int {
	if err := r.session.DeleteForward(); err != nil {
		return r.raise(L, err)
	}
	return 0
}

// replace(start, end, text)
func (r *Runner) luaReplace(L *lua.LState) int {
	start, end, text := L.CheckInt(1), L.CheckInt(2), L.CheckString(3)
	if err := r.session.Replace(start, end, text); err != nil {
		return r.raise(L, err)
	}
	return 0
}

// undo() returns false when there is nothing to undo.
func (r *Runner) luaUndo(L *lua.LState) int {
	err := r.session.Undo()
	if errors.Is(err, engine.ErrNothingToUndo) {
		L.Push(lua.LFalse)
		return 1
	}
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// redo() returns false when there is nothing to redo.
func (r *Runner) luaRedo(L *lua.LState) int {
	err := r.session.Redo()
	if errors.Is(err, engine.ErrNothingToRedo) {
		L.Push(lua.LFalse)
		return 1
	}
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func (r *Runner) luaBeginGroup(L *lua.LState) int {
	r.session.BeginGroup(L.OptString(1, "script"))
	return 0
}

func (r *Runner) luaEndGroup(L *lua.LState) int {
	r.session.EndGroup()
	return 0
}

// move(name [, extend])
func (r *Runner) luaMove(L *lua.LState) int {
	m, err := engine.ParseMotion(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	r.session.Move(m, L.OptBool(2, false))
	return 0
}

func (r *Runner) luaSelectAll(L *lua.LState) int {
	r.session.SelectAll()
	return 0
}

func (r *Runner) luaSetCursor(L *lua.LState) int {
	if err := r.session.SetCursor(L.CheckInt(1)); err != nil {
		return r.raise(L, err)
	}
	return 0
}

// select(anchor, cursor)
func (r *Runner) luaSelect(L *lua.LState) int {
	if err := r.session.SetSelection(L.CheckInt(1), L.CheckInt(2)); err != nil {
		return r.raise(L, err)
	}
	return 0
}

// add_cursor(offset [, anchor])
func (r *Runner) luaAddCursor(L *lua.LState) int {
	cursor := L.CheckInt(1)
	anchor := L.OptInt(2, cursor)
	if err := r.session.AddSelection(anchor, cursor); err != nil {
		return r.raise(L, err)
	}
	return 0
}

func (r *Runner) luaCollapse(L *lua.LState) int {
	r.session.ClearSecondary()
	return 0
}

// selections() returns an array of {anchor=, cursor=} in document order.
func (r *Runner) luaSelections(L *lua.LState) int {
	sels := r.session.Selections()
	t := L.CreateTable(len(sels), 0)
	for _, sel := range sels {
		st := L.CreateTable(0, 2)
		st.RawSetString("anchor", lua.LNumber(sel.Anchor))
		st.RawSetString("cursor", lua.LNumber(sel.Cursor))
		t.Append(st)
	}
	L.Push(t)
	return 1
}

// text([start, end])
func (r *Runner) luaText(L *lua.LState) int {
	if L.GetTop() == 0 {
		L.Push(lua.LString(r.session.Text()))
		return 1
	}
	s, err := r.session.TextRange(L.CheckInt(1), L.CheckInt(2))
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LString(s))
	return 1
}

func (r *Runner) luaLen(L *lua.LState) int {
	L.Push(lua.LNumber(r.session.Len()))
	return 1
}

func (r *Runner) luaLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.session.LineCount()))
	return 1
}

// line(n) returns line n without its terminator. Lines are zero-based.
func (r *Runner) luaLine(L *lua.LState) int {
	s, err := r.session.LineText(L.CheckInt(1))
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LString(s))
	return 1
}

// snapshot(name) returns the new snapshot's id.
func (r *Runner) luaSnapshot(L *lua.LState) int {
	snap, err := r.session.Snapshot(L.CheckString(1))
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LString(snap.ID.String()))
	return 1
}

// restore(id_or_name)
func (r *Runner) luaRestore(L *lua.LState) int {
	key := L.CheckString(1)
	id, err := uuid.Parse(key)
	if err != nil {
		snap, err := r.session.GetSnapshotByName(key)
		if err != nil {
			return r.raise(L, err)
		}
		id = snap.ID
	}
	if err := r.session.RestoreSnapshot(id); err != nil {
		return r.raise(L, err)
	}
	return 0
}
