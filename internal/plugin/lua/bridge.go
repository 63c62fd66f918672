package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
)

// eventTable converts a key event to the table handlers receive.
func eventTable(L *lua.LState, cat *key.Catalog, ev *key.Event) *lua.LTable {
	t := L.NewTable()
	if ev == nil {
		return t
	}
	L.SetField(t, "type", lua.LString(ev.Type))
	L.SetField(t, "code", lua.LNumber(ev.Code))
	L.SetField(t, "ctrl", lua.LBool(ev.Ctrl))
	L.SetField(t, "alt", lua.LBool(ev.Alt))
	L.SetField(t, "shift", lua.LBool(ev.Shift))
	L.SetField(t, "meta", lua.LBool(ev.Meta))
	L.SetField(t, "target", lua.LString(ev.Target))
	if c, ok := cat.ComboFromEvent(ev); ok {
		L.SetField(t, "key", lua.LString(c.Key().Name))
		L.SetField(t, "combo", lua.LString(c.String()))
	}
	return t
}

// bindingTable converts a binding to {name, description, enabled, combos}.
func bindingTable(L *lua.LState, b keymap.Binding) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(b.Name))
	L.SetField(t, "description", lua.LString(b.Description))
	L.SetField(t, "enabled", lua.LBool(b.Enabled))
	combos := L.NewTable()
	for _, s := range b.ComboStrings() {
		combos.Append(lua.LString(s))
	}
	L.SetField(t, "combos", combos)
	return t
}

// stringList accepts a string or an array of strings.
func stringList(v lua.LValue) ([]string, error) {
	switch v := v.(type) {
	case lua.LString:
		return []string{string(v)}, nil
	case *lua.LTable:
		var out []string
		var err error
		n := v.Len()
		for i := 1; i <= n; i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				err = fmt.Errorf("element %d is %s, want string", i, v.RawGetInt(i).Type())
				break
			}
			out = append(out, string(s))
		}
		return out, err
	default:
		return nil, fmt.Errorf("got %s, want string or table", v.Type())
	}
}

// registerOptions reads {event = "keyup", global = true, when = "..."}.
func registerOptions(t *lua.LTable) (keymap.RegisterOptions, error) {
	var opts keymap.RegisterOptions
	if t == nil {
		return opts, nil
	}

	if v, ok := t.RawGetString("event").(lua.LString); ok {
		et, err := key.ParseEventType(string(v))
		if err != nil {
			return opts, err
		}
		opts.EventType = et
	}
	opts.Global = lua.LVAsBool(t.RawGetString("global"))
	if v, ok := t.RawGetString("when").(lua.LString); ok {
		opts.When = string(v)
	}
	return opts, nil
}
