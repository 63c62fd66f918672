package lua

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
)

// Listener is switched on and off by keys.listen.
type Listener interface {
	Enable()
	Disable()
}

// Engine runs binding scripts against a registry.
type Engine struct {
	state    *State
	registry *keymap.Registry
	listener Listener
	logger   *slog.Logger

	mu   sync.Mutex
	regs []*keymap.Registration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithListener lets scripts call keys.listen.
func WithListener(l Listener) EngineOption {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithLogger sets the logger used by keys.log.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithState uses an existing state instead of a fresh one.
func WithState(s *State) EngineOption {
	return func(e *Engine) {
		e.state = s
	}
}

// NewEngine creates an engine bound to reg and installs the keys table.
func NewEngine(reg *keymap.Registry, opts ...EngineOption) *Engine {
	e := &Engine{registry: reg}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = NewState()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	e.state.RegisterModule("keys", map[string]lua.LGFunction{
		"bind":     e.bind,
		"on":       e.on,
		"toggle":   e.toggle,
		"off":      e.off,
		"enable":   e.enable,
		"disable":  e.disable,
		"enabled":  e.enabled,
		"bindings": e.bindings,
		"parse":    e.parse,
		"listen":   e.listen,
		"log":      e.log,
	})
	return e
}

// State returns the underlying Lua state.
func (e *Engine) State() *State {
	return e.state
}

// Run executes Lua source.
func (e *Engine) Run(src string) error {
	if err := e.state.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// RunFile executes a Lua file.
func (e *Engine) RunFile(path string) error {
	if err := e.state.DoFile(path); err != nil {
		return fmt.Errorf("lua: %s: %w", path, err)
	}
	return nil
}

// Registrations returns the handlers registered by scripts.
func (e *Engine) Registrations() []*keymap.Registration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.regs)
}

// Close unregisters every script handler and closes the state.
// Bindings defined by scripts stay in the registry.
func (e *Engine) Close() error {
	e.mu.Lock()
	regs := e.regs
	e.regs = nil
	e.mu.Unlock()

	for _, reg := range regs {
		e.registry.Unregister(reg)
	}
	return e.state.Close()
}

// handler adapts a Lua function to keymap.Handler.
type handler struct {
	engine *Engine
	fn     *lua.LFunction
}

func (h *handler) Handle(ev *key.Event) error {
	cat := h.engine.registry.Catalog()
	return h.engine.state.CallFunction(h.fn, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{eventTable(L, cat, ev)}
	})
}

func (e *Engine) track(reg *keymap.Registration) {
	e.mu.Lock()
	e.regs = append(e.regs, reg)
	e.mu.Unlock()
}

// keys.bind(name, combos [, description])
func (e *Engine) bind(L *lua.LState) int {
	name := L.CheckString(1)
	texts, err := stringList(L.CheckAny(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	desc := L.OptString(3, "")

	if err := e.registry.AddStrings(name, desc, texts...); err != nil {
		L.RaiseError("bind %q: %v", name, err)
	}
	return 0
}

// keys.on(name, fn [, opts]) -> id
func (e *Engine) on(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	opts, err := registerOptions(L.OptTable(3, nil))
	if err != nil {
		L.ArgError(3, err.Error())
		return 0
	}

	reg, err := e.registry.RegisterWith(name, &handler{engine: e, fn: fn}, opts)
	if err != nil {
		L.RaiseError("on %q: %v", name, err)
		return 0
	}
	e.track(reg)
	L.Push(lua.LString(reg.ID))
	return 1
}

// keys.toggle(name, on, off [, opts]) -> id
func (e *Engine) toggle(L *lua.LState) int {
	name := L.CheckString(1)
	onFn := L.CheckFunction(2)
	offFn := L.CheckFunction(3)
	opts, err := registerOptions(L.OptTable(4, nil))
	if err != nil {
		L.ArgError(4, err.Error())
		return 0
	}

	t := keymap.NewToggle(&handler{engine: e, fn: onFn}, &handler{engine: e, fn: offFn})
	reg, err := e.registry.RegisterWith(name, t, opts)
	if err != nil {
		L.RaiseError("toggle %q: %v", name, err)
		return 0
	}
	e.track(reg)
	L.Push(lua.LString(reg.ID))
	return 1
}

// keys.off(id) -> bool
func (e *Engine) off(L *lua.LState) int {
	id := L.CheckString(1)

	e.mu.Lock()
	var found *keymap.Registration
	e.regs = slices.DeleteFunc(e.regs, func(r *keymap.Registration) bool {
		if r.ID == id {
			found = r
			return true
		}
		return false
	})
	e.mu.Unlock()

	L.Push(lua.LBool(found != nil && e.registry.Unregister(found)))
	return 1
}

// keys.enable(name, ...)
func (e *Engine) enable(L *lua.LState) int {
	e.registry.EnableBindings(checkNames(L)...)
	return 0
}

// keys.disable(name, ...)
func (e *Engine) disable(L *lua.LState) int {
	e.registry.DisableBindings(checkNames(L)...)
	return 0
}

// keys.enabled(name) -> bool
func (e *Engine) enabled(L *lua.LState) int {
	L.Push(lua.LBool(e.registry.IsEnabled(L.CheckString(1))))
	return 1
}

// keys.bindings() -> {{name, description, enabled, combos}, ...}
func (e *Engine) bindings(L *lua.LState) int {
	out := L.NewTable()
	for _, b := range e.registry.Bindings() {
		out.Append(bindingTable(L, b))
	}
	L.Push(out)
	return 1
}

// keys.parse(text) -> canonical text, or nil and an error message
func (e *Engine) parse(L *lua.LState) int {
	c, err := e.registry.Catalog().ParseCombo(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(c.String()))
	return 1
}

// keys.listen(on)
func (e *Engine) listen(L *lua.LState) int {
	on := L.CheckBool(1)
	if e.listener == nil {
		L.RaiseError("listen: no dispatcher attached")
		return 0
	}
	if on {
		e.listener.Enable()
	} else {
		e.listener.Disable()
	}
	return 0
}

// keys.log(message)
func (e *Engine) log(L *lua.LState) int {
	e.logger.Info("[lua] script", "message", L.CheckString(1))
	return 0
}

func checkNames(L *lua.LState) []string {
	n := L.GetTop()
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		names = append(names, L.CheckString(i))
	}
	return names
}
