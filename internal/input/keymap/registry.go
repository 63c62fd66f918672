package keymap

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keys/internal/input/key"
)

// Registry owns the bindings and the handler registrations.
// It is safe for concurrent use; handlers are never called by the registry.
type Registry struct {
	mu sync.RWMutex

	catalog *key.Catalog

	// bindings holds every binding by name; order keeps insertion order.
	bindings map[string]*Binding
	order    []string

	// handlers holds registrations by binding name.
	handlers map[string][]*Registration
	seq      uint64

	strict     bool
	conditions ConditionEvaluator
	logger     *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCatalog sets the key catalog. By default each registry owns a new one.
func WithCatalog(c *key.Catalog) Option {
	return func(r *Registry) {
		r.catalog = c
	}
}

// WithStrict makes matching use key.Combo.Equal instead of Matches.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// WithConditionEvaluator sets the evaluator for When expressions.
func WithConditionEvaluator(eval ConditionEvaluator) Option {
	return func(r *Registry) {
		r.conditions = eval
	}
}

// WithLogger sets the logger for registration advisories.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		bindings: make(map[string]*Binding),
		handlers: make(map[string][]*Registration),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.catalog == nil {
		r.catalog = key.NewCatalog()
	}
	if r.conditions == nil {
		r.conditions = NewExprEvaluator()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Catalog returns the key catalog used by the registry.
func (r *Registry) Catalog() *key.Catalog {
	return r.catalog
}

// Strict reports whether matching uses strict equality.
func (r *Registry) Strict() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.strict
}

// SetStrict switches between strict and loose matching.
func (r *Registry) SetStrict(strict bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strict = strict
}

// Add creates or replaces the binding called name.
func (r *Registry) Add(name string, combos ...key.Combo) error {
	return r.AddWithDescription(name, "", combos...)
}

// AddWithDescription creates or replaces the binding called name.
//
// Replacing a binding swaps its combo list wholesale and keeps its
// enabled flag. The previous description is kept when desc is empty.
func (r *Registry) AddWithDescription(name, desc string, combos ...key.Combo) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(combos) == 0 {
		return fmt.Errorf("%w: %q", ErrNoCombos, name)
	}
	for i, c := range combos {
		if c.IsZero() {
			return fmt.Errorf("binding %q combo %d: %w", name, i, key.ErrEmptyCombo)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.putLocked(name, desc, combos)
	return nil
}

// AddKeys binds bare keys, each promoted to a single-key combo.
func (r *Registry) AddKeys(name, desc string, keys ...key.Key) error {
	combos := make([]key.Combo, 0, len(keys))
	for _, k := range keys {
		c, err := key.NewCombo(k)
		if err != nil {
			return fmt.Errorf("binding %q: %w", name, err)
		}
		combos = append(combos, c)
	}
	return r.AddWithDescription(name, desc, combos...)
}

// AddStrings binds combos given in text form, e.g. "CTRL+S".
func (r *Registry) AddStrings(name, desc string, combos ...string) error {
	parsed := make([]key.Combo, 0, len(combos))
	for _, s := range combos {
		c, err := r.catalog.ParseCombo(s)
		if err != nil {
			return fmt.Errorf("binding %q: %w", name, err)
		}
		parsed = append(parsed, c)
	}
	return r.AddWithDescription(name, desc, parsed...)
}

// putLocked upserts a binding. Caller must hold the write lock.
func (r *Registry) putLocked(name, desc string, combos []key.Combo) {
	stored := append([]key.Combo(nil), combos...)
	if b, ok := r.bindings[name]; ok {
		b.Combos = stored
		if desc != "" {
			b.Description = desc
		}
		return
	}
	r.bindings[name] = &Binding{
		Name:        name,
		Description: desc,
		Combos:      stored,
		Enabled:     true,
	}
	r.order = append(r.order, name)
}

// Get returns a copy of the named binding.
func (r *Registry) Get(name string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return Binding{}, false
	}
	return b.Clone(), true
}

// Bindings returns copies of every binding in insertion order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.bindings[name].Clone())
	}
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// EnableBindings enables the named bindings. Unknown names are ignored.
func (r *Registry) EnableBindings(names ...string) {
	r.setEnabled(true, names)
}

// DisableBindings disables the named bindings. Unknown names are ignored.
func (r *Registry) DisableBindings(names ...string) {
	r.setEnabled(false, names)
}

func (r *Registry) setEnabled(enabled bool, names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if b, ok := r.bindings[name]; ok {
			b.Enabled = enabled
		}
	}
}

// IsEnabled reports whether the named binding exists and is enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	return ok && b.Enabled
}

// RegisterHandler attaches a keydown handler to a binding name.
func (r *Registry) RegisterHandler(name string, h Handler) (*Registration, error) {
	return r.register(name, key.KeyDown, h, false, "")
}

// RegisterHandlerFor attaches a handler for a specific event type.
func (r *Registry) RegisterHandlerFor(name string, t key.EventType, h Handler, global bool) (*Registration, error) {
	return r.register(name, t, h, global, "")
}

// RegisterGlobal attaches a keydown handler that also fires while a text
// field has focus.
func (r *Registry) RegisterGlobal(name string, h Handler) (*Registration, error) {
	return r.register(name, key.KeyDown, h, true, "")
}

// RegisterConditional attaches a handler that only fires while when
// evaluates to true in the dispatch environment.
func (r *Registry) RegisterConditional(name string, t key.EventType, h Handler, when string) (*Registration, error) {
	return r.register(name, t, h, false, when)
}

// RegisterToggle attaches a keydown toggle alternating between on and off.
func (r *Registry) RegisterToggle(name string, on, off Handler, global bool) (*Toggle, error) {
	if on == nil || off == nil {
		return nil, fmt.Errorf("toggle %q: %w", name, ErrNilHandler)
	}
	t := NewToggle(on, off)
	if _, err := r.register(name, key.KeyDown, t, global, ""); err != nil {
		return nil, err
	}
	return t, nil
}

// RegisterHandlers attaches one keydown handler per binding name.
// Names are registered in sorted order so registration order is stable.
func (r *Registry) RegisterHandlers(handlers map[string]Handler) ([]*Registration, error) {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	slices.Sort(names)

	regs := make([]*Registration, 0, len(names))
	for _, name := range names {
		reg, err := r.RegisterHandler(name, handlers[name])
		if err != nil {
			return regs, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// RegisterOptions holds the optional settings of a registration.
// The zero value registers a non-global keydown handler.
type RegisterOptions struct {
	EventType key.EventType
	Global    bool
	When      string
}

// RegisterWith attaches a handler using explicit options.
func (r *Registry) RegisterWith(name string, h Handler, opts RegisterOptions) (*Registration, error) {
	return r.register(name, opts.EventType, h, opts.Global, opts.When)
}

func (r *Registry) register(name string, t key.EventType, h Handler, global bool, when string) (*Registration, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if h == nil {
		return nil, fmt.Errorf("binding %q: %w", name, ErrNilHandler)
	}
	if t == "" {
		t = key.KeyDown
	}
	if !t.Valid() {
		return nil, fmt.Errorf("binding %q: %w: %q", name, key.ErrUnknownEventType, t)
	}
	if when != "" {
		if err := r.conditions.Compile(when); err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
	}

	r.mu.Lock()
	r.seq++
	reg := &Registration{
		ID:        uuid.New().String(),
		Binding:   name,
		EventType: t,
		Handler:   h,
		Global:    global,
		When:      when,
		seq:       r.seq,
	}
	r.handlers[name] = append(r.handlers[name], reg)
	_, exists := r.bindings[name]
	r.mu.Unlock()

	if !exists {
		r.logger.Warn("[keymap] handler registered for unknown binding", "binding", name, "event", t)
	}
	return reg, nil
}

// Unregister removes a single registration.
func (r *Registry) Unregister(reg *Registration) bool {
	if reg == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.handlers[reg.Binding]
	for i, existing := range regs {
		if existing.ID == reg.ID {
			r.handlers[reg.Binding] = append(regs[:i:i], regs[i+1:]...)
			if len(r.handlers[reg.Binding]) == 0 {
				delete(r.handlers, reg.Binding)
			}
			return true
		}
	}
	return false
}

// UnregisterHandlers removes every registration for a binding name and
// returns how many were removed.
func (r *Registry) UnregisterHandlers(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.handlers[name])
	delete(r.handlers, name)
	return n
}

// Handlers returns the registrations for a binding name in registration order.
func (r *Registry) Handlers(name string) []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Registration(nil), r.handlers[name]...)
}

// HandlersForCombo returns the registrations of every enabled binding
// holding a combo that matches c, ordered by registration.
// Event type, focus and When filtering are left to the caller.
func (r *Registry) HandlersForCombo(c key.Combo) []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Registration
	for _, name := range r.order {
		b := r.bindings[name]
		if !b.Enabled || !b.Match(c, r.strict) {
			continue
		}
		out = append(out, r.handlers[name]...)
	}
	slices.SortStableFunc(out, func(a, b *Registration) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// MatchingBindings returns the names of enabled bindings matching c.
func (r *Registry) MatchingBindings(c key.Combo) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range r.order {
		b := r.bindings[name]
		if b.Enabled && b.Match(c, r.strict) {
			names = append(names, name)
		}
	}
	return names
}

// Allowed reports whether a registration's When condition holds in env.
func (r *Registry) Allowed(reg *Registration, env map[string]any) bool {
	if reg.When == "" {
		return true
	}
	return r.conditions.Evaluate(reg.When, env)
}

// Replace swaps the whole binding set for bindings, keeping handler
// registrations. The set is checked first; on error nothing changes.
func (r *Registry) Replace(bindings ...Binding) error {
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		if b.Name == "" {
			return ErrEmptyName
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, b.Name)
		}
		seen[b.Name] = true
		if len(b.Combos) == 0 {
			return fmt.Errorf("%w: %q", ErrNoCombos, b.Name)
		}
		for i, c := range b.Combos {
			if c.IsZero() {
				return fmt.Errorf("binding %q combo %d: %w", b.Name, i, key.ErrEmptyCombo)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceLocked(bindings)
	return nil
}

// replaceLocked swaps the whole binding set. Caller must hold the write lock.
func (r *Registry) replaceLocked(bindings []Binding) {
	r.bindings = make(map[string]*Binding, len(bindings))
	r.order = make([]string, 0, len(bindings))
	for _, b := range bindings {
		nb := b.Clone()
		if _, dup := r.bindings[nb.Name]; !dup {
			r.order = append(r.order, nb.Name)
		}
		r.bindings[nb.Name] = &nb
	}
}
