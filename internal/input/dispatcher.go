package input

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
)

// Source delivers raw key events to subscribers.
type Source interface {
	// Subscribe registers fn for events of type t and returns a handle.
	Subscribe(t key.EventType, fn func(*key.Event)) string

	// Unsubscribe removes the subscription with the given handle.
	Unsubscribe(id string) bool
}

// Dispatcher turns key events into handler invocations.
//
// Dispatch is synchronous on the goroutine delivering the event. No lock
// is held while handlers run, so handlers may call back into the
// registry or the dispatcher.
type Dispatcher struct {
	registry *keymap.Registry
	source   Source
	executor *Executor
	metrics  *Metrics
	logger   *slog.Logger
	env      EnvFunc

	mu      sync.Mutex
	subs    []string
	depth   int
	pending []bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Handler faults are logged at warn level and
// every handler invocation at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithExecutor sets the executor used to run handlers.
func WithExecutor(e *Executor) Option {
	return func(d *Dispatcher) {
		d.executor = e
	}
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithEnv sets the function supplying application state to When conditions.
func WithEnv(fn EnvFunc) Option {
	return func(d *Dispatcher) {
		d.env = fn
	}
}

// New creates a dispatcher for reg fed by src. It does not listen until
// Enable is called.
func New(reg *keymap.Registry, src Source, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		source:   src,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.executor == nil {
		d.executor = NewExecutor()
	}
	if d.metrics == nil {
		d.metrics = NewMetrics()
	}
	return d
}

// Registry returns the binding registry.
func (d *Dispatcher) Registry() *keymap.Registry {
	return d.registry
}

// Enable subscribes to keydown, keyup and keypress events. Calling it
// while listening does nothing. Called from a handler, it takes effect
// once the current dispatch finishes.
func (d *Dispatcher) Enable() {
	d.setListening(true)
}

// Disable unsubscribes from the source. Called from a handler, it takes
// effect once the current dispatch finishes.
func (d *Dispatcher) Disable() {
	d.setListening(false)
}

// Listening reports whether the dispatcher is subscribed to its source.
func (d *Dispatcher) Listening() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs) > 0
}

func (d *Dispatcher) setListening(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depth > 0 {
		d.pending = append(d.pending, on)
		return
	}
	d.applyLocked(on)
}

// applyLocked attaches or detaches listeners. Caller must hold d.mu.
func (d *Dispatcher) applyLocked(on bool) {
	if on {
		if len(d.subs) > 0 {
			return
		}
		for _, t := range key.EventTypes {
			d.subs = append(d.subs, d.source.Subscribe(t, d.listen))
		}
		return
	}
	for _, id := range d.subs {
		d.source.Unsubscribe(id)
	}
	d.subs = nil
}

func (d *Dispatcher) listen(ev *key.Event) {
	d.HandleEvent(ev)
}

func (d *Dispatcher) enter() {
	d.mu.Lock()
	d.depth++
	d.mu.Unlock()
}

func (d *Dispatcher) leave() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.depth--
	if d.depth > 0 {
		return
	}
	pending := d.pending
	d.pending = nil
	for _, on := range pending {
		d.applyLocked(on)
	}
}

// HandleEvent dispatches one event and reports whether any handler ran.
//
// The event becomes a combo; every enabled binding matching it
// contributes its registrations for the event's type. Non-global
// registrations are skipped while an editable element has focus, as are
// registrations whose When condition is false. When at least one handler
// ran, the event's default action is prevented and propagation stopped.
// A failing or panicking handler is logged and does not stop the others.
func (d *Dispatcher) HandleEvent(ev *key.Event) bool {
	combo, ok := d.registry.Catalog().ComboFromEvent(ev)
	d.metrics.recordEvent(ok)
	if !ok {
		return false
	}

	start := time.Now()
	regs := d.registry.HandlersForCombo(combo)
	if len(regs) == 0 {
		d.metrics.recordDispatch(time.Since(start), 0)
		return false
	}

	d.enter()
	defer d.leave()

	editable := IsEditableTarget(ev.Target)
	var (
		env    map[string]any
		envErr error
	)
	ran := 0

	for _, reg := range regs {
		if reg.EventType != ev.Type {
			continue
		}
		if editable && !reg.Global {
			d.metrics.skippedFocus.Add(1)
			continue
		}
		if reg.When != "" {
			if env == nil && envErr == nil {
				env, envErr = environment(ev, d.env)
				if envErr != nil {
					d.logger.Warn("[input] condition environment failed",
						"combo", combo.String(),
						"error", envErr,
					)
				}
			}
			// Without an environment no condition holds.
			if envErr != nil || !d.registry.Allowed(reg, env) {
				d.metrics.skippedWhen.Add(1)
				continue
			}
		}

		res := d.executor.Execute(ev, reg)
		d.metrics.recordResult(res)
		ran++

		d.logger.Debug("[input] handler",
			"binding", reg.Binding,
			"combo", combo.String(),
			"event", ev.Type,
			"duration", res.Duration,
		)
		if res.Error != nil {
			d.logger.Warn("[input] handler failed",
				"binding", reg.Binding,
				"registration", reg.ID,
				"panicked", res.Panicked,
				"error", res.Error,
			)
		}
	}

	if ran > 0 {
		ev.PreventDefault()
		ev.StopPropagation()
	}
	d.metrics.recordDispatch(time.Since(start), ran)
	return ran > 0
}

// Stats returns a snapshot of the dispatch metrics.
func (d *Dispatcher) Stats() Stats {
	return d.metrics.Snapshot()
}
