package input

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
)

// ErrHandlerPanic is reported when a handler panics.
var ErrHandlerPanic = errors.New("handler panicked")

// Result describes one handler invocation.
type Result struct {
	Registration *keymap.Registration
	Success      bool
	Error        error
	Panicked     bool
	PanicValue   any
	PanicStack   []byte
	Duration     time.Duration
}

// PanicHandler is called when a handler panics.
type PanicHandler func(reg *keymap.Registration, value any, stack []byte)

// Executor runs handlers with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the panic handler for the executor.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one registration's handler for ev.
// A panic is recovered and reported in the result.
func (e *Executor) Execute(ev *key.Event, reg *keymap.Registration) (result Result) {
	result.Registration = reg
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack
			result.Error = fmt.Errorf("%w: %v", ErrHandlerPanic, r)

			if e.panicHandler != nil {
				func() {
					defer func() { _ = recover() }()
					e.panicHandler(reg, r, stack)
				}()
			}
		}
	}()

	if err := reg.Handler.Handle(ev); err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	return result
}
