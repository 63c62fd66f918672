package keymap

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ConditionEvaluator evaluates the When expressions of registrations.
type ConditionEvaluator interface {
	// Compile checks that a condition is well formed.
	Compile(condition string) error

	// Evaluate evaluates a condition against env.
	// Conditions that fail to evaluate are false.
	Evaluate(condition string, env map[string]any) bool
}

// ExprEvaluator evaluates conditions with expr-lang.
//
// Conditions are boolean expressions over the dispatch environment, e.g.
// `folder == "inbox" && !composing`. Undefined variables evaluate to nil.
type ExprEvaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewExprEvaluator creates an evaluator with an empty program cache.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{
		cache: make(map[string]*vm.Program),
	}
}

// Compile implements ConditionEvaluator.
func (e *ExprEvaluator) Compile(condition string) error {
	_, err := e.program(condition)
	return err
}

// Evaluate implements ConditionEvaluator.
func (e *ExprEvaluator) Evaluate(condition string, env map[string]any) bool {
	if condition == "" {
		return true
	}
	program, err := e.program(condition)
	if err != nil {
		return false
	}
	if env == nil {
		env = map[string]any{}
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

func (e *ExprEvaluator) program(condition string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.cache[condition]; ok {
		return p, nil
	}
	p, err := expr.Compile(condition, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidCondition, condition, err)
	}
	e.cache[condition] = p
	return p, nil
}
