package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// CostLimit bounds the runtime cost of a single score evaluation.
const CostLimit = 1_000_000

// ErrNotNumeric indicates that an expression does not produce a number.
var ErrNotNumeric = errors.New("expression must produce a number")

// Environment compiles score expressions against the declarations of the
// score library. Programs are cached by expression text, and are safe for
// concurrent evaluation.
type Environment struct {
	env      *cel.Env
	programs map[string]cel.Program
	mu       sync.Mutex
}

// NewEnvironment creates a new [Environment]. Additional options are applied
// after the score library.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := cel.NewEnv(append([]cel.EnvOption{cel.Lib(&lib{})}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{
		env:      env,
		programs: map[string]cel.Program{},
	}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// Compile returns the program for a score expression.
// Expressions whose type is known not to be numeric are rejected with
// [ErrNotNumeric].
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.programs[expression]; ok {
		return program, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	switch out := ast.OutputType(); out.Kind() {
	case types.DoubleKind, types.IntKind, types.UintKind, types.DynKind:
	default:
		return nil, fmt.Errorf("%w, got %s", ErrNotNumeric, out)
	}

	program, err := e.env.Program(ast, cel.CostLimit(CostLimit))
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	e.programs[expression] = program

	return program, nil
}
