package script

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"
)

// Callable is a compiled user function: one string in, one string out.
type Callable func(ctx context.Context, input string) (string, error)

// Compiler compiles user-supplied function source into a Callable.
type Compiler interface {
	// Compile compiles source that defines a function and returns it as a
	// Callable. The source must define a function named "run", or exactly
	// one function.
	Compile(source string) (Callable, error)
	// Eval evaluates legacy function source and returns the last function
	// it defines.
	Eval(source string) (Callable, error)
}

// StarlarkCompiler is the default Compiler. Each compiled function runs on
// its own thread with a step budget, so a hostile script cannot spin
// forever.
type StarlarkCompiler struct {
	// MaxSteps bounds the Starlark execution steps per call. Zero means
	// the default of one million.
	MaxSteps uint64
}

// NewStarlarkCompiler creates a compiler with the default step budget.
func NewStarlarkCompiler() *StarlarkCompiler {
	return &StarlarkCompiler{}
}

const defaultMaxSteps = 1_000_000

// Compile implements Compiler.
func (c *StarlarkCompiler) Compile(source string) (Callable, error) {
	fn, err := c.exec(source, "run")
	if err != nil {
		return nil, err
	}
	return c.callable(fn), nil
}

// Eval implements Compiler.
func (c *StarlarkCompiler) Eval(source string) (Callable, error) {
	fn, err := c.exec(source, "")
	if err != nil {
		return nil, err
	}
	return c.callable(fn), nil
}

// exec runs the source and picks the target function from its globals. An
// empty name selects the last function defined.
func (c *StarlarkCompiler) exec(source, name string) (*starlark.Function, error) {
	thread := &starlark.Thread{Name: "flowsmith/compile"}
	thread.SetMaxExecutionSteps(c.maxSteps())

	globals, err := starlark.ExecFile(thread, "function.star", source, nil)
	if err != nil {
		return nil, fmt.Errorf("compile function source: %w", err)
	}

	if name != "" {
		if fn, ok := globals[name].(*starlark.Function); ok {
			return fn, nil
		}
	}

	var fns []*starlark.Function
	for _, key := range globals.Keys() {
		if fn, ok := globals[key].(*starlark.Function); ok {
			fns = append(fns, fn)
		}
	}
	switch {
	case len(fns) == 0:
		return nil, fmt.Errorf("function source defines no function")
	case name == "":
		return fns[len(fns)-1], nil
	case len(fns) == 1:
		return fns[0], nil
	default:
		return nil, fmt.Errorf("function source defines %d functions and none is named %q", len(fns), name)
	}
}

func (c *StarlarkCompiler) callable(fn *starlark.Function) Callable {
	maxSteps := c.maxSteps()
	return func(ctx context.Context, input string) (string, error) {
		thread := &starlark.Thread{Name: "flowsmith/call"}
		thread.SetMaxExecutionSteps(maxSteps)
		done := ctx.Done()
		if done != nil {
			stop := context.AfterFunc(ctx, func() { thread.Cancel(ctx.Err().Error()) })
			defer stop()
		}

		var args starlark.Tuple
		if fn.NumParams() > 0 {
			args = starlark.Tuple{starlark.String(input)}
		}
		result, err := starlark.Call(thread, fn, args, nil)
		if err != nil {
			return "", fmt.Errorf("call %s: %w", fn.Name(), err)
		}
		if s, ok := starlark.AsString(result); ok {
			return s, nil
		}
		return result.String(), nil
	}
}

func (c *StarlarkCompiler) maxSteps() uint64 {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return defaultMaxSteps
}
