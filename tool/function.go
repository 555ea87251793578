package tool

import (
	"context"

	"github.com/flowsmith/flowsmith/script"
)

// FunctionTool wraps a compiled user function as a tool. The function
// source is compiled at the script boundary; this type only invokes the
// resulting callable.
type FunctionTool struct {
	ToolName        string
	ToolDescription string
	Func            script.Callable
}

// NewFunctionTool creates a tool around a compiled callable.
func NewFunctionTool(name, description string, fn script.Callable) *FunctionTool {
	if name == "" {
		name = "Function"
	}
	if description == "" {
		description = "A user-defined function. Input is passed through as a string."
	}
	return &FunctionTool{ToolName: name, ToolDescription: description, Func: fn}
}

// Name returns the name of the tool.
func (t *FunctionTool) Name() string { return t.ToolName }

// Description returns the description of the tool.
func (t *FunctionTool) Description() string { return t.ToolDescription }

// Call implements tools.Tool.
func (t *FunctionTool) Call(ctx context.Context, input string) (string, error) {
	return t.Func(ctx, input)
}
