// Package script is the function-compiler boundary: it turns user-supplied
// function source text from a flow document into a callable the engine can
// hand to a function tool.
//
// The default implementation executes Starlark, which has no filesystem,
// network, or process builtins, and runs with a bounded step budget. The
// instantiation engine only consumes the Compiler interface; how source is
// compiled and isolated is decided here and nowhere else.
package script
