package instantiate

import "fmt"

// MalformedParameterError is returned when a keyword-argument parameter
// holds a string that does not decode as JSON.
type MalformedParameterError struct {
	// Param is the parameter name.
	Param string
	// Err is the decode error.
	Err error
}

func (e *MalformedParameterError) Error() string {
	return fmt.Sprintf("parameter %s is not valid JSON: %v", e.Param, e.Err)
}

func (e *MalformedParameterError) Unwrap() error { return e.Err }

// InvalidFunctionSourceError is returned when a function node's source
// code cannot be compiled.
type InvalidFunctionSourceError struct {
	// TypeName is the function node's type.
	TypeName string
	// Err is the compile error.
	Err error
}

func (e *InvalidFunctionSourceError) Error() string {
	return fmt.Sprintf("invalid function source for %s: %v", e.TypeName, e.Err)
}

func (e *InvalidFunctionSourceError) Unwrap() error { return e.Err }

// MissingDocumentsError is returned when a text splitter node receives
// no documents from its upstream loader.
type MissingDocumentsError struct {
	// TypeName is the text splitter's type.
	TypeName string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("%s has nothing to split: the upstream source did not load correctly or was empty", e.TypeName)
}

// MissingChainError is returned when an agent node is missing its LLM
// chain.
type MissingChainError struct {
	// TypeName is the agent's type.
	TypeName string
}

func (e *MissingChainError) Error() string {
	return fmt.Sprintf("agent %s requires an llm_chain", e.TypeName)
}

// MissingFactoryMethodError is returned when a chain type is mapped to a
// factory method its entry does not expose.
type MissingFactoryMethodError struct {
	// TypeName is the chain's type.
	TypeName string
	// Method is the missing factory method name.
	Method string
}

func (e *MissingFactoryMethodError) Error() string {
	return fmt.Sprintf("%s has no factory method %q", e.TypeName, e.Method)
}

// InvalidMetadataError is returned when a loader's metadata parameter
// holds something other than an object.
type InvalidMetadataError struct {
	// Got describes the rejected value.
	Got string
}

func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("loader metadata must be an object, got %s", e.Got)
}

// ConstructionError wraps a failure inside a component constructor,
// identifying the node it happened on.
type ConstructionError struct {
	// TypeName is the component's type.
	TypeName string
	// Err is the constructor's error.
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("build %s: %v", e.TypeName, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
