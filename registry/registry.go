package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"

	"github.com/flowsmith/flowsmith/agent"
	"github.com/flowsmith/flowsmith/flow"
)

// Constructor builds an instance from named parameters.
type Constructor func(ctx context.Context, params map[string]any) (any, error)

// AgentConstructor builds a bare reasoning agent from the allowed tool
// names and the LLM chain. Other node parameters are deliberately not
// forwarded; the executor supplies the rest.
type AgentConstructor func(toolNames []string, llmChain chains.Chain) (agent.Agent, error)

// Entry describes one constructible component type.
type Entry struct {
	Name     string
	Category flow.Category
	// Fields lists the parameter names the constructor accepts. CheckFields
	// rejects anything else.
	Fields []string
	// New performs plain construction.
	New Constructor
	// Methods holds named class-level factories, e.g. "from_uri".
	Methods map[string]Constructor
	// NewAgent is set on agent entries only.
	NewAgent AgentConstructor
}

// UnknownComponentTypeError reports a (category, type name) pair with no
// registered implementation.
type UnknownComponentTypeError struct {
	Category flow.Category
	TypeName string
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("no %s component registered for type %q", e.Category, e.TypeName)
}

// InvalidParamsError reports parameters a constructor does not declare.
type InvalidParamsError struct {
	TypeName string
	Unknown  []string
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("%s does not accept parameters: %s", e.TypeName, strings.Join(e.Unknown, ", "))
}

// CheckFields validates params against the entry's declared fields.
func (e *Entry) CheckFields(params map[string]any) error {
	if e.Fields == nil {
		return nil
	}
	declared := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		declared[f] = struct{}{}
	}
	var unknown []string
	for name := range params {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &InvalidParamsError{TypeName: e.Name, Unknown: sorted(unknown)}
	}
	return nil
}

// FilterFields returns the subset of params matching the entry's declared
// fields. The input map is not modified.
func (e *Entry) FilterFields(params map[string]any) map[string]any {
	declared := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		declared[f] = struct{}{}
	}
	out := make(map[string]any, len(params))
	for name, value := range params {
		if _, ok := declared[name]; ok {
			out[name] = value
		}
	}
	return out
}

// Registry is the class library: category times type name to entry. It is
// populated at startup and read-only during instantiation.
type Registry struct {
	entries map[flow.Category]map[string]*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[flow.Category]map[string]*Entry)}
}

// Register adds entries to the registry. Later registrations of the same
// (category, name) pair win.
func (r *Registry) Register(entries ...*Entry) {
	for _, e := range entries {
		byName, ok := r.entries[e.Category]
		if !ok {
			byName = make(map[string]*Entry)
			r.entries[e.Category] = byName
		}
		byName[e.Name] = e
	}
}

// Lookup resolves a (category, type name) pair.
func (r *Registry) Lookup(category flow.Category, typeName string) (*Entry, error) {
	if e, ok := r.entries[category][typeName]; ok {
		return e, nil
	}
	return nil, &UnknownComponentTypeError{Category: category, TypeName: typeName}
}

func sorted(s []string) []string {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
	return s
}
