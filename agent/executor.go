package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"

	"github.com/flowsmith/flowsmith/log"
)

// DefaultMaxIterations bounds the decision/action loop.
const DefaultMaxIterations = 15

// MaxIterationsError is returned when the agent does not reach a final
// answer within the iteration budget.
type MaxIterationsError struct {
	Iterations int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("agent stopped after %d iterations without a final answer", e.Iterations)
}

// Executor binds a bare agent to its tool instances and runs the
// decision/action loop until the agent finishes.
type Executor struct {
	Agent Agent
	Tools []tools.Tool

	maxIterations int
	logger        log.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxIterations sets the loop bound.
func WithMaxIterations(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets the executor's logger.
func WithLogger(l log.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// FromAgentAndTools assembles an executable agent from a bare agent and
// its tool instances.
func FromAgentAndTools(a Agent, ts []tools.Tool, opts ...Option) *Executor {
	e := &Executor{
		Agent:         a,
		Tools:         ts,
		maxIterations: DefaultMaxIterations,
		logger:        log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the loop for one input and returns the agent's final
// answer.
func (e *Executor) Run(ctx context.Context, input string) (string, error) {
	var steps []Step
	for i := 0; i < e.maxIterations; i++ {
		action, finish, err := e.Agent.Plan(ctx, steps, input)
		if err != nil {
			return "", err
		}
		if finish != nil {
			e.logger.Debug("agent finished after %d steps", len(steps))
			return finish.Output, nil
		}

		observation := e.execute(ctx, action)
		steps = append(steps, Step{Action: *action, Observation: observation})
	}
	return "", &MaxIterationsError{Iterations: e.maxIterations}
}

// execute runs one tool call. Tool failures become observations rather
// than loop failures so the agent can recover.
func (e *Executor) execute(ctx context.Context, action *Action) string {
	tool := e.lookupTool(action.Tool)
	if tool == nil {
		e.logger.Warn("agent chose unknown tool %q", action.Tool)
		return fmt.Sprintf("%s is not a valid tool, try another one", action.Tool)
	}

	e.logger.Debug("invoking tool %s with input %q", tool.Name(), action.ToolInput)
	out, err := tool.Call(ctx, action.ToolInput)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func (e *Executor) lookupTool(name string) tools.Tool {
	for _, t := range e.Tools {
		if strings.EqualFold(t.Name(), name) {
			return t
		}
	}
	return nil
}
