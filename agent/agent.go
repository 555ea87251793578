package agent

import "context"

// Action is a tool invocation decided by the agent.
type Action struct {
	// Tool is the name of the tool to invoke.
	Tool string
	// ToolInput is the raw input handed to the tool.
	ToolInput string
	// Log is the model text the action was parsed from.
	Log string
}

// Finish is the agent's final answer.
type Finish struct {
	Output string
	Log    string
}

// Step pairs an executed action with the observation it produced.
type Step struct {
	Action      Action
	Observation string
}

// Agent is the bare reasoning agent contract. Plan returns either the next
// action or a finish, never both.
type Agent interface {
	Plan(ctx context.Context, steps []Step, input string) (*Action, *Finish, error)
	// ToolNames returns the tool names the agent may choose from, in the
	// order they were supplied.
	ToolNames() []string
}
