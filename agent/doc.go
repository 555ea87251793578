// Package agent provides the executable-agent layer: a bare reasoning
// Agent that plans one step at a time over an LLM chain, and an Executor
// that binds the agent to a concrete tool set and runs the decision/action
// loop.
//
// The instantiation engine builds agents through FromAgentAndTools; the
// bare agent only ever sees tool names, while the executor owns the tool
// instances and supplies observations back into the loop.
package agent
