package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/tools"
)

// Default sections of the zero-shot prompt.
const (
	DefaultPrefix = "Answer the following questions as best you can. You have access to the following tools:"

	DefaultFormatInstructions = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question`

	DefaultSuffix = `Begin!

Question: {input}
Thought:{agent_scratchpad}`
)

// ZeroShotAgent plans one step at a time by calling an LLM chain with the
// running scratchpad and parsing the Action/Final Answer markers from the
// completion.
type ZeroShotAgent struct {
	Chain chains.Chain
	// AllowedTools is the ordered list of tool names the agent may pick.
	AllowedTools []string
}

var _ Agent = (*ZeroShotAgent)(nil)

// NewZeroShotAgent creates a bare zero-shot agent over a chain. The agent
// does not need an output parser of its own; the executor drives the loop.
func NewZeroShotAgent(chain chains.Chain, toolNames []string) (*ZeroShotAgent, error) {
	if chain == nil {
		return nil, fmt.Errorf("zero-shot agent requires a chain")
	}
	return &ZeroShotAgent{Chain: chain, AllowedTools: toolNames}, nil
}

// ToolNames implements Agent.
func (a *ZeroShotAgent) ToolNames() []string {
	return a.AllowedTools
}

// Plan implements Agent.
func (a *ZeroShotAgent) Plan(ctx context.Context, steps []Step, input string) (*Action, *Finish, error) {
	values := map[string]any{
		"input":            input,
		"agent_scratchpad": buildScratchpad(steps),
	}
	out, err := chains.Call(ctx, a.Chain, values)
	if err != nil {
		return nil, nil, err
	}

	keys := a.Chain.GetOutputKeys()
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("chain declares no output keys")
	}
	text, ok := out[keys[0]].(string)
	if !ok {
		return nil, nil, fmt.Errorf("chain output %q is not a string", keys[0])
	}
	return parseOutput(text)
}

// buildScratchpad renders the executed steps back into the prompt's
// Thought/Observation transcript.
func buildScratchpad(steps []Step) string {
	var b strings.Builder
	for _, step := range steps {
		b.WriteString(step.Action.Log)
		b.WriteString("\nObservation: ")
		b.WriteString(step.Observation)
		b.WriteString("\nThought:")
	}
	return b.String()
}

var actionRe = regexp.MustCompile(`(?s)Action\s*\d*\s*:\s*(.+?)\s*Action\s*\d*\s*Input\s*\d*\s*:\s*(.+)`)

const finalAnswerMarker = "Final Answer:"

// parseOutput extracts either the next action or the final answer from a
// completion.
func parseOutput(text string) (*Action, *Finish, error) {
	if idx := strings.Index(text, finalAnswerMarker); idx >= 0 {
		answer := strings.TrimSpace(text[idx+len(finalAnswerMarker):])
		return nil, &Finish{Output: answer, Log: text}, nil
	}

	m := actionRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, fmt.Errorf("could not parse agent output: %q", text)
	}
	input := strings.TrimSpace(m[2])
	if i := strings.IndexByte(input, '\n'); i >= 0 {
		input = strings.TrimSpace(input[:i])
	}
	return &Action{
		Tool:      strings.TrimSpace(m[1]),
		ToolInput: strings.Trim(input, `"`),
		Log:       text,
	}, nil, nil
}

// CreateZeroShotPrompt builds the classic zero-shot prompt template from a
// tool set: prefix, one "name: description" line per tool, the format
// instructions with the tool names substituted, and the suffix.
func CreateZeroShotPrompt(ts []tools.Tool, prefix, suffix, formatInstructions string) prompts.PromptTemplate {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if formatInstructions == "" {
		formatInstructions = DefaultFormatInstructions
	}

	toolLines := make([]string, 0, len(ts))
	toolNames := make([]string, 0, len(ts))
	for _, t := range ts {
		toolLines = append(toolLines, t.Name()+": "+t.Description())
		toolNames = append(toolNames, t.Name())
	}
	formatInstructions = strings.ReplaceAll(
		formatInstructions, "{tool_names}", strings.Join(toolNames, ", "))

	template := strings.Join(
		[]string{prefix, strings.Join(toolLines, "\n"), formatInstructions, suffix},
		"\n\n")

	return prompts.PromptTemplate{
		Template:       template,
		InputVariables: []string{"input", "agent_scratchpad"},
		TemplateFormat: prompts.TemplateFormatFString,
	}
}
