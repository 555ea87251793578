package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyPromptNode(id string) NodeRecord {
	return NodeRecord{
		ID:   id,
		Type: "genericNode",
		Data: NodeData{
			Type:     TypeZeroShotPrompt,
			Category: CategoryPrompt,
			Node: &NodeSchema{
				BaseClasses: []string{"BasePromptTemplate"},
				Template: Template{
					"prefix": {Type: "str", Value: "Answer the following questions as best you can. You have access to the following tools:"},
					"suffix": {Type: "str", Value: "Begin!\n\nQuestion: {input}\nThought:{agent_scratchpad}"},
					"format_instructions": {Type: "str", Value: "Use one of [{tool_names}]."},
				},
			},
		},
	}
}

func searchToolNode(id string) NodeRecord {
	return NodeRecord{
		ID:   id,
		Type: "genericNode",
		Data: NodeData{
			Type:     "BraveSearch",
			Category: CategoryTool,
			Node: &NodeSchema{
				Name:        "Search",
				Description: "useful for looking things up",
				BaseClasses: []string{"Tool", "BaseTool"},
				Template:    Template{},
			},
		},
	}
}

func TestReplaceZeroShotPrompt(t *testing.T) {
	nodes := []NodeRecord{
		legacyPromptNode("prompt-1"),
		searchToolNode("tool-1"),
		{ID: "out-1", Type: ChatOutputNode, Data: NodeData{Type: "ChatOutput", Node: &NodeSchema{
			Name:        "Output",
			BaseClasses: []string{"Tool"},
		}}},
	}

	got := ReplaceZeroShotPrompt(nodes)
	require.Len(t, got, 3)

	// only the prompt node is rewritten
	prompt := got[0]
	assert.Equal(t, TypePromptTemplate, prompt.Data.Type)
	assert.Equal(t, []string{"BasePromptTemplate"}, prompt.Data.Node.BaseClasses)
	assert.Equal(t, "BraveSearch", got[1].Data.Type)
	assert.Equal(t, "ChatOutput", got[2].Data.Type)

	tmpl := prompt.Data.Node.Template
	require.Contains(t, tmpl, "template")
	value, ok := tmpl["template"].Value.(string)
	require.True(t, ok)
	assert.Contains(t, value, "Search: useful for looking things up")
	// chat output node is excluded even though it declares Tool
	assert.NotContains(t, value, "Output:")
	// tool names substituted into format instructions
	assert.Contains(t, value, "Use one of [Search].")
	assert.True(t, tmpl["template"].Multiline)
	assert.True(t, tmpl["input_variables"].List)
	assert.Equal(t, "f-string", tmpl["template_format"].Value)
	assert.Equal(t, true, tmpl["validate_template"].Value)
}

func TestReplaceZeroShotPromptIdempotent(t *testing.T) {
	nodes := []NodeRecord{legacyPromptNode("prompt-1"), searchToolNode("tool-1")}

	once := ReplaceZeroShotPrompt(nodes)
	template := once[0].Data.Node.Template["template"].Value

	twice := ReplaceZeroShotPrompt(once)
	assert.Equal(t, TypePromptTemplate, twice[0].Data.Type)
	assert.Equal(t, template, twice[0].Data.Node.Template["template"].Value)
}

func TestReplaceZeroShotPromptRewritesOnlyFirst(t *testing.T) {
	nodes := []NodeRecord{legacyPromptNode("prompt-1"), legacyPromptNode("prompt-2")}

	got := ReplaceZeroShotPrompt(nodes)
	assert.Equal(t, TypePromptTemplate, got[0].Data.Type)
	assert.Equal(t, TypeZeroShotPrompt, got[1].Data.Type)
}

func TestReplaceZeroShotPromptNoMatch(t *testing.T) {
	nodes := []NodeRecord{searchToolNode("tool-1")}
	got := ReplaceZeroShotPrompt(nodes)
	require.Len(t, got, 1)
	assert.Equal(t, "BraveSearch", got[0].Data.Type)
}
