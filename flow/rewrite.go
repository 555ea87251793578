package flow

import "strings"

// Node type names with special handling in the rewrite.
const (
	// TypeZeroShotPrompt is the legacy prompt node shape that predates
	// PromptTemplate nodes.
	TypeZeroShotPrompt = "ZeroShotPrompt"
	// TypePromptTemplate is the canonical prompt-template node type.
	TypePromptTemplate = "PromptTemplate"
	// ChatOutputNode is the front-end node kind that renders chat output;
	// it never contributes tools to a prompt.
	ChatOutputNode = "chatOutputNode"
)

// ReplaceZeroShotPrompt rewrites the first legacy ZeroShotPrompt node into
// a PromptTemplate node whose template string is synthesized from the
// tool-capable nodes in the document. All other nodes pass through
// unchanged, and at most one node is ever rewritten, so running the
// rewrite on its own output is a no-op.
func ReplaceZeroShotPrompt(nodes []NodeRecord) []NodeRecord {
	for i := range nodes {
		if nodes[i].Data.Type != TypeZeroShotPrompt {
			continue
		}
		var toolNodes []NodeRecord
		for _, n := range nodes {
			if n.Type != ChatOutputNode && n.HasBaseClass("Tool") {
				toolNodes = append(toolNodes, n)
			}
		}
		nodes[i].Data = buildPromptTemplate(nodes[i].Data, toolNodes)
		break
	}
	return nodes
}

// buildPromptTemplate synthesizes a PromptTemplate node shape from a
// ZeroShotPrompt node and its connected tool nodes. The template string is
// prefix, one "name: description" line per tool, the format instructions
// with tool names substituted, and the suffix, joined by blank lines.
func buildPromptTemplate(prompt NodeData, toolNodes []NodeRecord) NodeData {
	prefix := templateString(prompt, "prefix")
	suffix := templateString(prompt, "suffix")
	formatInstructions := templateString(prompt, "format_instructions")

	toolLines := make([]string, 0, len(toolNodes))
	toolNames := make([]string, 0, len(toolNodes))
	for _, t := range toolNodes {
		if t.Data.Node == nil {
			continue
		}
		toolLines = append(toolLines, t.Data.Node.Name+": "+t.Data.Node.Description)
		toolNames = append(toolNames, t.Data.Node.Name)
	}
	formatInstructions = strings.ReplaceAll(
		formatInstructions, "{tool_names}", strings.Join(toolNames, ", "))

	value := strings.Join(
		[]string{prefix, strings.Join(toolLines, "\n"), formatInstructions, suffix},
		"\n\n")

	return NodeData{
		Type:     TypePromptTemplate,
		Category: CategoryPrompt,
		Node: &NodeSchema{
			Description: "Schema to represent a prompt for an LLM.",
			BaseClasses: []string{"BasePromptTemplate"},
			Template: Template{
				"input_variables": {
					Type:     "str",
					Required: true,
					List:     true,
				},
				"output_parser": {
					Type: "BaseOutputParser",
				},
				"template": {
					Type:      "str",
					Required:  true,
					Show:      true,
					Multiline: true,
					Value:     value,
				},
				"template_format": {
					Type:  "str",
					Value: "f-string",
				},
				"validate_template": {
					Type:  "bool",
					Value: true,
				},
			},
		},
	}
}

func templateString(data NodeData, field string) string {
	if data.Node == nil {
		return ""
	}
	f, ok := data.Node.Template[field]
	if !ok || f == nil {
		return ""
	}
	s, _ := f.Value.(string)
	return s
}
