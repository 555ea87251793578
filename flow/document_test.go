package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNode(t *testing.T) {
	rec := NodeRecord{
		ID: "splitter-1",
		Data: NodeData{
			Type:     "RecursiveCharacterTextSplitter",
			Category: CategoryTextSplitter,
			Node: &NodeSchema{
				Template: Template{
					"chunk_size":    {Type: "int", Value: 256},
					"chunk_overlap": {Type: "int", Value: 32},
					"separator":     {Type: "str"}, // no value, omitted
				},
			},
		},
	}

	node := rec.ToNode()
	assert.Equal(t, "splitter-1", node.ID)
	assert.Equal(t, "RecursiveCharacterTextSplitter", node.TypeName)
	assert.Equal(t, CategoryTextSplitter, node.Category)
	assert.Equal(t, map[string]any{"chunk_size": 256, "chunk_overlap": 32}, node.Params)
}

func TestTopologicalOrder(t *testing.T) {
	doc := &Document{
		Nodes: []NodeRecord{
			{ID: "chain"}, {ID: "llm"}, {ID: "prompt"},
		},
		Edges: []Edge{
			{Source: "llm", Target: "chain", TargetHandle: "llm"},
			{Source: "prompt", Target: "chain", TargetHandle: "prompt"},
		},
	}

	order, err := doc.TopologicalOrder()
	require.NoError(t, err)
	// llm and prompt keep document order, chain comes last
	assert.Equal(t, []string{"llm", "prompt", "chain"}, order)
}

func TestTopologicalOrderCycle(t *testing.T) {
	doc := &Document{
		Nodes: []NodeRecord{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		},
	}
	_, err := doc.TopologicalOrder()
	assert.ErrorContains(t, err, "cycle")
}

func TestTopologicalOrderUnknownNode(t *testing.T) {
	doc := &Document{
		Nodes: []NodeRecord{{ID: "a"}},
		Edges: []Edge{{Source: "a", Target: "ghost"}},
	}
	_, err := doc.TopologicalOrder()
	assert.ErrorContains(t, err, "unknown target")
}

func TestNodeByID(t *testing.T) {
	doc := &Document{Nodes: []NodeRecord{{ID: "a"}, {ID: "b"}}}
	require.NotNil(t, doc.NodeByID("b"))
	assert.Nil(t, doc.NodeByID("c"))
}
