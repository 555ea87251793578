package flow

import (
	"encoding/json"
	"fmt"
	"os"
)

// exported flow files wrap the graph in a "data" envelope; documents
// saved by this module are flat.
type documentEnvelope struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data *struct {
		Nodes []NodeRecord `json:"nodes"`
		Edges []Edge       `json:"edges"`
	} `json:"data"`
	Nodes []NodeRecord `json:"nodes"`
	Edges []Edge       `json:"edges"`
}

// ParseDocument decodes a flow document from JSON, accepting both the
// flat shape and the exported envelope shape.
func ParseDocument(data []byte) (*Document, error) {
	var envelope documentEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse flow document: %w", err)
	}
	doc := &Document{
		ID:    envelope.ID,
		Name:  envelope.Name,
		Nodes: envelope.Nodes,
		Edges: envelope.Edges,
	}
	if envelope.Data != nil {
		doc.Nodes = envelope.Data.Nodes
		doc.Edges = envelope.Data.Edges
	}
	return doc, nil
}

// LoadDocument reads and parses a flow document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow document: %w", err)
	}
	return ParseDocument(data)
}
