package flow

// Document is a parsed visual-flow document: the nodes drawn on the canvas
// and the edges connecting them. It is read-only input for the pipeline
// builder.
type Document struct {
	ID    string       `json:"id,omitempty"`
	Name  string       `json:"name,omitempty"`
	Nodes []NodeRecord `json:"nodes"`
	Edges []Edge       `json:"edges,omitempty"`
}

// NodeRecord is one node as it appears in a flow document.
type NodeRecord struct {
	ID string `json:"id"`
	// Type is the front-end node kind, e.g. "genericNode" or
	// "chatOutputNode".
	Type string   `json:"type,omitempty"`
	Data NodeData `json:"data"`
}

// NodeData carries the component description of a node: the concrete type
// name, its category, and the field schema with user-provided values.
type NodeData struct {
	Type     string      `json:"type"`
	Category Category    `json:"category,omitempty"`
	Node     *NodeSchema `json:"node,omitempty"`
}

// NodeSchema describes a component's fields and declared capabilities.
type NodeSchema struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Template    Template `json:"template"`
	// BaseClasses is the set of capability tags the component advertises,
	// e.g. "Tool" or "BasePromptTemplate".
	BaseClasses []string `json:"base_classes,omitempty"`
}

// Template maps field names to their descriptors.
type Template map[string]*Field

// Field is one parameter descriptor in a node template.
type Field struct {
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	List        bool   `json:"list"`
	Show        bool   `json:"show"`
	Multiline   bool   `json:"multiline"`
	Value       any    `json:"value,omitempty"`
}

// Edge connects the output of one node to a named parameter of another.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	// TargetHandle names the parameter on the target node that receives
	// the source node's built instance.
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Node is the resolved, instantiation-ready description of one component:
// a type name, a category, and raw parameter values. Params may hold
// scalars, sequences, mappings, or instances already built for upstream
// nodes.
type Node struct {
	ID       string
	TypeName string
	Category Category
	Params   map[string]any
}

// HasBaseClass reports whether the node advertises the given capability tag.
func (r *NodeRecord) HasBaseClass(name string) bool {
	if r.Data.Node == nil {
		return false
	}
	for _, c := range r.Data.Node.BaseClasses {
		if c == name {
			return true
		}
	}
	return false
}

// ToNode converts a record into an instantiation-ready Node. Template field
// values become parameters; fields without a value are omitted.
func (r *NodeRecord) ToNode() *Node {
	params := make(map[string]any)
	if r.Data.Node != nil {
		for name, field := range r.Data.Node.Template {
			if field == nil || field.Value == nil {
				continue
			}
			params[name] = field.Value
		}
	}
	return &Node{
		ID:       r.ID,
		TypeName: r.Data.Type,
		Category: r.Data.Category,
		Params:   params,
	}
}
