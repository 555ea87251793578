package flow

import "fmt"

// TopologicalOrder returns the document's node IDs in dependency order:
// every node appears after all nodes whose instances feed into it. Among
// nodes whose dependencies are satisfied, original document order is
// preserved. A cycle is an error.
func (d *Document) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(d.Nodes))
	order := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		indegree[n.ID] = 0
		order[n.ID] = i
	}

	outgoing := make(map[string][]string)
	for _, e := range d.Edges {
		if _, ok := indegree[e.Source]; !ok {
			return nil, fmt.Errorf("edge references unknown source node %q", e.Source)
		}
		if _, ok := indegree[e.Target]; !ok {
			return nil, fmt.Errorf("edge references unknown target node %q", e.Target)
		}
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
		indegree[e.Target]++
	}

	var ready []string
	for _, n := range d.Nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	result := make([]string, 0, len(d.Nodes))
	for len(ready) > 0 {
		// pick the ready node earliest in document order
		best := 0
		for i := 1; i < len(ready); i++ {
			if order[ready[i]] < order[ready[best]] {
				best = i
			}
		}
		id := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		result = append(result, id)

		for _, next := range outgoing[id] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(result) != len(d.Nodes) {
		return nil, fmt.Errorf("flow contains a cycle: built %d of %d nodes", len(result), len(d.Nodes))
	}
	return result, nil
}

// NodeByID returns the record with the given ID, or nil.
func (d *Document) NodeByID(id string) *NodeRecord {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}
