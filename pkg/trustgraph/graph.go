package trustgraph

// Node returns the node with the given id.
// If several nodes share the id, the first one wins.
func (g *GraphData) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// DanglingEdges returns the edges whose source or target is not a node of g,
// in their original order. The graph itself is left untouched.
func (g *GraphData) DanglingEdges() []GraphEdge {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}

	var dangling []GraphEdge
	for _, e := range g.Edges {
		_, okSrc := ids[e.Source]
		_, okDst := ids[e.Target]
		if !okSrc || !okDst {
			dangling = append(dangling, e)
		}
	}
	return dangling
}

// DuplicateNodeIDs returns each id that appears on more than one node,
// in order of its second occurrence.
func (g *GraphData) DuplicateNodeIDs() []string {
	seen := make(map[string]int, len(g.Nodes))
	var dups []string
	for _, n := range g.Nodes {
		seen[n.ID]++
		if seen[n.ID] == 2 {
			dups = append(dups, n.ID)
		}
	}
	return dups
}

// Label returns the text shown on an edge: the project when present,
// otherwise the company, otherwise the relationship type.
func (e GraphEdge) Label() string {
	switch {
	case e.Project != nil:
		return *e.Project
	case e.Company != nil:
		return *e.Company
	default:
		return e.Relationship
	}
}
