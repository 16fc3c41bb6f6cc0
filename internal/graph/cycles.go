package graph

// FindCycles returns every strongly connected component that forms a
// cycle: components with more than one node, or a single node with an
// edge to itself.
func (g *Graph) FindCycles() [][]string {
	_, cycles := g.tarjan()
	return cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}
