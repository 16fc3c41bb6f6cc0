// Package graph provides dependency graph construction and cycle
// analysis for declaration references.
package graph

import "slices"

// Graph is a dependency graph of declaration names with forward edges.
type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string
}

// New returns an empty graph sized for hint nodes.
func New(hint int) *Graph {
	return &Graph{
		nodes: make(map[string]struct{}, hint),
		edges: make(map[string][]string, hint),
	}
}

// AddNode registers a declaration name. Duplicate calls are no-ops.
func (g *Graph) AddNode(name string) {
	g.nodes[name] = struct{}{}
}

// AddEdge records that from depends on to, meaning to must be resolved
// before from. Missing nodes are created implicitly and duplicate
// edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the names that name depends on.
func (g *Graph) Dependencies(name string) []string {
	return g.edges[name]
}

// HasNode reports whether the name exists in the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// ResolutionOrder returns names ordered so that dependencies come
// before dependents, using Tarjan's algorithm. Strongly connected
// components with more than one node, or a single node with a
// self-loop, are reported as cycles and excluded from the order.
func (g *Graph) ResolutionOrder() (order []string, cycles [][]string) {
	return g.tarjan()
}

// tarjan computes strongly connected components starting from nodes in
// sorted order, so repeated runs produce identical output.
func (g *Graph) tarjan() (order []string, cycles [][]string) {
	var (
		index    int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
	)

	var strongConnect func(name string)
	strongConnect = func(name string) {
		indices[name] = index
		lowlinks[name] = index
		index++
		stack = append(stack, name)
		onStack[name] = true

		for _, dep := range g.edges[name] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[name] = min(lowlinks[name], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[name] = min(lowlinks[name], indices[dep])
			}
		}

		if lowlinks[name] == indices[name] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == name {
					break
				}
			}
			if len(scc) > 1 || slices.Contains(g.edges[scc[0]], scc[0]) {
				cycles = append(cycles, scc)
			} else {
				order = append(order, scc[0])
			}
		}
	}

	sorted := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)

	for _, name := range sorted {
		if _, visited := indices[name]; !visited {
			strongConnect(name)
		}
	}

	return order, cycles
}
