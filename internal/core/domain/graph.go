// Package domain contains the core model for the compilation pipeline: source
// files, the import graph, compiler versions and constraints, jobs,
// fingerprints, artifacts, and the persisted cache shapes.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the import graph of one build. Nodes live in a flat arena and
// edges are index pairs, so import cycles (which are legal and common in
// Solidity) need no ownership handling and no special casing.
//
// Import direction carries no compilation-order meaning; the compiler consumes
// a whole connected component at once. Accordingly the graph never computes a
// topological order.
type Graph struct {
	nodes []SourceFile
	index map[string]int
	edges [][]int
}

// NewGraph creates an empty import graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add inserts a parsed source as a node and returns its index. Adding the
// same canonical path twice is a caller bug and fails with ErrDuplicateSource.
func (g *Graph) Add(sf SourceFile) (int, error) {
	if _, exists := g.index[sf.Path]; exists {
		return 0, zerr.With(ErrDuplicateSource, "path", sf.Path)
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, sf)
	g.index[sf.Path] = idx
	g.edges = append(g.edges, nil)
	return idx, nil
}

// Connect materializes the import edges from every node's resolved import
// paths. It fails with ErrImportResolution if a node imports a path that was
// never added, which means discovery and import resolution disagree.
func (g *Graph) Connect() error {
	for i, sf := range g.nodes {
		edges := make([]int, 0, len(sf.Imports))
		for _, imp := range sf.Imports {
			j, ok := g.index[imp]
			if !ok {
				err := zerr.With(ErrImportResolution, "file", sf.Path)
				return zerr.With(err, "import", imp)
			}
			edges = append(edges, j)
		}
		g.edges[i] = edges
	}
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Lookup returns the source for a canonical path.
func (g *Graph) Lookup(path string) (SourceFile, bool) {
	i, ok := g.index[path]
	if !ok {
		return SourceFile{}, false
	}
	return g.nodes[i], true
}

// Components partitions the graph into connected components over the
// undirected view of the import edges. Each component is the atomic unit
// handed to one compiler invocation: mutually importing files must be
// compiled together, whichever direction the imports point.
//
// Members within a component are sorted by path and components are ordered by
// their first member, so the partition is deterministic for a given input set.
func (g *Graph) Components() [][]SourceFile {
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i, edges := range g.edges {
		for _, j := range edges {
			union(i, j)
		}
	}

	groups := make(map[int][]SourceFile)
	for i, sf := range g.nodes {
		root := find(i)
		groups[root] = append(groups[root], sf)
	}

	out := make([][]SourceFile, 0, len(groups))
	for _, members := range groups {
		slices.SortFunc(members, func(a, b SourceFile) int {
			return strings.Compare(a.Path, b.Path)
		})
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []SourceFile) int {
		return strings.Compare(a[0].Path, b[0].Path)
	})
	return out
}
