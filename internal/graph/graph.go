// Package graph holds the in-memory dependency graph derived from canvas
// components and knowledge relations, plus the pure algorithms that run
// over it. The graph is rebuilt from scratch on every request; nothing
// here caches or mutates shared state.
package graph

import "github.com/google/uuid"

// Node is a component in the dependency graph.
type Node struct {
	ID            uuid.UUID
	Name          string
	ComponentType string
	TechStack     *string
	CanvasID      *uuid.UUID
}

// Edge is a directed, typed, weighted dependency between two nodes.
// Edges only ever connect nodes present in the same Graph.
type Edge struct {
	SourceID     uuid.UUID
	TargetID     uuid.UUID
	RelationType string
	Weight       *float64
}

// Stats summarizes a built graph. MaxDepth is a heuristic upper bound on
// path length (per-root DFS with a visited set), not a longest-path
// guarantee.
type Stats struct {
	NodeCount int
	EdgeCount int
	MaxDepth  int
}

// Graph is the assembled (nodes, edges, stats) result of one build.
type Graph struct {
	Nodes []Node
	Edges []Edge
	Stats Stats
}

// adjacency builds a forward adjacency list keyed by node id.
func adjacency(edges []Edge) map[uuid.UUID][]uuid.UUID {
	adj := make(map[uuid.UUID][]uuid.UUID, len(edges))
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
	}
	return adj
}

// MaxDepth computes the deepest forward walk reachable from any node,
// tracking a visited set per root so cycles terminate. Because each root
// is explored independently without global memoization the result is an
// approximation, which is all the stats consumer needs.
func MaxDepth(nodes []Node, edges []Edge) int {
	if len(edges) == 0 {
		return 0
	}
	adj := adjacency(edges)

	type frame struct {
		id    uuid.UUID
		depth int
	}

	maxDepth := 0
	for _, n := range nodes {
		visited := make(map[uuid.UUID]bool)
		stack := []frame{{id: n.ID}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[f.id] {
				continue
			}
			visited[f.id] = true
			if f.depth > maxDepth {
				maxDepth = f.depth
			}
			for _, next := range adj[f.id] {
				if !visited[next] {
					stack = append(stack, frame{id: next, depth: f.depth + 1})
				}
			}
		}
	}
	return maxDepth
}
