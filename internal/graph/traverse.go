package graph

import "github.com/google/uuid"

// EntityNode is a knowledge-graph node as seen by bounded traversal.
type EntityNode struct {
	ID         uuid.UUID
	Name       string
	EntityType string
}

// Relation is a knowledge-graph edge. Traversal treats relations as
// undirected: a relation is followed whether the current node is its
// source or its target.
type Relation struct {
	ID           uuid.UUID
	SourceID     uuid.UUID
	TargetID     uuid.UUID
	RelationType string
	Weight       *float64
}

// TraversalNode annotates an entity with the depth at which traversal
// first reached it.
type TraversalNode struct {
	EntityNode
	Depth int
}

// TraversalResult holds the visited nodes and every relation whose both
// endpoints were visited.
type TraversalResult struct {
	Nodes []TraversalNode
	Edges []Relation
}

// Traverse expands outward from startID up to maxDepth hops, following
// relations in either direction. When relationTypes is non-empty, only
// relations of those types are followed. Each node is returned once, at
// its first-reach depth. This answers "what is connected within N hops";
// Impact answers the directed question "what depends on this".
func Traverse(entities []EntityNode, relations []Relation, startID uuid.UUID, maxDepth int, relationTypes []string) TraversalResult {
	byID := make(map[uuid.UUID]EntityNode, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	allowed := map[string]bool{}
	for _, rt := range relationTypes {
		allowed[rt] = true
	}
	followable := func(r Relation) bool {
		return len(allowed) == 0 || allowed[r.RelationType]
	}

	// Undirected adjacency over followable relations only.
	adj := make(map[uuid.UUID][]uuid.UUID, len(entities))
	for _, r := range relations {
		if !followable(r) {
			continue
		}
		adj[r.SourceID] = append(adj[r.SourceID], r.TargetID)
		adj[r.TargetID] = append(adj[r.TargetID], r.SourceID)
	}

	result := TraversalResult{Nodes: []TraversalNode{}, Edges: []Relation{}}
	start, ok := byID[startID]
	if !ok {
		return result
	}

	depths := map[uuid.UUID]int{startID: 0}
	queue := []uuid.UUID{startID}
	result.Nodes = append(result.Nodes, TraversalNode{EntityNode: start})

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		depth := depths[current]
		if depth >= maxDepth {
			continue
		}
		for _, next := range adj[current] {
			if _, seen := depths[next]; seen {
				continue
			}
			entity, ok := byID[next]
			if !ok {
				// dangling relation endpoint
				continue
			}
			depths[next] = depth + 1
			result.Nodes = append(result.Nodes, TraversalNode{EntityNode: entity, Depth: depth + 1})
			queue = append(queue, next)
		}
	}

	for _, r := range relations {
		if _, ok := depths[r.SourceID]; !ok {
			continue
		}
		if _, ok := depths[r.TargetID]; !ok {
			continue
		}
		result.Edges = append(result.Edges, r)
	}
	return result
}
