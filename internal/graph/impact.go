package graph

import "github.com/google/uuid"

// ImpactResult describes what transitively depends on a target node:
// reverse reachability over the directed edge set.
type ImpactResult struct {
	NodeID               uuid.UUID
	NodeName             string
	DirectDependents     int
	TransitiveDependents int
	AffectedNodes        []Node
}

// Impact performs a breadth-first traversal from nodeID over reversed
// edges. Direct dependents are the distinct immediate reverse neighbors:
// parallel edges between the same pair count once. Transitive dependents
// are everything reverse-reachable, excluding the target itself. Edge
// endpoints that no longer exist in nodes are silently dropped from
// AffectedNodes.
func Impact(nodeID uuid.UUID, nodes []Node, edges []Edge) ImpactResult {
	rev := make(map[uuid.UUID][]uuid.UUID, len(edges))
	for _, e := range edges {
		rev[e.TargetID] = append(rev[e.TargetID], e.SourceID)
	}

	direct := make(map[uuid.UUID]bool, len(rev[nodeID]))
	for _, source := range rev[nodeID] {
		direct[source] = true
	}

	visited := make(map[uuid.UUID]bool)
	queue := []uuid.UUID{nodeID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, neighbor := range rev[current] {
			if !visited[neighbor] {
				queue = append(queue, neighbor)
			}
		}
	}
	delete(visited, nodeID)

	byID := make(map[uuid.UUID]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	affected := make([]Node, 0, len(visited))
	for id := range visited {
		if n, ok := byID[id]; ok {
			affected = append(affected, n)
		}
	}

	result := ImpactResult{
		NodeID:               nodeID,
		DirectDependents:     len(direct),
		TransitiveDependents: len(visited),
		AffectedNodes:        affected,
	}
	if target, ok := byID[nodeID]; ok {
		result.NodeName = target.Name
	}
	return result
}
