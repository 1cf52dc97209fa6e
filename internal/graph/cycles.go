package graph

import "github.com/google/uuid"

type dfsColor int

const (
	white dfsColor = iota // unvisited
	gray                  // on the current DFS stack
	black                 // fully explored
)

// DetectCycles finds directed cycles using a three-color depth-first
// traversal. Hitting a gray successor closes a cycle; the walk from that
// successor's position in the current path through the current node is
// reported as a list of node names.
//
// A cycle reachable from multiple DFS roots may be reported more than
// once. Callers that need distinct cycles must dedupe themselves.
func DetectCycles(nodes []Node, edges []Edge) [][]string {
	adj := make(map[uuid.UUID][]uuid.UUID, len(nodes))
	names := make(map[uuid.UUID]string, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = nil
		names[n.ID] = n.Name
	}
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
	}

	cycles := [][]string{}
	color := make(map[uuid.UUID]dfsColor, len(adj))
	var path []uuid.UUID

	var dfs func(u uuid.UUID)
	dfs = func(u uuid.UUID) {
		color[u] = gray
		path = append(path, u)
		for _, v := range adj[u] {
			switch color[v] {
			case gray:
				idx := indexOf(path, v)
				cycle := make([]string, 0, len(path)-idx)
				for _, id := range path[idx:] {
					cycle = append(cycle, names[id])
				}
				cycles = append(cycles, cycle)
			case white:
				dfs(v)
			}
		}
		path = path[:len(path)-1]
		color[u] = black
	}

	for _, n := range nodes {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return cycles
}

func indexOf(ids []uuid.UUID, target uuid.UUID) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}
