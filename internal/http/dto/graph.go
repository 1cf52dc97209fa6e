package dto

import "devloft.app/server/internal/graph"

type GraphNodeResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ComponentType string  `json:"component_type"`
	TechStack     *string `json:"tech_stack,omitempty"`
	CanvasID      *string `json:"canvas_id,omitempty"`
}

type GraphEdgeResponse struct {
	SourceID     string   `json:"source_id"`
	TargetID     string   `json:"target_id"`
	RelationType string   `json:"relation_type"`
	Weight       *float64 `json:"weight,omitempty"`
}

type GraphStatsResponse struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
	MaxDepth  int `json:"max_depth"`
}

type GraphResponse struct {
	Nodes []GraphNodeResponse `json:"nodes"`
	Edges []GraphEdgeResponse `json:"edges"`
	Stats GraphStatsResponse  `json:"stats"`
}

func ToGraphResponse(g *graph.Graph) GraphResponse {
	out := GraphResponse{
		Nodes: make([]GraphNodeResponse, len(g.Nodes)),
		Edges: make([]GraphEdgeResponse, len(g.Edges)),
		Stats: GraphStatsResponse{
			NodeCount: g.Stats.NodeCount,
			EdgeCount: g.Stats.EdgeCount,
			MaxDepth:  g.Stats.MaxDepth,
		},
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = toGraphNodeResponse(n)
	}
	for i, e := range g.Edges {
		out.Edges[i] = GraphEdgeResponse{
			SourceID:     e.SourceID.String(),
			TargetID:     e.TargetID.String(),
			RelationType: e.RelationType,
			Weight:       e.Weight,
		}
	}
	return out
}

func toGraphNodeResponse(n graph.Node) GraphNodeResponse {
	resp := GraphNodeResponse{
		ID:            n.ID.String(),
		Name:          n.Name,
		ComponentType: n.ComponentType,
		TechStack:     n.TechStack,
	}
	if n.CanvasID != nil {
		canvasID := n.CanvasID.String()
		resp.CanvasID = &canvasID
	}
	return resp
}

type CyclesResponse struct {
	Cycles    [][]string `json:"cycles"`
	HasCycles bool       `json:"has_cycles"`
}

type ImpactResponse struct {
	ComponentID          string              `json:"component_id"`
	ComponentName        string              `json:"component_name"`
	DirectDependents     int                 `json:"direct_dependents"`
	TransitiveDependents int                 `json:"transitive_dependents"`
	AffectedNodes        []GraphNodeResponse `json:"affected_nodes"`
}

func ToImpactResponse(r *graph.ImpactResult) ImpactResponse {
	out := ImpactResponse{
		ComponentID:          r.NodeID.String(),
		ComponentName:        r.NodeName,
		DirectDependents:     r.DirectDependents,
		TransitiveDependents: r.TransitiveDependents,
		AffectedNodes:        make([]GraphNodeResponse, len(r.AffectedNodes)),
	}
	for i, n := range r.AffectedNodes {
		out.AffectedNodes[i] = toGraphNodeResponse(n)
	}
	return out
}
