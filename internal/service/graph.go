package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"devloft.app/server/internal/graph"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/store"
)

// GraphService assembles the dependency graph for a project and runs the
// analyses over it. The graph is rebuilt from scratch per call; there is
// no cache and therefore no invalidation to get wrong.
type GraphService interface {
	Build(ctx context.Context, projectID uuid.UUID) (*graph.Graph, error)
	DetectCycles(ctx context.Context, projectID uuid.UUID) ([][]string, bool, error)
	Impact(ctx context.Context, projectID, componentID uuid.UUID) (*graph.ImpactResult, error)
}

type graphService struct {
	components store.ComponentStore
	knowledge  store.KnowledgeStore
}

func NewGraphService(components store.ComponentStore, knowledge store.KnowledgeStore) GraphService {
	return &graphService{components: components, knowledge: knowledge}
}

// Build loads every canvas component in the project as a node, maps
// component-typed knowledge entities onto nodes by case-insensitive
// exact name match (first match wins), and re-expresses the knowledge
// relations between matched entities as dependency edges.
func (s *graphService) Build(ctx context.Context, projectID uuid.UUID) (*graph.Graph, error) {
	components, err := s.components.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading canvas components: %w", err)
	}

	nodes := make([]graph.Node, 0, len(components))
	nodeByName := make(map[string]uuid.UUID, len(components))
	for _, comp := range components {
		canvasID := comp.CanvasID
		nodes = append(nodes, graph.Node{
			ID:            comp.ID,
			Name:          comp.Name,
			ComponentType: comp.ComponentType,
			TechStack:     comp.TechStack,
			CanvasID:      &canvasID,
		})
		key := strings.ToLower(comp.Name)
		if _, exists := nodeByName[key]; !exists {
			nodeByName[key] = comp.ID
		}
	}

	entities, err := s.knowledge.ListEntities(ctx, projectID, model.EntityTypeComponent)
	if err != nil {
		return nil, fmt.Errorf("loading component entities: %w", err)
	}

	// Entities that don't match any component by name contribute no
	// edges; they are simply dropped.
	entityToNode := make(map[uuid.UUID]uuid.UUID, len(entities))
	matchedIDs := make([]uuid.UUID, 0, len(entities))
	for _, entity := range entities {
		if nodeID, ok := nodeByName[strings.ToLower(entity.Name)]; ok {
			entityToNode[entity.ID] = nodeID
			matchedIDs = append(matchedIDs, entity.ID)
		}
	}

	relations, err := s.knowledge.ListRelationsAmong(ctx, projectID, matchedIDs)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge relations: %w", err)
	}

	edges := make([]graph.Edge, 0, len(relations))
	for _, rel := range relations {
		sourceNode, okSource := entityToNode[rel.SourceID]
		targetNode, okTarget := entityToNode[rel.TargetID]
		if !okSource || !okTarget {
			continue
		}
		edges = append(edges, graph.Edge{
			SourceID:     sourceNode,
			TargetID:     targetNode,
			RelationType: rel.RelationType,
			Weight:       rel.Weight,
		})
	}

	return &graph.Graph{
		Nodes: nodes,
		Edges: edges,
		Stats: graph.Stats{
			NodeCount: len(nodes),
			EdgeCount: len(edges),
			MaxDepth:  graph.MaxDepth(nodes, edges),
		},
	}, nil
}

func (s *graphService) DetectCycles(ctx context.Context, projectID uuid.UUID) ([][]string, bool, error) {
	g, err := s.Build(ctx, projectID)
	if err != nil {
		return nil, false, err
	}
	cycles := graph.DetectCycles(g.Nodes, g.Edges)
	return cycles, len(cycles) > 0, nil
}

func (s *graphService) Impact(ctx context.Context, projectID, componentID uuid.UUID) (*graph.ImpactResult, error) {
	g, err := s.Build(ctx, projectID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, n := range g.Nodes {
		if n.ID == componentID {
			found = true
			break
		}
	}
	if !found {
		return nil, store.ErrNotFound
	}

	result := graph.Impact(componentID, g.Nodes, g.Edges)
	return &result, nil
}
