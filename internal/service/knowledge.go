package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"devloft.app/server/common/embedding"
	"devloft.app/server/internal/graph"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/store"
)

// KnowledgeService manages knowledge entities and relations and exposes
// bounded graph traversal and semantic search over them.
type KnowledgeService interface {
	CreateEntity(ctx context.Context, projectID uuid.UUID, name, entityType string, description, path *string) (*model.KnowledgeEntity, error)
	UpdateEntity(ctx context.Context, projectID, entityID uuid.UUID, name, description, path *string) (*model.KnowledgeEntity, error)
	DeleteEntity(ctx context.Context, projectID, entityID uuid.UUID) error
	ListEntities(ctx context.Context, projectID uuid.UUID, entityType string) ([]model.KnowledgeEntity, error)

	CreateRelation(ctx context.Context, projectID, sourceID, targetID uuid.UUID, relationType string, weight *float64) (*model.KnowledgeRelation, error)
	ListRelations(ctx context.Context, projectID uuid.UUID) ([]model.KnowledgeRelation, error)

	Traverse(ctx context.Context, projectID, startID uuid.UUID, maxDepth int, relationTypes []string) (*graph.TraversalResult, error)
	Search(ctx context.Context, projectID uuid.UUID, query, entityType string, limit int) ([]model.KnowledgeEntity, error)
}

type knowledgeService struct {
	knowledge store.KnowledgeStore
	embedder  embedding.Client
}

// NewKnowledgeService creates the service. embedder may be nil when no
// embedding endpoint is configured; writes then skip embeddings and
// search reports the service unavailable.
func NewKnowledgeService(knowledge store.KnowledgeStore, embedder embedding.Client) KnowledgeService {
	return &knowledgeService{knowledge: knowledge, embedder: embedder}
}

func (s *knowledgeService) CreateEntity(ctx context.Context, projectID uuid.UUID, name, entityType string, description, path *string) (*model.KnowledgeEntity, error) {
	sourceType := "manual"
	entity := &model.KnowledgeEntity{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Name:        name,
		EntityType:  entityType,
		Description: description,
		Path:        path,
		SourceType:  &sourceType,
	}
	if err := s.knowledge.CreateEntity(ctx, entity); err != nil {
		return nil, fmt.Errorf("creating knowledge entity: %w", err)
	}

	if outcome := s.embedEntity(ctx, entity); !outcome.Succeeded() {
		slog.WarnContext(ctx, "entity embedding skipped",
			"entity_id", entity.ID.String(), "error", outcome.Err())
	}
	return entity, nil
}

func (s *knowledgeService) UpdateEntity(ctx context.Context, projectID, entityID uuid.UUID, name, description, path *string) (*model.KnowledgeEntity, error) {
	entity, err := s.knowledge.GetEntity(ctx, projectID, entityID)
	if err != nil {
		return nil, err
	}

	reembed := false
	if name != nil {
		entity.Name = *name
		reembed = true
	}
	if description != nil {
		entity.Description = description
		reembed = true
	}
	if path != nil {
		entity.Path = path
	}

	if err := s.knowledge.UpdateEntity(ctx, entity); err != nil {
		return nil, fmt.Errorf("updating knowledge entity: %w", err)
	}

	if reembed {
		if outcome := s.embedEntity(ctx, entity); !outcome.Succeeded() {
			slog.WarnContext(ctx, "entity re-embedding skipped",
				"entity_id", entity.ID.String(), "error", outcome.Err())
		}
	}
	return entity, nil
}

// embedEntity computes and stores the entity's embedding. Always
// non-critical: the entity is valid without one, it just won't surface
// in semantic search.
func (s *knowledgeService) embedEntity(ctx context.Context, entity *model.KnowledgeEntity) Outcome {
	if s.embedder == nil {
		return OK()
	}
	text := entity.Name
	if entity.Description != nil {
		text += "\n" + *entity.Description
	}
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return NonCritical(err)
	}
	if err := s.knowledge.SetEmbedding(ctx, entity.ID, vector); err != nil {
		return NonCritical(err)
	}
	entity.HasEmbedding = true
	return OK()
}

func (s *knowledgeService) DeleteEntity(ctx context.Context, projectID, entityID uuid.UUID) error {
	return s.knowledge.DeleteEntity(ctx, projectID, entityID)
}

func (s *knowledgeService) ListEntities(ctx context.Context, projectID uuid.UUID, entityType string) ([]model.KnowledgeEntity, error) {
	return s.knowledge.ListEntities(ctx, projectID, entityType)
}

func (s *knowledgeService) CreateRelation(ctx context.Context, projectID, sourceID, targetID uuid.UUID, relationType string, weight *float64) (*model.KnowledgeRelation, error) {
	relation := &model.KnowledgeRelation{
		ID:           uuid.New(),
		ProjectID:    projectID,
		SourceID:     sourceID,
		TargetID:     targetID,
		RelationType: relationType,
		Weight:       weight,
	}
	if err := s.knowledge.CreateRelation(ctx, relation); err != nil {
		return nil, fmt.Errorf("creating knowledge relation: %w", err)
	}
	return relation, nil
}

func (s *knowledgeService) ListRelations(ctx context.Context, projectID uuid.UUID) ([]model.KnowledgeRelation, error) {
	return s.knowledge.ListRelations(ctx, projectID)
}

// Traverse loads the project's knowledge graph and expands from startID
// up to maxDepth hops, undirected, optionally filtered to specific
// relation types.
func (s *knowledgeService) Traverse(ctx context.Context, projectID, startID uuid.UUID, maxDepth int, relationTypes []string) (*graph.TraversalResult, error) {
	entities, err := s.knowledge.ListEntities(ctx, projectID, "")
	if err != nil {
		return nil, fmt.Errorf("loading knowledge entities: %w", err)
	}
	relations, err := s.knowledge.ListRelations(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge relations: %w", err)
	}

	entityNodes := make([]graph.EntityNode, len(entities))
	for i, e := range entities {
		entityNodes[i] = graph.EntityNode{ID: e.ID, Name: e.Name, EntityType: e.EntityType}
	}
	relationEdges := make([]graph.Relation, len(relations))
	for i, r := range relations {
		relationEdges[i] = graph.Relation{
			ID:           r.ID,
			SourceID:     r.SourceID,
			TargetID:     r.TargetID,
			RelationType: r.RelationType,
			Weight:       r.Weight,
		}
	}

	result := graph.Traverse(entityNodes, relationEdges, startID, maxDepth, relationTypes)
	return &result, nil
}

func (s *knowledgeService) Search(ctx context.Context, projectID uuid.UUID, query, entityType string, limit int) ([]model.KnowledgeEntity, error) {
	if s.embedder == nil {
		return nil, ErrEmbeddingUnavailable
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmbeddingUnavailable, err)
	}
	return s.knowledge.SearchByEmbedding(ctx, projectID, vector, entityType, limit)
}
