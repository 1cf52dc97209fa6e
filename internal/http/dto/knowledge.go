package dto

import (
	"time"

	"devloft.app/server/internal/graph"
	"devloft.app/server/internal/model"
)

type CreateEntityRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	EntityType  string  `json:"entity_type" binding:"required,oneof=concept technology decision component"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=4000"`
	Path        *string `json:"path,omitempty" binding:"omitempty,max=1024"`
}

type UpdateEntityRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=4000"`
	Path        *string `json:"path,omitempty" binding:"omitempty,max=1024"`
}

type EntityResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	EntityType   string    `json:"entity_type"`
	Description  *string   `json:"description,omitempty"`
	Path         *string   `json:"path,omitempty"`
	SourceType   *string   `json:"source_type,omitempty"`
	HasEmbedding bool      `json:"has_embedding"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToEntityResponse(e *model.KnowledgeEntity) *EntityResponse {
	return &EntityResponse{
		ID:           e.ID.String(),
		ProjectID:    e.ProjectID.String(),
		Name:         e.Name,
		EntityType:   e.EntityType,
		Description:  e.Description,
		Path:         e.Path,
		SourceType:   e.SourceType,
		HasEmbedding: e.HasEmbedding,
		CreatedAt:    e.CreatedAt,
	}
}

type ListEntitiesResponse struct {
	Entities []EntityResponse `json:"entities"`
}

func ToListEntitiesResponse(entities []model.KnowledgeEntity) ListEntitiesResponse {
	out := ListEntitiesResponse{Entities: make([]EntityResponse, len(entities))}
	for i := range entities {
		out.Entities[i] = *ToEntityResponse(&entities[i])
	}
	return out
}

type CreateRelationRequest struct {
	SourceID     string   `json:"source_id" binding:"required,uuid"`
	TargetID     string   `json:"target_id" binding:"required,uuid"`
	RelationType string   `json:"relation_type" binding:"required,oneof=depends_on uses implements relates_to"`
	Weight       *float64 `json:"weight,omitempty" binding:"omitempty,gte=0,lte=1"`
}

type RelationResponse struct {
	ID           string    `json:"id"`
	SourceID     string    `json:"source_id"`
	TargetID     string    `json:"target_id"`
	RelationType string    `json:"relation_type"`
	Weight       *float64  `json:"weight,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToRelationResponse(r *model.KnowledgeRelation) *RelationResponse {
	return &RelationResponse{
		ID:           r.ID.String(),
		SourceID:     r.SourceID.String(),
		TargetID:     r.TargetID.String(),
		RelationType: r.RelationType,
		Weight:       r.Weight,
		CreatedAt:    r.CreatedAt,
	}
}

type ListRelationsResponse struct {
	Relations []RelationResponse `json:"relations"`
}

func ToListRelationsResponse(relations []model.KnowledgeRelation) ListRelationsResponse {
	out := ListRelationsResponse{Relations: make([]RelationResponse, len(relations))}
	for i := range relations {
		out.Relations[i] = *ToRelationResponse(&relations[i])
	}
	return out
}

type TraversalNodeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
	Depth      int    `json:"depth"`
}

type TraversalEdgeResponse struct {
	ID           string   `json:"id"`
	SourceID     string   `json:"source_id"`
	TargetID     string   `json:"target_id"`
	RelationType string   `json:"relation_type"`
	Weight       *float64 `json:"weight,omitempty"`
}

type TraversalResponse struct {
	Nodes []TraversalNodeResponse `json:"nodes"`
	Edges []TraversalEdgeResponse `json:"edges"`
}

func ToTraversalResponse(r *graph.TraversalResult) TraversalResponse {
	out := TraversalResponse{
		Nodes: make([]TraversalNodeResponse, len(r.Nodes)),
		Edges: make([]TraversalEdgeResponse, len(r.Edges)),
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = TraversalNodeResponse{
			ID:         n.ID.String(),
			Name:       n.Name,
			EntityType: n.EntityType,
			Depth:      n.Depth,
		}
	}
	for i, e := range r.Edges {
		out.Edges[i] = TraversalEdgeResponse{
			ID:           e.ID.String(),
			SourceID:     e.SourceID.String(),
			TargetID:     e.TargetID.String(),
			RelationType: e.RelationType,
			Weight:       e.Weight,
		}
	}
	return out
}

type SearchRequest struct {
	Query      string `json:"query" binding:"required,min=1,max=2000"`
	EntityType string `json:"entity_type,omitempty" binding:"omitempty,oneof=concept technology decision component"`
	Limit      int    `json:"limit,omitempty" binding:"omitempty,gte=1,lte=50"`
}
