package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntityTypeComponent = "component"
)

// KnowledgeEntity is a node in a project's knowledge graph. Entities of
// type "component" are unified with canvas components by name to derive
// dependency edges.
type KnowledgeEntity struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	Name         string
	EntityType   string // concept, technology, decision, component
	Description  *string
	Path         *string
	SourceType   *string // canvas, idea, manual
	SourceID     *uuid.UUID
	HasEmbedding bool
	CreatedAt    time.Time
}

// KnowledgeRelation is a typed, weighted directed edge between two
// knowledge entities in the same project.
type KnowledgeRelation struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	SourceID     uuid.UUID
	TargetID     uuid.UUID
	RelationType string // depends_on, uses, implements, relates_to
	Weight       *float64
	CreatedAt    time.Time
}
