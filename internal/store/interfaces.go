package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"devloft.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.WorkspaceStatus, containerID *string) error
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error)
	ListActivePorts(ctx context.Context) ([]int, error)
	ListIdleRunning(ctx context.Context, cutoff time.Time) ([]model.Workspace, error)
}

// TerminalStore defines the contract for terminal session data access
type TerminalStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error)
	Create(ctx context.Context, session *model.TerminalSession) error
	UpdateMode(ctx context.Context, id uuid.UUID, mode model.TerminalMode) error
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error)
}

// ComponentStore provides read-only access to the canvas components
// that feed the dependency graph
type ComponentStore interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.CanvasComponent, error)
}

// KnowledgeStore defines the contract for knowledge entity/relation data access
type KnowledgeStore interface {
	CreateEntity(ctx context.Context, entity *model.KnowledgeEntity) error
	GetEntity(ctx context.Context, projectID, id uuid.UUID) (*model.KnowledgeEntity, error)
	UpdateEntity(ctx context.Context, entity *model.KnowledgeEntity) error
	DeleteEntity(ctx context.Context, projectID, id uuid.UUID) error
	ListEntities(ctx context.Context, projectID uuid.UUID, entityType string) ([]model.KnowledgeEntity, error)
	SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error
	SearchByEmbedding(ctx context.Context, projectID uuid.UUID, embedding []float64, entityType string, limit int) ([]model.KnowledgeEntity, error)

	CreateRelation(ctx context.Context, relation *model.KnowledgeRelation) error
	ListRelations(ctx context.Context, projectID uuid.UUID) ([]model.KnowledgeRelation, error)
	ListRelationsAmong(ctx context.Context, projectID uuid.UUID, entityIDs []uuid.UUID) ([]model.KnowledgeRelation, error)
}
