package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"devloft.app/server/internal/model"
	"devloft.app/server/internal/runtime"
)

type mockWorkspaceStore struct {
	getByIDFn         func(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	createFn          func(ctx context.Context, ws *model.Workspace) error
	updateStatusFn    func(ctx context.Context, id uuid.UUID, status model.WorkspaceStatus, containerID *string) error
	touchActivityFn   func(ctx context.Context, id uuid.UUID, at time.Time) error
	listByProjectFn   func(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error)
	listActivePortsFn func(ctx context.Context) ([]int, error)
	listIdleRunningFn func(ctx context.Context, cutoff time.Time) ([]model.Workspace, error)

	statusUpdates []model.WorkspaceStatus
}

func (m *mockWorkspaceStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.WorkspaceStatus, containerID *string) error {
	m.statusUpdates = append(m.statusUpdates, status)
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, containerID)
	}
	return nil
}

func (m *mockWorkspaceStore) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.touchActivityFn != nil {
		return m.touchActivityFn(ctx, id, at)
	}
	return nil
}

func (m *mockWorkspaceStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error) {
	if m.listByProjectFn != nil {
		return m.listByProjectFn(ctx, projectID)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) ListActivePorts(ctx context.Context) ([]int, error) {
	if m.listActivePortsFn != nil {
		return m.listActivePortsFn(ctx)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) ListIdleRunning(ctx context.Context, cutoff time.Time) ([]model.Workspace, error) {
	if m.listIdleRunningFn != nil {
		return m.listIdleRunningFn(ctx, cutoff)
	}
	return nil, nil
}

type mockTerminalStore struct {
	getByIDFn         func(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error)
	createFn          func(ctx context.Context, session *model.TerminalSession) error
	updateModeFn      func(ctx context.Context, id uuid.UUID, mode model.TerminalMode) error
	listByWorkspaceFn func(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error)
}

func (m *mockTerminalStore) GetByID(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTerminalStore) Create(ctx context.Context, session *model.TerminalSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockTerminalStore) UpdateMode(ctx context.Context, id uuid.UUID, mode model.TerminalMode) error {
	if m.updateModeFn != nil {
		return m.updateModeFn(ctx, id, mode)
	}
	return nil
}

func (m *mockTerminalStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return nil, nil
}

type mockComponentStore struct {
	listByProjectFn func(ctx context.Context, projectID uuid.UUID) ([]model.CanvasComponent, error)
}

func (m *mockComponentStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.CanvasComponent, error) {
	if m.listByProjectFn != nil {
		return m.listByProjectFn(ctx, projectID)
	}
	return nil, nil
}

type mockKnowledgeStore struct {
	createEntityFn       func(ctx context.Context, entity *model.KnowledgeEntity) error
	getEntityFn          func(ctx context.Context, projectID, id uuid.UUID) (*model.KnowledgeEntity, error)
	updateEntityFn       func(ctx context.Context, entity *model.KnowledgeEntity) error
	deleteEntityFn       func(ctx context.Context, projectID, id uuid.UUID) error
	listEntitiesFn       func(ctx context.Context, projectID uuid.UUID, entityType string) ([]model.KnowledgeEntity, error)
	setEmbeddingFn       func(ctx context.Context, id uuid.UUID, embedding []float64) error
	searchByEmbeddingFn  func(ctx context.Context, projectID uuid.UUID, embedding []float64, entityType string, limit int) ([]model.KnowledgeEntity, error)
	createRelationFn     func(ctx context.Context, relation *model.KnowledgeRelation) error
	listRelationsFn      func(ctx context.Context, projectID uuid.UUID) ([]model.KnowledgeRelation, error)
	listRelationsAmongFn func(ctx context.Context, projectID uuid.UUID, entityIDs []uuid.UUID) ([]model.KnowledgeRelation, error)

	setEmbeddingCalls int
}

func (m *mockKnowledgeStore) CreateEntity(ctx context.Context, entity *model.KnowledgeEntity) error {
	if m.createEntityFn != nil {
		return m.createEntityFn(ctx, entity)
	}
	return nil
}

func (m *mockKnowledgeStore) GetEntity(ctx context.Context, projectID, id uuid.UUID) (*model.KnowledgeEntity, error) {
	if m.getEntityFn != nil {
		return m.getEntityFn(ctx, projectID, id)
	}
	return nil, nil
}

func (m *mockKnowledgeStore) UpdateEntity(ctx context.Context, entity *model.KnowledgeEntity) error {
	if m.updateEntityFn != nil {
		return m.updateEntityFn(ctx, entity)
	}
	return nil
}

func (m *mockKnowledgeStore) DeleteEntity(ctx context.Context, projectID, id uuid.UUID) error {
	if m.deleteEntityFn != nil {
		return m.deleteEntityFn(ctx, projectID, id)
	}
	return nil
}

func (m *mockKnowledgeStore) ListEntities(ctx context.Context, projectID uuid.UUID, entityType string) ([]model.KnowledgeEntity, error) {
	if m.listEntitiesFn != nil {
		return m.listEntitiesFn(ctx, projectID, entityType)
	}
	return nil, nil
}

func (m *mockKnowledgeStore) SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error {
	m.setEmbeddingCalls++
	if m.setEmbeddingFn != nil {
		return m.setEmbeddingFn(ctx, id, embedding)
	}
	return nil
}

func (m *mockKnowledgeStore) SearchByEmbedding(ctx context.Context, projectID uuid.UUID, embedding []float64, entityType string, limit int) ([]model.KnowledgeEntity, error) {
	if m.searchByEmbeddingFn != nil {
		return m.searchByEmbeddingFn(ctx, projectID, embedding, entityType, limit)
	}
	return nil, nil
}

func (m *mockKnowledgeStore) CreateRelation(ctx context.Context, relation *model.KnowledgeRelation) error {
	if m.createRelationFn != nil {
		return m.createRelationFn(ctx, relation)
	}
	return nil
}

func (m *mockKnowledgeStore) ListRelations(ctx context.Context, projectID uuid.UUID) ([]model.KnowledgeRelation, error) {
	if m.listRelationsFn != nil {
		return m.listRelationsFn(ctx, projectID)
	}
	return nil, nil
}

func (m *mockKnowledgeStore) ListRelationsAmong(ctx context.Context, projectID uuid.UUID, entityIDs []uuid.UUID) ([]model.KnowledgeRelation, error) {
	if m.listRelationsAmongFn != nil {
		return m.listRelationsAmongFn(ctx, projectID, entityIDs)
	}
	return nil, nil
}

type mockRuntime struct {
	createOrReplaceFn    func(ctx context.Context, spec runtime.ContainerSpec) error
	startFn              func(ctx context.Context, name string) error
	stopAndRemoveFn      func(ctx context.Context, name string) error
	connectNetworkFn     func(ctx context.Context, network, name string) error
	runtimeIDFn          func(ctx context.Context, name string) (string, error)
	listPublishedPortsFn func(ctx context.Context) ([]int, error)
	execFn               func(ctx context.Context, name string, cmd []string) (string, error)

	stopAndRemoveCalls int
	execCalls          [][]string
}

func (m *mockRuntime) CreateOrReplace(ctx context.Context, spec runtime.ContainerSpec) error {
	if m.createOrReplaceFn != nil {
		return m.createOrReplaceFn(ctx, spec)
	}
	return nil
}

func (m *mockRuntime) Start(ctx context.Context, name string) error {
	if m.startFn != nil {
		return m.startFn(ctx, name)
	}
	return nil
}

func (m *mockRuntime) StopAndRemove(ctx context.Context, name string) error {
	m.stopAndRemoveCalls++
	if m.stopAndRemoveFn != nil {
		return m.stopAndRemoveFn(ctx, name)
	}
	return nil
}

func (m *mockRuntime) ConnectNetwork(ctx context.Context, network, name string) error {
	if m.connectNetworkFn != nil {
		return m.connectNetworkFn(ctx, network, name)
	}
	return nil
}

func (m *mockRuntime) RuntimeID(ctx context.Context, name string) (string, error) {
	if m.runtimeIDFn != nil {
		return m.runtimeIDFn(ctx, name)
	}
	return "deadbeef0000", nil
}

func (m *mockRuntime) ListPublishedPorts(ctx context.Context) ([]int, error) {
	if m.listPublishedPortsFn != nil {
		return m.listPublishedPortsFn(ctx)
	}
	return nil, nil
}

func (m *mockRuntime) Exec(ctx context.Context, name string, cmd []string) (string, error) {
	m.execCalls = append(m.execCalls, cmd)
	if m.execFn != nil {
		return m.execFn(ctx, name, cmd)
	}
	return "", nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float64, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float64{0.1, 0.2, 0.3}, nil
}
