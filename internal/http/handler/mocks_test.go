package handler_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"devloft.app/server/internal/bus"
	"devloft.app/server/internal/graph"
	"devloft.app/server/internal/model"
)

type mockWorkspaceService struct {
	createFn    func(ctx context.Context, projectID, userID uuid.UUID, scope model.WorkspaceScope) (*model.Workspace, error)
	getFn       func(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	listFn      func(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error)
	stopFn      func(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	heartbeatFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockWorkspaceService) Create(ctx context.Context, projectID, userID uuid.UUID, scope model.WorkspaceScope) (*model.Workspace, error) {
	if m.createFn != nil {
		return m.createFn(ctx, projectID, userID, scope)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Get(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error) {
	if m.listFn != nil {
		return m.listFn(ctx, projectID)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Stop(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	if m.stopFn != nil {
		return m.stopFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Heartbeat(ctx context.Context, id uuid.UUID) error {
	if m.heartbeatFn != nil {
		return m.heartbeatFn(ctx, id)
	}
	return nil
}

func (m *mockWorkspaceService) CleanupIdle(ctx context.Context) (int, error) {
	return 0, nil
}

type mockTerminalService struct {
	createSessionFn func(ctx context.Context, workspaceID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error)
	getSessionFn    func(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error)
	listSessionsFn  func(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error)
	setModeFn       func(ctx context.Context, sessionID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error)
	sendInputFn     func(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace, data string, userID uuid.UUID) error
	readOutputFn    func(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace) (string, error)
}

func (m *mockTerminalService) CreateSession(ctx context.Context, workspaceID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, workspaceID, userID, mode)
	}
	return nil, nil
}

func (m *mockTerminalService) GetSession(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTerminalService) ListSessions(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx, workspaceID)
	}
	return nil, nil
}

func (m *mockTerminalService) SetMode(ctx context.Context, sessionID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error) {
	if m.setModeFn != nil {
		return m.setModeFn(ctx, sessionID, userID, mode)
	}
	return nil, nil
}

func (m *mockTerminalService) SendInput(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace, data string, userID uuid.UUID) error {
	if m.sendInputFn != nil {
		return m.sendInputFn(ctx, session, workspace, data, userID)
	}
	return nil
}

func (m *mockTerminalService) ReadOutput(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace) (string, error) {
	if m.readOutputFn != nil {
		return m.readOutputFn(ctx, session, workspace)
	}
	return "", nil
}

type mockGraphService struct {
	buildFn        func(ctx context.Context, projectID uuid.UUID) (*graph.Graph, error)
	detectCyclesFn func(ctx context.Context, projectID uuid.UUID) ([][]string, bool, error)
	impactFn       func(ctx context.Context, projectID, componentID uuid.UUID) (*graph.ImpactResult, error)
}

func (m *mockGraphService) Build(ctx context.Context, projectID uuid.UUID) (*graph.Graph, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx, projectID)
	}
	return &graph.Graph{}, nil
}

func (m *mockGraphService) DetectCycles(ctx context.Context, projectID uuid.UUID) ([][]string, bool, error) {
	if m.detectCyclesFn != nil {
		return m.detectCyclesFn(ctx, projectID)
	}
	return nil, false, nil
}

func (m *mockGraphService) Impact(ctx context.Context, projectID, componentID uuid.UUID) (*graph.ImpactResult, error) {
	if m.impactFn != nil {
		return m.impactFn(ctx, projectID, componentID)
	}
	return &graph.ImpactResult{}, nil
}

// memoryBus is an in-process Bus that actually delivers, so bridge tests
// exercise the publish/subscribe path without Redis.
type memoryBus struct {
	mu        sync.Mutex
	subs      map[string][]chan string
	publishes map[string][]string
}

func newMemoryBus() *memoryBus {
	return &memoryBus{
		subs:      make(map[string][]chan string),
		publishes: make(map[string][]string),
	}
}

func (b *memoryBus) Publish(_ context.Context, channel string, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publishes[channel] = append(b.publishes[channel], payload)
	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *memoryBus) Subscribe(_ context.Context, channel string) (bus.Subscription, error) {
	ch := make(chan string, 16)
	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], ch)
	b.mu.Unlock()
	return &memorySubscription{ch: ch}, nil
}

func (b *memoryBus) publishCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.publishes[channel])
}

type memorySubscription struct {
	ch        chan string
	closeOnce sync.Once
}

func (s *memorySubscription) Messages() <-chan string {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.closeOnce.Do(func() { close(s.ch) })
	return nil
}
