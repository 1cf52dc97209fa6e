package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"devloft.app/server/common/logger"
	"devloft.app/server/core/config"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/runtime"
	"devloft.app/server/internal/store"
)

// WorkspaceService owns the workspace container lifecycle: port
// allocation, container create/start, stop/delete, heartbeat, and the
// idle sweep.
type WorkspaceService interface {
	Create(ctx context.Context, projectID, userID uuid.UUID, scope model.WorkspaceScope) (*model.Workspace, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error)
	Stop(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	Heartbeat(ctx context.Context, id uuid.UUID) error
	CleanupIdle(ctx context.Context) (int, error)
}

type workspaceService struct {
	workspaces store.WorkspaceStore
	containers runtime.ContainerRuntime
	cfg        config.WorkspaceConfig
}

func NewWorkspaceService(workspaces store.WorkspaceStore, containers runtime.ContainerRuntime, cfg config.WorkspaceConfig) WorkspaceService {
	return &workspaceService{
		workspaces: workspaces,
		containers: containers,
		cfg:        cfg,
	}
}

// allocatePort scans the configured range ascending and returns the
// first port held by neither a live workspace record nor an actual
// container. The runtime check covers records and containers diverging
// after a crash; when the runtime is unreachable the scan degrades to
// record-only accounting.
//
// There is no lock between the scan and the insert, so two concurrent
// creates can race to the same port; the loser fails at container start
// when the bind is rejected. See DESIGN.md.
func (s *workspaceService) allocatePort(ctx context.Context) (int, error) {
	used := make(map[int]bool)

	recorded, err := s.workspaces.ListActivePorts(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing allocated ports: %w", err)
	}
	for _, port := range recorded {
		used[port] = true
	}

	published, err := s.containers.ListPublishedPorts(ctx)
	if err != nil {
		slog.WarnContext(ctx, "runtime port listing failed, using record-only accounting", "error", err)
	} else {
		for _, port := range published {
			used[port] = true
		}
	}

	for port := s.cfg.PortStart; port <= s.cfg.PortEnd; port++ {
		if !used[port] {
			return port, nil
		}
	}
	return 0, ErrPortsExhausted
}

func (s *workspaceService) Create(ctx context.Context, projectID, userID uuid.UUID, scope model.WorkspaceScope) (*model.Workspace, error) {
	sc := logger.StartSpan(ctx, "workspace.create")
	defer sc.End()
	ctx = sc.Context()

	port, err := s.allocatePort(ctx)
	if err != nil {
		return nil, err
	}

	ws := &model.Workspace{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Port:      port,
		Status:    model.WorkspaceStarting,
		Scope:     scope,
	}
	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("creating workspace record: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: logger.Ptr(ws.ID.String()),
		Component:   "devloft.workspace.orchestrator",
	})

	name := ws.ContainerName()
	spec := runtime.ContainerSpec{
		Name:          name,
		Image:         s.cfg.Image,
		HostPort:      port,
		ContainerPort: s.cfg.ContainerPort,
		VolumeName:    name,
		VolumeTarget:  "/config/workspace",
		Env: []string{
			"PUID=1000",
			"PGID=1000",
			"PASSWORD=",
			"CS_DISABLE_PROXY=1",
			"DEFAULT_WORKSPACE=/config/workspace",
		},
	}

	if err := s.startContainer(ctx, ws, spec); err != nil {
		sc.RecordError(err)
		return nil, err
	}

	slog.InfoContext(ctx, "workspace started", "port", port, "container", *ws.ContainerID)
	return ws, nil
}

// startContainer creates and starts the workspace container. Any failure
// after creation force-deletes the container and marks the record
// stopped before the error propagates, so a failed create never leaves
// an orphan holding the port.
func (s *workspaceService) startContainer(ctx context.Context, ws *model.Workspace, spec runtime.ContainerSpec) error {
	fail := func(cause error) error {
		if err := s.containers.StopAndRemove(ctx, spec.Name); err != nil {
			slog.WarnContext(ctx, "cleanup of failed workspace container failed", "error", err)
		}
		if err := s.workspaces.UpdateStatus(ctx, ws.ID, model.WorkspaceStopped, nil); err != nil {
			slog.ErrorContext(ctx, "marking failed workspace stopped", "error", err)
		}
		ws.Status = model.WorkspaceStopped
		return fmt.Errorf("%w: %s", ErrRuntimeFailure, cause)
	}

	if err := s.containers.CreateOrReplace(ctx, spec); err != nil {
		return fail(err)
	}
	if err := s.containers.Start(ctx, spec.Name); err != nil {
		return fail(err)
	}

	// Best-effort: without the shared network the passthrough proxy
	// cannot reach the container by name, but the workspace itself
	// works over its published port.
	attach := s.attachNetwork(ctx, spec.Name)
	if !attach.Succeeded() {
		slog.WarnContext(ctx, "workspace network connect failed", "error", attach.Err())
	}

	containerID, err := s.containers.RuntimeID(ctx, spec.Name)
	if err != nil {
		return fail(err)
	}

	if err := s.workspaces.UpdateStatus(ctx, ws.ID, model.WorkspaceRunning, &containerID); err != nil {
		return fail(err)
	}
	ws.Status = model.WorkspaceRunning
	ws.ContainerID = &containerID
	return nil
}

func (s *workspaceService) attachNetwork(ctx context.Context, name string) Outcome {
	if s.cfg.Network == "" {
		return OK()
	}
	if err := s.containers.ConnectNetwork(ctx, s.cfg.Network, name); err != nil {
		return NonCritical(err)
	}
	return OK()
}

func (s *workspaceService) Get(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	return s.workspaces.GetByID(ctx, id)
}

func (s *workspaceService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error) {
	return s.workspaces.ListByProject(ctx, projectID)
}

// Stop tears down a workspace. Runtime errors are logged, never fatal: a
// container that refuses to stop must not keep the record out of the
// stopped state, or the port leaks forever.
func (s *workspaceService) Stop(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	sc := logger.StartSpan(ctx, "workspace.stop")
	defer sc.End()
	ctx = sc.Context()

	ws, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: logger.Ptr(id.String()),
		Component:   "devloft.workspace.orchestrator",
	})

	if err := s.workspaces.UpdateStatus(ctx, id, model.WorkspaceStopping, ws.ContainerID); err != nil {
		return nil, fmt.Errorf("marking workspace stopping: %w", err)
	}

	if ws.ContainerID != nil {
		if err := s.containers.StopAndRemove(ctx, ws.ContainerName()); err != nil {
			slog.WarnContext(ctx, "workspace container teardown error", "error", err)
		} else {
			slog.InfoContext(ctx, "workspace stopped")
		}
	}

	if err := s.workspaces.UpdateStatus(ctx, id, model.WorkspaceStopped, nil); err != nil {
		return nil, fmt.Errorf("marking workspace stopped: %w", err)
	}
	ws.Status = model.WorkspaceStopped
	ws.ContainerID = nil
	return ws, nil
}

// Heartbeat refreshes last-activity. A missing record is a silent no-op:
// the client may legitimately race a sweep.
func (s *workspaceService) Heartbeat(ctx context.Context, id uuid.UUID) error {
	err := s.workspaces.TouchActivity(ctx, id, time.Now().UTC())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// CleanupIdle stops every running workspace idle beyond the configured
// timeout. One failing stop does not abort the sweep of the others.
func (s *workspaceService) CleanupIdle(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.IdleTimeout)
	idle, err := s.workspaces.ListIdleRunning(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("listing idle workspaces: %w", err)
	}

	for _, ws := range idle {
		if _, err := s.Stop(ctx, ws.ID); err != nil {
			slog.ErrorContext(ctx, "idle workspace stop failed",
				"workspace_id", ws.ID.String(), "error", err)
		}
	}
	return len(idle), nil
}
