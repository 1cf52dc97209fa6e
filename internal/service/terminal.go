package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"devloft.app/server/common/logger"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/runtime"
	"devloft.app/server/internal/store"
)

// Initial geometry for new tmux sessions. Clients resize on attach; this
// only needs to be wide enough that early output doesn't wrap badly.
const (
	tmuxWidth  = "200"
	tmuxHeight = "50"
)

// capture-pane scrollback window, in lines above the visible pane.
const captureScrollback = "-100"

// TerminalService creates and routes input/output to named tmux sessions
// inside a running workspace's container. All container interaction goes
// through the runtime's exec primitive; the container needs no terminal
// protocol of its own.
type TerminalService interface {
	CreateSession(ctx context.Context, workspaceID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error)
	ListSessions(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error)
	SetMode(ctx context.Context, sessionID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error)
	SendInput(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace, data string, userID uuid.UUID) error
	ReadOutput(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace) (string, error)
}

type terminalService struct {
	terminals  store.TerminalStore
	workspaces store.WorkspaceStore
	containers runtime.ContainerRuntime
}

func NewTerminalService(terminals store.TerminalStore, workspaces store.WorkspaceStore, containers runtime.ContainerRuntime) TerminalService {
	return &terminalService{
		terminals:  terminals,
		workspaces: workspaces,
		containers: containers,
	}
}

func (s *terminalService) CreateSession(ctx context.Context, workspaceID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error) {
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace.Status != model.WorkspaceRunning {
		return nil, ErrInvalidState
	}

	if mode == "" {
		mode = model.ModeCollaborative
	}

	sessionID := uuid.New()
	tmuxName := "term-" + strings.ReplaceAll(sessionID.String(), "-", "")[:8]

	_, err = s.containers.Exec(ctx, workspace.ContainerName(),
		[]string{"tmux", "new-session", "-d", "-s", tmuxName, "-x", tmuxWidth, "-y", tmuxHeight})
	if err != nil {
		return nil, fmt.Errorf("creating tmux session: %w", err)
	}

	session := &model.TerminalSession{
		ID:          sessionID,
		WorkspaceID: workspaceID,
		TmuxSession: tmuxName,
		OwnerID:     userID,
		Mode:        mode,
	}
	if err := s.terminals.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating terminal session record: %w", err)
	}

	slog.InfoContext(ctx, "terminal session created",
		"session_id", sessionID.String(),
		"workspace_id", workspaceID.String(),
		"tmux", tmuxName)
	return session, nil
}

func (s *terminalService) GetSession(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error) {
	return s.terminals.GetByID(ctx, id)
}

func (s *terminalService) ListSessions(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error) {
	return s.terminals.ListByWorkspace(ctx, workspaceID)
}

func (s *terminalService) SetMode(ctx context.Context, sessionID, userID uuid.UUID, mode model.TerminalMode) (*model.TerminalSession, error) {
	session, err := s.terminals.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != userID {
		return nil, ErrPermissionDenied
	}
	if err := s.terminals.UpdateMode(ctx, sessionID, mode); err != nil {
		return nil, err
	}
	session.Mode = mode
	return session, nil
}

// SendInput forwards keystrokes to the tmux session. A non-owner typing
// into a readonly session is silently dropped: viewers of a readonly
// session simply cannot affect it, and that is not an error.
func (s *terminalService) SendInput(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace, data string, userID uuid.UUID) error {
	if session.Mode == model.ModeReadonly && session.OwnerID != userID {
		return nil
	}
	slog.DebugContext(ctx, "terminal input",
		"tmux_session", session.TmuxSession, "data", logger.Truncate(data, 64))
	_, err := s.containers.Exec(ctx, workspace.ContainerName(),
		[]string{"tmux", "send-keys", "-t", session.TmuxSession, data})
	if err != nil {
		return fmt.Errorf("sending terminal input: %w", err)
	}
	return nil
}

// ReadOutput captures the session's pane content including a bounded
// scrollback window. The result is a complete snapshot, not a diff.
func (s *terminalService) ReadOutput(ctx context.Context, session *model.TerminalSession, workspace *model.Workspace) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: logger.Ptr(session.ID.String()),
	})
	output, err := s.containers.Exec(ctx, workspace.ContainerName(),
		[]string{"tmux", "capture-pane", "-t", session.TmuxSession, "-p", "-S", captureScrollback})
	if err != nil {
		return "", fmt.Errorf("capturing terminal output: %w", err)
	}
	return output, nil
}
