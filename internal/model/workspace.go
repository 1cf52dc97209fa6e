package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkspaceStatus is the lifecycle state of a workspace container.
// Transitions are monotonic: starting → running → stopping → stopped.
// A stopped workspace is never restarted; a new record is created instead.
type WorkspaceStatus string

const (
	WorkspaceStarting WorkspaceStatus = "starting"
	WorkspaceRunning  WorkspaceStatus = "running"
	WorkspaceStopping WorkspaceStatus = "stopping"
	WorkspaceStopped  WorkspaceStatus = "stopped"
)

// WorkspaceScope controls whether the sandbox is shared per project or
// private per user.
type WorkspaceScope string

const (
	ScopeProject WorkspaceScope = "project"
	ScopeUser    WorkspaceScope = "user"
)

// Workspace is one sandboxed development container with a persistent
// volume and a published host port. The unguessable id doubles as the
// container and volume name suffix.
type Workspace struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	UserID       uuid.UUID
	ContainerID  *string
	Port         int
	Status       WorkspaceStatus
	Scope        WorkspaceScope
	LastActivity time.Time
	CreatedAt    time.Time
}

// ContainerName returns the deterministic container (and volume) name
// for this workspace.
func (w *Workspace) ContainerName() string {
	return fmt.Sprintf("devloft-ws-%s", w.ID)
}
