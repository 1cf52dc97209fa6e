package model

import (
	"time"

	"github.com/google/uuid"
)

// TerminalMode controls who may type into a session.
type TerminalMode string

const (
	// ModeCollaborative lets any connected user send input.
	ModeCollaborative TerminalMode = "collaborative"

	// ModeReadonly restricts input to the session owner; input from
	// anyone else is silently dropped.
	ModeReadonly TerminalMode = "readonly"
)

// TerminalSession is one named persistent tmux session inside a
// workspace container. TmuxSession is unique per container. Sessions
// are never deleted directly; they go away with the workspace.
type TerminalSession struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	TmuxSession string
	OwnerID     uuid.UUID
	Mode        TerminalMode
	CreatedAt   time.Time
}
