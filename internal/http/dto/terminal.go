package dto

import (
	"time"

	"devloft.app/server/internal/model"
)

type CreateTerminalRequest struct {
	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=collaborative readonly"`
}

type SetTerminalModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=collaborative readonly"`
}

type TerminalSessionResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	TmuxSession string    `json:"tmux_session"`
	OwnerID     string    `json:"owner_id"`
	Mode        string    `json:"mode"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToTerminalSessionResponse(s *model.TerminalSession) *TerminalSessionResponse {
	return &TerminalSessionResponse{
		ID:          s.ID.String(),
		WorkspaceID: s.WorkspaceID.String(),
		TmuxSession: s.TmuxSession,
		OwnerID:     s.OwnerID.String(),
		Mode:        string(s.Mode),
		CreatedAt:   s.CreatedAt,
	}
}

type ListTerminalSessionsResponse struct {
	Sessions []TerminalSessionResponse `json:"sessions"`
}

func ToListTerminalSessionsResponse(sessions []model.TerminalSession) ListTerminalSessionsResponse {
	out := ListTerminalSessionsResponse{Sessions: make([]TerminalSessionResponse, len(sessions))}
	for i := range sessions {
		out.Sessions[i] = *ToTerminalSessionResponse(&sessions[i])
	}
	return out
}
