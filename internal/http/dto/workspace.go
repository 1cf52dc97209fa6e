package dto

import (
	"time"

	"devloft.app/server/internal/model"
)

type CreateWorkspaceRequest struct {
	Scope string `json:"scope,omitempty" binding:"omitempty,oneof=project user"`
}

type WorkspaceResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	UserID       string    `json:"user_id"`
	ContainerID  *string   `json:"container_id,omitempty"`
	Port         int       `json:"port"`
	Status       string    `json:"status"`
	Scope        string    `json:"scope"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToWorkspaceResponse(w *model.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:           w.ID.String(),
		ProjectID:    w.ProjectID.String(),
		UserID:       w.UserID.String(),
		ContainerID:  w.ContainerID,
		Port:         w.Port,
		Status:       string(w.Status),
		Scope:        string(w.Scope),
		LastActivity: w.LastActivity,
		CreatedAt:    w.CreatedAt,
	}
}

type ListWorkspacesResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
}

func ToListWorkspacesResponse(workspaces []model.Workspace) ListWorkspacesResponse {
	out := ListWorkspacesResponse{Workspaces: make([]WorkspaceResponse, len(workspaces))}
	for i := range workspaces {
		out.Workspaces[i] = *ToWorkspaceResponse(&workspaces[i])
	}
	return out
}
