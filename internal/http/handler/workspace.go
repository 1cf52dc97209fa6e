package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devloft.app/server/internal/http/dto"
	"devloft.app/server/internal/http/middleware"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/service"
)

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

func NewWorkspaceHandler(workspaceService service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := model.WorkspaceScope(req.Scope)
	if scope == "" {
		scope = model.ScopeProject
	}

	ws, err := h.workspaceService.Create(ctx, projectID, middleware.UserID(c), scope)
	if err != nil {
		respondServiceError(c, err, "failed to create workspace")
		return
	}

	slog.InfoContext(ctx, "workspace created", "workspace_id", ws.ID, "project_id", projectID)
	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	workspaces, err := h.workspaceService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err, "failed to list workspaces")
		return
	}

	c.JSON(http.StatusOK, dto.ToListWorkspacesResponse(workspaces))
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ws, err := h.workspaceService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "failed to get workspace")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) Stop(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ws, err := h.workspaceService.Stop(ctx, id)
	if err != nil {
		respondServiceError(c, err, "failed to stop workspace")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) Heartbeat(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.workspaceService.Heartbeat(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "failed to record heartbeat")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathUUID parses a path parameter as a UUID, responding 400 itself on
// failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDField parses a UUID carried in a request body field. The
// binding layer already checked the format; this guards against callers
// constructed outside gin binding.
func parseUUIDField(c *gin.Context, value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, err
	}
	return id, nil
}
