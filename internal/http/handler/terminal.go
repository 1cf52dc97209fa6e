package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/http/dto"
	"devloft.app/server/internal/http/middleware"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/service"
)

type TerminalHandler struct {
	terminalService service.TerminalService
}

func NewTerminalHandler(terminalService service.TerminalService) *TerminalHandler {
	return &TerminalHandler{terminalService: terminalService}
}

func (h *TerminalHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	workspaceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.terminalService.CreateSession(ctx, workspaceID, middleware.UserID(c), model.TerminalMode(req.Mode))
	if err != nil {
		respondServiceError(c, err, "failed to create terminal session")
		return
	}

	slog.InfoContext(ctx, "terminal session created",
		"session_id", session.ID, "workspace_id", workspaceID, "tmux_session", session.TmuxSession)
	c.JSON(http.StatusCreated, dto.ToTerminalSessionResponse(session))
}

func (h *TerminalHandler) List(c *gin.Context) {
	workspaceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.terminalService.ListSessions(c.Request.Context(), workspaceID)
	if err != nil {
		respondServiceError(c, err, "failed to list terminal sessions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTerminalSessionsResponse(sessions))
}

func (h *TerminalHandler) SetMode(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := pathUUID(c, "terminalID")
	if !ok {
		return
	}

	var req dto.SetTerminalModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.terminalService.SetMode(ctx, sessionID, middleware.UserID(c), model.TerminalMode(req.Mode))
	if err != nil {
		respondServiceError(c, err, "failed to change terminal mode")
		return
	}

	slog.InfoContext(ctx, "terminal mode changed", "session_id", sessionID, "mode", session.Mode)
	c.JSON(http.StatusOK, dto.ToTerminalSessionResponse(session))
}
