package router

import (
	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/http/handler"
)

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler, th *handler.TerminalHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Stop)
	rg.POST("/:id/heartbeat", h.Heartbeat)

	rg.POST("/:id/terminals", th.Create)
	rg.GET("/:id/terminals", th.List)
	rg.PATCH("/:id/terminals/:terminalID", th.SetMode)
}
