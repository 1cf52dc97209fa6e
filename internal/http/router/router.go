package router

import (
	"github.com/gin-gonic/gin"

	"devloft.app/server/common/auth"
	"devloft.app/server/internal/http/handler"
	"devloft.app/server/internal/http/middleware"
	"devloft.app/server/internal/service"
)

type RouterConfig struct {
	Verifier      *auth.Verifier
	ContainerPort int
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	bridge := handler.NewTerminalBridge(services.Terminals(), services.Workspaces(), services.Bus(), cfg.Verifier)
	// The bridge authenticates its own query token and speaks close
	// codes, so it sits outside the bearer middleware.
	router.GET("/ws/terminal/:sessionID", bridge.Attach)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(cfg.Verifier))
	{
		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces())
		terminalHandler := handler.NewTerminalHandler(services.Terminals())
		proxyHandler := handler.NewProxyHandler(services.Workspaces(), cfg.ContainerPort)
		graphHandler := handler.NewGraphHandler(services.Graph())
		knowledgeHandler := handler.NewKnowledgeHandler(services.Knowledge())

		projects := v1.Group("/projects/:projectID")
		WorkspaceRouter(projects.Group("/workspaces"), workspaceHandler, terminalHandler)
		GraphRouter(projects.Group("/dependencies"), graphHandler)
		KnowledgeRouter(projects.Group("/knowledge"), knowledgeHandler)

		v1.Any("/workspaces/:id/proxy/*path", proxyHandler.Relay)
	}
}
