package router

import (
	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/http/handler"
)

func KnowledgeRouter(rg *gin.RouterGroup, h *handler.KnowledgeHandler) {
	rg.POST("/entities", h.CreateEntity)
	rg.GET("/entities", h.ListEntities)
	rg.PATCH("/entities/:entityID", h.UpdateEntity)
	rg.DELETE("/entities/:entityID", h.DeleteEntity)

	rg.POST("/relations", h.CreateRelation)
	rg.GET("/relations", h.ListRelations)

	rg.POST("/traverse", h.Traverse)
	rg.POST("/search", h.Search)
}
