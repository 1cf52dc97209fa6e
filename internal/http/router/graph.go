package router

import (
	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/http/handler"
)

func GraphRouter(rg *gin.RouterGroup, h *handler.GraphHandler) {
	rg.GET("", h.Get)
	rg.GET("/cycles", h.Cycles)
	rg.GET("/:componentID/impact", h.Impact)
}
