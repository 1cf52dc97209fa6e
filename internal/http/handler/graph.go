package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/http/dto"
	"devloft.app/server/internal/service"
)

type GraphHandler struct {
	graphService service.GraphService
}

func NewGraphHandler(graphService service.GraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

func (h *GraphHandler) Get(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	g, err := h.graphService.Build(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err, "failed to build dependency graph")
		return
	}

	c.JSON(http.StatusOK, dto.ToGraphResponse(g))
}

func (h *GraphHandler) Cycles(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	cycles, hasCycles, err := h.graphService.DetectCycles(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err, "failed to detect cycles")
		return
	}

	c.JSON(http.StatusOK, dto.CyclesResponse{Cycles: cycles, HasCycles: hasCycles})
}

func (h *GraphHandler) Impact(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathUUID(c, "componentID")
	if !ok {
		return
	}

	result, err := h.graphService.Impact(c.Request.Context(), projectID, componentID)
	if err != nil {
		respondServiceError(c, err, "failed to analyze impact")
		return
	}

	c.JSON(http.StatusOK, dto.ToImpactResponse(result))
}
