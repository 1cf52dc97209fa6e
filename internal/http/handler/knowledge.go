package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/http/dto"
	"devloft.app/server/internal/service"
)

const defaultSearchLimit = 10

type KnowledgeHandler struct {
	knowledgeService service.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

func (h *KnowledgeHandler) CreateEntity(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.knowledgeService.CreateEntity(ctx, projectID, req.Name, req.EntityType, req.Description, req.Path)
	if err != nil {
		respondServiceError(c, err, "failed to create entity")
		return
	}

	slog.InfoContext(ctx, "knowledge entity created", "entity_id", entity.ID, "type", entity.EntityType)
	c.JSON(http.StatusCreated, dto.ToEntityResponse(entity))
}

func (h *KnowledgeHandler) ListEntities(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	entities, err := h.knowledgeService.ListEntities(c.Request.Context(), projectID, c.Query("entity_type"))
	if err != nil {
		respondServiceError(c, err, "failed to list entities")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntitiesResponse(entities))
}

func (h *KnowledgeHandler) UpdateEntity(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}
	entityID, ok := pathUUID(c, "entityID")
	if !ok {
		return
	}

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.knowledgeService.UpdateEntity(c.Request.Context(), projectID, entityID, req.Name, req.Description, req.Path)
	if err != nil {
		respondServiceError(c, err, "failed to update entity")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

func (h *KnowledgeHandler) DeleteEntity(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}
	entityID, ok := pathUUID(c, "entityID")
	if !ok {
		return
	}

	if err := h.knowledgeService.DeleteEntity(c.Request.Context(), projectID, entityID); err != nil {
		respondServiceError(c, err, "failed to delete entity")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *KnowledgeHandler) CreateRelation(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	var req dto.CreateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceID, err := parseUUIDField(c, req.SourceID, "source_id")
	if err != nil {
		return
	}
	targetID, err := parseUUIDField(c, req.TargetID, "target_id")
	if err != nil {
		return
	}

	relation, err := h.knowledgeService.CreateRelation(ctx, projectID, sourceID, targetID, req.RelationType, req.Weight)
	if err != nil {
		respondServiceError(c, err, "failed to create relation")
		return
	}

	c.JSON(http.StatusCreated, dto.ToRelationResponse(relation))
}

func (h *KnowledgeHandler) ListRelations(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	relations, err := h.knowledgeService.ListRelations(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err, "failed to list relations")
		return
	}

	c.JSON(http.StatusOK, dto.ToListRelationsResponse(relations))
}

func (h *KnowledgeHandler) Traverse(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	var req struct {
		StartID       string   `json:"start_id" binding:"required,uuid"`
		MaxDepth      int      `json:"max_depth,omitempty" binding:"omitempty,gte=1,lte=10"`
		RelationTypes []string `json:"relation_types,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startID, err := parseUUIDField(c, req.StartID, "start_id")
	if err != nil {
		return
	}

	maxDepth := req.MaxDepth
	if maxDepth == 0 {
		maxDepth = 2
	}

	result, err := h.knowledgeService.Traverse(c.Request.Context(), projectID, startID, maxDepth, req.RelationTypes)
	if err != nil {
		respondServiceError(c, err, "failed to traverse knowledge graph")
		return
	}

	c.JSON(http.StatusOK, dto.ToTraversalResponse(result))
}

func (h *KnowledgeHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	entities, err := h.knowledgeService.Search(ctx, projectID, req.Query, req.EntityType, limit)
	if err != nil {
		respondServiceError(c, err, "failed to search knowledge")
		return
	}

	slog.DebugContext(ctx, "semantic search", "results", len(entities))
	c.JSON(http.StatusOK, dto.ToListEntitiesResponse(entities))
}
