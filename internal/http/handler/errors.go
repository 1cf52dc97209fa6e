package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/service"
	"devloft.app/server/internal/store"
)

// respondServiceError maps the service layer's sentinel errors onto HTTP
// statuses. Anything unmapped is logged and reported as a 500 with the
// caller-supplied fallback message, never the raw error.
func respondServiceError(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace state"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, service.ErrPortsExhausted):
		slog.WarnContext(ctx, "port range exhausted")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no workspace capacity available"})
	case errors.Is(err, service.ErrEmbeddingUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "semantic search unavailable"})
	case errors.Is(err, service.ErrRuntimeFailure):
		slog.ErrorContext(ctx, "container runtime failure", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "workspace runtime unavailable"})
	default:
		slog.ErrorContext(ctx, fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
