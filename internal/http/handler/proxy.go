package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"

	"devloft.app/server/internal/model"
	"devloft.app/server/internal/service"
)

// ProxyHandler relays HTTP traffic to a workspace container over the
// shared network, addressing it by container name. httputil.ReverseProxy
// handles hop-by-hop header stripping and streaming.
type ProxyHandler struct {
	workspaceService service.WorkspaceService
	containerPort    int
}

func NewProxyHandler(workspaceService service.WorkspaceService, containerPort int) *ProxyHandler {
	return &ProxyHandler{workspaceService: workspaceService, containerPort: containerPort}
}

func (h *ProxyHandler) Relay(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ws, err := h.workspaceService.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err, "failed to resolve workspace")
		return
	}
	if ws.Status != model.WorkspaceRunning {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace not running"})
		return
	}

	target := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", ws.ContainerName(), h.containerPort),
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = c.Param("path")
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.WarnContext(ctx, "workspace proxy error", "workspace_id", id, "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	proxy.ServeHTTP(c.Writer, c.Request)
}
