package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merlai/merlai-api/internal/aimodels"
	"github.com/merlai/merlai-api/internal/plugins"
)

const serviceName = "Merlai Music Generation API"

type HealthHandler struct {
	registry *aimodels.Manager
	plugins  *plugins.Manager
	version  string
}

func NewHealthHandler(registry *aimodels.Manager, pluginMgr *plugins.Manager, version string) *HealthHandler {
	return &HealthHandler{registry: registry, plugins: pluginMgr, version: version}
}

// Root identifies the service.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": serviceName,
		"version": h.version,
		"docs":    "/api/v1",
	})
}

// HealthCheck reports liveness plus registry and plugin counts.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": serviceName,
	}
	if h.registry != nil {
		resp["ai_models"] = len(h.registry.List())
	}
	if h.plugins != nil {
		resp["plugins"] = len(h.plugins.List())
	}
	c.JSON(http.StatusOK, resp)
}

// Ready reports readiness. The rule-based engine needs no external
// resources, so the service is ready as soon as the router is up; the
// default AI model is included for operators.
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := gin.H{"status": "ready"}
	if h.registry != nil {
		if name := h.registry.Default(); name != "" {
			resp["default_model"] = name
		}
	}
	c.JSON(http.StatusOK, resp)
}
