package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/merlai/merlai-api/internal/plugins"
)

type PluginsHandler struct {
	manager *plugins.Manager
}

func NewPluginsHandler(manager *plugins.Manager) *PluginsHandler {
	return &PluginsHandler{manager: manager}
}

// List rescans the plugin directories and returns everything found.
func (h *PluginsHandler) List(c *gin.Context) {
	found := h.manager.Scan()
	c.JSON(http.StatusOK, gin.H{
		"plugins": found,
		"count":   len(found),
	})
}

// Recommend returns plugins matching a style and instrument type, best
// match first.
func (h *PluginsHandler) Recommend(c *gin.Context) {
	style := c.Query("style")
	instrument := c.Query("instrument")

	recommended := h.manager.Recommend(style, instrument)
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommended,
		"count":           len(recommended),
		"style":           style,
		"instrument":      instrument,
	})
}

// Get returns details for one plugin.
func (h *PluginsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	info, ok := h.manager.Info(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plugin " + name + " not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// Load marks a plugin as loaded so its parameters become addressable.
func (h *PluginsHandler) Load(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.Load(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plugin loaded", "name": name})
}

// Parameters returns the parameter set of a plugin. The plugin must be
// known; unloaded plugins report an empty set.
func (h *PluginsHandler) Parameters(c *gin.Context) {
	name := c.Param("name")
	if _, ok := h.manager.Info(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plugin " + name + " not found"})
		return
	}

	params := h.manager.Parameters(name)
	c.JSON(http.StatusOK, gin.H{
		"parameters": params,
		"count":      len(params),
		"loaded":     h.manager.IsLoaded(name),
	})
}

// SetParameter updates one parameter on a loaded plugin. The value comes
// from the value query parameter.
func (h *PluginsHandler) SetParameter(c *gin.Context) {
	name := c.Param("name")
	param := c.Param("param")

	raw := c.Query("value")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be a number"})
		return
	}

	if _, ok := h.manager.Info(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plugin " + name + " not found"})
		return
	}
	if err := h.manager.SetParameter(name, param, value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "parameter updated",
		"plugin":    name,
		"parameter": param,
		"value":     value,
	})
}

// Presets returns the presets of a plugin.
func (h *PluginsHandler) Presets(c *gin.Context) {
	name := c.Param("name")
	if _, ok := h.manager.Info(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plugin " + name + " not found"})
		return
	}

	presets := h.manager.Presets(name)
	c.JSON(http.StatusOK, gin.H{
		"presets": presets,
		"count":   len(presets),
	})
}
