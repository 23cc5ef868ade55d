package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/merlai/merlai-api/internal/aimodels"
	"github.com/merlai/merlai-api/internal/api/handlers"
	"github.com/merlai/merlai-api/internal/api/middleware"
	"github.com/merlai/merlai-api/internal/config"
	"github.com/merlai/merlai-api/internal/metrics"
	"github.com/merlai/merlai-api/internal/music"
	"github.com/merlai/merlai-api/internal/plugins"
)

// Dependencies carries the shared services the router wires into handlers.
type Dependencies struct {
	DB         *gorm.DB
	Config     *config.Config
	Generator  *music.Generator
	Registry   *aimodels.Manager
	Plugins    *plugins.Manager
	CloudWatch *metrics.Client
	Version    string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(middleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(middleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(middleware.RequestTracking(deps.CloudWatch))

	// CORS middleware
	router.Use(middleware.CORS())

	// Health and readiness
	healthHandler := handlers.NewHealthHandler(deps.Registry, deps.Plugins, deps.Version)
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.Ready)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(deps.Version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	auth := middleware.NoAuth()
	if deps.Config != nil && deps.Config.IsGatewayMode() {
		auth = middleware.GatewayAuth()
	}

	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		// Music generation
		generateHandler := handlers.NewGenerateHandler(deps.Generator, deps.Registry, deps.DB, deps.CloudWatch)
		v1.POST("/generate", generateHandler.Generate)

		// Sampling parameters
		configHandler := handlers.NewConfigHandler(deps.Generator)
		v1.GET("/config", configHandler.Get)
		v1.POST("/config", configHandler.Update)

		// AI model registry and direct AI generation
		modelsHandler := handlers.NewModelsHandler(deps.Registry, deps.Config, deps.DB)
		v1.POST("/ai/models/register", modelsHandler.Register)
		v1.GET("/ai/models", modelsHandler.List)
		v1.GET("/ai/models/:name", modelsHandler.Get)
		v1.POST("/ai/models/:name/set-default", modelsHandler.SetDefault)
		v1.DELETE("/ai/models/:name", modelsHandler.Remove)
		v1.POST("/ai/generate/harmony", modelsHandler.GenerateHarmony)
		v1.POST("/ai/generate/bass", modelsHandler.GenerateBass)
		v1.POST("/ai/generate/drums", modelsHandler.GenerateDrums)

		// Plugin management
		pluginsHandler := handlers.NewPluginsHandler(deps.Plugins)
		v1.GET("/plugins", pluginsHandler.List)
		v1.GET("/plugins/recommendations", pluginsHandler.Recommend)
		v1.GET("/plugins/:name", pluginsHandler.Get)
		v1.POST("/plugins/:name/load", pluginsHandler.Load)
		v1.GET("/plugins/:name/parameters", pluginsHandler.Parameters)
		v1.POST("/plugins/:name/parameters/:param", pluginsHandler.SetParameter)
		v1.GET("/plugins/:name/presets", pluginsHandler.Presets)
	}

	return router
}
