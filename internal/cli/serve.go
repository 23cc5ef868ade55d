package cli

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/merlai/merlai-api/internal/aimodels"
	"github.com/merlai/merlai-api/internal/api"
	"github.com/merlai/merlai-api/internal/config"
	"github.com/merlai/merlai-api/internal/database"
	"github.com/merlai/merlai-api/internal/metrics"
	"github.com/merlai/merlai-api/internal/music"
	"github.com/merlai/merlai-api/internal/observability"
	"github.com/merlai/merlai-api/internal/plugins"
)

const sentryFlushTimeout = 2 * time.Second

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides HOST)")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
}

func runServe() error {
	cfg := config.Load()
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	ctx := context.Background()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "merlai-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("Sentry not configured (SENTRY_DSN not set)")
	}

	// Langfuse tracing for model calls
	observability.InitializeLangfuse(ctx, cfg)

	// CloudWatch metrics (production only)
	cw, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("CloudWatch metrics disabled: %v", err)
	}

	// Database is optional; without DATABASE_URL generation logs are not
	// persisted.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to connect to database:", err)
	}

	registry := aimodels.NewManager()
	registry.SetObserver(observability.NewModelObserver(cw))
	restorePersistedModels(ctx, registry, cfg, db)
	registerDefaultModel(ctx, registry, cfg)

	generator := music.NewGenerator()
	if registry.Default() != "" {
		generator = generator.WithSource(registry)
	}

	pluginDirs := cfg.PluginDirectories
	if len(pluginDirs) == 0 {
		pluginDirs = plugins.DefaultDirectories()
	}
	pluginMgr := plugins.NewManager(pluginDirs...)
	pluginMgr.Scan()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Dependencies{
		DB:         db,
		Config:     cfg,
		Generator:  generator,
		Registry:   registry,
		Plugins:    pluginMgr,
		CloudWatch: cw,
		Version:    releaseVersion,
	})

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		sentry.CaptureException(err)
		return err
	}
	return nil
}

// restorePersistedModels re-registers models saved in a previous run.
// API keys are not persisted; they come from the environment.
func restorePersistedModels(ctx context.Context, registry *aimodels.Manager, cfg *config.Config, db *gorm.DB) {
	for _, saved := range database.LoadAIModelConfigs(db) {
		modelCfg := aimodels.ModelConfig{
			Name:     saved.Name,
			Type:     saved.Type,
			ModelID:  saved.ModelID,
			Endpoint: saved.Endpoint,
			Parameters: music.GenerationConfig{
				Temperature:       saved.Temperature,
				MaxLength:         saved.MaxLength,
				BatchSize:         music.DefaultGenerationConfig().BatchSize,
				TopP:              saved.TopP,
				TopK:              saved.TopK,
				RepetitionPenalty: saved.RepetitionPenalty,
			},
		}
		switch modelCfg.Type {
		case aimodels.TypeOpenAI:
			modelCfg.APIKey = cfg.OpenAIAPIKey
		case aimodels.TypeGemini:
			modelCfg.APIKey = cfg.GeminiAPIKey
		}

		if err := registry.Register(ctx, modelCfg); err != nil {
			log.Printf("Persisted model %q not restored: %v", saved.Name, err)
			continue
		}
		if saved.IsDefault {
			if err := registry.SetDefault(saved.Name); err != nil {
				log.Printf("Persisted default %q not set: %v", saved.Name, err)
			}
		}
	}
}

// registerDefaultModel wires the model named in the environment so the
// service can generate with AI out of the box.
func registerDefaultModel(ctx context.Context, registry *aimodels.Manager, cfg *config.Config) {
	if cfg.DefaultModelName == "" {
		return
	}
	if _, ok := registry.Get(cfg.DefaultModelName); ok {
		// Already restored from the database.
		if registry.Default() == "" {
			if err := registry.SetDefault(cfg.DefaultModelName); err != nil {
				log.Printf("Default model %q not set: %v", cfg.DefaultModelName, err)
			}
		}
		return
	}

	modelCfg := aimodels.ModelConfig{
		Name:       cfg.DefaultModelName,
		Type:       cfg.DefaultModelType,
		ModelID:    cfg.DefaultModelID,
		Endpoint:   cfg.ExternalModelURL,
		Parameters: music.DefaultGenerationConfig(),
	}
	switch modelCfg.Type {
	case aimodels.TypeOpenAI:
		modelCfg.APIKey = cfg.OpenAIAPIKey
	case aimodels.TypeGemini:
		modelCfg.APIKey = cfg.GeminiAPIKey
	}

	if err := registry.Register(ctx, modelCfg); err != nil {
		log.Printf("Default model %q not registered: %v", cfg.DefaultModelName, err)
		return
	}
	if err := registry.SetDefault(cfg.DefaultModelName); err != nil {
		log.Printf("Default model %q not set: %v", cfg.DefaultModelName, err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
