package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"takeoff/collections"
	"takeoff/commands"
	"takeoff/config"
	"takeoff/handlers"
	"takeoff/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.NewLogger(cfg.Logging())
	if err != nil {
		logger = logging.NewDefaultLogger()
		logger.Warn("Invalid logging configuration, using defaults", zap.Error(err))
	}
	defer logger.Sync()

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewTakeoffCommand(cfg, logger))

	deps, err := handlers.NewDeps(app, cfg, logger)
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Create collections and seed type codes on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return err
		}
		if err := collections.SeedTypeCodes(app, logger); err != nil {
			logger.Warn("Seeding type codes failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestLogger(logger))

		se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(deps))
		se.Router.POST("/projects", handlers.HandleProjectCreate(deps))

		// ── Project-scoped routes ────────────────────────────────
		project := se.Router.Group("/projects/{projectId}")
		project.BindFunc(handlers.ProjectMiddleware(deps))

		project.GET("/models", handlers.HandleModelList(deps))
		project.POST("/models", handlers.HandleModelUpload(deps)).Bind(apis.BodyLimit(cfg.MaxUploadBytes()))
		project.DELETE("/models/{id}", handlers.HandleModelDelete(deps))

		project.GET("/quantities", handlers.HandleQuantityPage(deps))
		project.GET("/quantities/export/{format}", handlers.HandleQuantityExport(deps))
		project.GET("/walls/export/{format}", handlers.HandleWallExport(deps))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("App stopped", zap.Error(err))
	}
}
