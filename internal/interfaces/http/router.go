// Package http wires the gin engine: middleware, routes and handlers.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"watchfleet/internal/interfaces/http/handlers"
	"watchfleet/internal/interfaces/http/middleware"
	"watchfleet/internal/shared/config"
	"watchfleet/internal/shared/logger"
)

// Router assembles the HTTP surface from its handlers.
type Router struct {
	devices  *handlers.DeviceHandler
	tasks    *handlers.TaskHandler
	groups   *handlers.GroupHandler
	projects *handlers.ProjectHandler
	settings *handlers.SettingHandler
	auth     *middleware.AuthMiddleware
	logger   logger.Interface
}

// NewRouter creates a router over the given handlers.
func NewRouter(
	devices *handlers.DeviceHandler,
	tasks *handlers.TaskHandler,
	groups *handlers.GroupHandler,
	projects *handlers.ProjectHandler,
	settings *handlers.SettingHandler,
	auth *middleware.AuthMiddleware,
	log logger.Interface,
) *Router {
	return &Router{
		devices:  devices,
		tasks:    tasks,
		groups:   groups,
		projects: projects,
		settings: settings,
		auth:     auth,
		logger:   log,
	}
}

// Engine builds the gin engine with middleware and all routes registered.
func (r *Router) Engine(cfg *config.ServerConfig) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Logger(r.logger))
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CORS(nil))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.Use(r.auth.RequireAuth())

	devices := api.Group("/devices")
	{
		devices.POST("/task/check-online", r.tasks.CheckOnline)
		devices.POST("/task/:operation/:imei", r.tasks.Run)
		devices.POST("/batch", r.tasks.RunBatch)
		devices.POST("/reconcile/:project", r.tasks.Reconcile)
		devices.POST("/sync-group/:project", r.tasks.SyncGroup)
		devices.GET("/update-iccid", r.tasks.UpdateICCID)
		devices.POST("/save/:project", r.devices.Save)
		devices.GET("/:project", r.devices.List)
		devices.POST("/:project", r.devices.List)
	}

	groups := api.Group("/groups")
	{
		groups.GET("", r.groups.List)
		groups.POST("/create", r.groups.Create)
		groups.DELETE("/:gid", r.groups.Delete)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", r.projects.List)
		projects.POST("/save", r.projects.Save)
		projects.DELETE("/:name", r.projects.Delete)
	}

	settings := api.Group("/settings")
	{
		settings.POST("/save", r.settings.Save)
		settings.GET("/:project", r.settings.List)
	}

	return engine
}
