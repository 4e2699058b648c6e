package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	commandApp "watchfleet/internal/application/command"
	deviceApp "watchfleet/internal/application/device"
	projectApp "watchfleet/internal/application/project"
	settingApp "watchfleet/internal/application/setting"
	"watchfleet/internal/infrastructure/cache"
	"watchfleet/internal/infrastructure/config"
	"watchfleet/internal/infrastructure/database"
	"watchfleet/internal/infrastructure/migration"
	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/infrastructure/repository"
	"watchfleet/internal/infrastructure/scheduler"
	httpRouter "watchfleet/internal/interfaces/http"
	"watchfleet/internal/interfaces/http/handlers"
	"watchfleet/internal/interfaces/http/middleware"
	"watchfleet/internal/shared/biztime"
	"watchfleet/internal/shared/goroutine"
	"watchfleet/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the watchfleet HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, env == "development"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	biztime.MustInit("")

	log := logger.NewLogger()
	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// Repositories
	deviceRepo := repository.NewDeviceRepository(database.Get(), log)
	projectRepo := repository.NewProjectRepository(database.Get(), log)
	settingRepo := repository.NewSettingRepository(database.Get(), log)
	cacheRepo := repository.NewCacheRepository(database.Get(), log)

	// Vendor client
	tokens := miwi.NewTokenStore(cacheRepo, cfg.Vendor, log)
	vendorClient := miwi.NewClient(cfg.Vendor, tokens, log)

	// Optional redis-backed online cache
	var onlineCache *cache.OnlineStatusCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		onlineCache = cache.NewOnlineStatusCache(redisClient,
			time.Duration(cfg.Dispatch.OnlineTTL)*time.Second)
		log.Infow("online status cache enabled", "addr", cfg.Redis.GetAddr())
	}

	// Application services
	catalog := commandApp.NewCatalog(settingRepo)
	dispatcher := commandApp.NewDispatcher(vendorClient, deviceRepo, cfg.Dispatch, log)
	commandService := commandApp.NewService(catalog, dispatcher, log)
	reconciler := deviceApp.NewReconciler(deviceRepo, projectRepo, vendorClient, onlineCache, log)
	deviceService := deviceApp.NewService(deviceRepo, log)
	projectService := projectApp.NewService(projectRepo, vendorClient, log)
	settingService := settingApp.NewService(settingRepo, log)

	// Scheduler
	if cfg.Scheduler.Enabled {
		manager, err := scheduler.NewManager(log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		interval := time.Duration(cfg.Scheduler.ReconcileInterval) * time.Minute
		if err := manager.RegisterReconcileJob(reconciler, projectRepo, interval); err != nil {
			return fmt.Errorf("failed to register reconcile job: %w", err)
		}
		manager.Start()
		defer func() {
			if err := manager.Stop(); err != nil {
				log.Errorw("failed to stop scheduler", "error", err)
			}
		}()
	}

	// HTTP surface
	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, log)
	router := httpRouter.NewRouter(
		handlers.NewDeviceHandler(deviceService, log),
		handlers.NewTaskHandler(commandService, reconciler, log),
		handlers.NewGroupHandler(projectService, log),
		handlers.NewProjectHandler(projectService, log),
		handlers.NewSettingHandler(settingService, log),
		auth,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(&cfg.Server),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
