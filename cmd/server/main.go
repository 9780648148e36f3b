package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/cache"
	"github.com/SAP-F-2025/classification-service/internal/config"
	"github.com/SAP-F-2025/classification-service/internal/handlers"
	"github.com/SAP-F-2025/classification-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/classification-service/internal/services"
	"github.com/SAP-F-2025/classification-service/internal/utils"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/SAP-F-2025/classification-service/pkg"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("classification-service: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := utils.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}
	repo := postgres.NewRepository(db)

	if cfg.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
		if err := seed.Apply(ctx, repo, slogger); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
	}

	var shared cache.CacheService
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		// the in-process tier still serves; Redis only shares snapshots across replicas
		logger.Warn("Redis unavailable, framework cache runs in-process only", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		shared = cache.NewRedisCache(redisClient, cfg.CachePrefix, slogger)
	}

	frameworkCache, err := cache.NewFrameworkCache(shared, services.NewSnapshotLoader(repo), cache.FrameworkCacheConfig{
		MaxSize: cfg.CacheSize,
		TTL:     cfg.CacheTTL,
	}, slogger)
	if err != nil {
		return err
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()

	v := validator.New()
	serviceManager := services.NewServiceManager(services.ServiceDeps{
		Repo:      repo,
		Source:    frameworkCache,
		Publisher: publisher,
		Validator: v,
		Metrics:   services.DefaultMetrics(),
		Logger:    slogger,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))

	handlers.NewHandlerManager(serviceManager, v, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting classification service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down classification service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", utils.TenantHeader, utils.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{"Content-Length", "Content-Disposition", utils.RequestIDHeader}
	corsCfg.MaxAge = 12 * time.Hour
	return corsCfg
}
