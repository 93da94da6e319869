package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/cache"
	"github.com/alpha-aviation/enrollment-service/internal/config"
	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/handlers"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/cached"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/datastore"
	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
	"github.com/alpha-aviation/enrollment-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Pick the store once; a failed connect pins the process to fixture data.
	store := datastore.Open(context.Background(), cfg, slogLogger)

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	var cacheManager *cache.CacheManager
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(context.Background(), cfg)
		if err != nil {
			slogLogger.Warn("Failed to initialize Redis, continuing without cache", "error", err)
			redisClient = nil
		} else {
			cacheManager = cache.NewCacheManager(redisClient)
		}
	}
	if store.Mode() == repositories.ModeDatabase {
		store = cached.Wrap(store, redisClient)
	}

	publisher, err := events.NewPublisher(cfg.Events, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	deps := services.Dependencies{
		Store:     store,
		Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		Publisher: publisher,
		Cache:     cacheManager,
		Logger:    slogLogger,
		Validator: validator.New(),
	}
	if gateway := services.NewSnapGateway(cfg.Midtrans); gateway != nil {
		deps.Gateway = gateway
	}

	// Initialize services
	serviceManager := services.NewServiceManager(deps)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.AllowedOrigins, cfg.IsProduction())
	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "mode", store.Mode())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Closes the event publisher
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if err := store.Close(); err != nil {
		logger.Error("Failed to close store", "error", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
