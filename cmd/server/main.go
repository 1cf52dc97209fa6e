package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"devloft.app/server/common/auth"
	"devloft.app/server/common/embedding"
	"devloft.app/server/common/logger"
	"devloft.app/server/common/otel"
	"devloft.app/server/core/config"
	"devloft.app/server/core/db"
	"devloft.app/server/internal/bus"
	"devloft.app/server/internal/http/middleware"
	httprouter "devloft.app/server/internal/http/router"
	"devloft.app/server/internal/runtime"
	"devloft.app/server/internal/service"
	"devloft.app/server/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet, OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "devloft server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected")

	containers, err := runtime.NewDockerRuntime()
	if err != nil {
		slog.ErrorContext(ctx, "failed to create container runtime client", "error", err)
		os.Exit(1)
	}

	var embedder embedding.Client
	if cfg.Embedding.Enabled() {
		embedder = embedding.NewClient(embedding.Config{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
		})
		slog.InfoContext(ctx, "embeddings enabled", "model", cfg.Embedding.Model)
	} else {
		slog.InfoContext(ctx, "embeddings disabled (no endpoint configured)")
	}

	stores := store.NewStores(database.Pool())
	terminalBus := bus.NewRedisBus(redisClient)
	services := service.NewServices(stores, containers, terminalBus, embedder, cfg.Workspace)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	// No Read/WriteTimeout here: terminal WebSocket connections are
	// long-lived and would be killed by either.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Verifier:      auth.NewVerifier(cfg.Auth.JWTSecret),
		ContainerPort: cfg.Workspace.ContainerPort,
	})

	return router
}

const banner = `
██████╗ ███████╗██╗   ██╗██╗      ██████╗ ███████╗████████╗
██╔══██╗██╔════╝██║   ██║██║     ██╔═══██╗██╔════╝╚══██╔══╝
██║  ██║█████╗  ██║   ██║██║     ██║   ██║█████╗     ██║
██║  ██║██╔══╝  ╚██╗ ██╔╝██║     ██║   ██║██╔══╝     ██║
██████╔╝███████╗ ╚████╔╝ ███████╗╚██████╔╝██║        ██║
╚═════╝ ╚══════╝  ╚═══╝  ╚══════╝ ╚═════╝ ╚═╝        ╚═╝
`
