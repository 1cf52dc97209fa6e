package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"devloft.app/server/common/logger"
	"devloft.app/server/common/otel"
	"devloft.app/server/core/config"
	"devloft.app/server/core/db"
	"devloft.app/server/internal/runtime"
	"devloft.app/server/internal/service"
	"devloft.app/server/internal/store"
	"devloft.app/server/internal/worker"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "devloft worker starting",
		"env", cfg.Env,
		"sweep_interval", cfg.Workspace.SweepInterval,
		"idle_timeout", cfg.Workspace.IdleTimeout)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	containers, err := runtime.NewDockerRuntime()
	if err != nil {
		slog.ErrorContext(ctx, "failed to create container runtime client", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Pool())
	workspaces := service.NewWorkspaceService(stores.Workspaces(), containers, cfg.Workspace)

	sweeper := worker.NewIdleSweeper(workspaces, worker.SweeperConfig{
		Interval: cfg.Workspace.SweepInterval,
	})

	go sweeper.Run(ctx)

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	sweeper.Stop()

	if telemetry != nil {
		if err := telemetry.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "shutdown complete")
}

const banner = `
██████╗ ███████╗██╗   ██╗██╗      ██████╗ ███████╗████████╗    ██╗    ██╗██╗  ██╗██████╗
██╔══██╗██╔════╝██║   ██║██║     ██╔═══██╗██╔════╝╚══██╔══╝    ██║    ██║██║ ██╔╝██╔══██╗
██║  ██║█████╗  ██║   ██║██║     ██║   ██║█████╗     ██║       ██║ █╗ ██║█████╔╝ ██████╔╝
██║  ██║██╔══╝  ╚██╗ ██╔╝██║     ██║   ██║██╔══╝     ██║       ██║███╗██║██╔═██╗ ██╔══██╗
██████╔╝███████╗ ╚████╔╝ ███████╗╚██████╔╝██║        ██║       ╚███╔███╔╝██║  ██╗██║  ██║
╚═════╝ ╚══════╝  ╚═══╝  ╚══════╝ ╚═════╝ ╚═╝        ╚═╝        ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝  ╚═╝
`
