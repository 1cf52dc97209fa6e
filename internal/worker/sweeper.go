// Package worker hosts the background loops owned by cmd/worker.
package worker

import (
	"context"
	"log/slog"
	"time"

	"devloft.app/server/common/logger"
	"devloft.app/server/internal/service"
)

type SweeperConfig struct {
	Interval time.Duration
}

// IdleSweeper periodically reclaims workspaces whose last heartbeat is
// older than the configured idle timeout. The safety net for clients
// that disappear without stopping their workspace.
type IdleSweeper struct {
	workspaces service.WorkspaceService
	cfg        SweeperConfig

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewIdleSweeper(workspaces service.WorkspaceService, cfg SweeperConfig) *IdleSweeper {
	return &IdleSweeper{
		workspaces: workspaces,
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		stoppedCh:  make(chan struct{}),
	}
}

// Run starts the sweep loop. Blocks until Stop() is called or the
// context is cancelled.
func (s *IdleSweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "devloft.worker.sweeper",
	})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "idle sweeper started", "interval", s.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "idle sweeper stopping")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

// Stop signals the sweeper to stop gracefully.
func (s *IdleSweeper) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

func (s *IdleSweeper) sweepOnce(ctx context.Context) {
	start := time.Now()
	reclaimed, err := s.workspaces.CleanupIdle(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "sweep cycle error", "error", err)
		return
	}
	if reclaimed > 0 {
		slog.InfoContext(ctx, "idle workspaces reclaimed",
			"count", reclaimed,
			"duration_ms", time.Since(start).Milliseconds())
	}
}
