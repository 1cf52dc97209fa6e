package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"devloft.app/server/common/auth"
	"devloft.app/server/common/logger"
	"devloft.app/server/internal/bus"
	"devloft.app/server/internal/model"
	"devloft.app/server/internal/service"
	"devloft.app/server/internal/store"
)

// Application close codes sent before the handshake-level close.
const (
	closeUnauthorized = 4001
	closeNotFound     = 4004
)

const outputPollInterval = 200 * time.Millisecond

var terminalUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Token auth is the access control; the page origin is not.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TerminalBridge attaches browser WebSocket clients to a terminal
// session. Each connection runs an output poller and a bus listener
// alongside the input read loop; all three stop together when the
// connection context is cancelled.
type TerminalBridge struct {
	terminalService  service.TerminalService
	workspaceService service.WorkspaceService
	bus              bus.Bus
	verifier         *auth.Verifier
}

func NewTerminalBridge(terminalService service.TerminalService, workspaceService service.WorkspaceService, b bus.Bus, verifier *auth.Verifier) *TerminalBridge {
	return &TerminalBridge{
		terminalService:  terminalService,
		workspaceService: workspaceService,
		bus:              b,
		verifier:         verifier,
	}
}

// wsConn serializes writes; gorilla allows one concurrent writer and we
// have three (snapshot, poller feedback via bus, listener).
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) writeText(payload string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, []byte(payload))
}

func (w *wsConn) closeWith(code int, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = w.conn.Close()
}

func (b *TerminalBridge) Attach(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	// Auth happens after the upgrade so the client receives a proper
	// close code instead of a failed handshake it cannot inspect.
	raw, err := terminalUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}
	conn := &wsConn{conn: raw}

	userID, err := b.verifier.Verify(c.Query("token"))
	if err != nil {
		conn.closeWith(closeUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: logger.Ptr(sessionID.String()),
		UserID:    logger.Ptr(userID.String()),
		Component: "devloft.terminal.bridge",
	})

	session, workspace, err := b.loadAttachTargets(ctx, sessionID)
	if err != nil {
		conn.closeWith(closeNotFound, "session not found")
		return
	}

	// Initial snapshot so the client renders without waiting a poll
	// cycle. The poller starts from it so an unchanged pane is not
	// re-published on the first tick.
	initial, err := b.terminalService.ReadOutput(ctx, session, workspace)
	if err == nil {
		if err := conn.writeText(initial); err != nil {
			return
		}
	}

	sub, err := b.bus.Subscribe(ctx, bus.TerminalChannel(sessionID.String()))
	if err != nil {
		slog.ErrorContext(ctx, "terminal channel subscribe failed", "error", err)
		conn.closeWith(websocket.CloseInternalServerErr, "subscribe failed")
		return
	}
	defer sub.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.pollOutput(ctx, cancel, sessionID, initial)
	}()
	go func() {
		defer wg.Done()
		b.forwardBus(ctx, conn, sub)
	}()

	b.readInput(ctx, conn, raw, sessionID, userID)

	cancel()
	wg.Wait()
	_ = raw.Close()
}

func (b *TerminalBridge) loadAttachTargets(ctx context.Context, sessionID uuid.UUID) (*model.TerminalSession, *model.Workspace, error) {
	session, err := b.terminalService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	workspace, err := b.workspaceService.Get(ctx, session.WorkspaceID)
	if err != nil {
		return nil, nil, err
	}
	if workspace.Status != model.WorkspaceRunning {
		return nil, nil, service.ErrInvalidState
	}
	return session, workspace, nil
}

// pollOutput captures the pane every tick and publishes to the session
// channel only when the snapshot changed since the previous tick. The
// session and workspace are re-read each tick so the poller stops when
// either goes away.
func (b *TerminalBridge) pollOutput(ctx context.Context, cancel context.CancelFunc, sessionID uuid.UUID, last string) {
	ticker := time.NewTicker(outputPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		session, workspace, err := b.loadAttachTargets(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.InfoContext(ctx, "terminal poller stopping", "reason", err)
			}
			cancel()
			return
		}

		snapshot, err := b.terminalService.ReadOutput(ctx, session, workspace)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.WarnContext(ctx, "terminal capture failed", "error", err)
			}
			cancel()
			return
		}

		if snapshot == last {
			continue
		}
		last = snapshot

		if err := b.bus.Publish(ctx, bus.TerminalChannel(sessionID.String()), snapshot); err != nil {
			slog.WarnContext(ctx, "terminal output publish failed", "error", err)
		}
	}
}

// forwardBus copies published snapshots to this viewer's socket.
func (b *TerminalBridge) forwardBus(ctx context.Context, conn *wsConn, sub bus.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-sub.Messages():
			if !ok {
				return
			}
			if err := conn.writeText(payload); err != nil {
				return
			}
		}
	}
}

// readInput is the connection's main loop: each text frame is keystroke
// data for the session. Session and workspace are re-read per frame so
// mode changes and workspace stops take effect immediately.
func (b *TerminalBridge) readInput(ctx context.Context, conn *wsConn, raw *websocket.Conn, sessionID, userID uuid.UUID) {
	for {
		msgType, data, err := raw.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		session, workspace, err := b.loadAttachTargets(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, service.ErrInvalidState) {
				conn.closeWith(closeNotFound, "session gone")
			}
			return
		}

		if err := b.terminalService.SendInput(ctx, session, workspace, string(data), userID); err != nil {
			slog.WarnContext(ctx, "terminal input failed", "error", err)
		}
	}
}
