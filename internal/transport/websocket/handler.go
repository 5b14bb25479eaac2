package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/domain"
	"github.com/iamasit07/connect4-replay/internal/service/game"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	requestLimit = 10 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
	logger         *zap.Logger
}

// NewHandler accepts connections with no Origin header or one from allowedOrigins.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, allowedOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// HandleWebSocket is the gin handler that upgrades the connection
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade error", zap.Error(err))
		return
	}

	h.handleConnection(conn)
}

// handleConnection serves one socket. Messages are processed in order, one
// at a time.
func (h *Handler) handleConnection(conn *websocket.Conn) {
	connID := uuid.NewString()
	logger := h.logger.With(zap.String("conn_id", connID))

	h.ConnManager.AddConnection(connID, conn)
	logger.Info("connection opened")

	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.RemoveConnection(connID)
		logger.Info("connection closed")
	}()

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ConnManager.Ping(connID); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("unexpected disconnect", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.send(logger, connID, errorMessage(domain.CodeInvalidRequest, "invalid message format"))
			continue
		}

		h.send(logger, connID, h.processMessage(logger, msg))
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(logger *zap.Logger, msg ClientMessage) ServerMessage {
	ctx, cancel := context.WithTimeout(context.Background(), requestLimit)
	defer cancel()

	switch msg.Type {
	case TypeNewGame:
		if msg.PlayerID < 1 {
			return errorMessage(domain.CodeInvalidRequest, "playerId must be at least 1")
		}
		snap, err := h.SessionManager.CreateSession(ctx, msg.PlayerID)
		if err != nil {
			return h.failure(logger, err)
		}
		return ServerMessage{
			Type:   TypeGameCreated,
			GameID: snap.GameID,
			Board:  &snap.Board,
			Status: snap.Status,
		}

	case TypeMakeMove:
		if msg.GameID < 1 || msg.Column == nil {
			return errorMessage(domain.CodeInvalidRequest, "gameId and column are required")
		}
		result, err := h.SessionManager.SubmitMove(ctx, msg.GameID, *msg.Column)
		if err != nil {
			return h.failure(logger, err)
		}
		return ServerMessage{
			Type:         TypeTurnResult,
			GameID:       msg.GameID,
			Board:        &result.Board,
			Status:       result.Status,
			HumanMove:    &result.HumanMove,
			OpponentMove: result.OpponentMove,
		}
	}

	return errorMessage(domain.CodeInvalidRequest, "unknown message type "+msg.Type)
}

func (h *Handler) failure(logger *zap.Logger, err error) ServerMessage {
	code := domain.ErrorCode(err)
	if code == domain.CodeInternal {
		logger.Error("request failed", zap.Error(err))
		return errorMessage(code, "internal server error")
	}
	return errorMessage(code, err.Error())
}

func (h *Handler) send(logger *zap.Logger, connID string, msg ServerMessage) {
	if err := h.ConnManager.SendMessage(connID, msg); err != nil {
		logger.Warn("write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}
