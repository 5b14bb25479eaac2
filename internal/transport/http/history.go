package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/service/replay"
)

type HistoryHandler struct {
	Replays *replay.Service
	logger  *zap.Logger
}

func NewHistoryHandler(replays *replay.Service, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{Replays: replays, logger: logger}
}

// GetHistory handles GET /api/games/by-player/:playerId.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	playerID, ok := parseID(c, "playerId")
	if !ok {
		return
	}

	summaries, err := h.Replays.List(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetReplay handles GET /api/replays/:id.
func (h *HistoryHandler) GetReplay(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.Replays.Load(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteGame handles DELETE /api/games/:id.
func (h *HistoryHandler) DeleteGame(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Replays.Delete(c.Request.Context(), gameID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
