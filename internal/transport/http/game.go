package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/domain"
	"github.com/iamasit07/connect4-replay/internal/service/game"
)

type CreateGameRequest struct {
	PlayerID int64 `json:"playerId" binding:"required,min=1"`
}

type CreateGameResponse struct {
	GameID int64         `json:"gameId"`
	Board  domain.Board  `json:"board"`
	Status domain.Status `json:"status"`
}

type MoveRequest struct {
	GameID int64 `json:"gameId" binding:"required,min=1"`
	Column *int  `json:"column" binding:"required,column"`
}

type GameHandler struct {
	Sessions *game.SessionManager
	logger   *zap.Logger
}

func NewGameHandler(sessions *game.SessionManager, logger *zap.Logger) *GameHandler {
	return &GameHandler{Sessions: sessions, logger: logger}
}

// CreateGame handles POST /api/games.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	snap, err := h.Sessions.CreateSession(c.Request.Context(), req.PlayerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, CreateGameResponse{
		GameID: snap.GameID,
		Board:  snap.Board,
		Status: snap.Status,
	})
}

// MakeMove handles POST /api/moves.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.Sessions.SubmitMove(c.Request.Context(), req.GameID, *req.Column)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGame handles GET /api/games/:id.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}

	snap, err := h.Sessions.GetSession(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid " + param,
			Code:    domain.CodeInvalidRequest,
			Details: param + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
