package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/service/game"
	"github.com/iamasit07/connect4-replay/internal/service/replay"
	"github.com/iamasit07/connect4-replay/internal/transport/http/middleware"
)

type RouterConfig struct {
	Sessions       *game.SessionManager
	Replays        *replay.Service
	AllowedOrigins []string
	// WebSocket is mounted at /ws when set.
	WebSocket gin.HandlerFunc
	Logger    *zap.Logger
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gameHandler := NewGameHandler(cfg.Sessions, logger)
	historyHandler := NewHistoryHandler(cfg.Replays, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": cfg.Sessions.Count(),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/games", gameHandler.CreateGame)
		api.GET("/games/:id", gameHandler.GetGame)
		api.DELETE("/games/:id", historyHandler.DeleteGame)
		api.GET("/games/by-player/:playerId", historyHandler.GetHistory)
		api.POST("/moves", gameHandler.MakeMove)
		api.GET("/replays/:id", historyHandler.GetReplay)
	}

	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}

	return router, nil
}
