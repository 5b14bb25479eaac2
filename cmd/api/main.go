package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/config"
	"github.com/iamasit07/connect4-replay/internal/repository/memory"
	"github.com/iamasit07/connect4-replay/internal/repository/postgres"
	"github.com/iamasit07/connect4-replay/internal/repository/redis"
	"github.com/iamasit07/connect4-replay/internal/service/bot"
	"github.com/iamasit07/connect4-replay/internal/service/cleanup"
	"github.com/iamasit07/connect4-replay/internal/service/game"
	"github.com/iamasit07/connect4-replay/internal/service/replay"
	transportHttp "github.com/iamasit07/connect4-replay/internal/transport/http"
	"github.com/iamasit07/connect4-replay/internal/transport/websocket"
)

type store interface {
	game.GameRepository
	replay.Repository
}

func main() {
	envErr := godotenv.Load()

	// 1. Logger first so config warnings are structured
	logger, err := config.NewLogger(config.GetEnv("ENVIRONMENT", "development"), config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file found")
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	// 2. Persistence
	var repo store
	if cfg.DatabaseURL != "" {
		db, err := postgres.InitDB(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin, logger.Named("postgres"))
		if err != nil {
			logger.Fatal("database unavailable", zap.Error(err))
		}
		defer db.Close()
		repo = postgres.NewGameRepo(db)
	} else {
		logger.Warn("DATABASE_URL not set, games are kept in memory only")
		repo = memory.NewStore()
	}

	// 2b. Optional replay cache
	var cache replay.Cache
	if cfg.RedisURL != "" {
		if client := redis.InitRedis(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, logger.Named("redis")); client != nil {
			defer client.Close()
			cache = redis.NewRedisCache(client)
		}
	}

	// 3. Services
	sessionManager := game.NewSessionManager(repo, bot.NewRandomSelector(cfg.OpponentSeed), logger.Named("session"))
	replayService := replay.NewService(repo, cache, cfg.ReplayCacheTTL, sessionManager, logger.Named("replay"))

	// 4. Background workers
	cleanupWorker, err := cleanup.NewWorker(sessionManager, cfg.CleanupSchedule, cfg.SessionIdleTTL, cfg.FinishedSessionTTL, logger.Named("cleanup"))
	if err != nil {
		logger.Fatal("cleanup worker", zap.Error(err))
	}
	cleanupWorker.Start()

	// 5. Transport
	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins, logger.Named("ws"))

	router, err := transportHttp.NewRouter(transportHttp.RouterConfig{
		Sessions:       sessionManager,
		Replays:        replayService,
		AllowedOrigins: cfg.AllowedOrigins,
		WebSocket:      wsHandler.HandleWebSocket,
		Logger:         logger.Named("http"),
	})
	if err != nil {
		logger.Fatal("router setup", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connManager.CloseAll()
	cleanupWorker.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server exited gracefully")
}
