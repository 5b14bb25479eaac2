package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// Repository is the read side of the replay store.
type Repository interface {
	// GetGame returns nil, nil when the game does not exist.
	GetGame(ctx context.Context, gameID int64) (*domain.ReplayRecord, error)
	ListGamesByPlayer(ctx context.Context, playerID int64) ([]domain.ReplaySummary, error)
	DeleteGame(ctx context.Context, gameID int64) (bool, error)
}

// Cache stores serialized finalized replays. Get must return an error for
// a missing key; any error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SessionEvicter drops a live session from memory.
type SessionEvicter interface {
	RemoveSession(gameID int64) bool
}

type Service struct {
	repo     Repository
	cache    Cache
	ttl      time.Duration
	sessions SessionEvicter
	logger   *zap.Logger
}

// NewService builds the replay service. cache and sessions may be nil.
func NewService(repo Repository, cache Cache, ttl time.Duration, sessions SessionEvicter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		sessions: sessions,
		logger:   logger,
	}
}

func cacheKey(gameID int64) string {
	return "replay:" + strconv.FormatInt(gameID, 10)
}

// List returns the player's game summaries, newest first.
func (s *Service) List(ctx context.Context, playerID int64) ([]domain.ReplaySummary, error) {
	summaries, err := s.repo.ListGamesByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return summaries, nil
}

// Load returns a finalized game with its moves in turn order. Games that are
// missing or still being played yield domain.ErrReplayNotFound.
func (s *Service) Load(ctx context.Context, gameID int64) (*domain.ReplayRecord, error) {
	if record, ok := s.fromCache(ctx, gameID); ok {
		return record, nil
	}

	record, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if record == nil || !record.IsFinalized() {
		return nil, domain.ErrReplayNotFound
	}

	s.toCache(ctx, record)
	return record, nil
}

// Delete removes a game from the store, the cache and memory.
func (s *Service) Delete(ctx context.Context, gameID int64) error {
	deleted, err := s.repo.DeleteGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	if s.sessions != nil {
		s.sessions.RemoveSession(gameID)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(gameID)); err != nil {
			s.logger.Warn("cache delete", zap.Int64("game_id", gameID), zap.Error(err))
		}
	}

	if !deleted {
		return domain.ErrReplayNotFound
	}
	s.logger.Info("game deleted", zap.Int64("game_id", gameID))
	return nil
}

func (s *Service) fromCache(ctx context.Context, gameID int64) (*domain.ReplayRecord, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, cacheKey(gameID))
	if err != nil {
		return nil, false
	}

	var record domain.ReplayRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Warn("discarding corrupt cache entry", zap.Int64("game_id", gameID), zap.Error(err))
		return nil, false
	}
	return &record, true
}

func (s *Service) toCache(ctx context.Context, record *domain.ReplayRecord) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(record.SessionID), data, s.ttl); err != nil {
		s.logger.Warn("cache set", zap.Int64("game_id", record.SessionID), zap.Error(err))
	}
}
