package game

import (
	"context"
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// GameRepository is the write side of the replay store plus the lookup used
// to restore sessions that are no longer in memory.
type GameRepository interface {
	CreateGame(ctx context.Context, playerID int64, startedAt time.Time) (int64, error)
	AppendMoves(ctx context.Context, gameID int64, moves ...domain.Move) error
	FinalizeGame(ctx context.Context, gameID int64, result domain.Status, startedAt, endedAt time.Time) error
	// GetGame returns nil, nil when the game does not exist.
	GetGame(ctx context.Context, gameID int64) (*domain.ReplayRecord, error)
}
