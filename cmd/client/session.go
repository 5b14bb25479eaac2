package main

import (
	"sync"
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// liveGame is the game being played against the server. The REPL goroutine
// writes it and the event goroutine reads it when a turn resolves.
type liveGame struct {
	mu        sync.Mutex
	gameID    int64
	startedAt time.Time
	board     domain.Board
	status    domain.Status
	moves     []domain.Move
}

func (g *liveGame) start(gameID int64, board domain.Board, status domain.Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gameID = gameID
	g.startedAt = time.Now().UTC()
	g.board = board
	g.status = status
	g.moves = nil
}

func (g *liveGame) record(result domain.TurnResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.board = result.Board
	g.status = result.Status
	g.moves = append(g.moves, result.HumanMove)
	if result.OpponentMove != nil {
		g.moves = append(g.moves, *result.OpponentMove)
	}
}

type gameState struct {
	GameID    int64
	StartedAt time.Time
	Board     domain.Board
	Status    domain.Status
	Moves     []domain.Move
}

func (g *liveGame) snapshot() gameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gameState{
		GameID:    g.gameID,
		StartedAt: g.startedAt,
		Board:     g.board,
		Status:    g.status,
		Moves:     append([]domain.Move(nil), g.moves...),
	}
}
