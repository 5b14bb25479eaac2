package api

import (
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type CreateGameRequest struct {
	PlayerID int64 `json:"playerId"`
}

type CreateGameResponse struct {
	GameID int64         `json:"gameId"`
	Board  domain.Board  `json:"board"`
	Status domain.Status `json:"status"`
}

type MoveRequest struct {
	GameID int64 `json:"gameId"`
	Column int   `json:"column"`
}

// GameResponse is the live session snapshot served by GET /api/games/:id.
type GameResponse struct {
	GameID    int64         `json:"gameId"`
	PlayerID  int64         `json:"playerId"`
	Board     domain.Board  `json:"board"`
	Status    domain.Status `json:"status"`
	Moves     []domain.Move `json:"moves"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
}
