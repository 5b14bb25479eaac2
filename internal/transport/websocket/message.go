package websocket

import "github.com/iamasit07/connect4-replay/internal/domain"

const (
	TypeNewGame     = "new_game"
	TypeMakeMove    = "make_move"
	TypeGameCreated = "game_created"
	TypeTurnResult  = "turn_result"
	TypeError       = "error"
)

type ClientMessage struct {
	Type     string `json:"type"`
	PlayerID int64  `json:"playerId,omitempty"`
	GameID   int64  `json:"gameId,omitempty"`
	Column   *int   `json:"column,omitempty"`
}

type ServerMessage struct {
	Type         string        `json:"type"`
	GameID       int64         `json:"gameId,omitempty"`
	Board        *domain.Board `json:"board,omitempty"`
	Status       domain.Status `json:"status,omitempty"`
	HumanMove    *domain.Move  `json:"humanMove,omitempty"`
	OpponentMove *domain.Move  `json:"opponentMove,omitempty"`
	Code         string        `json:"code,omitempty"`
	Message      string        `json:"message,omitempty"`
}

func errorMessage(code, message string) ServerMessage {
	return ServerMessage{Type: TypeError, Code: code, Message: message}
}
