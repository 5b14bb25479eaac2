package domain

import "time"

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Cell is the content of one board position. The integer values are what
// goes over the wire in the row-major board array.
type Cell int

const (
	Empty        Cell = 0
	HumanDisc    Cell = 1
	OpponentDisc Cell = 2
)

// Actor identifies who made a move.
type Actor string

const (
	Human    Actor = "Human"
	Opponent Actor = "Opponent"
)

func (a Actor) Disc() Cell {
	switch a {
	case Human:
		return HumanDisc
	case Opponent:
		return OpponentDisc
	}
	return Empty
}

func (a Actor) Valid() bool {
	return a == Human || a == Opponent
}

// to represent the game status
type Status string

const (
	StatusPlaying Status = "Playing"
	StatusWon     Status = "Won"
	StatusLost    Status = "Lost"
	StatusDraw    Status = "Draw"
)

func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusDraw
}

func (s Status) Valid() bool {
	return s == StatusPlaying || s.IsTerminal()
}

// Move is one committed disc placement. Immutable once appended to a log.
type Move struct {
	TurnIndex int   `json:"turnIndex"`
	Actor     Actor `json:"actor"`
	Column    int   `json:"column"`
	Row       int   `json:"row"`
}

// TurnResult is what one human move request produces. OpponentMove is nil
// when the human's move ended the game.
type TurnResult struct {
	Board        Board  `json:"board"`
	Status       Status `json:"status"`
	HumanMove    Move   `json:"humanMove"`
	OpponentMove *Move  `json:"opponentMove,omitempty"`
}

// LastMove returns the move whose landing completed the turn.
func (r TurnResult) LastMove() Move {
	if r.OpponentMove != nil {
		return *r.OpponentMove
	}
	return r.HumanMove
}

// ReplayRecord is the persisted form of a session. EndedAt is nil while the
// session is still Playing.
type ReplayRecord struct {
	SessionID int64      `json:"sessionId"`
	PlayerID  int64      `json:"playerId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Result    Status     `json:"result"`
	Moves     []Move     `json:"moves"`
}

func (r *ReplayRecord) IsFinalized() bool {
	return r.EndedAt != nil && r.Result.IsTerminal()
}

// ReplaySummary is one row of a player's game listing.
type ReplaySummary struct {
	SessionID       int64      `json:"sessionId"`
	PlayerID        int64      `json:"playerId"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
	Result          Status     `json:"result"`
	MoveCount       int        `json:"moveCount"`
}
