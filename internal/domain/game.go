package domain

import (
	"fmt"
	"slices"
)

// MoveSelector picks the opponent's column from the currently legal ones.
type MoveSelector interface {
	SelectColumn(board *Board, legal []int) int
}

// Game is the turn state machine of one session: Playing until a run of four
// or a full board moves it to Won, Lost or Draw, after which it never changes.
type Game struct {
	Board  Board
	Status Status
	Moves  []Move
}

func NewGame() *Game {
	return &Game{
		Board:  NewBoard(),
		Status: StatusPlaying,
		Moves:  []Move{},
	}
}

// RestoreGame rebuilds a game by running its stored move log through the same
// rules that produced it. The status is derived, not trusted.
func RestoreGame(moves []Move) (*Game, error) {
	g := NewGame()
	for i, m := range moves {
		if g.IsFinished() {
			return nil, fmt.Errorf("move %d recorded after game ended with %s", i, g.Status)
		}
		if m.TurnIndex != i {
			return nil, fmt.Errorf("move %d: unexpected turn index %d", i, m.TurnIndex)
		}
		if m.Actor != expectedActor(i) {
			return nil, fmt.Errorf("move %d: expected %s to move, got %q", i, expectedActor(i), m.Actor)
		}
		row, err := g.Board.Drop(m.Column, m.Actor)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		if row != m.Row {
			return nil, fmt.Errorf("move %d: recorded row %d but disc lands on row %d", i, m.Row, row)
		}
		g.Moves = append(g.Moves, m)
		g.Status = g.statusAfter(m)
	}
	return g, nil
}

func (g *Game) IsFinished() bool {
	return g.Status.IsTerminal()
}

func (g *Game) Clone() *Game {
	return &Game{
		Board:  g.Board,
		Status: g.Status,
		Moves:  slices.Clone(g.Moves),
	}
}

// PlayTurn applies one human move and, if the game continues, one opponent
// move chosen by selector. On any error the game is left exactly as it was.
func (g *Game) PlayTurn(column int, selector MoveSelector) (TurnResult, error) {
	if g.IsFinished() {
		return TurnResult{}, ErrGameAlreadyFinished
	}

	next := g.Clone()

	humanMove, err := next.apply(column, Human)
	if err != nil {
		return TurnResult{}, err
	}
	result := TurnResult{HumanMove: humanMove}

	next.Status = next.statusAfter(humanMove)
	if next.IsFinished() {
		result.Board = next.Board
		result.Status = next.Status
		*g = *next
		return result, nil
	}

	// legal set is computed after the human disc landed
	legal := next.Board.LegalColumns()
	choice := selector.SelectColumn(&next.Board, slices.Clone(legal))
	if !slices.Contains(legal, choice) {
		return TurnResult{}, fmt.Errorf("opponent selected column %d outside legal set %v", choice, legal)
	}

	opponentMove, err := next.apply(choice, Opponent)
	if err != nil {
		return TurnResult{}, fmt.Errorf("opponent move: %w", err)
	}
	result.OpponentMove = &opponentMove
	next.Status = next.statusAfter(opponentMove)

	result.Board = next.Board
	result.Status = next.Status
	*g = *next
	return result, nil
}

func (g *Game) apply(column int, actor Actor) (Move, error) {
	row, err := g.Board.Drop(column, actor)
	if err != nil {
		return Move{}, err
	}
	m := Move{
		TurnIndex: len(g.Moves),
		Actor:     actor,
		Column:    column,
		Row:       row,
	}
	g.Moves = append(g.Moves, m)
	return m, nil
}

// the human always opens and the two sides strictly alternate
func expectedActor(turnIndex int) Actor {
	if turnIndex%2 == 0 {
		return Human
	}
	return Opponent
}

// statusAfter evaluates the position right after m landed.
func (g *Game) statusAfter(m Move) Status {
	if CheckWin(&g.Board, m.Row, m.Column, m.Actor) {
		if m.Actor == Human {
			return StatusWon
		}
		return StatusLost
	}
	if g.Board.IsFull() {
		return StatusDraw
	}
	return StatusPlaying
}
