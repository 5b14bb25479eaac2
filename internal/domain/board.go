package domain

import "fmt"

// Board is the 6x7 grid. Row 0 is the top row, row Rows-1 the physical bottom.
type Board [Rows][Columns]Cell

func NewBoard() Board {
	return Board{}
}

func IsValidColumn(column int) bool {
	return column >= 0 && column < Columns
}

// Drop lets a disc fall into column and returns the row it landed on.
// Exactly one cell changes on success; none on failure.
func (b *Board) Drop(column int, actor Actor) (int, error) {
	if !IsValidColumn(column) {
		return -1, ErrColumnOutOfRange
	}

	// scanning from the physical bottom up to the top
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = actor.Disc()
			return row, nil
		}
	}

	return -1, ErrColumnFull
}

// IsFull reports whether the top row is occupied. With gravity that is the
// same as every column being full.
func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

// LegalColumns lists the columns whose top cell is empty.
func (b *Board) LegalColumns() []int {
	legal := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			legal = append(legal, c)
		}
	}
	return legal
}

func (b *Board) At(row, column int) Cell {
	return b[row][column]
}

// Clear empties one cell. Used by presentation code that re-animates discs
// the authoritative board already holds.
func (b *Board) Clear(row, column int) {
	b[row][column] = Empty
}

// Set occupies one cell without gravity checks. Presentation only.
func (b *Board) Set(row, column int, actor Actor) {
	b[row][column] = actor.Disc()
}

// this counts the number of disks in a specific direction
func (b *Board) CountDiskInDirection(row, column, deltaRow, deltaCol int, disc Cell) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for r >= 0 && r < Rows && c >= 0 && c < Columns && b[r][c] == disc {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// Rebuild replays moves in order from an empty board and checks that each
// landed where it was recorded.
func Rebuild(moves []Move) (Board, error) {
	board := NewBoard()
	for i, m := range moves {
		if m.TurnIndex != i {
			return board, fmt.Errorf("move %d: unexpected turn index %d", i, m.TurnIndex)
		}
		if !m.Actor.Valid() {
			return board, fmt.Errorf("move %d: unknown actor %q", i, m.Actor)
		}
		row, err := board.Drop(m.Column, m.Actor)
		if err != nil {
			return board, fmt.Errorf("move %d: %w", i, err)
		}
		if row != m.Row {
			return board, fmt.Errorf("move %d: recorded row %d but disc lands on row %d", i, m.Row, row)
		}
	}
	return board, nil
}
