package display

import (
	"fmt"
	"strings"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// Frame is everything one board drawing shows.
type Frame struct {
	Board domain.Board
	// Last is outlined when set.
	Last *domain.Move
	// Hover is the previewed column, -1 for none.
	Hover int
	// Falling is the disc in the air; FallingRow -1 means above the board.
	Falling    *domain.Actor
	FallColumn int
	FallingRow int
}

// FrameHeight is the number of lines RenderFrame produces.
const FrameHeight = domain.Rows + 3

// RenderFrame draws f as text lines. Without color, discs are X and O.
func RenderFrame(f Frame, color bool) []string {
	lines := make([]string, 0, FrameHeight)

	// marker row above the board
	var top strings.Builder
	top.WriteString("  ")
	for c := 0; c < domain.Columns; c++ {
		switch {
		case f.Falling != nil && f.FallingRow < 0 && f.FallColumn == c:
			top.WriteString(disc(actorCell(*f.Falling), false, color))
		case f.Hover == c:
			top.WriteString(paint("v", Cyan, color))
		default:
			top.WriteString(" ")
		}
		top.WriteString(" ")
	}
	lines = append(lines, strings.TrimRight(top.String(), " "))

	for r := 0; r < domain.Rows; r++ {
		var row strings.Builder
		row.WriteString("| ")
		for c := 0; c < domain.Columns; c++ {
			cell := f.Board.At(r, c)
			last := f.Last != nil && f.Last.Row == r && f.Last.Column == c
			if f.Falling != nil && f.FallingRow == r && f.FallColumn == c && cell == domain.Empty {
				cell = actorCell(*f.Falling)
			}
			row.WriteString(disc(cell, last, color))
			row.WriteString(" ")
		}
		row.WriteString("|")
		lines = append(lines, row.String())
	}

	lines = append(lines, "+"+strings.Repeat("-", domain.Columns*2+1)+"+")

	var labels strings.Builder
	labels.WriteString("  ")
	for c := 0; c < domain.Columns; c++ {
		fmt.Fprintf(&labels, "%d ", c)
	}
	lines = append(lines, strings.TrimRight(labels.String(), " "))

	return lines
}

func actorCell(a domain.Actor) domain.Cell {
	return a.Disc()
}

func disc(cell domain.Cell, last, color bool) string {
	if !color {
		switch cell {
		case domain.HumanDisc:
			if last {
				return "x"
			}
			return "X"
		case domain.OpponentDisc:
			if last {
				return "o"
			}
			return "O"
		}
		return "."
	}

	var symbol, tint string
	switch cell {
	case domain.HumanDisc:
		symbol, tint = "●", Red
	case domain.OpponentDisc:
		symbol, tint = "●", Yellow
	default:
		return White + "·" + Reset
	}
	if last {
		tint = Bold + tint
	}
	return tint + symbol + Reset
}

func paint(s, tint string, color bool) string {
	if !color {
		return s
	}
	return tint + s + Reset
}
