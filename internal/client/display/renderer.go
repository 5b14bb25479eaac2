package display

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/iamasit07/connect4-replay/internal/client/sequencer"
	"github.com/iamasit07/connect4-replay/internal/domain"
)

const defaultWidth = 80

// TerminalRenderer draws the sequencer's callbacks as text. On a terminal it
// redraws one frame in place with color; otherwise it prints a plain frame
// whenever a disc lands.
type TerminalRenderer struct {
	out         io.Writer
	geometry    sequencer.Config
	interactive bool
	indent      string

	frame  Frame
	onTop  bool
	lastFR int
}

// NewTerminalRenderer writes to out. fd is the descriptor behind out and is
// used for terminal detection; pass -1 when out is not a terminal.
func NewTerminalRenderer(out io.Writer, fd int, geometry sequencer.Config) *TerminalRenderer {
	r := &TerminalRenderer{
		out:      out,
		geometry: geometry,
		frame:    Frame{Hover: -1},
		lastFR:   -2,
	}
	if fd >= 0 && term.IsTerminal(fd) {
		r.interactive = true
		width, _, err := term.GetSize(fd)
		if err != nil || width <= 0 {
			width = defaultWidth
		}
		boardWidth := domain.Columns*2 + 3
		if width > boardWidth {
			r.indent = strings.Repeat(" ", (width-boardWidth)/2)
		}
	}
	return r
}

func (r *TerminalRenderer) Interactive() bool {
	return r.interactive
}

func (r *TerminalRenderer) DrawBoard(board domain.Board) {
	r.frame.Board = board
	r.frame.Falling = nil
	r.frame.Last = nil
	r.lastFR = -2
	r.draw()
}

func (r *TerminalRenderer) DrawFallingDisc(actor domain.Actor, column, y int) {
	row := r.geometry.RowAt(y)
	if row >= domain.Rows {
		row = domain.Rows - 1
	}
	if row == r.lastFR && r.frame.Falling != nil {
		return
	}
	r.frame.Falling = &actor
	r.frame.FallColumn = column
	r.frame.FallingRow = row
	r.lastFR = row
	if r.interactive {
		r.draw()
	}
}

func (r *TerminalRenderer) HighlightLastMove(move domain.Move) {
	r.frame.Last = &move
	if r.interactive {
		r.draw()
		return
	}
	fmt.Fprintf(r.out, "%s dropped into column %d\n", move.Actor, move.Column)
}

func (r *TerminalRenderer) DrawHover(column int) {
	r.frame.Hover = column
	if r.interactive {
		r.draw()
	}
}

// Detach makes the next frame print below whatever was written since,
// instead of over the previous frame.
func (r *TerminalRenderer) Detach() {
	r.onTop = false
}

func (r *TerminalRenderer) draw() {
	var b strings.Builder
	if r.interactive && r.onTop {
		fmt.Fprintf(&b, "\033[%dA\033[J", FrameHeight)
	}
	for _, line := range RenderFrame(r.frame, r.interactive) {
		b.WriteString(r.indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	io.WriteString(r.out, b.String())
	r.onTop = r.interactive
}
