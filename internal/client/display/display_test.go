package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-replay/internal/client/sequencer"
	"github.com/iamasit07/connect4-replay/internal/domain"
)

func TestRenderFrame(t *testing.T) {
	board := domain.NewBoard()
	board.Set(5, 0, domain.Human)
	board.Set(5, 1, domain.Opponent)
	last := domain.Move{TurnIndex: 1, Actor: domain.Opponent, Column: 1, Row: 5}

	t.Run("Plain frame", func(t *testing.T) {
		lines := RenderFrame(Frame{Board: board, Last: &last, Hover: 3}, false)

		require.Len(t, lines, FrameHeight)
		assert.Equal(t, "        v", lines[0])
		assert.Equal(t, "| . . . . . . . |", lines[1])
		assert.Equal(t, "| X o . . . . . |", lines[6])
		assert.Equal(t, "+---------------+", lines[7])
		assert.Equal(t, "  0 1 2 3 4 5 6", lines[8])
	})

	t.Run("Falling disc overlays an empty cell", func(t *testing.T) {
		actor := domain.Human
		lines := RenderFrame(Frame{Board: board, Hover: -1, Falling: &actor, FallColumn: 2, FallingRow: 3}, false)

		assert.Equal(t, "| . . X . . . . |", lines[4])
	})

	t.Run("Falling disc above the board", func(t *testing.T) {
		actor := domain.Opponent
		lines := RenderFrame(Frame{Board: board, Hover: -1, Falling: &actor, FallColumn: 6, FallingRow: -1}, false)

		assert.Equal(t, "              O", lines[0])
	})
}

func TestTerminalRenderer_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf, -1, sequencer.DefaultConfig())
	seq := sequencer.New(sequencer.DefaultConfig(), r, sequencer.Hooks{})
	board := domain.NewBoard()
	board.Set(5, 4, domain.Human)

	require.NoError(t, seq.BeginTurn(domain.TurnResult{
		Board:     board,
		Status:    domain.StatusWon,
		HumanMove: domain.Move{TurnIndex: 0, Actor: domain.Human, Column: 4, Row: 5},
	}))
	for seq.Phase() != sequencer.Idle {
		seq.Tick()
	}

	out := buf.String()
	assert.False(t, r.Interactive())
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "| . . . . X . . |")
	assert.Contains(t, out, "Human dropped into column 4")
	// two frames: the lifted board and the landed one
	assert.Equal(t, 2, strings.Count(out, "+---------------+"))
}

func TestGameLine(t *testing.T) {
	secs := 75
	line := GameLine(12, time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local), &secs, domain.StatusWon, 9)

	assert.Contains(t, line, "12")
	assert.Contains(t, line, "2024-03-01 10:00")
	assert.Contains(t, line, "Won")
	assert.Contains(t, line, "1m15s")
	assert.Contains(t, line, "9 moves")

	assert.Contains(t, GameLine(1, time.Now(), nil, domain.StatusPlaying, 0), " - ")
}
