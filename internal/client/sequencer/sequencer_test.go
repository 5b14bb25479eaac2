package sequencer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

type recorder struct {
	boards      []domain.Board
	falling     []int
	highlighted []domain.Move
	hovers      []int
}

func (r *recorder) DrawBoard(board domain.Board) { r.boards = append(r.boards, board) }

func (r *recorder) DrawFallingDisc(_ domain.Actor, _ int, y int) { r.falling = append(r.falling, y) }

func (r *recorder) HighlightLastMove(move domain.Move) {
	r.highlighted = append(r.highlighted, move)
}

func (r *recorder) DrawHover(column int) { r.hovers = append(r.hovers, column) }

type harness struct {
	seq      *Sequencer
	render   *recorder
	resolved []domain.TurnResult
	finished int
	// phases records every phase change, starting with the phase after Begin*.
	phases []Phase
}

func newHarness(cfg Config) *harness {
	h := &harness{render: &recorder{}}
	h.seq = New(cfg, h.render, Hooks{
		OnTurnResolved:   func(r domain.TurnResult) { h.resolved = append(h.resolved, r) },
		OnReplayFinished: func() { h.finished++ },
	})
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.seq.Tick()
		if len(h.phases) == 0 || h.phases[len(h.phases)-1] != h.seq.Phase() {
			h.phases = append(h.phases, h.seq.Phase())
		}
	}
}

func (h *harness) begin(t *testing.T, result domain.TurnResult) {
	t.Helper()
	require.NoError(t, h.seq.BeginTurn(result))
	h.phases = []Phase{h.seq.Phase()}
}

// turn builds a result where the human played column 3 on an empty board
// and the opponent, if present, answered on top of it.
func turn(status domain.Status, withOpponent bool) domain.TurnResult {
	board := domain.NewBoard()
	human := domain.Move{TurnIndex: 0, Actor: domain.Human, Column: 3, Row: 5}
	board.Set(5, 3, domain.Human)
	result := domain.TurnResult{Status: status, HumanMove: human}
	if withOpponent {
		opp := domain.Move{TurnIndex: 1, Actor: domain.Opponent, Column: 3, Row: 4}
		board.Set(4, 3, domain.Opponent)
		result.OpponentMove = &opp
	}
	result.Board = board
	return result
}

func TestConfig_Geometry(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 68, cfg.StartY())
	assert.Equal(t, 452, cfg.TargetY(5))
	assert.Equal(t, 22, cfg.FallTicks(5))
	assert.Equal(t, 18, cfg.FallTicks(4))
	assert.Equal(t, 4, cfg.FallTicks(0))
	assert.Equal(t, 32, cfg.OpponentDelayTicks)
	assert.Equal(t, 30, cfg.ReplayPauseTicks)
	assert.Equal(t, -1, cfg.RowAt(99))
	assert.Equal(t, 2, cfg.RowAt(260))
}

func TestTicksFor(t *testing.T) {
	assert.Equal(t, 32, TicksFor(500*time.Millisecond, 16*time.Millisecond))
	assert.Equal(t, 30, TicksFor(480*time.Millisecond, 16*time.Millisecond))
	assert.Equal(t, 0, TicksFor(0, 16*time.Millisecond))
}

func TestSequencer_TurnWithOpponentReply(t *testing.T) {
	// Given
	h := newHarness(DefaultConfig())
	result := turn(domain.StatusPlaying, true)

	// When
	h.begin(t, result)

	// Then: both landed discs are lifted off the rendered board
	require.NotEmpty(t, h.render.boards)
	assert.Equal(t, domain.NewBoard(), h.render.boards[len(h.render.boards)-1])
	assert.Equal(t, HumanFalling, h.seq.Phase())
	assert.False(t, h.seq.AcceptsInput())

	// human disc lands on its last tick and nothing of the opponent shows yet
	h.tick(21)
	assert.Equal(t, HumanFalling, h.seq.Phase())
	h.tick(1)
	assert.Equal(t, PauseBeforeOpponent, h.seq.Phase())
	assert.Equal(t, domain.HumanDisc, h.seq.Board()[5][3])
	assert.Equal(t, domain.Empty, h.seq.Board()[4][3])

	// the pause lasts exactly the configured number of ticks
	h.tick(31)
	assert.Equal(t, PauseBeforeOpponent, h.seq.Phase())
	h.tick(1)
	assert.Equal(t, OpponentFalling, h.seq.Phase())

	h.tick(17)
	assert.Empty(t, h.resolved)
	h.tick(1)

	assert.Equal(t, []Phase{HumanFalling, PauseBeforeOpponent, OpponentFalling, Idle}, h.phases)
	require.Len(t, h.resolved, 1)
	assert.Equal(t, result, h.resolved[0])
	assert.Equal(t, result.Board, h.seq.Board())
	assert.Equal(t, []domain.Move{result.HumanMove, *result.OpponentMove}, h.render.highlighted)
	assert.True(t, h.seq.AcceptsInput())
}

func TestSequencer_TerminalGating(t *testing.T) {
	t.Run("Game ended by the human resolves right after the human disc", func(t *testing.T) {
		h := newHarness(DefaultConfig())
		h.begin(t, turn(domain.StatusWon, false))

		h.tick(21)
		assert.Empty(t, h.resolved)
		h.tick(1)

		assert.Equal(t, []Phase{HumanFalling, Idle}, h.phases)
		require.Len(t, h.resolved, 1)
		assert.Equal(t, domain.StatusWon, h.resolved[0].Status)
	})

	t.Run("Game ended by the opponent resolves only after its disc lands", func(t *testing.T) {
		h := newHarness(DefaultConfig())
		h.begin(t, turn(domain.StatusLost, true))

		total := 22 + 32 + 18
		h.tick(total - 1)
		assert.Empty(t, h.resolved)
		assert.Equal(t, OpponentFalling, h.seq.Phase())

		h.tick(1)
		require.Len(t, h.resolved, 1)
		assert.Equal(t, domain.StatusLost, h.resolved[0].Status)
	})

	t.Run("Extra ticks after resolution change nothing", func(t *testing.T) {
		h := newHarness(DefaultConfig())
		h.begin(t, turn(domain.StatusDraw, false))

		h.tick(100)

		assert.Len(t, h.resolved, 1)
		assert.Equal(t, Idle, h.seq.Phase())
	})
}

func TestSequencer_RejectsInputWhileBusy(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.begin(t, turn(domain.StatusPlaying, true))

	assert.ErrorIs(t, h.seq.BeginTurn(turn(domain.StatusPlaying, true)), ErrSequencerBusy)

	h.tick(25)
	require.Equal(t, PauseBeforeOpponent, h.seq.Phase())
	assert.ErrorIs(t, h.seq.BeginTurn(turn(domain.StatusPlaying, true)), ErrSequencerBusy)

	h.seq.Hover(2)
	assert.Empty(t, h.render.hovers)

	h.tick(100)
	h.seq.Hover(2)
	assert.Equal(t, []int{2}, h.render.hovers)
	assert.Len(t, h.resolved, 1)
}

func TestSequencer_BeginTurnClearsHover(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.seq.Hover(3)
	h.seq.Hover(3)

	h.begin(t, turn(domain.StatusPlaying, false))

	assert.Equal(t, []int{3, -1}, h.render.hovers)
}

func TestSequencer_HoverOutsideBoardClears(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.seq.Hover(4)

	h.seq.Hover(9)

	assert.Equal(t, []int{4, -1}, h.render.hovers)
}

func TestSequencer_InvalidTurn(t *testing.T) {
	h := newHarness(DefaultConfig())
	result := turn(domain.StatusPlaying, false)
	result.HumanMove.Row = -1

	err := h.seq.BeginTurn(result)

	assert.ErrorIs(t, err, ErrInvalidTurn)
	assert.Equal(t, Idle, h.seq.Phase())
	assert.Empty(t, h.render.boards)
}

func TestSequencer_ZeroOpponentDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpponentDelayTicks = 0
	h := newHarness(cfg)
	h.begin(t, turn(domain.StatusPlaying, true))

	h.tick(22 + 18)

	assert.Equal(t, []Phase{HumanFalling, OpponentFalling, Idle}, h.phases)
	assert.Len(t, h.resolved, 1)
}

var replayMoves = []domain.Move{
	{TurnIndex: 0, Actor: domain.Human, Column: 0, Row: 5},
	{TurnIndex: 1, Actor: domain.Opponent, Column: 0, Row: 4},
	{TurnIndex: 2, Actor: domain.Human, Column: 6, Row: 5},
}

func TestSequencer_Replay(t *testing.T) {
	t.Run("Every move falls once with a pause in between", func(t *testing.T) {
		// Given
		h := newHarness(DefaultConfig())

		// When
		require.NoError(t, h.seq.BeginReplay(replayMoves))
		h.phases = []Phase{h.seq.Phase()}
		h.tick(22 + 30 + 18 + 30 + 21)

		// Then: one tick before the end the last disc is still falling
		assert.Equal(t, ReplayFalling, h.seq.Phase())
		assert.Zero(t, h.finished)
		h.tick(1)

		assert.Equal(t, []Phase{ReplayFalling, ReplayPause, ReplayFalling, ReplayPause, ReplayFalling, Idle}, h.phases)
		assert.Equal(t, 1, h.finished)
		assert.Empty(t, h.resolved)
		assert.Equal(t, replayMoves, h.render.highlighted)

		want, err := domain.Rebuild(replayMoves)
		require.NoError(t, err)
		assert.Equal(t, want, h.seq.Board())
	})

	t.Run("Replay cancels an in-flight turn", func(t *testing.T) {
		h := newHarness(DefaultConfig())
		h.begin(t, turn(domain.StatusLost, true))
		h.tick(30)
		require.Equal(t, PauseBeforeOpponent, h.seq.Phase())

		require.NoError(t, h.seq.BeginReplay(replayMoves[:1]))
		h.tick(200)

		assert.Empty(t, h.resolved)
		assert.Equal(t, 1, h.finished)
		assert.Equal(t, domain.Empty, h.seq.Board()[5][3])
		assert.Equal(t, domain.HumanDisc, h.seq.Board()[5][0])
	})

	t.Run("Inconsistent log is rejected without touching state", func(t *testing.T) {
		h := newHarness(DefaultConfig())
		h.begin(t, turn(domain.StatusPlaying, true))
		h.tick(5)
		bad := []domain.Move{{TurnIndex: 0, Actor: domain.Human, Column: 0, Row: 3}}

		err := h.seq.BeginReplay(bad)

		require.Error(t, err)
		assert.Equal(t, HumanFalling, h.seq.Phase())
		h.tick(200)
		assert.Len(t, h.resolved, 1)
	})

	t.Run("Empty log finishes immediately", func(t *testing.T) {
		h := newHarness(DefaultConfig())

		require.NoError(t, h.seq.BeginReplay(nil))

		assert.Equal(t, 1, h.finished)
		assert.Equal(t, Idle, h.seq.Phase())
	})
}

func TestSequencer_ResetCancels(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.begin(t, turn(domain.StatusWon, true))
	h.tick(10)

	h.seq.Reset(domain.NewBoard())
	h.tick(200)

	assert.Empty(t, h.resolved)
	assert.Equal(t, Idle, h.seq.Phase())
	assert.Equal(t, domain.NewBoard(), h.seq.Board())
}
