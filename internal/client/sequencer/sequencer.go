package sequencer

import (
	"errors"
	"fmt"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

var (
	ErrSequencerBusy = errors.New("sequencer is still animating the previous turn")
	ErrInvalidTurn   = errors.New("turn result has a move outside the board")
)

// Renderer receives the presentation callbacks. All calls happen on the
// goroutine that drives the Sequencer.
type Renderer interface {
	DrawBoard(board domain.Board)
	DrawFallingDisc(actor domain.Actor, column, y int)
	HighlightLastMove(move domain.Move)
	// DrawHover previews a drop into column; -1 clears the preview.
	DrawHover(column int)
}

// Hooks are invoked from Tick once the corresponding sequence has fully
// landed. They must not block.
type Hooks struct {
	OnTurnResolved   func(result domain.TurnResult)
	OnReplayFinished func()
}

// animation is the disc currently in the air.
type animation struct {
	move    domain.Move
	y       int
	targetY int
}

// Sequencer turns authoritative turn results and stored move logs into
// falling-disc animations. It is not safe for concurrent use; Loop owns one
// on a single goroutine.
type Sequencer struct {
	cfg      Config
	renderer Renderer
	hooks    Hooks

	phase Phase
	board domain.Board
	hover int

	current   *animation
	pending   *domain.Move
	pauseLeft int
	result    *domain.TurnResult

	replay     []domain.Move
	replayNext int
}

func New(cfg Config, renderer Renderer, hooks Hooks) *Sequencer {
	return &Sequencer{
		cfg:      cfg.normalize(),
		renderer: renderer,
		hooks:    hooks,
		hover:    -1,
	}
}

func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Board returns the board as currently rendered, which lags the
// authoritative board while discs are falling.
func (s *Sequencer) Board() domain.Board {
	return s.board
}

// AcceptsInput is false from the moment a turn result arrives until its
// last disc has landed, and while a replay is playing.
func (s *Sequencer) AcceptsInput() bool {
	return s.phase == Idle
}

// Reset drops any in-flight animation and shows board.
func (s *Sequencer) Reset(board domain.Board) {
	s.cancel()
	s.board = board
	s.renderer.DrawBoard(s.board)
}

// BeginTurn starts animating a live turn. The landed discs are removed from
// the rendered board and fall back into place one after the other.
func (s *Sequencer) BeginTurn(result domain.TurnResult) error {
	if s.phase != Idle {
		return ErrSequencerBusy
	}
	if !onBoard(result.HumanMove) || (result.OpponentMove != nil && !onBoard(*result.OpponentMove)) {
		return ErrInvalidTurn
	}

	s.board = result.Board
	s.board.Clear(result.HumanMove.Row, result.HumanMove.Column)
	if result.OpponentMove != nil {
		s.board.Clear(result.OpponentMove.Row, result.OpponentMove.Column)
		next := *result.OpponentMove
		s.pending = &next
	}
	s.result = &result
	s.clearHover()
	s.renderer.DrawBoard(s.board)

	s.start(result.HumanMove, HumanFalling)
	return nil
}

// BeginReplay cancels whatever is running and plays moves from an empty
// board. An inconsistent move log is rejected before any state changes.
func (s *Sequencer) BeginReplay(moves []domain.Move) error {
	if _, err := domain.Rebuild(moves); err != nil {
		return fmt.Errorf("invalid replay: %w", err)
	}

	s.cancel()
	s.board = domain.NewBoard()
	s.clearHover()
	s.renderer.DrawBoard(s.board)

	if len(moves) == 0 {
		s.finishReplay()
		return nil
	}

	s.replay = append([]domain.Move(nil), moves...)
	s.replayNext = 1
	s.start(s.replay[0], ReplayFalling)
	return nil
}

// Hover previews a drop while input is accepted.
func (s *Sequencer) Hover(column int) {
	if !s.AcceptsInput() {
		return
	}
	if !domain.IsValidColumn(column) {
		column = -1
	}
	if column == s.hover {
		return
	}
	s.hover = column
	s.renderer.DrawHover(column)
}

// Tick advances the active animation or pause by one time quantum.
func (s *Sequencer) Tick() {
	switch {
	case s.phase.falling():
		s.fall()
	case s.phase == PauseBeforeOpponent:
		if s.countDown() {
			move := *s.pending
			s.pending = nil
			s.start(move, OpponentFalling)
		}
	case s.phase == ReplayPause:
		if s.countDown() {
			s.startNextReplayMove()
		}
	}
}

func (s *Sequencer) fall() {
	a := s.current
	a.y += s.cfg.FallSpeed
	if a.y < a.targetY {
		s.renderer.DrawFallingDisc(a.move.Actor, a.move.Column, a.y)
		return
	}

	// landed
	s.current = nil
	s.board.Set(a.move.Row, a.move.Column, a.move.Actor)
	s.renderer.DrawBoard(s.board)
	s.renderer.HighlightLastMove(a.move)

	switch s.phase {
	case HumanFalling:
		if s.pending == nil {
			s.finishTurn()
			return
		}
		if s.cfg.OpponentDelayTicks == 0 {
			move := *s.pending
			s.pending = nil
			s.start(move, OpponentFalling)
			return
		}
		s.phase = PauseBeforeOpponent
		s.pauseLeft = s.cfg.OpponentDelayTicks
	case OpponentFalling:
		s.finishTurn()
	case ReplayFalling:
		if s.replayNext >= len(s.replay) {
			s.finishReplay()
			return
		}
		if s.cfg.ReplayPauseTicks == 0 {
			s.startNextReplayMove()
			return
		}
		s.phase = ReplayPause
		s.pauseLeft = s.cfg.ReplayPauseTicks
	}
}

func (s *Sequencer) countDown() bool {
	s.pauseLeft--
	return s.pauseLeft <= 0
}

func (s *Sequencer) start(move domain.Move, phase Phase) {
	s.phase = phase
	s.current = &animation{
		move:    move,
		y:       s.cfg.StartY(),
		targetY: s.cfg.TargetY(move.Row),
	}
	s.renderer.DrawFallingDisc(move.Actor, move.Column, s.current.y)
}

func (s *Sequencer) startNextReplayMove() {
	move := s.replay[s.replayNext]
	s.replayNext++
	s.start(move, ReplayFalling)
}

func (s *Sequencer) finishTurn() {
	result := *s.result
	s.result = nil
	s.phase = Idle
	if s.hooks.OnTurnResolved != nil {
		s.hooks.OnTurnResolved(result)
	}
}

func (s *Sequencer) finishReplay() {
	s.replay = nil
	s.replayNext = 0
	s.phase = Idle
	if s.hooks.OnReplayFinished != nil {
		s.hooks.OnReplayFinished()
	}
}

func (s *Sequencer) clearHover() {
	if s.hover != -1 {
		s.hover = -1
		s.renderer.DrawHover(-1)
	}
}

// cancel discards every queued phase and timer.
func (s *Sequencer) cancel() {
	s.phase = Idle
	s.current = nil
	s.pending = nil
	s.pauseLeft = 0
	s.result = nil
	s.replay = nil
	s.replayNext = 0
	s.clearHover()
}

func onBoard(m domain.Move) bool {
	return domain.IsValidColumn(m.Column) && m.Row >= 0 && m.Row < domain.Rows
}
