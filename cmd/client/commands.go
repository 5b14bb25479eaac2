package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/iamasit07/connect4-replay/internal/client/api"
	"github.com/iamasit07/connect4-replay/internal/client/config"
	"github.com/iamasit07/connect4-replay/internal/client/display"
	"github.com/iamasit07/connect4-replay/internal/client/replaydb"
	"github.com/iamasit07/connect4-replay/internal/client/sequencer"
	"github.com/iamasit07/connect4-replay/internal/domain"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new"),
	readline.PcItem("drop"),
	readline.PcItem("hover"),
	readline.PcItem("board"),
	readline.PcItem("games"),
	readline.PcItem("replays"),
	readline.PcItem("replay", readline.PcItem("remote")),
	readline.PcItem("delete"),
	readline.PcItem("health"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

const requestTimeout = 10 * time.Second

type event struct {
	result     *domain.TurnResult
	replayDone bool
}

type client struct {
	cfg      *config.Config
	api      *api.Client
	store    *replaydb.Store
	loop     *sequencer.Loop
	renderer *display.TerminalRenderer
	out      io.Writer
	game     *liveGame
}

func (c *client) execute(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	// a bare column number drops a disc
	if _, err := strconv.Atoi(cmd); err == nil {
		cmd, args = "drop", fields
	}

	var err error
	switch cmd {
	case "new", "n":
		err = c.newGame(ctx)
	case "drop", "d":
		err = c.drop(ctx, args)
	case "hover":
		err = c.hover(args)
	case "board", "b":
		err = c.showBoard()
	case "games", "g":
		err = c.listRemote(ctx)
	case "replays", "r":
		err = c.listLocal(ctx)
	case "replay":
		err = c.replay(ctx, args)
	case "delete":
		err = c.deleteRemote(ctx, args)
	case "health":
		err = c.health(ctx)
	case "help", "?":
		c.help()
	default:
		err = fmt.Errorf("unknown command %q, type 'help'", cmd)
	}

	if err != nil {
		c.printError(err)
	}
}

func (c *client) newGame(ctx context.Context) error {
	if !c.acceptsInput() {
		return errors.New("wait for the discs to land")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	created, err := c.api.CreateGame(reqCtx, c.cfg.PlayerID)
	if err != nil {
		return err
	}

	c.game.start(created.GameID, created.Board, created.Status)
	c.do(func(s *sequencer.Sequencer) { s.Reset(created.Board) })
	fmt.Fprintf(c.out, "%sGame %d started. Drop a disc with a column number 0-6.%s\n", display.Green, created.GameID, display.Reset)
	return nil
}

func (c *client) drop(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: drop <column>")
	}
	column, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("column must be a number: %q", args[0])
	}

	state := c.game.snapshot()
	if state.GameID == 0 {
		return errors.New("no game in progress, type 'new'")
	}
	if !c.acceptsInput() {
		return errors.New("wait for the discs to land")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	result, err := c.api.MakeMove(reqCtx, state.GameID, column)
	if err != nil {
		// rejected moves leave the rendered board as it was
		return err
	}

	c.game.record(*result)
	var beginErr error
	c.do(func(s *sequencer.Sequencer) { beginErr = s.BeginTurn(*result) })
	return beginErr
}

func (c *client) hover(args []string) error {
	column := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("column must be a number: %q", args[0])
		}
		column = v
	}
	c.do(func(s *sequencer.Sequencer) { s.Hover(column) })
	return nil
}

func (c *client) showBoard() error {
	if !c.acceptsInput() {
		return errors.New("wait for the discs to land")
	}
	state := c.game.snapshot()
	c.do(func(s *sequencer.Sequencer) { s.Reset(state.Board) })
	return nil
}

func (c *client) listRemote(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	summaries, err := c.api.ListGames(reqCtx, c.cfg.PlayerID)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(c.out, "No games on the server yet.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintln(c.out, display.GameLine(s.SessionID, s.StartedAt, s.DurationSeconds, s.Result, s.MoveCount))
	}
	return nil
}

func (c *client) listLocal(ctx context.Context) error {
	games, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(c.out, "No saved replays yet.")
		return nil
	}
	for _, g := range games {
		duration := g.DurationSeconds
		fmt.Fprintf(c.out, "%s  (game %d)\n", display.GameLine(g.ID, g.StartedAt, &duration, g.Result, g.MoveCount), g.GameID)
	}
	return nil
}

func (c *client) replay(ctx context.Context, args []string) error {
	if !c.acceptsInput() {
		return errors.New("wait for the discs to land")
	}

	var moves []domain.Move
	switch {
	case len(args) == 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("replay id must be a number: %q", args[0])
		}
		game, err := c.store.Load(ctx, id)
		if err != nil {
			return err
		}
		moves = game.Moves
	case len(args) == 2 && args[0] == "remote":
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("game id must be a number: %q", args[1])
		}
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		record, err := c.api.LoadReplay(reqCtx, id)
		if err != nil {
			return err
		}
		moves = record.Moves
	default:
		return errors.New("usage: replay <id> | replay remote <gameId>")
	}

	var beginErr error
	c.do(func(s *sequencer.Sequencer) { beginErr = s.BeginReplay(moves) })
	return beginErr
}

func (c *client) deleteRemote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <gameId>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("game id must be a number: %q", args[0])
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := c.api.DeleteGame(reqCtx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Game %d deleted.\n", id)
	return nil
}

func (c *client) health(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	health, err := c.api.Health(reqCtx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%sserver %s, %d live sessions%s\n", display.Green, health.Status, health.Sessions, display.Reset)
	return nil
}

func (c *client) help() {
	fmt.Fprintln(c.out, `Commands:
  new                     start a game against the server
  <0-6> | drop <0-6>      drop a disc into a column
  hover <0-6>             preview a column
  board                   redraw the current game
  games                   list your games on the server
  replays                 list replays saved on this machine
  replay <id>             play a saved replay
  replay remote <gameId>  play a finished game from the server
  delete <gameId>         delete a game on the server
  health                  check the server
  exit                    quit
Append -v to a command to log its API calls.`)
}

// handleEvents runs off the sequencer goroutine so saving a replay never
// stalls the animation.
func (c *client) handleEvents(ctx context.Context, events <-chan event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch {
			case ev.result != nil && ev.result.Status.IsTerminal():
				fmt.Fprintln(c.out, display.ResultMessage(ev.result.Status))
				c.saveReplay(ctx)
			case ev.replayDone:
				fmt.Fprintf(c.out, "%sReplay finished.%s Type 'board' to return to your game.\n", display.Cyan, display.Reset)
			}
		}
	}
}

func (c *client) saveReplay(ctx context.Context) {
	state := c.game.snapshot()
	id, err := c.store.Save(ctx, replaydb.ReplayGame{
		GameID:    state.GameID,
		PlayerID:  c.cfg.PlayerID,
		StartedAt: state.StartedAt,
		EndedAt:   time.Now().UTC(),
		Result:    state.Status,
		Moves:     state.Moves,
	})
	if err != nil {
		c.printError(fmt.Errorf("saving replay: %w", err))
		return
	}
	fmt.Fprintf(c.out, "Saved as replay %d.\n", id)
}

func (c *client) acceptsInput() bool {
	accepts := false
	c.do(func(s *sequencer.Sequencer) { accepts = s.AcceptsInput() })
	return accepts
}

func (c *client) do(fn func(*sequencer.Sequencer)) {
	_ = c.loop.Do(fn)
}

func (c *client) printError(err error) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, domain.ErrColumnFull):
		fmt.Fprintf(c.out, "%sThat column is full.%s\n", display.Red, display.Reset)
	case errors.Is(err, domain.ErrColumnOutOfRange):
		fmt.Fprintf(c.out, "%sColumns go from 0 to 6.%s\n", display.Red, display.Reset)
	case errors.Is(err, domain.ErrGameAlreadyFinished):
		fmt.Fprintf(c.out, "%sThis game is over, type 'new'.%s\n", display.Red, display.Reset)
	case errors.Is(err, domain.ErrSessionBusy):
		fmt.Fprintf(c.out, "%sThe server is still processing your last move.%s\n", display.Red, display.Reset)
	case errors.Is(err, domain.ErrReplayNotFound):
		fmt.Fprintf(c.out, "%sNo such replay.%s\n", display.Red, display.Reset)
	case errors.As(err, &apiErr) && apiErr.Code != "":
		fmt.Fprintf(c.out, "%sError: %s%s\n%sCode: %s%s\n", display.Red, apiErr.Message, display.Reset, display.Red, apiErr.Code, display.Reset)
	default:
		fmt.Fprintf(c.out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
}
