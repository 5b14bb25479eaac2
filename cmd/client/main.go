// Package main implements the terminal Connect Four client.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/client/api"
	"github.com/iamasit07/connect4-replay/internal/client/config"
	"github.com/iamasit07/connect4-replay/internal/client/display"
	"github.com/iamasit07/connect4-replay/internal/client/replaydb"
	"github.com/iamasit07/connect4-replay/internal/client/sequencer"
	"github.com/iamasit07/connect4-replay/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	store, err := replaydb.Open(cfg.ReplayDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer store.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("connect4"),
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	out := rl.Stdout()
	geometry := sequencer.DefaultConfig()
	geometry.FallSpeed = cfg.FallSpeed
	geometry.OpponentDelayTicks = sequencer.TicksFor(cfg.OpponentDelay(), cfg.Tick())
	geometry.ReplayPauseTicks = sequencer.TicksFor(cfg.ReplayPause(), cfg.Tick())

	renderer := display.NewTerminalRenderer(out, int(os.Stdout.Fd()), geometry)
	events := make(chan event, 8)
	seq := sequencer.New(geometry, renderer, sequencer.Hooks{
		OnTurnResolved:   func(r domain.TurnResult) { events <- event{result: &r} },
		OnReplayFinished: func() { events <- event{replayDone: true} },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := sequencer.NewLoop(seq, cfg.Tick())
	go loop.Run(ctx)

	c := &client{
		cfg:      cfg,
		api:      api.New(cfg.APIURL, logger),
		store:    store,
		loop:     loop,
		renderer: renderer,
		out:      out,
		game:     &liveGame{},
	}
	go c.handleEvents(ctx, events)

	fmt.Fprintf(out, "%sConnect Four%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "%sAPI: %s  Player: %d%s\n", display.Cyan, cfg.APIURL, cfg.PlayerID, display.Reset)
	fmt.Fprintf(out, "Type 'help' for commands\n\n")

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		// Check for verbose flag
		if strings.HasSuffix(line, " -v") {
			c.api.SetVerbose(true)
			line = strings.TrimSuffix(line, " -v")
		} else {
			c.api.SetVerbose(false)
		}

		_ = loop.Do(func(*sequencer.Sequencer) { renderer.Detach() })
		c.execute(ctx, line)
	}
}
