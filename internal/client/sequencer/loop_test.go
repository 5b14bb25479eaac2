package sequencer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

func TestLoop(t *testing.T) {
	resolved := make(chan domain.TurnResult, 1)
	seq := New(DefaultConfig(), &recorder{}, Hooks{
		OnTurnResolved: func(r domain.TurnResult) { resolved <- r },
	})
	loop := NewLoop(seq, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	// When: a turn is handed over from another goroutine
	var beginErr error
	require.NoError(t, loop.Do(func(s *Sequencer) {
		beginErr = s.BeginTurn(turn(domain.StatusWon, false))
	}))
	require.NoError(t, beginErr)

	// Then: the ticker drives it to completion
	select {
	case r := <-resolved:
		assert.Equal(t, domain.StatusWon, r.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("turn never resolved")
	}

	var accepts bool
	require.NoError(t, loop.Do(func(s *Sequencer) { accepts = s.AcceptsInput() }))
	assert.True(t, accepts)

	cancel()
	<-loop.Done()
	assert.ErrorIs(t, loop.Do(func(*Sequencer) {}), ErrLoopStopped)
}
