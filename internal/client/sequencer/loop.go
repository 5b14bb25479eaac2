package sequencer

import (
	"context"
	"errors"
	"time"
)

var ErrLoopStopped = errors.New("sequencer loop is not running")

// Loop owns a Sequencer and drives it from a ticker on one goroutine. Every
// other goroutine reaches the Sequencer through Do.
type Loop struct {
	seq   *Sequencer
	tick  time.Duration
	calls chan call
	done  chan struct{}
}

type call struct {
	fn   func(*Sequencer)
	done chan struct{}
}

func NewLoop(seq *Sequencer, tick time.Duration) *Loop {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Loop{
		seq:   seq,
		tick:  tick,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.seq.Tick()
		case c := <-l.calls:
			c.fn(l.seq)
			close(c.done)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return. Calling Do
// from a Hook or Renderer deadlocks.
func (l *Loop) Do(fn func(*Sequencer)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case l.calls <- c:
	case <-l.done:
		return ErrLoopStopped
	}
	<-c.done
	return nil
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
