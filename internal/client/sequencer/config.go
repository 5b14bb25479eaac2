package sequencer

import "time"

// Config holds the board geometry in pixels and the pauses in ticks.
type Config struct {
	CellSize  int
	BoardTop  int
	FallSpeed int

	OpponentDelayTicks int
	ReplayPauseTicks   int
}

const (
	DefaultTick          = 16 * time.Millisecond
	DefaultCellSize      = 64
	DefaultBoardTop      = 100
	DefaultFallSpeed     = 18
	DefaultOpponentDelay = 500 * time.Millisecond
	DefaultReplayPause   = 30
)

func DefaultConfig() Config {
	return Config{
		CellSize:           DefaultCellSize,
		BoardTop:           DefaultBoardTop,
		FallSpeed:          DefaultFallSpeed,
		OpponentDelayTicks: TicksFor(DefaultOpponentDelay, DefaultTick),
		ReplayPauseTicks:   DefaultReplayPause,
	}
}

// TicksFor converts a delay to whole ticks, rounding up so a pause is never
// shorter than asked for.
func TicksFor(d, tick time.Duration) int {
	if d <= 0 || tick <= 0 {
		return 0
	}
	return int((d + tick - 1) / tick)
}

// StartY is where every disc begins, half a cell above the board.
func (c Config) StartY() int {
	return c.BoardTop - c.CellSize/2
}

// TargetY is the pixel centre of row.
func (c Config) TargetY(row int) int {
	return c.BoardTop + row*c.CellSize + c.CellSize/2
}

// FallTicks is how many ticks a disc needs to land on row.
func (c Config) FallTicks(row int) int {
	distance := c.TargetY(row) - c.StartY()
	return (distance + c.FallSpeed - 1) / c.FallSpeed
}

// RowAt maps a pixel position to the board row it overlaps, -1 above the board.
func (c Config) RowAt(y int) int {
	if y < c.BoardTop {
		return -1
	}
	return (y - c.BoardTop) / c.CellSize
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.CellSize <= 0 {
		c.CellSize = d.CellSize
	}
	if c.FallSpeed <= 0 {
		c.FallSpeed = d.FallSpeed
	}
	if c.OpponentDelayTicks < 0 {
		c.OpponentDelayTicks = 0
	}
	if c.ReplayPauseTicks < 0 {
		c.ReplayPauseTicks = 0
	}
	return c
}
