package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the terminal client settings, read from CONNECT4_* variables.
type Config struct {
	APIURL          string `env:"CONNECT4_API_URL" env-default:"http://localhost:8080"`
	PlayerID        int64  `env:"CONNECT4_PLAYER_ID" env-default:"1"`
	ReplayDB        string `env:"CONNECT4_REPLAY_DB" env-default:"replays.sqlite"`
	HistoryFile     string `env:"CONNECT4_HISTORY_FILE" env-default:"/tmp/connect4_history"`
	TickMS          int    `env:"CONNECT4_TICK_MS" env-default:"16"`
	FallSpeed       int    `env:"CONNECT4_FALL_SPEED" env-default:"18"`
	OpponentDelayMS int    `env:"CONNECT4_OPPONENT_DELAY_MS" env-default:"500"`
	ReplayPauseMS   int    `env:"CONNECT4_REPLAY_PAUSE_MS" env-default:"480"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to read client config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.PlayerID < 1:
		return fmt.Errorf("CONNECT4_PLAYER_ID must be positive, got %d", c.PlayerID)
	case c.TickMS < 1:
		return fmt.Errorf("CONNECT4_TICK_MS must be positive, got %d", c.TickMS)
	case c.FallSpeed < 1:
		return fmt.Errorf("CONNECT4_FALL_SPEED must be positive, got %d", c.FallSpeed)
	case c.OpponentDelayMS < 0 || c.ReplayPauseMS < 0:
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

func (c *Config) OpponentDelay() time.Duration {
	return time.Duration(c.OpponentDelayMS) * time.Millisecond
}

func (c *Config) ReplayPause() time.Duration {
	return time.Duration(c.ReplayPauseMS) * time.Millisecond
}
