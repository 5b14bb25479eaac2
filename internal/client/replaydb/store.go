package replaydb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

//go:embed schema.sql
var schema string

// ReplayGame is a finished game saved on this machine.
type ReplayGame struct {
	ID              int64
	GameID          int64
	PlayerID        int64
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	Result          domain.Status
	MoveCount       int
	Moves           []domain.Move
}

// Store keeps finished games in a local SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection, so the pragma below holds for every query
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a finished game with its moves and returns the local id.
func (s *Store) Save(ctx context.Context, g ReplayGame) (int64, error) {
	if !g.Result.IsTerminal() {
		return 0, fmt.Errorf("cannot save a game with result %q", g.Result)
	}
	if _, err := domain.Rebuild(g.Moves); err != nil {
		return 0, fmt.Errorf("cannot save replay: %w", err)
	}

	duration := g.DurationSeconds
	if duration == 0 {
		duration = int(g.EndedAt.Sub(g.StartedAt).Seconds())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO replay_games (game_id, player_id, started_at, ended_at, duration_seconds, result)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.GameID, g.PlayerID, g.StartedAt.UTC(), g.EndedAt.UTC(), duration, string(g.Result),
	)
	if err != nil {
		return 0, fmt.Errorf("insert replay: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO replay_moves (replay_id, turn_index, actor, col, row_index)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, m := range g.Moves {
		if _, err := stmt.ExecContext(ctx, id, m.TurnIndex, string(m.Actor), m.Column, m.Row); err != nil {
			return 0, fmt.Errorf("insert move %d: %w", m.TurnIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// List returns saved games newest first, without their moves.
func (s *Store) List(ctx context.Context) ([]ReplayGame, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.game_id, g.player_id, g.started_at, g.ended_at, g.duration_seconds, g.result,
		       (SELECT COUNT(*) FROM replay_moves m WHERE m.replay_id = g.id)
		FROM replay_games g
		ORDER BY g.started_at DESC, g.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []ReplayGame
	for rows.Next() {
		var g ReplayGame
		var result string
		if err := rows.Scan(&g.ID, &g.GameID, &g.PlayerID, &g.StartedAt, &g.EndedAt, &g.DurationSeconds, &result, &g.MoveCount); err != nil {
			return nil, err
		}
		g.Result = domain.Status(result)
		games = append(games, g)
	}
	return games, rows.Err()
}

// Load returns one saved game with its moves in turn order.
func (s *Store) Load(ctx context.Context, id int64) (*ReplayGame, error) {
	var g ReplayGame
	var result string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, game_id, player_id, started_at, ended_at, duration_seconds, result
		FROM replay_games WHERE id = ?`, id,
	).Scan(&g.ID, &g.GameID, &g.PlayerID, &g.StartedAt, &g.EndedAt, &g.DurationSeconds, &result)
	if err == sql.ErrNoRows {
		return nil, domain.ErrReplayNotFound
	}
	if err != nil {
		return nil, err
	}
	g.Result = domain.Status(result)

	rows, err := s.db.QueryContext(ctx, `
		SELECT turn_index, actor, col, row_index
		FROM replay_moves WHERE replay_id = ?
		ORDER BY turn_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Move
		var actor string
		if err := rows.Scan(&m.TurnIndex, &actor, &m.Column, &m.Row); err != nil {
			return nil, err
		}
		m.Actor = domain.Actor(actor)
		g.Moves = append(g.Moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	g.MoveCount = len(g.Moves)
	return &g, nil
}

// Delete removes a saved game. It reports whether one existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM replay_games WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
