package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// CreateGame inserts a Playing game and returns its id.
func (r *GameRepo) CreateGame(ctx context.Context, playerID int64, startedAt time.Time) (int64, error) {
	query := `
	INSERT INTO games (player_id, status, started_at)
	VALUES ($1, 'Playing', $2)
	RETURNING id;
	`

	var id int64
	if err := r.DB.QueryRowContext(ctx, query, playerID, startedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}
	return id, nil
}

// AppendMoves stores moves after locking the game row, so a finalized game
// can never grow.
func (r *GameRepo) AppendMoves(ctx context.Context, gameID int64, moves ...domain.Move) error {
	if len(moves) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM games WHERE id = $1 FOR UPDATE;`, gameID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("game %d not found", gameID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock game: %w", err)
	}
	if domain.Status(status) != domain.StatusPlaying {
		return fmt.Errorf("game %d is finalized", gameID)
	}

	query := `
	INSERT INTO moves (game_id, turn_index, actor, col, row_index)
	VALUES ($1, $2, $3, $4, $5);
	`
	for _, m := range moves {
		if _, err := tx.ExecContext(ctx, query, gameID, m.TurnIndex, string(m.Actor), m.Column, m.Row); err != nil {
			return fmt.Errorf("failed to insert move %d: %w", m.TurnIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FinalizeGame records the result once. A second call fails.
func (r *GameRepo) FinalizeGame(ctx context.Context, gameID int64, result domain.Status, startedAt, endedAt time.Time) error {
	if !result.IsTerminal() {
		return fmt.Errorf("cannot finalize game %d with status %s", gameID, result)
	}

	query := `
	UPDATE games
	SET status = $2, ended_at = $3, duration_seconds = $4
	WHERE id = $1 AND status = 'Playing';
	`

	duration := int(endedAt.Sub(startedAt).Seconds())
	res, err := r.DB.ExecContext(ctx, query, gameID, string(result), endedAt, duration)
	if err != nil {
		return fmt.Errorf("failed to finalize game: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finalize game: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %d not found or already finalized", gameID)
	}
	return nil
}

// GetGame returns the game with its moves ordered by turn index, or nil, nil.
func (r *GameRepo) GetGame(ctx context.Context, gameID int64) (*domain.ReplayRecord, error) {
	query := `
	SELECT id, player_id, status, started_at, ended_at
	FROM games
	WHERE id = $1;
	`

	var record domain.ReplayRecord
	var status string
	var endedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, gameID).Scan(
		&record.SessionID,
		&record.PlayerID,
		&status,
		&record.StartedAt,
		&endedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	record.Result = domain.Status(status)
	if endedAt.Valid {
		t := endedAt.Time
		record.EndedAt = &t
	}

	moves, err := r.getMoves(ctx, gameID)
	if err != nil {
		return nil, err
	}
	record.Moves = moves
	return &record, nil
}

func (r *GameRepo) getMoves(ctx context.Context, gameID int64) ([]domain.Move, error) {
	query := `
	SELECT turn_index, actor, col, row_index
	FROM moves
	WHERE game_id = $1
	ORDER BY turn_index ASC;
	`

	rows, err := r.DB.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	moves := []domain.Move{}
	for rows.Next() {
		var m domain.Move
		var actor string
		if err := rows.Scan(&m.TurnIndex, &actor, &m.Column, &m.Row); err != nil {
			return nil, fmt.Errorf("failed to scan move row: %w", err)
		}
		m.Actor = domain.Actor(actor)
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moves: %w", err)
	}
	return moves, nil
}

// ListGamesByPlayer returns summaries newest first.
func (r *GameRepo) ListGamesByPlayer(ctx context.Context, playerID int64) ([]domain.ReplaySummary, error) {
	query := `
	SELECT g.id, g.player_id, g.status, g.started_at, g.ended_at, g.duration_seconds,
	       (SELECT COUNT(*) FROM moves m WHERE m.game_id = g.id) AS move_count
	FROM games g
	WHERE g.player_id = $1
	ORDER BY g.started_at DESC, g.id DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ReplaySummary{}
	for rows.Next() {
		var s domain.ReplaySummary
		var status string
		var endedAt sql.NullTime
		var duration sql.NullInt64

		if err := rows.Scan(&s.SessionID, &s.PlayerID, &status, &s.StartedAt, &endedAt, &duration, &s.MoveCount); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}

		s.Result = domain.Status(status)
		if endedAt.Valid {
			t := endedAt.Time
			s.EndedAt = &t
		}
		if duration.Valid {
			d := int(duration.Int64)
			s.DurationSeconds = &d
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return summaries, nil
}

// DeleteGame removes the game; its moves go with it through the cascade.
func (r *GameRepo) DeleteGame(ctx context.Context, gameID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM games WHERE id = $1;`, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete game: %w", err)
	}
	return affected > 0, nil
}
