package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

type gameRow struct {
	id        int64
	playerID  int64
	status    domain.Status
	startedAt time.Time
	endedAt   *time.Time
	duration  *int
	moves     []domain.Move
}

// Store keeps games and moves in process memory. It follows the same rules
// as the Postgres store: moves are append-only, ordered by turn index, and a
// finalized game no longer accepts writes.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	games  map[int64]*gameRow
}

func NewStore() *Store {
	return &Store{
		nextID: 1,
		games:  make(map[int64]*gameRow),
	}
}

func (s *Store) CreateGame(_ context.Context, playerID int64, startedAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.games[id] = &gameRow{
		id:        id,
		playerID:  playerID,
		status:    domain.StatusPlaying,
		startedAt: startedAt,
	}
	return id, nil
}

func (s *Store) AppendMoves(_ context.Context, gameID int64, moves ...domain.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game %d not found", gameID)
	}
	if row.status != domain.StatusPlaying {
		return fmt.Errorf("game %d is finalized", gameID)
	}

	next := len(row.moves)
	for i, m := range moves {
		if m.TurnIndex != next+i {
			return fmt.Errorf("game %d: expected turn index %d, got %d", gameID, next+i, m.TurnIndex)
		}
	}
	row.moves = append(row.moves, moves...)
	return nil
}

func (s *Store) FinalizeGame(_ context.Context, gameID int64, result domain.Status, startedAt, endedAt time.Time) error {
	if !result.IsTerminal() {
		return fmt.Errorf("cannot finalize game %d with status %s", gameID, result)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game %d not found", gameID)
	}
	if row.status != domain.StatusPlaying {
		return fmt.Errorf("game %d is already finalized", gameID)
	}

	duration := int(endedAt.Sub(startedAt).Seconds())
	ended := endedAt
	row.status = result
	row.endedAt = &ended
	row.duration = &duration
	return nil
}

func (s *Store) GetGame(_ context.Context, gameID int64) (*domain.ReplayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}

	record := &domain.ReplayRecord{
		SessionID: row.id,
		PlayerID:  row.playerID,
		StartedAt: row.startedAt,
		Result:    row.status,
		Moves:     append([]domain.Move{}, row.moves...),
	}
	if row.endedAt != nil {
		ended := *row.endedAt
		record.EndedAt = &ended
	}
	return record, nil
}

// ListGamesByPlayer returns the player's games, newest first.
func (s *Store) ListGamesByPlayer(_ context.Context, playerID int64) ([]domain.ReplaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []domain.ReplaySummary{}
	for _, row := range s.games {
		if row.playerID != playerID {
			continue
		}
		summary := domain.ReplaySummary{
			SessionID: row.id,
			PlayerID:  row.playerID,
			StartedAt: row.startedAt,
			Result:    row.status,
			MoveCount: len(row.moves),
		}
		if row.endedAt != nil {
			ended := *row.endedAt
			summary.EndedAt = &ended
		}
		if row.duration != nil {
			duration := *row.duration
			summary.DurationSeconds = &duration
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].StartedAt.Equal(summaries[j].StartedAt) {
			return summaries[i].SessionID > summaries[j].SessionID
		}
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	return summaries, nil
}

func (s *Store) DeleteGame(_ context.Context, gameID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return false, nil
	}
	delete(s.games, gameID)
	return true, nil
}
