package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

type GameSession struct {
	ID           int64
	PlayerID     int64
	Game         *domain.Game
	CreatedAt    time.Time
	FinishedAt   time.Time
	LastActivity time.Time
	// finalized is false for a finished session whose result could not be
	// written yet; cleanup retries it before eviction.
	finalized bool
	mu        sync.Mutex
}

// Snapshot is a copy of a session's state that is safe to hand out.
type Snapshot struct {
	GameID    int64         `json:"gameId"`
	PlayerID  int64         `json:"playerId"`
	Board     domain.Board  `json:"board"`
	Status    domain.Status `json:"status"`
	Moves     []domain.Move `json:"moves"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
}

func (gs *GameSession) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:    gs.ID,
		PlayerID:  gs.PlayerID,
		Board:     gs.Game.Board,
		Status:    gs.Game.Status,
		Moves:     append([]domain.Move{}, gs.Game.Moves...),
		StartedAt: gs.CreatedAt,
	}
	if gs.Game.IsFinished() {
		ended := gs.FinishedAt
		snap.EndedAt = &ended
	}
	return snap
}

// SessionManager manages active game sessions. Each session processes one
// move at a time; different sessions never share mutable state.
type SessionManager struct {
	sessions map[int64]*GameSession // gameID → GameSession
	mu       sync.RWMutex
	repo     GameRepository
	selector domain.MoveSelector
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionManager(repo GameRepository, selector domain.MoveSelector, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[int64]*GameSession),
		repo:     repo,
		selector: selector,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSession persists a new game for playerID and starts tracking it.
func (sm *SessionManager) CreateSession(ctx context.Context, playerID int64) (Snapshot, error) {
	startedAt := sm.now().UTC()
	gameID, err := sm.repo.CreateGame(ctx, playerID, startedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create game: %w", err)
	}

	session := &GameSession{
		ID:           gameID,
		PlayerID:     playerID,
		Game:         domain.NewGame(),
		CreatedAt:    startedAt,
		LastActivity: startedAt,
		finalized:    false,
	}

	sm.mu.Lock()
	sm.sessions[gameID] = session
	sm.mu.Unlock()

	sm.logger.Info("session created", zap.Int64("game_id", gameID), zap.Int64("player_id", playerID))
	return session.snapshotLocked(), nil
}

// SubmitMove runs one turn for gameID. A second request arriving while the
// session is still processing is rejected with domain.ErrSessionBusy.
func (sm *SessionManager) SubmitMove(ctx context.Context, gameID int64, column int) (domain.TurnResult, error) {
	session, err := sm.lookup(ctx, gameID)
	if err != nil {
		return domain.TurnResult{}, err
	}

	if !session.mu.TryLock() {
		return domain.TurnResult{}, domain.ErrSessionBusy
	}
	defer session.mu.Unlock()

	next := session.Game.Clone()
	result, err := next.PlayTurn(column, sm.selector)
	if err != nil {
		return domain.TurnResult{}, err
	}

	newMoves := next.Moves[len(session.Game.Moves):]
	if err := sm.repo.AppendMoves(ctx, gameID, newMoves...); err != nil {
		return domain.TurnResult{}, fmt.Errorf("append moves: %w", err)
	}

	now := sm.now().UTC()
	session.Game = next
	session.LastActivity = now

	if next.IsFinished() {
		session.FinishedAt = now
		sm.finalizeLocked(ctx, session)
	}

	fields := []zap.Field{
		zap.Int64("game_id", gameID),
		zap.Int("column", column),
		zap.String("status", string(result.Status)),
	}
	if result.OpponentMove != nil {
		fields = append(fields, zap.Int("opponent_column", result.OpponentMove.Column))
	}
	sm.logger.Debug("turn played", fields...)

	return result, nil
}

// GetSession returns the current state of gameID, restoring it from the
// store when necessary.
func (sm *SessionManager) GetSession(ctx context.Context, gameID int64) (Snapshot, error) {
	session, err := sm.lookup(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshotLocked(), nil
}

// RemoveSession drops gameID from memory. It reports whether it was present.
func (sm *SessionManager) RemoveSession(gameID int64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return false
	}
	delete(sm.sessions, gameID)
	sm.logger.Debug("session removed", zap.Int64("game_id", gameID))
	return true
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupOldSessions evicts finished sessions older than finishedTTL and
// playing sessions idle longer than idleTTL. Busy sessions are skipped.
func (sm *SessionManager) CleanupOldSessions(ctx context.Context, idleTTL, finishedTTL time.Duration) int {
	sm.mu.Lock()
	candidates := make([]*GameSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		candidates = append(candidates, session)
	}
	sm.mu.Unlock()

	now := sm.now()
	count := 0

	for _, session := range candidates {
		if !session.mu.TryLock() {
			continue
		}

		evict := false
		if session.Game.IsFinished() {
			if !session.finalized {
				sm.finalizeLocked(ctx, session)
			}
			evict = session.finalized && now.Sub(session.FinishedAt) > finishedTTL
		} else {
			evict = now.Sub(session.LastActivity) > idleTTL
		}

		if evict {
			sm.mu.Lock()
			if sm.sessions[session.ID] == session {
				delete(sm.sessions, session.ID)
				count++
			}
			sm.mu.Unlock()
		}
		session.mu.Unlock()
	}

	if count > 0 {
		sm.logger.Info("memory cleanup", zap.Int("removed", count))
	}
	return count
}

// finalizeLocked writes the terminal result. A failure is logged and left for
// cleanup to retry; the turn itself is already committed.
func (sm *SessionManager) finalizeLocked(ctx context.Context, session *GameSession) {
	err := sm.repo.FinalizeGame(ctx, session.ID, session.Game.Status, session.CreatedAt, session.FinishedAt)
	if err != nil {
		sm.logger.Error("finalize game",
			zap.Int64("game_id", session.ID),
			zap.String("result", string(session.Game.Status)),
			zap.Error(err),
		)
		return
	}
	session.finalized = true
	sm.logger.Info("game finished",
		zap.Int64("game_id", session.ID),
		zap.String("result", string(session.Game.Status)),
		zap.Int("moves", len(session.Game.Moves)),
	)
}

func (sm *SessionManager) lookup(ctx context.Context, gameID int64) (*GameSession, error) {
	sm.mu.RLock()
	session, exists := sm.sessions[gameID]
	sm.mu.RUnlock()
	if exists {
		return session, nil
	}

	restored, err := sm.restore(ctx, gameID)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	// another request may have restored it meanwhile
	if session, exists := sm.sessions[gameID]; exists {
		return session, nil
	}
	sm.sessions[gameID] = restored
	return restored, nil
}

// restore rebuilds a session by replaying its stored moves.
func (sm *SessionManager) restore(ctx context.Context, gameID int64) (*GameSession, error) {
	record, err := sm.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game %d: %w", gameID, err)
	}
	if record == nil {
		return nil, domain.ErrSessionNotFound
	}

	game, err := domain.RestoreGame(record.Moves)
	if err != nil {
		return nil, fmt.Errorf("restore game %d: %w", gameID, err)
	}

	session := &GameSession{
		ID:           record.SessionID,
		PlayerID:     record.PlayerID,
		Game:         game,
		CreatedAt:    record.StartedAt,
		LastActivity: sm.now().UTC(),
		finalized:    record.IsFinalized(),
	}
	if record.EndedAt != nil {
		session.FinishedAt = *record.EndedAt
	}

	if game.IsFinished() && !session.finalized {
		// moves were stored but the result never was
		session.FinishedAt = sm.now().UTC()
		sm.finalizeLocked(ctx, session)
	}

	sm.logger.Info("session restored",
		zap.Int64("game_id", gameID),
		zap.Int("moves", len(game.Moves)),
		zap.String("status", string(game.Status)),
	)
	return session, nil
}
