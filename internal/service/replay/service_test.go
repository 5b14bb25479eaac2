package replay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-replay/internal/domain"
	"github.com/iamasit07/connect4-replay/internal/repository/memory"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *mockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type mockEvicter struct {
	mock.Mock
}

func (m *mockEvicter) RemoveSession(gameID int64) bool {
	return m.Called(gameID).Bool(0)
}

var errMiss = errors.New("miss")

func finishedGame(t *testing.T, ctx context.Context, store *memory.Store) int64 {
	t.Helper()

	started := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	id, err := store.CreateGame(ctx, 4, started)
	require.NoError(t, err)
	require.NoError(t, store.AppendMoves(ctx, id,
		domain.Move{TurnIndex: 0, Actor: domain.Human, Column: 2, Row: 5},
		domain.Move{TurnIndex: 1, Actor: domain.Opponent, Column: 2, Row: 4},
	))
	require.NoError(t, store.FinalizeGame(ctx, id, domain.StatusLost, started, started.Add(time.Minute)))
	return id
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Finalized game is loaded from the store and written to the cache", func(t *testing.T) {
		// Given
		store := memory.NewStore()
		id := finishedGame(t, ctx, store)
		cache := new(mockCache)
		cache.On("Get", mock.Anything, "replay:1").Return(nil, errMiss)
		cache.On("Set", mock.Anything, "replay:1", mock.Anything, 5*time.Minute).Return(nil)
		svc := NewService(store, cache, 5*time.Minute, nil, nil)

		// When
		record, err := svc.Load(ctx, id)

		// Then
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLost, record.Result)
		require.Len(t, record.Moves, 2)
		assert.Equal(t, 0, record.Moves[0].TurnIndex)
		assert.Equal(t, 1, record.Moves[1].TurnIndex)
		cache.AssertExpectations(t)
	})

	t.Run("Cache hit does not touch the store", func(t *testing.T) {
		ended := time.Date(2024, 2, 2, 8, 1, 0, 0, time.UTC)
		cached := domain.ReplayRecord{
			SessionID: 9, PlayerID: 4, EndedAt: &ended, Result: domain.StatusWon,
			Moves: []domain.Move{{TurnIndex: 0, Actor: domain.Human, Column: 1, Row: 5}},
		}
		data, err := json.Marshal(cached)
		require.NoError(t, err)
		cache := new(mockCache)
		cache.On("Get", mock.Anything, "replay:9").Return(data, nil)
		svc := NewService(memory.NewStore(), cache, time.Minute, nil, nil)

		record, err := svc.Load(ctx, 9)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusWon, record.Result)
		assert.Equal(t, cached.Moves, record.Moves)
	})

	t.Run("Missing game yields ErrReplayNotFound", func(t *testing.T) {
		svc := NewService(memory.NewStore(), nil, time.Minute, nil, nil)

		_, err := svc.Load(ctx, 77)

		assert.ErrorIs(t, err, domain.ErrReplayNotFound)
	})

	t.Run("Game still being played is not a replay", func(t *testing.T) {
		store := memory.NewStore()
		id, _ := store.CreateGame(ctx, 1, time.Now())
		svc := NewService(store, nil, time.Minute, nil, nil)

		_, err := svc.Load(ctx, id)

		assert.ErrorIs(t, err, domain.ErrReplayNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	finishedGame(t, ctx, store)
	svc := NewService(store, nil, time.Minute, nil, nil)

	summaries, err := svc.List(ctx, 4)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].MoveCount)
	require.NotNil(t, summaries[0].DurationSeconds)
	assert.Equal(t, 60, *summaries[0].DurationSeconds)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleting evicts the live session and the cache entry", func(t *testing.T) {
		// Given
		store := memory.NewStore()
		id := finishedGame(t, ctx, store)
		cache := new(mockCache)
		cache.On("Del", mock.Anything, []string{"replay:1"}).Return(nil)
		evicter := new(mockEvicter)
		evicter.On("RemoveSession", id).Return(true)
		svc := NewService(store, cache, time.Minute, evicter, nil)

		// When
		err := svc.Delete(ctx, id)

		// Then
		require.NoError(t, err)
		record, _ := store.GetGame(ctx, id)
		assert.Nil(t, record)
		cache.AssertExpectations(t)
		evicter.AssertExpectations(t)
	})

	t.Run("Deleting an unknown game yields ErrReplayNotFound", func(t *testing.T) {
		svc := NewService(memory.NewStore(), nil, time.Minute, nil, nil)

		err := svc.Delete(ctx, 5)

		assert.ErrorIs(t, err, domain.ErrReplayNotFound)
	})
}
