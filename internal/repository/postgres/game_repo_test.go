package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-replay/internal/domain"
	"github.com/iamasit07/connect4-replay/testing/suite"
)

func newRepo(t *testing.T) (context.Context, *GameRepo) {
	ctx, st := suite.NewPostgres(t)
	require.NoError(t, RunMigrations(ctx, st.DB))
	return ctx, NewGameRepo(st.DB)
}

func TestGameRepo_Lifecycle(t *testing.T) {
	ctx, repo := newRepo(t)
	started := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	// Given: a game with one full turn stored
	id, err := repo.CreateGame(ctx, 12, started)
	require.NoError(t, err)

	moves := []domain.Move{
		{TurnIndex: 0, Actor: domain.Human, Column: 3, Row: 5},
		{TurnIndex: 1, Actor: domain.Opponent, Column: 4, Row: 5},
	}
	require.NoError(t, repo.AppendMoves(ctx, id, moves...))

	// When: it is finalized
	err = repo.FinalizeGame(ctx, id, domain.StatusDraw, started, started.Add(42*time.Second))
	require.NoError(t, err)

	// Then: the record is complete and immutable
	record, err := repo.GetGame(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.IsFinalized())
	assert.Equal(t, domain.StatusDraw, record.Result)
	assert.Equal(t, moves, record.Moves)
	assert.True(t, started.Equal(record.StartedAt))

	summaries, err := repo.ListGamesByPlayer(ctx, 12)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].DurationSeconds)
	assert.Equal(t, 42, *summaries[0].DurationSeconds)
	assert.Equal(t, 2, summaries[0].MoveCount)

	assert.Error(t, repo.AppendMoves(ctx, id, domain.Move{TurnIndex: 2, Actor: domain.Human, Column: 0, Row: 5}))
	assert.Error(t, repo.FinalizeGame(ctx, id, domain.StatusWon, started, started))
}

func TestGameRepo_AppendMoves(t *testing.T) {
	ctx, repo := newRepo(t)
	id, err := repo.CreateGame(ctx, 1, time.Now().UTC())
	require.NoError(t, err)

	t.Run("Duplicate turn index is rejected and nothing from the batch is stored", func(t *testing.T) {
		require.NoError(t, repo.AppendMoves(ctx, id, domain.Move{TurnIndex: 0, Actor: domain.Human, Column: 0, Row: 5}))

		err := repo.AppendMoves(ctx, id,
			domain.Move{TurnIndex: 1, Actor: domain.Opponent, Column: 1, Row: 5},
			domain.Move{TurnIndex: 0, Actor: domain.Human, Column: 2, Row: 5},
		)

		require.Error(t, err)
		record, err := repo.GetGame(ctx, id)
		require.NoError(t, err)
		assert.Len(t, record.Moves, 1)
	})

	t.Run("Unknown game is rejected", func(t *testing.T) {
		err := repo.AppendMoves(ctx, 999999, domain.Move{TurnIndex: 0, Actor: domain.Human})

		assert.Error(t, err)
	})
}

func TestGameRepo_GetGame_NotFound(t *testing.T) {
	ctx, repo := newRepo(t)

	record, err := repo.GetGame(ctx, 424242)

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestGameRepo_DeleteGame(t *testing.T) {
	ctx, repo := newRepo(t)
	id, err := repo.CreateGame(ctx, 3, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.AppendMoves(ctx, id, domain.Move{TurnIndex: 0, Actor: domain.Human, Column: 6, Row: 5}))

	deleted, err := repo.DeleteGame(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	record, err := repo.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, record)

	deleted, err = repo.DeleteGame(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGameRepo_ListGamesByPlayer_Order(t *testing.T) {
	ctx, repo := newRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, _ := repo.CreateGame(ctx, 8, base)
	second, _ := repo.CreateGame(ctx, 8, base.Add(time.Minute))
	_, _ = repo.CreateGame(ctx, 9, base.Add(2*time.Minute))

	summaries, err := repo.ListGamesByPlayer(ctx, 8)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second, summaries[0].SessionID)
	assert.Equal(t, first, summaries[1].SessionID)
	assert.Nil(t, summaries[0].EndedAt)
	assert.Equal(t, domain.StatusPlaying, summaries[0].Result)
}
