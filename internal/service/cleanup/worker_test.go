package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) CleanupOldSessions(ctx context.Context, idleTTL, finishedTTL time.Duration) int {
	return m.Called(ctx, idleTTL, finishedTTL).Int(0)
}

func TestNewWorker(t *testing.T) {
	t.Run("Invalid schedule is rejected", func(t *testing.T) {
		_, err := NewWorker(new(mockSweeper), "every tuesday", time.Hour, time.Hour, zap.NewNop())

		assert.Error(t, err)
	})

	t.Run("Descriptors are accepted", func(t *testing.T) {
		for _, spec := range []string{"@hourly", "@every 10m", "*/5 * * * *"} {
			_, err := NewWorker(new(mockSweeper), spec, time.Hour, time.Hour, zap.NewNop())

			assert.NoError(t, err, spec)
		}
	})
}

func TestWorker_RunCleanup(t *testing.T) {
	// Given
	sweeper := new(mockSweeper)
	sweeper.On("CleanupOldSessions", mock.Anything, 2*time.Hour, 30*time.Minute).Return(3)
	w, err := NewWorker(sweeper, "@hourly", 2*time.Hour, 30*time.Minute, zap.NewNop())
	require.NoError(t, err)

	// When
	w.RunCleanup()

	// Then
	sweeper.AssertExpectations(t)
}

func TestWorker_StartStop(t *testing.T) {
	sweeper := new(mockSweeper)
	sweeper.On("CleanupOldSessions", mock.Anything, mock.Anything, mock.Anything).Return(0).Maybe()
	w, err := NewWorker(sweeper, "@every 1h", time.Hour, time.Hour, zap.NewNop())
	require.NoError(t, err)

	w.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
