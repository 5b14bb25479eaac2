package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{ErrColumnOutOfRange, CodeColumnOutOfRange},
		{ErrColumnFull, CodeColumnFull},
		{ErrGameAlreadyFinished, CodeGameFinished},
		{ErrSessionBusy, CodeSessionBusy},
		{ErrSessionNotFound, CodeSessionNotFound},
		{ErrReplayNotFound, CodeReplayNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			wrapped := fmt.Errorf("submit move: %w", tt.err)

			assert.Equal(t, tt.code, ErrorCode(wrapped))
			assert.ErrorIs(t, ErrorFromCode(tt.code), tt.err)
		})
	}

	t.Run("Unknown errors are internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, ErrorCode(errors.New("disk on fire")))
		assert.Nil(t, ErrorFromCode(CodeInternal))
	})

	t.Run("Both illegal move kinds keep their own code", func(t *testing.T) {
		assert.ErrorIs(t, ErrorFromCode(CodeColumnFull), ErrIllegalMove)
		assert.NotErrorIs(t, ErrColumnFull, ErrColumnOutOfRange)
	})
}
