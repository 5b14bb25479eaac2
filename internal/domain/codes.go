package domain

import "errors"

// Machine-readable error codes shared by the server transports and the client.
const (
	CodeColumnOutOfRange = "column_out_of_range"
	CodeColumnFull       = "column_full"
	CodeGameFinished     = "game_finished"
	CodeSessionBusy      = "session_busy"
	CodeSessionNotFound  = "session_not_found"
	CodeReplayNotFound   = "replay_not_found"
	CodeInvalidRequest   = "invalid_request"
	CodeInternal         = "internal"
)

// ErrorCode classifies err. Unknown errors are CodeInternal.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrColumnOutOfRange):
		return CodeColumnOutOfRange
	case errors.Is(err, ErrColumnFull):
		return CodeColumnFull
	case errors.Is(err, ErrGameAlreadyFinished):
		return CodeGameFinished
	case errors.Is(err, ErrSessionBusy):
		return CodeSessionBusy
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, ErrReplayNotFound):
		return CodeReplayNotFound
	}
	return CodeInternal
}

// ErrorFromCode is the inverse of ErrorCode. Codes without a domain error
// return nil.
func ErrorFromCode(code string) error {
	switch code {
	case CodeColumnOutOfRange:
		return ErrColumnOutOfRange
	case CodeColumnFull:
		return ErrColumnFull
	case CodeGameFinished:
		return ErrGameAlreadyFinished
	case CodeSessionBusy:
		return ErrSessionBusy
	case CodeSessionNotFound:
		return ErrSessionNotFound
	case CodeReplayNotFound:
		return ErrReplayNotFound
	}
	return nil
}
