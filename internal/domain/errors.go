package domain

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrIllegalMove         Error = "illegal move"
	ErrGameAlreadyFinished Error = "game already finished"
	ErrSessionNotFound     Error = "session not found"
	ErrSessionBusy         Error = "session is processing another move"
	ErrReplayNotFound      Error = "replay not found"
)

// illegalMove errors match ErrIllegalMove under errors.Is as well as themselves.
type illegalMove string

func (e illegalMove) Error() string {
	return "illegal move: " + string(e)
}

func (e illegalMove) Is(target error) bool {
	return target == ErrIllegalMove
}

var (
	ErrColumnOutOfRange error = illegalMove("column out of range")
	ErrColumnFull       error = illegalMove("column is full")
)
