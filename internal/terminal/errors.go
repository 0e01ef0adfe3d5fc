package terminal

import "errors"

var (
	// ErrKilled is returned by a read that was woken by Kill. A killed device
	// stays dead; every later read fails the same way.
	ErrKilled = errors.New("terminal killed")

	// ErrQuit is returned when the event source delivered a quit event.
	ErrQuit = errors.New("quit requested")
)
