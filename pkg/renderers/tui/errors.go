package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field keeps rejecting answers.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
)
