package engine

import "errors"

var (
	// ErrEmptyInput is returned when a required free-text field is blank after trimming.
	ErrEmptyInput = errors.New("empty input")
	// ErrTooFewTasks guards the wheel: at least two sections are needed to spin.
	ErrTooFewTasks = errors.New("add at least 2 tasks to spin")
	// ErrOutOfRange is returned when an index does not address an existing entry.
	ErrOutOfRange = errors.New("index out of range")
	// ErrBlockOverlap is returned when a time block intersects an existing one.
	ErrBlockOverlap = errors.New("time block overlaps an existing block")
	// ErrInvalidHours rejects commitment hours outside (0, 168].
	ErrInvalidHours = errors.New("hours must be between 0 and 168")
	// ErrInvalidTime rejects malformed HH:MM values or empty ranges.
	ErrInvalidTime = errors.New("invalid time")
)
