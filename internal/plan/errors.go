package plan

import "errors"

var (
	// ErrInvalidDateFormat indicates a date string that is not a valid DD/MM/YYYY calendar date.
	ErrInvalidDateFormat = errors.New("invalid date format, use DD/MM/YYYY")

	// ErrNoActiveDate indicates an operation that needs a date was attempted without one.
	ErrNoActiveDate = errors.New("no active date set")

	// ErrInvalidPosition indicates a task position outside 1..length or a non-numeric position.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidTask indicates task text that cannot be stored on a single line.
	ErrInvalidTask = errors.New("task must be a single line")
)
