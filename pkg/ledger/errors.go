package ledger

import "errors"

var (
	ErrInvalidRange = errors.New("invalid reservation range")

	ErrConflict = errors.New("reservation conflicts with an already reserved hour")

	ErrNegativeRate = errors.New("hourly rate cannot be negative")

	ErrInvalidDuration = errors.New("duration must be at least one hour")
)
