package errors

import "errors"

var (
	ErrNotFound = errors.New("space not found")

	ErrInvalidID = errors.New("invalid space ID format")

	// ErrDuplicate is returned when a space with the same name is already listed.
	ErrDuplicate = errors.New("space already exists")

	// ErrSequenceTaken means another writer already stored a ledger entry with this sequence;
	// the writer's copy of the calendar is behind the stored log.
	ErrSequenceTaken = errors.New("ledger sequence already taken")
)
