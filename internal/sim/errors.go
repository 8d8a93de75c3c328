package sim

import "errors"

var (
	// ErrInvalidOperation marks a contract violation such as reading the
	// health of a trap or removing the player. It always indicates a defect.
	ErrInvalidOperation = errors.New("sim: invalid operation")

	// ErrUnknownEntity is returned for IDs that were never issued or whose
	// entity has since been removed.
	ErrUnknownEntity = errors.New("sim: unknown entity")
)
