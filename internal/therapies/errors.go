package therapies

import "errors"

var (
	// ErrValidation is returned for missing or out-of-range fields.
	ErrValidation = errors.New("invalid therapy request")

	// ErrNotFound is returned when no therapy matches the given id.
	ErrNotFound = errors.New("therapy not found")
)
