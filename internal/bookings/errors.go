package bookings

import "errors"

var (
	// ErrValidation is returned when a submission is missing required fields
	// or carries malformed values. Nothing is persisted.
	ErrValidation = errors.New("invalid booking request")

	// ErrSlotTaken is returned when a non-deleted booking already occupies
	// the (date, time, therapy type) slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")
)
