package domain

import "errors"

// Error taxonomy shared by every layer. Package-level errors wrap these
// so callers can classify failures with errors.Is.
var (
	// ErrSlotConflict the requested interval is already held or booked.
	ErrSlotConflict = errors.New("slot conflict")

	// ErrReservationExpired the hold is missing or past its TTL.
	ErrReservationExpired = errors.New("reservation expired")

	// ErrValidation malformed date, time, duration or enum input.
	ErrValidation = errors.New("validation error")

	// ErrPersistence underlying store failure.
	ErrPersistence = errors.New("persistence error")

	// ErrBookingNotFound no booking with the given id.
	ErrBookingNotFound = errors.New("booking not found")
)
