package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrStatusChanged means a compare-and-set status update matched the
	// document but not the expected current status.
	ErrStatusChanged = errors.New("reservation status changed concurrently")
)
